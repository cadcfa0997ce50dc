// playerctl/report.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Ftotnem/FIFA-SERVICES/player/service"
	playerclient "github.com/Ftotnem/FIFA-SERVICES/shared/service"
	"github.com/jedib0t/go-pretty/v6/table"
)

type loyalCmd struct{}

func (c *loyalCmd) Run(g *globalCmd) error {
	ps, closeFn, err := g.openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	loyal, err := service.NewStatsService(ps).LoyalPlayers(context.Background())
	if err != nil {
		return err
	}
	renderLoyal(os.Stdout, loyal)
	return nil
}

func renderLoyal(w io.Writer, loyal []service.LoyalPlayer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Name", "Position", "Joined", "Years"})
	for _, lp := range loyal {
		t.AppendRow(table.Row{
			lp.Player.ID.Hex(),
			string(lp.Player.ShortName),
			string(lp.Player.ClubPosition),
			lp.Player.ClubJoined.Format("2006-01-02"),
			lp.Years,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "Total", len(loyal)})
	t.SetStyle(table.StyleLight)
	t.Render()
}

type stylesCmd struct{}

func (c *stylesCmd) Run(g *globalCmd) error {
	renderStyles(os.Stdout, service.ChemistryStyles())
	return nil
}

func renderStyles(w io.Writer, styles []service.ChemistryStyle) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Style", "Boosted attributes"})
	for _, s := range styles {
		t.AppendRow(table.Row{s.Name, strings.Join(s.Attributes, ", ")})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

type chemistryCmd struct {
	PlayerID string `arg:"" help:"24-character player identifier."`
	Style    string `arg:"" help:"Chemistry style name."`
	Server   string `help:"Player service base URL." env:"PLAYER_SERVICE_URL" default:"http://localhost:5000"`
}

func (c *chemistryCmd) Run(g *globalCmd) error {
	client := playerclient.NewPlayerClient(c.Server)
	stats, err := client.Chemistry(context.Background(), c.PlayerID, c.Style)
	if err != nil {
		return err
	}
	renderChemistry(os.Stdout, c.Style, stats)
	return nil
}

func renderChemistry(w io.Writer, style string, stats map[string]interface{}) {
	names := make([]string, 0, len(stats))
	for k := range stats {
		if k == "_id" || k == "short_name" {
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("%v (%v) as %s", stats["short_name"], stats["_id"], style))
	t.AppendHeader(table.Row{"Attribute", "Boosted"})
	for _, name := range names {
		t.AppendRow(table.Row{name, stats[name]})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
