// playerctl/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Ftotnem/FIFA-SERVICES/player/store"
	"github.com/Ftotnem/FIFA-SERVICES/shared/config"
	mongodbu "github.com/Ftotnem/FIFA-SERVICES/shared/mongodb"
	"github.com/alecthomas/kong"
)

type globalCmd struct {
	MongoURI   string `help:"MongoDB connection string. Overrides MONGODB_CONN_STR."`
	Database   string `help:"Database name. Overrides MONGODB_DATABASE."`
	Collection string `help:"Players collection. Overrides MONGODB_PLAYERS_COLLECTION."`
	NoProgress bool   `help:"Do not draw progress bars."`
}

// openStore loads the tool configuration, applies flag overrides and connects.
// The returned close function disconnects the client.
func (g *globalCmd) openStore() (*store.PlayerStore, func(), error) {
	cfg, err := config.LoadToolConfig()
	if err != nil {
		return nil, nil, err
	}
	if g.MongoURI != "" {
		cfg.MongoDBConnStr = g.MongoURI
	}
	if g.Database != "" {
		cfg.MongoDBDatabase = g.Database
	}
	if g.Collection != "" {
		cfg.MongoDBPlayersCollection = g.Collection
	}

	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	client, err := mongodbu.NewClient(cfg.MongoDBConnStr, cfg.MongoDBDatabase, cfg.MongoDBConnectTimeout, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("playerctl: %w", err)
	}
	closeFn := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Warn("Failed to disconnect from MongoDB", "error", err)
		}
	}
	return store.NewPlayerStore(client.Collection(cfg.MongoDBPlayersCollection), logger), closeFn, nil
}

var CLI struct {
	globalCmd

	Migrate struct {
		ClubJoined clubJoinedCmd `cmd:"" help:"Record a club join date on players that lack one."`
		Reviews    reviewsCmd    `cmd:"" help:"Give every player a review list."`
		Normalize  normalizeCmd  `cmd:"" help:"Convert legacy single-element club_joined arrays to plain dates."`
	} `cmd:"" help:"Bring stored player documents into their current shape."`

	Loyal     loyalCmd     `cmd:"" help:"List players with ten or more years at their club."`
	Styles    stylesCmd    `cmd:"" help:"Print the chemistry style table."`
	Chemistry chemistryCmd `cmd:"" help:"Ask a running player service for a player's boosted attributes."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("playerctl"),
		kong.Description("Operator tool for the FIFA player records service."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&CLI.globalCmd)
	ctx.FatalIfErrorf(err)
}
