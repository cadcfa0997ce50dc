// playerctl/migrate.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Ftotnem/FIFA-SERVICES/player/store"
	progressbar "github.com/schollz/progressbar/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultBatchSize = 100

type applyFunc func(ctx context.Context, batch []primitive.ObjectID) (int64, error)

// runBatches feeds ids to apply in batches of size, advancing a progress bar
// per batch. It returns the total number of modified documents.
func runBatches(ctx context.Context, ids []primitive.ObjectID, size int, desc string, showProgress bool, apply applyFunc) (int64, error) {
	if size < 1 {
		size = defaultBatchSize
	}
	bar := progressbar.NewOptions(len(ids),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetVisibility(showProgress),
		progressbar.OptionShowCount(),
	)

	var total int64
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		n, err := apply(ctx, ids[start:end])
		if err != nil {
			return total, err
		}
		total += n
		_ = bar.Add(end - start)
	}
	_ = bar.Finish()
	return total, nil
}

func migrate(g *globalCmd, m store.Migration, batchSize int, desc string) error {
	ps, closeFn, err := g.openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	ctx := context.Background()
	ids, err := ps.PendingIDs(ctx, m)
	if err != nil {
		return err
	}
	now := time.Now()
	n, err := runBatches(ctx, ids, batchSize, desc, !g.NoProgress, func(ctx context.Context, batch []primitive.ObjectID) (int64, error) {
		return ps.ApplyMigration(ctx, m, batch, now)
	})
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d pending, %d modified\n", m, len(ids), n)
	return nil
}

type clubJoinedCmd struct {
	Overwrite bool `help:"Stamp every player, replacing existing join dates."`
	BatchSize int  `help:"Players per update." default:"100"`
}

func (c *clubJoinedCmd) Run(g *globalCmd) error {
	if !c.Overwrite {
		return migrate(g, store.MigrateStampClubJoined, c.BatchSize, "club_joined")
	}

	ps, closeFn, err := g.openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	ctx := context.Background()
	ids, err := ps.AllPlayerIDs(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	n, err := runBatches(ctx, ids, c.BatchSize, "club_joined", !g.NoProgress, func(ctx context.Context, batch []primitive.ObjectID) (int64, error) {
		return ps.OverwriteClubJoined(ctx, batch, now)
	})
	if err != nil {
		return err
	}
	fmt.Printf("club_joined overwritten on %d of %d players\n", n, len(ids))
	return nil
}

type reviewsCmd struct {
	BatchSize int `help:"Players per update." default:"100"`
}

func (c *reviewsCmd) Run(g *globalCmd) error {
	return migrate(g, store.MigrateEnsureReviews, c.BatchSize, "review")
}

type normalizeCmd struct {
	BatchSize int `help:"Players per update." default:"100"`
}

func (c *normalizeCmd) Run(g *globalCmd) error {
	return migrate(g, store.MigrateNormalizeClubJoined, c.BatchSize, "normalize")
}
