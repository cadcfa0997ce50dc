// player/maintenance/migrator.go
package maintenance

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Ftotnem/FIFA-SERVICES/player/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the part of store.PlayerStore the migrator needs.
type Store interface {
	PendingIDs(ctx context.Context, m store.Migration) ([]primitive.ObjectID, error)
	ApplyMigration(ctx context.Context, m store.Migration, ids []primitive.ObjectID, now time.Time) (int64, error)
}

// Ownership decides which players this instance migrates.
// *cluster.ServiceAssignmentManager satisfies it.
type Ownership interface {
	IsResponsible(entityID string) (bool, error)
}

// Migrator periodically brings player documents into their current shape:
// legacy join-date arrays are unwrapped, missing review sequences are added
// and missing join dates are stamped with the current time.
type Migrator struct {
	store     Store
	ownership Ownership
	interval  time.Duration
	timeout   time.Duration
	now       func() time.Time
	logger    *slog.Logger

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewMigrator creates a Migrator. A nil ownership migrates every player.
func NewMigrator(st Store, ownership Ownership, interval time.Duration, logger *slog.Logger) *Migrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Migrator{
		store:     st,
		ownership: ownership,
		interval:  interval,
		timeout:   30 * time.Second,
		now:       time.Now,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
}

// Start launches the background loop. It runs one pass immediately, then one per interval.
func (m *Migrator) Start() {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		m.logger.Info("Migrator: background job started", "interval", m.interval)
		m.runIteration()

		for {
			select {
			case <-ticker.C:
				m.runIteration()
			case <-m.stopChan:
				m.logger.Info("Migrator: background job stopping.")
				return
			}
		}
	}()
}

// Stop signals the loop to exit and waits for the current pass to finish.
func (m *Migrator) Stop() {
	close(m.stopChan)
	m.wg.Wait()
	m.logger.Info("Migrator: background job stopped successfully.")
}

func (m *Migrator) runIteration() {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	if _, err := m.RunOnce(ctx); err != nil {
		m.logger.Error("Migrator: iteration failed", "error", err)
	}
}

// RunOnce applies every migration to the owned players that need it and
// returns the number of modified documents per migration.
func (m *Migrator) RunOnce(ctx context.Context) (map[store.Migration]int64, error) {
	changed := make(map[store.Migration]int64, len(store.Migrations))
	for _, mig := range store.Migrations {
		ids, err := m.store.PendingIDs(ctx, mig)
		if err != nil {
			return changed, err
		}
		owned := m.owned(ids)
		if len(owned) == 0 {
			continue
		}
		n, err := m.store.ApplyMigration(ctx, mig, owned, m.now())
		if err != nil {
			return changed, err
		}
		changed[mig] = n
		m.logger.Info("Migrator: migration applied", "migration", mig, "pending", len(ids), "owned", len(owned), "modified", n)
	}
	return changed, nil
}

func (m *Migrator) owned(ids []primitive.ObjectID) []primitive.ObjectID {
	if m.ownership == nil {
		return ids
	}
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		ok, err := m.ownership.IsResponsible(id.Hex())
		if err != nil {
			m.logger.Warn("Migrator: could not resolve owner, skipping player", "id", id.Hex(), "error", err)
			continue
		}
		if ok {
			out = append(out, id)
		}
	}
	return out
}
