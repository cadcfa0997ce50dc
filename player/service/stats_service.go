// player/service/stats_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/Ftotnem/FIFA-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// StatsService computes the derived statistics: chemistry boosts and loyalty.
type StatsService struct {
	repo   PlayerRepository
	logger *slog.Logger
	now    func() time.Time
	boost  func() int
}

// StatsOption configures a StatsService.
type StatsOption func(*StatsService)

// WithClock overrides the time source used by the Loyalty Filter.
func WithClock(now func() time.Time) StatsOption {
	return func(s *StatsService) { s.now = now }
}

// WithBoost overrides the per-request chemistry boost source.
func WithBoost(boost func() int) StatsOption {
	return func(s *StatsService) { s.boost = boost }
}

// WithStatsLogger sets the logger.
func WithStatsLogger(logger *slog.Logger) StatsOption {
	return func(s *StatsService) { s.logger = logger }
}

// NewStatsService creates a new StatsService instance.
func NewStatsService(repo PlayerRepository, opts ...StatsOption) *StatsService {
	s := &StatsService{
		repo:   repo,
		logger: slog.Default(),
		now:    time.Now,
		boost:  func() int { return rand.Intn(10) + 1 },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Chemistry boosts the player's attributes for the named style. One boost in
// [1, 10] is drawn per call and applied to every attribute. The result is a
// flat map of attribute to boosted value plus the player's _id and short_name.
func (s *StatsService) Chemistry(ctx context.Context, playerID, styleName string) (map[string]interface{}, error) {
	oid, err := models.ParseID(playerID)
	if err != nil {
		return nil, err
	}
	style, err := LookupStyle(styleName)
	if err != nil {
		return nil, err
	}
	player, err := s.repo.GetPlayer(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("service failed to get player %s: %w", playerID, err)
	}

	boost := s.boost()
	stats, err := ApplyChemistry(player, style, boost)
	if err != nil {
		return nil, err
	}

	out := make(map[string]interface{}, len(stats)+2)
	for name, v := range stats {
		out[name] = v
	}
	out["_id"] = player.ID.Hex()
	out["short_name"] = string(player.ShortName)
	s.logger.Debug("Chemistry applied.", "player_id", playerID, "style", style.Name, "boost", boost)
	return out, nil
}

// LoyalPlayers scans every player and returns those with at least
// LoyaltyYears of tenure. Players without a join date are skipped.
func (s *StatsService) LoyalPlayers(ctx context.Context) ([]LoyalPlayer, error) {
	now := s.now()
	loyal := []LoyalPlayer{}
	err := s.repo.ScanPlayers(ctx, func(raw bson.Raw) error {
		var player models.Player
		if err := bson.Unmarshal(raw, &player); err != nil {
			s.logger.Warn("LoyalPlayers: skipping undecodable player document", "error", err)
			return nil
		}
		if player.ClubJoined == nil || player.ClubJoined.IsZero() {
			return nil
		}
		years := YearsBetween(player.ClubJoined.Time, now)
		if years >= LoyaltyYears {
			loyal = append(loyal, LoyalPlayer{Raw: raw, Player: &player, Years: years})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service failed to scan players for loyalty: %w", err)
	}
	return loyal, nil
}
