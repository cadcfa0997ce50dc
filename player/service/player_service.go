// player/service/player_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/Ftotnem/FIFA-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	DefaultFilterLimit = 10
	MaxFilterLimit     = 100
)

// PlayerService encapsulates the business logic for player records.
type PlayerService struct {
	repo   PlayerRepository
	logger *slog.Logger
}

// NewPlayerService creates a new PlayerService instance.
func NewPlayerService(repo PlayerRepository, logger *slog.Logger) *PlayerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlayerService{repo: repo, logger: logger}
}

// ListPlayers returns the given 1-based page of players.
func (ps *PlayerService) ListPlayers(ctx context.Context, page, size int) ([]*models.Player, error) {
	if page < 1 || size < 1 {
		return nil, fmt.Errorf("%w: pn=%d ps=%d", ErrInvalidPage, page, size)
	}
	skip := int64(size) * int64(page-1)
	players, err := ps.repo.ListPlayers(ctx, skip, int64(size))
	if err != nil {
		return nil, fmt.Errorf("service failed to list players: %w", err)
	}
	return players, nil
}

// GetPlayer retrieves a player by its 24-hex identifier.
func (ps *PlayerService) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	oid, err := models.ParseID(id)
	if err != nil {
		return nil, err
	}
	player, err := ps.repo.GetPlayer(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("service failed to get player %s: %w", id, err)
	}
	return player, nil
}

// CreatePlayer validates the payload and inserts a new player, returning its identifier.
func (ps *PlayerService) CreatePlayer(ctx context.Context, form url.Values) (primitive.ObjectID, error) {
	fields, err := ValidatePlayerFields(form)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, err := ps.repo.InsertPlayer(ctx, models.NewPlayer(fields))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("service failed to create player: %w", err)
	}
	ps.logger.Info("Player created successfully.", "id", id.Hex(), "short_name", fields["short_name"])
	return id, nil
}

// UpdatePlayer replaces all required attributes of an existing player.
func (ps *PlayerService) UpdatePlayer(ctx context.Context, id string, form url.Values) error {
	fields, err := ValidatePlayerFields(form)
	if err != nil {
		return err
	}
	oid, err := models.ParseID(id)
	if err != nil {
		return err
	}
	if err := ps.repo.UpdatePlayerFields(ctx, oid, fields); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("service failed to update player %s: %w", id, err)
	}
	return nil
}

// DeletePlayer removes a player and its embedded reviews.
func (ps *PlayerService) DeletePlayer(ctx context.Context, id string) error {
	oid, err := models.ParseID(id)
	if err != nil {
		return err
	}
	if err := ps.repo.DeletePlayer(ctx, oid); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("service failed to delete player %s: %w", id, err)
	}
	ps.logger.Info("Player deleted.", "id", id)
	return nil
}

// FilterableFields lists the attributes FilterPlayers accepts, sorted.
func FilterableFields() []string {
	set := make(map[string]struct{})
	for _, f := range models.RequiredFields {
		set[f] = struct{}{}
	}
	for _, style := range chemistryStyles {
		for _, f := range style.Attributes {
			set[f] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// FilterPlayers returns players whose field equals value. Numeric text also
// matches documents that store the attribute as a number. A zero limit means
// DefaultFilterLimit.
func (ps *PlayerService) FilterPlayers(ctx context.Context, field, value string, limit int) ([]*models.Player, error) {
	if !slices.Contains(FilterableFields(), field) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilterField, field)
	}
	switch {
	case limit == 0:
		limit = DefaultFilterLimit
	case limit < 0:
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	case limit > MaxFilterLimit:
		limit = MaxFilterLimit
	}

	values := []interface{}{value}
	if n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
		values = append(values, n)
	}
	players, err := ps.repo.FilterPlayers(ctx, field, values, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("service failed to filter players on %s: %w", field, err)
	}
	return players, nil
}
