// player/service/repository.go
package service

import (
	"context"

	"github.com/Ftotnem/FIFA-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlayerRepository is the storage port the services are written against.
// Lookups and single-document mutations that match nothing return an error
// wrapping mongo.ErrNoDocuments.
type PlayerRepository interface {
	ListPlayers(ctx context.Context, skip, limit int64) ([]*models.Player, error)
	GetPlayer(ctx context.Context, id primitive.ObjectID) (*models.Player, error)
	InsertPlayer(ctx context.Context, player *models.Player) (primitive.ObjectID, error)
	UpdatePlayerFields(ctx context.Context, id primitive.ObjectID, fields models.PlayerFields) error
	DeletePlayer(ctx context.Context, id primitive.ObjectID) error

	GetReviews(ctx context.Context, playerID primitive.ObjectID) ([]models.Review, error)
	PushReview(ctx context.Context, playerID primitive.ObjectID, review models.Review) error
	// FindReview and UpdateReview match the first player holding the review id.
	FindReview(ctx context.Context, reviewID primitive.ObjectID) (*models.Review, error)
	UpdateReview(ctx context.Context, reviewID primitive.ObjectID, username, comment, rating string) error
	// PullReview succeeds whether or not anything was removed.
	PullReview(ctx context.Context, playerID, reviewID primitive.ObjectID) error

	// ScanPlayers hands every stored document to fn in store-native form.
	ScanPlayers(ctx context.Context, fn func(raw bson.Raw) error) error
	// FilterPlayers returns up to limit players whose field equals any of values.
	FilterPlayers(ctx context.Context, field string, values []interface{}, limit int64) ([]*models.Player, error)
}
