// player/store/player_store.go
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Ftotnem/FIFA-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PlayerStore represents the MongoDB data store for player records.
// Absent documents are reported as errors wrapping mongo.ErrNoDocuments.
type PlayerStore struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewPlayerStore creates a new PlayerStore instance.
// The collection comes from the shared/mongodb package.
func NewPlayerStore(collection *mongo.Collection, logger *slog.Logger) *PlayerStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlayerStore{
		collection: collection,
		logger:     logger,
	}
}

// ListPlayers returns one page of players in natural order.
func (ps *PlayerStore) ListPlayers(ctx context.Context, skip, limit int64) ([]*models.Player, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit)
	cursor, err := ps.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	players := []*models.Player{}
	if err := cursor.All(ctx, &players); err != nil {
		return nil, fmt.Errorf("failed to decode players: %w", err)
	}
	return players, nil
}

// GetPlayer retrieves a player by identifier.
func (ps *PlayerStore) GetPlayer(ctx context.Context, id primitive.ObjectID) (*models.Player, error) {
	var player models.Player
	err := ps.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&player)
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", id.Hex(), err)
	}
	return &player, nil
}

// InsertPlayer inserts a new player document and returns the identifier it was stored under.
func (ps *PlayerStore) InsertPlayer(ctx context.Context, player *models.Player) (primitive.ObjectID, error) {
	res, err := ps.collection.InsertOne(ctx, player)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert player: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id, nil
}

// UpdatePlayerFields sets the given required attributes on one player.
func (ps *PlayerStore) UpdatePlayerFields(ctx context.Context, id primitive.ObjectID, fields models.PlayerFields) error {
	set := bson.M{}
	for name, v := range fields {
		set[name] = v
	}
	res, err := ps.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update player %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("player %s not found for update: %w", id.Hex(), mongo.ErrNoDocuments)
	}
	return nil
}

// DeletePlayer removes one player document.
func (ps *PlayerStore) DeletePlayer(ctx context.Context, id primitive.ObjectID) error {
	res, err := ps.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete player %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("player %s not found for delete: %w", id.Hex(), mongo.ErrNoDocuments)
	}
	return nil
}

type reviewsProjection struct {
	Reviews []models.Review `bson:"review"`
}

// GetReviews returns the review sequence of one player.
func (ps *PlayerStore) GetReviews(ctx context.Context, playerID primitive.ObjectID) ([]models.Review, error) {
	var doc reviewsProjection
	opts := options.FindOne().SetProjection(bson.M{"review": 1, "_id": 0})
	if err := ps.collection.FindOne(ctx, bson.M{"_id": playerID}, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to get reviews of player %s: %w", playerID.Hex(), err)
	}
	return doc.Reviews, nil
}

// PushReview appends a review to the player's sequence.
func (ps *PlayerStore) PushReview(ctx context.Context, playerID primitive.ObjectID, review models.Review) error {
	res, err := ps.collection.UpdateOne(ctx, bson.M{"_id": playerID}, bson.M{"$push": bson.M{"review": review}})
	if err != nil {
		return fmt.Errorf("failed to push review to player %s: %w", playerID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("player %s not found for review: %w", playerID.Hex(), mongo.ErrNoDocuments)
	}
	return nil
}

// FindReview returns the review with the given identifier from the first player holding it.
func (ps *PlayerStore) FindReview(ctx context.Context, reviewID primitive.ObjectID) (*models.Review, error) {
	var doc reviewsProjection
	opts := options.FindOne().SetProjection(bson.M{"_id": 0, "review.$": 1})
	if err := ps.collection.FindOne(ctx, bson.M{"review._id": reviewID}, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to find review %s: %w", reviewID.Hex(), err)
	}
	if len(doc.Reviews) == 0 {
		return nil, fmt.Errorf("review %s not in projection: %w", reviewID.Hex(), mongo.ErrNoDocuments)
	}
	return &doc.Reviews[0], nil
}

// UpdateReview rewrites the matched review in place through the positional operator.
func (ps *PlayerStore) UpdateReview(ctx context.Context, reviewID primitive.ObjectID, username, comment, rating string) error {
	update := bson.M{"$set": bson.M{
		"review.$.username": username,
		"review.$.comment":  comment,
		"review.$.rating":   rating,
	}}
	res, err := ps.collection.UpdateOne(ctx, bson.M{"review._id": reviewID}, update)
	if err != nil {
		return fmt.Errorf("failed to update review %s: %w", reviewID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("review %s not found for update: %w", reviewID.Hex(), mongo.ErrNoDocuments)
	}
	return nil
}

// PullReview removes the review from the player's sequence if present.
func (ps *PlayerStore) PullReview(ctx context.Context, playerID, reviewID primitive.ObjectID) error {
	update := bson.M{"$pull": bson.M{"review": bson.M{"_id": reviewID}}}
	if _, err := ps.collection.UpdateOne(ctx, bson.M{"_id": playerID}, update); err != nil {
		return fmt.Errorf("failed to pull review %s from player %s: %w", reviewID.Hex(), playerID.Hex(), err)
	}
	return nil
}

// ScanPlayers calls fn with every stored document. Each raw document is a
// copy and stays valid after fn returns.
func (ps *PlayerStore) ScanPlayers(ctx context.Context, fn func(raw bson.Raw) error) error {
	cursor, err := ps.collection.Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to scan players: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		raw := make(bson.Raw, len(cursor.Current))
		copy(raw, cursor.Current)
		if err := fn(raw); err != nil {
			return err
		}
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("error during player scan: %w", err)
	}
	return nil
}

// FilterPlayers runs a $match/$limit aggregation on one attribute.
func (ps *PlayerStore) FilterPlayers(ctx context.Context, field string, values []interface{}, limit int64) ([]*models.Player, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: field, Value: bson.D{{Key: "$in", Value: values}}}}}},
		bson.D{{Key: "$limit", Value: limit}},
	}

	cursor, err := ps.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error running filter aggregation on %s: %w", field, err)
	}
	defer cursor.Close(ctx)

	players := []*models.Player{}
	for cursor.Next(ctx) {
		var player models.Player
		if err := cursor.Decode(&player); err != nil {
			ps.logger.Warn("PlayerStore: error decoding filter result", "error", err)
			continue
		}
		players = append(players, &player)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error during filter cursor iteration: %w", err)
	}
	return players, nil
}
