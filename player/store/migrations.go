// player/store/migrations.go
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Migration names one idempotent document fix-up.
type Migration string

const (
	// MigrateNormalizeClubJoined unwraps legacy single-element club_joined arrays.
	MigrateNormalizeClubJoined Migration = "normalize-club-joined"
	// MigrateEnsureReviews adds an empty review sequence where none exists.
	MigrateEnsureReviews Migration = "ensure-reviews"
	// MigrateStampClubJoined records a join date on players that lack one.
	MigrateStampClubJoined Migration = "stamp-club-joined"
)

// Migrations lists every migration in the order they should run.
var Migrations = []Migration{MigrateNormalizeClubJoined, MigrateEnsureReviews, MigrateStampClubJoined}

func (m Migration) pendingFilter() (bson.M, error) {
	switch m {
	case MigrateNormalizeClubJoined:
		return bson.M{"club_joined": bson.M{"$type": "array"}}, nil
	case MigrateEnsureReviews:
		return bson.M{"review": bson.M{"$exists": false}}, nil
	case MigrateStampClubJoined:
		return bson.M{"club_joined": bson.M{"$exists": false}}, nil
	}
	return nil, fmt.Errorf("unknown migration %q", m)
}

func (m Migration) update(now time.Time) (interface{}, error) {
	switch m {
	case MigrateNormalizeClubJoined:
		return mongo.Pipeline{
			bson.D{{Key: "$set", Value: bson.D{
				{Key: "club_joined", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$club_joined", 0}}}},
			}}},
		}, nil
	case MigrateEnsureReviews:
		return bson.M{"$set": bson.M{"review": bson.A{}}}, nil
	case MigrateStampClubJoined:
		return bson.M{"$set": bson.M{"club_joined": now.UTC()}}, nil
	}
	return nil, fmt.Errorf("unknown migration %q", m)
}

// PendingIDs lists the players the migration would change.
func (ps *PlayerStore) PendingIDs(ctx context.Context, m Migration) ([]primitive.ObjectID, error) {
	filter, err := m.pendingFilter()
	if err != nil {
		return nil, err
	}
	return ps.findIDs(ctx, filter)
}

// AllPlayerIDs lists every player identifier.
func (ps *PlayerStore) AllPlayerIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return ps.findIDs(ctx, bson.M{})
}

func (ps *PlayerStore) findIDs(ctx context.Context, filter bson.M) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := ps.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list player ids: %w", err)
	}
	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode player ids: %w", err)
	}
	ids := make([]primitive.ObjectID, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

// ApplyMigration runs m on the given players, skipping any that no longer
// need it, and returns how many documents changed.
func (ps *PlayerStore) ApplyMigration(ctx context.Context, m Migration, ids []primitive.ObjectID, now time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	filter, err := m.pendingFilter()
	if err != nil {
		return 0, err
	}
	update, err := m.update(now)
	if err != nil {
		return 0, err
	}
	filter["_id"] = bson.M{"$in": ids}

	res, err := ps.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to apply migration %s: %w", m, err)
	}
	return res.ModifiedCount, nil
}

// OverwriteClubJoined stamps the join date on the given players whether or
// not they already have one.
func (ps *PlayerStore) OverwriteClubJoined(ctx context.Context, ids []primitive.ObjectID, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := ps.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"club_joined": at.UTC()}})
	if err != nil {
		return 0, fmt.Errorf("failed to overwrite club_joined: %w", err)
	}
	return res.ModifiedCount, nil
}
