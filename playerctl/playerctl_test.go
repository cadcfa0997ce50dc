package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Ftotnem/FIFA-SERVICES/player/service"
	"github.com/Ftotnem/FIFA-SERVICES/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func ids(n int) []primitive.ObjectID {
	out := make([]primitive.ObjectID, n)
	for i := range out {
		out[i] = primitive.NewObjectID()
	}
	return out
}

func TestRunBatches(t *testing.T) {
	var sizes []int
	total, err := runBatches(context.Background(), ids(250), 100, "test", false,
		func(ctx context.Context, batch []primitive.ObjectID) (int64, error) {
			sizes = append(sizes, len(batch))
			return int64(len(batch)), nil
		})
	require.NoError(t, err)
	assert.Equal(t, int64(250), total)
	assert.Equal(t, []int{100, 100, 50}, sizes)
}

func TestRunBatchesStopsOnError(t *testing.T) {
	calls := 0
	total, err := runBatches(context.Background(), ids(30), 10, "test", false,
		func(ctx context.Context, batch []primitive.ObjectID) (int64, error) {
			calls++
			if calls == 2 {
				return 0, errors.New("write conflict")
			}
			return int64(len(batch)), nil
		})
	require.Error(t, err)
	assert.Equal(t, int64(10), total)
	assert.Equal(t, 2, calls)
}

func TestRunBatchesEmpty(t *testing.T) {
	total, err := runBatches(context.Background(), nil, 0, "test", false,
		func(ctx context.Context, batch []primitive.ObjectID) (int64, error) {
			t.Fatal("apply must not be called")
			return 0, nil
		})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestRenderLoyal(t *testing.T) {
	id := primitive.NewObjectID()
	var buf bytes.Buffer
	renderLoyal(&buf, []service.LoyalPlayer{{
		Player: &models.Player{
			ID:           id,
			ShortName:    "T. Müller",
			ClubPosition: "CAM",
			ClubJoined:   models.NewJoinDate(time.Date(2008, time.July, 1, 0, 0, 0, 0, time.UTC)),
		},
		Years: 16,
	}})
	out := buf.String()
	assert.Contains(t, out, id.Hex())
	assert.Contains(t, out, "T. Müller")
	assert.Contains(t, out, "2008-07-01")
	assert.Contains(t, out, "16")
}

func TestRenderStylesAndChemistry(t *testing.T) {
	var buf bytes.Buffer
	renderStyles(&buf, service.ChemistryStyles())
	assert.Contains(t, buf.String(), "shadow")
	assert.Contains(t, buf.String(), "mentality_positioning")

	buf.Reset()
	renderChemistry(&buf, "sniper", map[string]interface{}{
		"_id":                   "0123456789abcdef01234567",
		"short_name":            "E. Haaland",
		"mentality_positioning": 99,
	})
	assert.Contains(t, buf.String(), "E. Haaland")
	assert.Contains(t, buf.String(), "mentality_positioning")
	assert.Contains(t, buf.String(), "99")
}
