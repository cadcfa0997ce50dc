package service_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	playerapi "github.com/Ftotnem/FIFA-SERVICES/player/api"
	playersvc "github.com/Ftotnem/FIFA-SERVICES/player/service"
	"github.com/Ftotnem/FIFA-SERVICES/player/service/servicetest"
	"github.com/Ftotnem/FIFA-SERVICES/shared/api"
	"github.com/Ftotnem/FIFA-SERVICES/shared/models"
	"github.com/Ftotnem/FIFA-SERVICES/shared/service"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newClient(t *testing.T) *service.PlayerServiceClient {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := servicetest.NewMemRepo()
	router := mux.NewRouter()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	playerapi.NewPlayerAPIHandlers(
		playersvc.NewPlayerService(repo, logger),
		playersvc.NewReviewService(repo, logger),
		playersvc.NewStatsService(repo, playersvc.WithBoost(func() int { return 3 }), playersvc.WithStatsLogger(logger)),
		srv.URL,
		time.Second,
		logger,
	).RegisterRoutes(router)

	return service.NewPlayerClient(srv.URL)
}

func fields() models.PlayerFields {
	f := models.PlayerFields{}
	for _, name := range models.RequiredFields {
		f[name] = "75"
	}
	f["short_name"] = "Yamal"
	return f
}

func lastSegment(u string) string {
	return u[strings.LastIndex(u, "/")+1:]
}

func TestPlayerClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)

	u, err := c.CreatePlayer(ctx, fields())
	require.NoError(t, err)
	id := lastSegment(u)

	player, err := c.GetPlayer(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, player.ID())
	assert.Equal(t, "Yamal", player["short_name"])

	updated := fields()
	updated["overall"] = "81"
	_, err = c.UpdatePlayer(ctx, id, updated)
	require.NoError(t, err)

	players, err := c.ListPlayers(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "81", players[0]["overall"])

	filtered, err := c.FilterPlayers(ctx, "overall", "81", 0)
	require.NoError(t, err)
	assert.Len(t, filtered, 1)

	ru, err := c.AddReview(ctx, id, "ana", "wonderkid", "5")
	require.NoError(t, err)
	rid := lastSegment(ru)

	reviews, err := c.ListReviews(ctx, id)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, rid, reviews[0].ID.Hex())

	_, err = c.EditReview(ctx, id, rid, "ana", "generational", "5")
	require.NoError(t, err)
	review, err := c.GetReview(ctx, id, rid)
	require.NoError(t, err)
	assert.Equal(t, models.Value("generational"), review.Comment)

	require.NoError(t, c.DeleteReview(ctx, id, rid))
	require.NoError(t, c.DeleteReview(ctx, id, rid))

	loyal, err := c.LoyalPlayers(ctx)
	require.NoError(t, err)
	assert.Empty(t, loyal)

	require.NoError(t, c.DeletePlayer(ctx, id))
	_, err = c.GetPlayer(ctx, id)
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestPlayerClientChemistry(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)

	styles, err := c.ChemistryStyles(ctx)
	require.NoError(t, err)
	require.Len(t, styles, 18)

	u, err := c.CreatePlayer(ctx, fields())
	require.NoError(t, err)

	// Only the required attributes exist, so no style can be computed.
	_, err = c.Chemistry(ctx, lastSegment(u), "sniper")
	require.ErrorIs(t, err, api.ErrNotFound)

	_, err = c.Chemistry(ctx, lastSegment(u), "wizard")
	assert.True(t, api.IsHTTPError(err, 404))
	var httpErr *api.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, api.KindUnrecognizedStyle, httpErr.Kind)
}

func TestPlayerClientRejectsBadIDs(t *testing.T) {
	c := service.NewPlayerClient("http://127.0.0.1:1")
	_, err := c.GetPlayer(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrInvalidID)
	err = c.DeleteReview(context.Background(), primitive.NewObjectID().Hex(), "nope")
	assert.ErrorIs(t, err, models.ErrInvalidID)
}
