package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Ftotnem/FIFA-SERVICES/player/service"
	"github.com/Ftotnem/FIFA-SERVICES/player/service/servicetest"
	"github.com/Ftotnem/FIFA-SERVICES/shared/api"
	"github.com/Ftotnem/FIFA-SERVICES/shared/models"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const baseURL = "http://players.test"

type testServer struct {
	router *mux.Router
	repo   *servicetest.MemRepo
	now    time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := servicetest.NewMemRepo()
	ts := &testServer{router: mux.NewRouter(), repo: repo, now: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)}

	handlers := NewPlayerAPIHandlers(
		service.NewPlayerService(repo, logger),
		service.NewReviewService(repo, logger),
		service.NewStatsService(repo,
			service.WithBoost(func() int { return 10 }),
			service.WithClock(func() time.Time { return ts.now }),
			service.WithStatsLogger(logger)),
		baseURL+"/",
		time.Second,
		logger,
	)
	handlers.RegisterRoutes(ts.router)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, APIPrefix+path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func playerForm() url.Values {
	form := url.Values{}
	for _, name := range models.RequiredFields {
		form.Set(name, "80")
	}
	form.Set("short_name", "Pedri")
	form.Set("club_position", "CM")
	return form
}

func createPlayer(t *testing.T, ts *testServer) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/players", playerForm())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[api.URLResponse](t, rec)
	require.True(t, strings.HasPrefix(resp.URL, baseURL+APIPrefix+"/players/"), resp.URL)
	return strings.TrimPrefix(resp.URL, baseURL+APIPrefix+"/players/")
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, kind string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decode[api.JSONErrorResponse](t, rec)
	assert.Equal(t, kind, body.Kind)
	assert.Equal(t, status, body.Code)
	assert.NotEmpty(t, body.Error)
}

func TestPlayerEndpoints(t *testing.T) {
	ts := newTestServer(t)
	id := createPlayer(t, ts)

	rec := ts.do(t, http.MethodGet, "/players/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	player := decode[map[string]interface{}](t, rec)
	assert.Equal(t, id, player["_id"])
	assert.Equal(t, "Pedri", player["short_name"])
	assert.Equal(t, []interface{}{}, player["review"])

	form := playerForm()
	form.Set("overall", "86")
	rec = ts.do(t, http.MethodPut, "/players/"+id, form)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, baseURL+APIPrefix+"/players/"+id, decode[api.URLResponse](t, rec).URL)

	rec = ts.do(t, http.MethodGet, "/players", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]map[string]interface{}](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "86", list[0]["overall"])

	rec = ts.do(t, http.MethodDelete, "/players/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	assertError(t, ts.do(t, http.MethodGet, "/players/"+id, nil), http.StatusNotFound, api.KindNotFound)
	assertError(t, ts.do(t, http.MethodDelete, "/players/"+id, nil), http.StatusNotFound, api.KindNotFound)
	assertError(t, ts.do(t, http.MethodPut, "/players/"+id, playerForm()), http.StatusNotFound, api.KindNotFound)
}

func TestMissingFormDataIs404(t *testing.T) {
	ts := newTestServer(t)
	form := playerForm()
	form.Del("physic")

	assertError(t, ts.do(t, http.MethodPost, "/players", form), http.StatusNotFound, api.KindMissingRequiredField)

	id := createPlayer(t, ts)
	assertError(t, ts.do(t, http.MethodPut, "/players/"+id, form), http.StatusNotFound, api.KindMissingRequiredField)
	assertError(t, ts.do(t, http.MethodPost, "/players/"+id+"/reviews", url.Values{"username": {"a"}}),
		http.StatusNotFound, api.KindMissingRequiredField)
}

func TestInvalidIdentifiers(t *testing.T) {
	ts := newTestServer(t)
	valid := primitive.NewObjectID().Hex()
	review := url.Values{"username": {"a"}, "comment": {"b"}, "rating": {"1"}}

	cases := []struct {
		method string
		path   string
		form   url.Values
	}{
		{http.MethodGet, "/players/not-24-hex-chars", nil},
		{http.MethodPut, "/players/not-24-hex-chars", playerForm()},
		{http.MethodDelete, "/players/not-24-hex-chars", nil},
		{http.MethodPost, "/players/not-24-hex-chars/reviews", review},
		{http.MethodGet, "/players/not-24-hex-chars/reviews", nil},
		{http.MethodGet, "/players/" + valid + "/reviews/not-24-hex-chars", nil},
		{http.MethodPut, "/players/" + valid + "/reviews/not-24-hex-chars", review},
		{http.MethodDelete, "/players/not-24-hex-chars/reviews/" + valid, nil},
		{http.MethodGet, "/players/not-24-hex-chars/chemistry/sniper", nil},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			assertError(t, ts.do(t, tc.method, tc.path, tc.form), http.StatusNotFound, api.KindInvalidIdentifier)
		})
	}
	assert.Zero(t, ts.repo.CallCount())
}

func TestReviewEndpoints(t *testing.T) {
	ts := newTestServer(t)
	pid := createPlayer(t, ts)

	rec := ts.do(t, http.MethodPost, "/players/"+pid+"/reviews",
		url.Values{"username": {"ana"}, "comment": {"silky"}, "rating": {"5"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reviewURL := decode[api.URLResponse](t, rec).URL
	prefix := baseURL + APIPrefix + "/players/" + pid + "/reviews/"
	require.True(t, strings.HasPrefix(reviewURL, prefix), reviewURL)
	rid := strings.TrimPrefix(reviewURL, prefix)

	rec = ts.do(t, http.MethodGet, "/players/"+pid+"/reviews", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	reviews := decode[[]map[string]interface{}](t, rec)
	require.Len(t, reviews, 1)
	assert.Equal(t, rid, reviews[0]["_id"])
	assert.Equal(t, "silky", reviews[0]["comment"])

	rec = ts.do(t, http.MethodPut, "/players/"+pid+"/reviews/"+rid,
		url.Values{"username": {"ana"}, "comment": {"sublime"}, "rating": {"4"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, reviewURL, decode[api.URLResponse](t, rec).URL)

	rec = ts.do(t, http.MethodGet, "/players/"+pid+"/reviews/"+rid, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	one := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "sublime", one["comment"])
	assert.Equal(t, "4", one["rating"])

	rec = ts.do(t, http.MethodDelete, "/players/"+pid+"/reviews/"+rid, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assertError(t, ts.do(t, http.MethodGet, "/players/"+pid+"/reviews/"+rid, nil), http.StatusNotFound, api.KindNotFound)

	// Unknown review: delete stays silent, edit does not.
	unknown := primitive.NewObjectID().Hex()
	assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, "/players/"+pid+"/reviews/"+unknown, nil).Code)
	assertError(t, ts.do(t, http.MethodPut, "/players/"+pid+"/reviews/"+unknown,
		url.Values{"username": {"a"}, "comment": {"b"}, "rating": {"1"}}), http.StatusNotFound, api.KindNotFound)

	assertError(t, ts.do(t, http.MethodGet, "/players/"+unknown+"/reviews", nil), http.StatusNotFound, api.KindNotFound)
}

func TestPaging(t *testing.T) {
	ts := newTestServer(t)
	for i := 0; i < 3; i++ {
		createPlayer(t, ts)
	}

	rec := ts.do(t, http.MethodGet, "/players?pn=2&ps=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]interface{}](t, rec), 1)

	for _, q := range []string{"pn=0", "ps=-1", "pn=abc"} {
		assertError(t, ts.do(t, http.MethodGet, "/players?"+q, nil), http.StatusBadRequest, api.KindBadRequest)
	}
}

func TestFilterEndpoint(t *testing.T) {
	ts := newTestServer(t)
	createPlayer(t, ts)
	_, err := ts.repo.InsertPlayer(context.Background(), &models.Player{ClubPosition: "ST", Reviews: []models.Review{}})
	require.NoError(t, err)

	rec := ts.do(t, http.MethodGet, "/players/filter?field=club_position&value=ST", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]map[string]interface{}](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, "ST", got[0]["club_position"])

	assertError(t, ts.do(t, http.MethodGet, "/players/filter?field=password&value=x", nil), http.StatusBadRequest, api.KindBadRequest)
	assertError(t, ts.do(t, http.MethodGet, "/players/filter?field=overall", nil), http.StatusBadRequest, api.KindBadRequest)
	assertError(t, ts.do(t, http.MethodGet, "/players/filter?field=overall&value=1&limit=0", nil), http.StatusBadRequest, api.KindBadRequest)
}

func TestLoyalEndpointUsesStoreNativeIDs(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	loyal, err := ts.repo.InsertPlayer(ctx, &models.Player{ShortName: "Busquets", Reviews: []models.Review{},
		ClubJoined: models.NewJoinDate(time.Date(2008, time.July, 1, 0, 0, 0, 0, time.UTC))})
	require.NoError(t, err)
	_, err = ts.repo.InsertPlayer(ctx, &models.Player{ShortName: "Gavi", Reviews: []models.Review{},
		ClubJoined: models.NewJoinDate(time.Date(2021, time.July, 1, 0, 0, 0, 0, time.UTC))})
	require.NoError(t, err)

	rec := ts.do(t, http.MethodGet, "/players/loyal", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]map[string]interface{}](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, map[string]interface{}{"$oid": loyal.Hex()}, got[0]["_id"])
	assert.Equal(t, "Busquets", got[0]["short_name"])
}

func TestChemistryEndpoint(t *testing.T) {
	ts := newTestServer(t)
	sniper, err := service.LookupStyle("sniper")
	require.NoError(t, err)
	attrs := bson.M{}
	for _, name := range sniper.Attributes {
		attrs[name] = int32(70)
	}
	attrs["mentality_positioning"] = int32(90)
	id, err := ts.repo.InsertPlayer(context.Background(), &models.Player{ShortName: "Lewandowski", Attributes: attrs})
	require.NoError(t, err)

	rec := ts.do(t, http.MethodGet, "/players/"+id.Hex()+"/chemistry/sniper", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[map[string]interface{}](t, rec)
	assert.Equal(t, float64(99), got["mentality_positioning"])
	assert.Equal(t, float64(80), got["skill_dribbling"])
	assert.Equal(t, id.Hex(), got["_id"])
	assert.Equal(t, "Lewandowski", got["short_name"])
	assert.Len(t, got, len(sniper.Attributes)+2)

	assertError(t, ts.do(t, http.MethodGet, "/players/"+id.Hex()+"/chemistry/wizard", nil),
		http.StatusNotFound, api.KindUnrecognizedStyle)
	assertError(t, ts.do(t, http.MethodGet, "/players/"+primitive.NewObjectID().Hex()+"/chemistry/sniper", nil),
		http.StatusNotFound, api.KindNotFound)

	rec = ts.do(t, http.MethodGet, "/chemistry/styles", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	styles := decode[[]service.ChemistryStyle](t, rec)
	assert.Len(t, styles, 18)
	assert.Equal(t, "sniper", styles[0].Name)
}
