package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusNotFound, KindMissingRequiredField, "Missing form data")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body JSONErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, JSONErrorResponse{Error: "Missing form data", Code: 404, Kind: KindMissingRequiredField}, body)
}

func TestLoggingMiddlewareAssignsRequestID(t *testing.T) {
	var seen string
	h := LoggingMiddleware(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1.0/players", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestLoggingMiddlewareKeepsIncomingRequestID(t *testing.T) {
	h := LoggingMiddleware(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	called := false
	h := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestClientPostFormAndErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/created":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "fut_fan", r.PostForm.Get("username"))
			WriteJSON(w, http.StatusCreated, URLResponse{URL: "http://x/1"})
		case "/missing":
			WriteNotFound(w, "Invalid player ID")
		default:
			WriteInternalServerError(w, "boom")
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", srv.Client())
	ctx := context.Background()

	var created URLResponse
	require.NoError(t, c.PostForm(ctx, "/created", url.Values{"username": {"fut_fan"}}, &created))
	assert.Equal(t, "http://x/1", created.URL)

	err := c.Get(ctx, "/missing", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, IsHTTPError(err, http.StatusNotFound))

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, KindNotFound, httpErr.Kind)
	assert.Equal(t, "Invalid player ID", httpErr.Message)

	err = c.Delete(ctx, "/other")
	assert.True(t, errors.Is(err, ErrInternalError))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatusCode(err))
}
