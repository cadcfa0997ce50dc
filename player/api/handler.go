// player/api/handler.go
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Ftotnem/FIFA-SERVICES/player/service"
	"github.com/Ftotnem/FIFA-SERVICES/shared/api"
	"github.com/gorilla/mux"
)

// APIPrefix is the path every player endpoint lives under.
const APIPrefix = "/api/v1.0"

const (
	defaultPageNumber = 1
	defaultPageSize   = 10
	maxFormMemory     = 1 << 20

	defaultRequestTimeout = 5 * time.Second
)

// PlayerAPIHandlers holds references to the services that handle business logic.
type PlayerAPIHandlers struct {
	PlayerService  *service.PlayerService
	ReviewService  *service.ReviewService
	StatsService   *service.StatsService
	PublicBaseURL  string
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// NewPlayerAPIHandlers is the constructor for the API handlers.
// publicBaseURL prefixes the resource URLs returned by create and edit endpoints.
func NewPlayerAPIHandlers(
	ps *service.PlayerService,
	rs *service.ReviewService,
	ss *service.StatsService,
	publicBaseURL string,
	requestTimeout time.Duration,
	logger *slog.Logger,
) *PlayerAPIHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	return &PlayerAPIHandlers{
		PlayerService:  ps,
		ReviewService:  rs,
		StatsService:   ss,
		PublicBaseURL:  strings.TrimRight(publicBaseURL, "/"),
		RequestTimeout: requestTimeout,
		Logger:         logger,
	}
}

func (pah *PlayerAPIHandlers) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), pah.RequestTimeout)
}

func (pah *PlayerAPIHandlers) playerURL(id string) string {
	return pah.PublicBaseURL + APIPrefix + "/players/" + id
}

func (pah *PlayerAPIHandlers) reviewURL(pid, rid string) string {
	return pah.playerURL(pid) + "/reviews/" + rid
}

// formValues returns the submitted body fields, form-encoded or multipart.
func formValues(r *http.Request) (url.Values, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, err
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return r.PostForm, nil
}

// positiveQueryInt reads an optional positive integer query parameter.
func positiveQueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return n, nil
}

// writeServiceError maps service-layer errors to HTTP status codes.
// Missing data and unknown identifiers both answer 404.
func (pah *PlayerAPIHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	var missing *service.MissingFieldsError
	switch {
	case errors.As(err, &missing):
		api.WriteError(w, http.StatusNotFound, api.KindMissingRequiredField, "Missing form data")
	case errors.Is(err, service.ErrInvalidIdentifier):
		api.WriteError(w, http.StatusNotFound, api.KindInvalidIdentifier, notFoundMsg)
	case errors.Is(err, service.ErrPlayerNotFound), errors.Is(err, service.ErrReviewNotFound):
		api.WriteNotFound(w, notFoundMsg)
	case errors.Is(err, service.ErrUnrecognizedStyle):
		api.WriteError(w, http.StatusNotFound, api.KindUnrecognizedStyle, err.Error())
	case errors.Is(err, service.ErrAttributeUnusable):
		api.WriteNotFound(w, err.Error())
	case errors.Is(err, service.ErrInvalidPage),
		errors.Is(err, service.ErrUnknownFilterField),
		errors.Is(err, service.ErrInvalidLimit):
		api.WriteBadRequest(w, err.Error())
	default:
		pah.Logger.Error("Request failed", "method", r.Method, "path", r.URL.Path,
			"request_id", api.RequestID(r.Context()), "error", err)
		api.WriteInternalServerError(w, "Internal server error")
	}
}

// --- Player Handlers ---

// ListPlayersHandler returns one page of players.
// GET /players?pn=&ps=
func (pah *PlayerAPIHandlers) ListPlayersHandler(w http.ResponseWriter, r *http.Request) {
	pn, err := positiveQueryInt(r, "pn", defaultPageNumber)
	if err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	}
	ps, err := positiveQueryInt(r, "ps", defaultPageSize)
	if err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	}

	ctx, cancel := pah.requestContext(r)
	defer cancel()

	players, err := pah.PlayerService.ListPlayers(ctx, pn, ps)
	if err != nil {
		pah.writeServiceError(w, r, err, "Invalid player ID")
		return
	}
	api.WriteJSON(w, http.StatusOK, players)
}

// GetPlayerHandler returns one player.
// GET /players/{id}
func (pah *PlayerAPIHandlers) GetPlayerHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ctx, cancel := pah.requestContext(r)
	defer cancel()

	player, err := pah.PlayerService.GetPlayer(ctx, id)
	if err != nil {
		pah.writeServiceError(w, r, err, "Invalid player ID")
		return
	}
	api.WriteJSON(w, http.StatusOK, player)
}

// CreatePlayerHandler adds a player from the required form fields.
// POST /players
func (pah *PlayerAPIHandlers) CreatePlayerHandler(w http.ResponseWriter, r *http.Request) {
	form, err := formValues(r)
	if err != nil {
		api.WriteBadRequest(w, "Invalid form body")
		return
	}

	ctx, cancel := pah.requestContext(r)
	defer cancel()

	id, err := pah.PlayerService.CreatePlayer(ctx, form)
	if err != nil {
		pah.writeServiceError(w, r, err, "Invalid player ID")
		return
	}
	api.WriteJSON(w, http.StatusCreated, api.URLResponse{URL: pah.playerURL(id.Hex())})
}

// UpdatePlayerHandler replaces the required fields of a player.
// PUT /players/{id}
func (pah *PlayerAPIHandlers) UpdatePlayerHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	form, err := formValues(r)
	if err != nil {
		api.WriteBadRequest(w, "Invalid form body")
		return
	}

	ctx, cancel := pah.requestContext(r)
	defer cancel()

	if err := pah.PlayerService.UpdatePlayer(ctx, id, form); err != nil {
		pah.writeServiceError(w, r, err, "Invalid player ID")
		return
	}
	api.WriteJSON(w, http.StatusOK, api.URLResponse{URL: pah.playerURL(id)})
}

// DeletePlayerHandler removes a player.
// DELETE /players/{id}
func (pah *PlayerAPIHandlers) DeletePlayerHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ctx, cancel := pah.requestContext(r)
	defer cancel()

	if err := pah.PlayerService.DeletePlayer(ctx, id); err != nil {
		pah.writeServiceError(w, r, err, "Invalid player ID")
		return
	}
	api.WriteNoContent(w)
}

// FilterPlayersHandler returns players whose attribute equals a value.
// GET /players/filter?field=&value=&limit=
func (pah *PlayerAPIHandlers) FilterPlayersHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	field := q.Get("field")
	if field == "" || !q.Has("value") {
		api.WriteBadRequest(w, "field and value are required")
		return
	}
	limit, err := positiveQueryInt(r, "limit", service.DefaultFilterLimit)
	if err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	}

	ctx, cancel := pah.requestContext(r)
	defer cancel()

	players, err := pah.PlayerService.FilterPlayers(ctx, field, q.Get("value"), limit)
	if err != nil {
		pah.writeServiceError(w, r, err, "Invalid player ID")
		return
	}
	api.WriteJSON(w, http.StatusOK, players)
}

// LoyalPlayersHandler returns players with ten or more years at their club,
// in their stored form.
// GET /players/loyal
func (pah *PlayerAPIHandlers) LoyalPlayersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := pah.requestContext(r)
	defer cancel()

	loyal, err := pah.StatsService.LoyalPlayers(ctx)
	if err != nil {
		pah.writeServiceError(w, r, err, "Invalid player ID")
		return
	}
	api.WriteJSON(w, http.StatusOK, loyal)
}

// --- Review Handlers ---

// AddReviewHandler appends a review to a player.
// POST /players/{id}/reviews
func (pah *PlayerAPIHandlers) AddReviewHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	form, err := formValues(r)
	if err != nil {
		api.WriteBadRequest(w, "Invalid form body")
		return
	}

	ctx, cancel := pah.requestContext(r)
	defer cancel()

	rid, err := pah.ReviewService.AddReview(ctx, id, form)
	if err != nil {
		pah.writeServiceError(w, r, err, "Invalid player ID")
		return
	}
	api.WriteJSON(w, http.StatusCreated, api.URLResponse{URL: pah.reviewURL(id, rid.Hex())})
}

// ListReviewsHandler returns all reviews of a player.
// GET /players/{id}/reviews
func (pah *PlayerAPIHandlers) ListReviewsHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ctx, cancel := pah.requestContext(r)
	defer cancel()

	reviews, err := pah.ReviewService.ListReviews(ctx, id)
	if err != nil {
		pah.writeServiceError(w, r, err, "Invalid player ID or review ID")
		return
	}
	api.WriteJSON(w, http.StatusOK, reviews)
}

// GetReviewHandler returns one review.
// GET /players/{pid}/reviews/{rid}
func (pah *PlayerAPIHandlers) GetReviewHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	ctx, cancel := pah.requestContext(r)
	defer cancel()

	review, err := pah.ReviewService.GetReview(ctx, vars["pid"], vars["rid"])
	if err != nil {
		pah.writeServiceError(w, r, err, "Invalid player ID or review ID")
		return
	}
	api.WriteJSON(w, http.StatusOK, review)
}

// EditReviewHandler replaces the fields of one review.
// PUT /players/{pid}/reviews/{rid}
func (pah *PlayerAPIHandlers) EditReviewHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	form, err := formValues(r)
	if err != nil {
		api.WriteBadRequest(w, "Invalid form body")
		return
	}

	ctx, cancel := pah.requestContext(r)
	defer cancel()

	if err := pah.ReviewService.EditReview(ctx, vars["pid"], vars["rid"], form); err != nil {
		pah.writeServiceError(w, r, err, "Invalid player ID or review ID")
		return
	}
	api.WriteJSON(w, http.StatusOK, api.URLResponse{URL: pah.reviewURL(vars["pid"], vars["rid"])})
}

// DeleteReviewHandler removes one review. An unknown review still answers 204.
// DELETE /players/{pid}/reviews/{rid}
func (pah *PlayerAPIHandlers) DeleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	ctx, cancel := pah.requestContext(r)
	defer cancel()

	if err := pah.ReviewService.DeleteReview(ctx, vars["pid"], vars["rid"]); err != nil {
		pah.writeServiceError(w, r, err, "Invalid player ID or review ID")
		return
	}
	api.WriteNoContent(w)
}

// --- Chemistry Handlers ---

// ChemistryHandler returns the player's attributes boosted for a style.
// GET /players/{id}/chemistry/{style}
func (pah *PlayerAPIHandlers) ChemistryHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	ctx, cancel := pah.requestContext(r)
	defer cancel()

	stats, err := pah.StatsService.Chemistry(ctx, vars["id"], vars["style"])
	if err != nil {
		pah.writeServiceError(w, r, err, "Invalid player ID")
		return
	}
	api.WriteJSON(w, http.StatusOK, stats)
}

// ChemistryStylesHandler lists every style and the attributes it boosts.
// GET /chemistry/styles
func (pah *PlayerAPIHandlers) ChemistryStylesHandler(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, service.ChemistryStyles())
}

// RegisterRoutes registers all API endpoints for the Player Service under APIPrefix.
// Fixed paths are registered before /players/{id} so they are not taken as identifiers.
func (pah *PlayerAPIHandlers) RegisterRoutes(router *mux.Router) {
	v1 := router.PathPrefix(APIPrefix).Subrouter()

	v1.HandleFunc("/players", pah.ListPlayersHandler).Methods("GET")
	v1.HandleFunc("/players", pah.CreatePlayerHandler).Methods("POST")
	v1.HandleFunc("/players/filter", pah.FilterPlayersHandler).Methods("GET")
	v1.HandleFunc("/players/loyal", pah.LoyalPlayersHandler).Methods("GET")
	v1.HandleFunc("/players/{id}", pah.GetPlayerHandler).Methods("GET")
	v1.HandleFunc("/players/{id}", pah.UpdatePlayerHandler).Methods("PUT")
	v1.HandleFunc("/players/{id}", pah.DeletePlayerHandler).Methods("DELETE")

	v1.HandleFunc("/players/{id}/reviews", pah.AddReviewHandler).Methods("POST")
	v1.HandleFunc("/players/{id}/reviews", pah.ListReviewsHandler).Methods("GET")
	v1.HandleFunc("/players/{pid}/reviews/{rid}", pah.GetReviewHandler).Methods("GET")
	v1.HandleFunc("/players/{pid}/reviews/{rid}", pah.EditReviewHandler).Methods("PUT")
	v1.HandleFunc("/players/{pid}/reviews/{rid}", pah.DeleteReviewHandler).Methods("DELETE")

	v1.HandleFunc("/players/{id}/chemistry/{style}", pah.ChemistryHandler).Methods("GET")
	v1.HandleFunc("/chemistry/styles", pah.ChemistryStylesHandler).Methods("GET")
}
