// shared/service/playerclient.go
package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Ftotnem/FIFA-SERVICES/shared/api"
	"github.com/Ftotnem/FIFA-SERVICES/shared/models"
)

const apiPrefix = "/api/v1.0"

// PlayerServiceClient is a client for the Player Service.
// It uses an internal apiClient to make HTTP requests to the Player Service.
type PlayerServiceClient struct {
	apiClient *api.Client
}

// NewPlayerClient creates a new Player Service client for the given base URL
// (scheme and host, without the /api/v1.0 prefix).
func NewPlayerClient(baseURL string) *PlayerServiceClient {
	return &PlayerServiceClient{
		apiClient: api.NewClient(strings.TrimRight(baseURL, "/")+apiPrefix, api.NewDefaultHTTPClient()),
	}
}

// --- Response DTOs for Player Service Communication ---

// PlayerDocument is a player as the service renders it: a flat JSON object.
type PlayerDocument map[string]interface{}

// ID returns the document's _id as a string. Display documents carry a hex
// string; store-native ones an {"$oid": ...} object.
func (d PlayerDocument) ID() string {
	switch v := d["_id"].(type) {
	case string:
		return v
	case map[string]interface{}:
		if oid, ok := v["$oid"].(string); ok {
			return oid
		}
	}
	return ""
}

// ChemistryStyle mirrors one entry of GET /chemistry/styles.
type ChemistryStyle struct {
	Name       string   `json:"name"`
	Attributes []string `json:"attributes"`
}

// --- Client Methods for Player Service API Endpoints ---

func wrapNotFound(err error, what string) error {
	if errors.Is(err, api.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, err)
	}
	return fmt.Errorf("player service request for %s failed: %w", what, err)
}

func checkID(kind, id string) error {
	if _, err := models.ParseID(id); err != nil {
		return fmt.Errorf("invalid %s ID format: %w", kind, err)
	}
	return nil
}

// ListPlayers fetches one page of players (GET /players).
func (c *PlayerServiceClient) ListPlayers(ctx context.Context, pn, ps int) ([]PlayerDocument, error) {
	q := url.Values{"pn": {strconv.Itoa(pn)}, "ps": {strconv.Itoa(ps)}}
	var players []PlayerDocument
	if err := c.apiClient.Get(ctx, "/players?"+q.Encode(), &players); err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

// GetPlayer fetches one player (GET /players/{id}).
// Returns an error wrapping api.ErrNotFound if the player does not exist.
func (c *PlayerServiceClient) GetPlayer(ctx context.Context, id string) (PlayerDocument, error) {
	if err := checkID("player", id); err != nil {
		return nil, err
	}
	var player PlayerDocument
	if err := c.apiClient.Get(ctx, "/players/"+id, &player); err != nil {
		return nil, wrapNotFound(err, "player "+id)
	}
	return player, nil
}

// CreatePlayer submits a new player and returns its resource URL (POST /players).
func (c *PlayerServiceClient) CreatePlayer(ctx context.Context, fields models.PlayerFields) (string, error) {
	var resp api.URLResponse
	if err := c.apiClient.PostForm(ctx, "/players", fieldsForm(fields), &resp); err != nil {
		return "", fmt.Errorf("failed to create player: %w", err)
	}
	return resp.URL, nil
}

// UpdatePlayer replaces a player's required fields (PUT /players/{id}).
func (c *PlayerServiceClient) UpdatePlayer(ctx context.Context, id string, fields models.PlayerFields) (string, error) {
	if err := checkID("player", id); err != nil {
		return "", err
	}
	var resp api.URLResponse
	if err := c.apiClient.PutForm(ctx, "/players/"+id, fieldsForm(fields), &resp); err != nil {
		return "", wrapNotFound(err, "player "+id)
	}
	return resp.URL, nil
}

// DeletePlayer removes a player (DELETE /players/{id}).
func (c *PlayerServiceClient) DeletePlayer(ctx context.Context, id string) error {
	if err := checkID("player", id); err != nil {
		return err
	}
	if err := c.apiClient.Delete(ctx, "/players/"+id); err != nil {
		return wrapNotFound(err, "player "+id)
	}
	return nil
}

// FilterPlayers fetches players whose field equals value (GET /players/filter).
func (c *PlayerServiceClient) FilterPlayers(ctx context.Context, field, value string, limit int) ([]PlayerDocument, error) {
	q := url.Values{"field": {field}, "value": {value}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var players []PlayerDocument
	if err := c.apiClient.Get(ctx, "/players/filter?"+q.Encode(), &players); err != nil {
		return nil, fmt.Errorf("failed to filter players on %s: %w", field, err)
	}
	return players, nil
}

// LoyalPlayers fetches players with ten or more years at their club (GET /players/loyal).
// Documents come back in store-native form.
func (c *PlayerServiceClient) LoyalPlayers(ctx context.Context) ([]PlayerDocument, error) {
	var players []PlayerDocument
	if err := c.apiClient.Get(ctx, "/players/loyal", &players); err != nil {
		return nil, fmt.Errorf("failed to fetch loyal players: %w", err)
	}
	return players, nil
}

// AddReview posts a review and returns its resource URL (POST /players/{id}/reviews).
func (c *PlayerServiceClient) AddReview(ctx context.Context, playerID, username, comment, rating string) (string, error) {
	if err := checkID("player", playerID); err != nil {
		return "", err
	}
	var resp api.URLResponse
	if err := c.apiClient.PostForm(ctx, "/players/"+playerID+"/reviews", reviewForm(username, comment, rating), &resp); err != nil {
		return "", wrapNotFound(err, "player "+playerID)
	}
	return resp.URL, nil
}

// ListReviews fetches every review of a player (GET /players/{id}/reviews).
func (c *PlayerServiceClient) ListReviews(ctx context.Context, playerID string) ([]models.Review, error) {
	if err := checkID("player", playerID); err != nil {
		return nil, err
	}
	var reviews []models.Review
	if err := c.apiClient.Get(ctx, "/players/"+playerID+"/reviews", &reviews); err != nil {
		return nil, wrapNotFound(err, "player "+playerID)
	}
	return reviews, nil
}

// GetReview fetches one review (GET /players/{pid}/reviews/{rid}).
func (c *PlayerServiceClient) GetReview(ctx context.Context, playerID, reviewID string) (*models.Review, error) {
	if err := checkID("player", playerID); err != nil {
		return nil, err
	}
	if err := checkID("review", reviewID); err != nil {
		return nil, err
	}
	review := &models.Review{}
	if err := c.apiClient.Get(ctx, "/players/"+playerID+"/reviews/"+reviewID, review); err != nil {
		return nil, wrapNotFound(err, "review "+reviewID)
	}
	return review, nil
}

// EditReview replaces a review's fields (PUT /players/{pid}/reviews/{rid}).
func (c *PlayerServiceClient) EditReview(ctx context.Context, playerID, reviewID, username, comment, rating string) (string, error) {
	if err := checkID("player", playerID); err != nil {
		return "", err
	}
	if err := checkID("review", reviewID); err != nil {
		return "", err
	}
	var resp api.URLResponse
	path := "/players/" + playerID + "/reviews/" + reviewID
	if err := c.apiClient.PutForm(ctx, path, reviewForm(username, comment, rating), &resp); err != nil {
		return "", wrapNotFound(err, "review "+reviewID)
	}
	return resp.URL, nil
}

// DeleteReview removes a review (DELETE /players/{pid}/reviews/{rid}).
func (c *PlayerServiceClient) DeleteReview(ctx context.Context, playerID, reviewID string) error {
	if err := checkID("player", playerID); err != nil {
		return err
	}
	if err := checkID("review", reviewID); err != nil {
		return err
	}
	if err := c.apiClient.Delete(ctx, "/players/"+playerID+"/reviews/"+reviewID); err != nil {
		return fmt.Errorf("failed to delete review %s: %w", reviewID, err)
	}
	return nil
}

// Chemistry fetches the player's attributes boosted for style
// (GET /players/{id}/chemistry/{style}).
func (c *PlayerServiceClient) Chemistry(ctx context.Context, playerID, style string) (map[string]interface{}, error) {
	if err := checkID("player", playerID); err != nil {
		return nil, err
	}
	var stats map[string]interface{}
	path := "/players/" + playerID + "/chemistry/" + url.PathEscape(style)
	if err := c.apiClient.Get(ctx, path, &stats); err != nil {
		return nil, wrapNotFound(err, "chemistry "+style+" for player "+playerID)
	}
	return stats, nil
}

// ChemistryStyles fetches the style table (GET /chemistry/styles).
func (c *PlayerServiceClient) ChemistryStyles(ctx context.Context) ([]ChemistryStyle, error) {
	var styles []ChemistryStyle
	if err := c.apiClient.Get(ctx, "/chemistry/styles", &styles); err != nil {
		return nil, fmt.Errorf("failed to fetch chemistry styles: %w", err)
	}
	return styles, nil
}

func fieldsForm(fields models.PlayerFields) url.Values {
	form := url.Values{}
	for name, v := range fields {
		form.Set(name, v)
	}
	return form
}

func reviewForm(username, comment, rating string) url.Values {
	return url.Values{"username": {username}, "comment": {comment}, "rating": {rating}}
}
