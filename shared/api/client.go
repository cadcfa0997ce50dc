// shared/api/client.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPError is a custom error type for HTTP responses with non-OK status codes.
type HTTPError struct {
	StatusCode int
	Message    string
	Kind       string
	URL        string
	Method     string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP error %d %s from %s %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Method, e.URL, e.Message)
	}
	return fmt.Sprintf("HTTP error %d %s from %s %s", e.StatusCode, http.StatusText(e.StatusCode), e.Method, e.URL)
}

// Common errors for client usage. Use errors.Is for checking.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrBadRequest    = errors.New("bad request")
	ErrInternalError = errors.New("internal server error")
)

// NewDefaultHTTPClient creates a robust http.Client with common timeouts and transport settings.
func NewDefaultHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// Client is a generic HTTP client for the form-in/JSON-out APIs served by BaseServer.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new API Client.
// It's recommended to pass a pre-configured http.Client (e.g., from NewDefaultHTTPClient).
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		slog.Warn("NewClient called with nil httpClient, using NewDefaultHTTPClient")
		httpClient = NewDefaultHTTPClient()
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// doRequest is a helper for common request logic
func (c *Client) doRequest(ctx context.Context, method, path string, form url.Values, result interface{}) error {
	url := fmt.Sprintf("%s%s", c.baseURL, path)

	var reqBody io.Reader
	if form != nil {
		reqBody = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create %s request for %s: %w", method, url, err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Differentiate between context cancellation and other network errors
		if errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("%s request to %s cancelled: %w", method, url, ctx.Err())
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%s request to %s timed out: %w", method, url, ctx.Err())
		}
		return fmt.Errorf("failed to send %s request to %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorResponse JSONErrorResponse
		bodyBytes, readErr := io.ReadAll(resp.Body)
		if readErr == nil && len(bodyBytes) > 0 {
			if jsonErr := json.Unmarshal(bodyBytes, &errorResponse); jsonErr == nil && errorResponse.Error != "" {
				return createHTTPError(resp.StatusCode, errorResponse.Error, errorResponse.Kind, url, method)
			}
			// Fallback: include the raw body if it's small
			if len(bodyBytes) < 500 {
				return createHTTPError(resp.StatusCode, string(bodyBytes), "", url, method)
			}
		}
		return createHTTPError(resp.StatusCode, "", "", url, method)
	}

	if result != nil {
		if resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode %s response from %s: %w", method, url, err)
		}
	}
	return nil
}

// createHTTPError wraps an HTTPError with the matching sentinel error.
func createHTTPError(statusCode int, message, kind, url, method string) error {
	httpErr := &HTTPError{StatusCode: statusCode, Message: message, Kind: kind, URL: url, Method: method}
	switch {
	case statusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, httpErr)
	case statusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %w", ErrBadRequest, httpErr)
	case statusCode >= 500:
		return fmt.Errorf("%w: %w", ErrInternalError, httpErr)
	default:
		return httpErr
	}
}

func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, result)
}

// PostForm sends form-encoded fields with POST.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, result interface{}) error {
	if form == nil {
		form = url.Values{}
	}
	return c.doRequest(ctx, http.MethodPost, path, form, result)
}

// PutForm sends form-encoded fields with PUT.
func (c *Client) PutForm(ctx context.Context, path string, form url.Values, result interface{}) error {
	if form == nil {
		form = url.Values{}
	}
	return c.doRequest(ctx, http.MethodPut, path, form, result)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}

// IsHTTPError checks if an error is an HTTPError and optionally matches status code.
func IsHTTPError(err error, status int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return status == 0 || httpErr.StatusCode == status
	}
	return false
}

// GetHTTPStatusCode extracts the status code from an HTTPError if present.
func GetHTTPStatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
