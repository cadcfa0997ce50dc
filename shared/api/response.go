// shared/api/response.go
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error kinds reported in JSONErrorResponse.Kind.
const (
	KindMissingRequiredField = "MISSING_REQUIRED_FIELD"
	KindInvalidIdentifier    = "INVALID_IDENTIFIER"
	KindNotFound             = "NOT_FOUND"
	KindUnrecognizedStyle    = "UNRECOGNIZED_STYLE"
	KindBadRequest           = "BAD_REQUEST"
	KindInternal             = "INTERNAL_ERROR"
)

// JSONErrorResponse defines a standard structure for API error responses.
type JSONErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"` // HTTP status code
	Kind  string `json:"kind,omitempty"`
}

// URLResponse is returned by create and edit endpoints.
type URLResponse struct {
	URL string `json:"url"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteRawJSON writes an already encoded JSON body.
func WriteRawJSON(w http.ResponseWriter, status int, body []byte) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}

// WriteNoContent writes a 204 with an empty body.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError writes a JSON error response with the given status code, kind and message.
func WriteError(w http.ResponseWriter, status int, kind, message string) {
	errResp := JSONErrorResponse{
		Error: message,
		Code:  status,
		Kind:  kind,
	}
	// Attempt to write JSON, fall back to plain text if JSON encoding fails
	if err := WriteJSON(w, status, errResp); err != nil {
		slog.Error("Failed to write JSON error response, falling back to plain text", "error", err)
		http.Error(w, message, status)
	}
}

// WriteBadRequest convenience function
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, KindBadRequest, message)
}

// WriteNotFound convenience function
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, KindNotFound, message)
}

// WriteInternalServerError convenience function
func WriteInternalServerError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, KindInternal, message)
}
