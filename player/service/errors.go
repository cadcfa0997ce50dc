// player/service/errors.go
package service

import (
	"errors"
	"strings"

	"github.com/Ftotnem/FIFA-SERVICES/shared/models"
)

// Custom Errors for clear communication to API layer
var (
	ErrMissingRequiredField = errors.New("missing form data")
	ErrInvalidIdentifier    = models.ErrInvalidID
	ErrPlayerNotFound       = errors.New("player not found")
	ErrReviewNotFound       = errors.New("review not found")
	ErrUnrecognizedStyle    = errors.New("unrecognized chemistry style")
	ErrAttributeUnusable    = errors.New("attribute is not a usable number")
	ErrInvalidPage          = errors.New("invalid page parameters")
	ErrUnknownFilterField   = errors.New("field cannot be filtered on")
	ErrInvalidLimit         = errors.New("invalid limit")
)

// MissingFieldsError lists the required names absent from a payload.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return ErrMissingRequiredField.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldsError) Unwrap() error { return ErrMissingRequiredField }
