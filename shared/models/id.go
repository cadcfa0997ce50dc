// shared/models/id.go
package models

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidID is returned for identifiers that are not 24 hexadecimal characters.
var ErrInvalidID = errors.New("invalid identifier")

// ParseID validates s as a 24-character hexadecimal token and converts it
// to the store's identifier type.
func ParseID(s string) (primitive.ObjectID, error) {
	if len(s) != 24 {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, s)
		}
	}
	return primitive.ObjectIDFromHex(s)
}
