// shared/models/value.go
package models

import (
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Value is an attribute kept in its submitted textual form.
// Imported documents may hold numbers; those decode to their decimal text.
type Value string

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (v *Value) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*v = Value(raw.StringValue())
	case bsontype.Int32:
		*v = Value(strconv.FormatInt(int64(raw.Int32()), 10))
	case bsontype.Int64:
		*v = Value(strconv.FormatInt(raw.Int64(), 10))
	case bsontype.Double:
		*v = Value(strconv.FormatFloat(raw.Double(), 'f', -1, 64))
	case bsontype.Null, bsontype.Undefined:
		*v = ""
	default:
		return fmt.Errorf("cannot decode BSON %s into an attribute value", t)
	}
	return nil
}

// JoinDate is the moment a player joined their current club.
//
// Legacy documents wrap the date in a single-element array; both shapes are
// accepted on read and a plain BSON date is always written.
type JoinDate struct {
	time.Time
}

// NewJoinDate wraps t, normalised to UTC.
func NewJoinDate(t time.Time) *JoinDate {
	return &JoinDate{Time: t.UTC()}
}

// MarshalBSONValue implements bson.ValueMarshaler.
func (j JoinDate) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(j.Time)
}

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (j *JoinDate) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.DateTime:
		j.Time = raw.Time().UTC()
	case bsontype.Array:
		vals, err := raw.Array().Values()
		if err != nil {
			return fmt.Errorf("failed to read club_joined array: %w", err)
		}
		if len(vals) != 1 {
			return fmt.Errorf("club_joined array must hold exactly one date, got %d", len(vals))
		}
		if vals[0].Type != bsontype.DateTime {
			return fmt.Errorf("club_joined array holds %s, want a date", vals[0].Type)
		}
		j.Time = vals[0].Time().UTC()
	case bsontype.Null, bsontype.Undefined:
		j.Time = time.Time{}
	default:
		return fmt.Errorf("cannot decode BSON %s into a join date", t)
	}
	return nil
}
