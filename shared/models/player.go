// shared/models/player.go
package models

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequiredFields are the attributes every create and edit payload must carry.
var RequiredFields = []string{
	"overall",
	"club_position",
	"nation_flag_url",
	"club_logo_url",
	"short_name",
	"pace",
	"shooting",
	"passing",
	"dribbling",
	"defending",
	"physic",
}

// PlayerFields maps a required attribute name to its submitted text.
type PlayerFields map[string]string

// Player is one athlete record stored in the players collection.
// Attributes beyond the required set (the imported per-skill ratings, ages, etc.)
// are kept in Attributes and round-trip untouched.
type Player struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Overall       Value              `bson:"overall"`
	ClubPosition  Value              `bson:"club_position"`
	NationFlagURL Value              `bson:"nation_flag_url"`
	ClubLogoURL   Value              `bson:"club_logo_url"`
	ShortName     Value              `bson:"short_name"`
	Pace          Value              `bson:"pace"`
	Shooting      Value              `bson:"shooting"`
	Passing       Value              `bson:"passing"`
	Dribbling     Value              `bson:"dribbling"`
	Defending     Value              `bson:"defending"`
	Physic        Value              `bson:"physic"`
	Reviews       []Review           `bson:"review"`
	ClubJoined    *JoinDate          `bson:"club_joined,omitempty"`
	Attributes    bson.M             `bson:",inline"`
}

// NewPlayer builds a player document from a validated field set.
// The review sequence starts empty; the join date is left to maintenance.
func NewPlayer(fields PlayerFields) *Player {
	p := &Player{Reviews: []Review{}}
	p.SetFields(fields)
	return p
}

// SetFields overwrites every required attribute present in fields.
func (p *Player) SetFields(fields PlayerFields) {
	for name, v := range fields {
		if ptr := p.field(name); ptr != nil {
			*ptr = Value(v)
		}
	}
}

// Fields returns the required attributes in their textual form.
func (p *Player) Fields() PlayerFields {
	out := make(PlayerFields, len(RequiredFields))
	for _, name := range RequiredFields {
		out[name] = string(*p.field(name))
	}
	return out
}

// Attribute looks a named attribute up on the record, required or imported.
func (p *Player) Attribute(name string) (interface{}, bool) {
	if ptr := p.field(name); ptr != nil {
		return string(*ptr), true
	}
	v, ok := p.Attributes[name]
	return v, ok
}

func (p *Player) field(name string) *Value {
	switch name {
	case "overall":
		return &p.Overall
	case "club_position":
		return &p.ClubPosition
	case "nation_flag_url":
		return &p.NationFlagURL
	case "club_logo_url":
		return &p.ClubLogoURL
	case "short_name":
		return &p.ShortName
	case "pace":
		return &p.Pace
	case "shooting":
		return &p.Shooting
	case "passing":
		return &p.Passing
	case "dribbling":
		return &p.Dribbling
	case "defending":
		return &p.Defending
	case "physic":
		return &p.Physic
	}
	return nil
}

// MarshalJSON renders the display form: one flat object with the identifiers
// of the player and of every review converted to hex strings.
func (p Player) MarshalJSON() ([]byte, error) {
	doc := make(map[string]interface{}, len(p.Attributes)+len(RequiredFields)+3)
	for k, v := range p.Attributes {
		doc[k] = v
	}
	for name, v := range p.Fields() {
		doc[name] = v
	}
	doc["_id"] = p.ID.Hex()
	reviews := p.Reviews
	if reviews == nil {
		reviews = []Review{}
	}
	doc["review"] = reviews
	if p.ClubJoined != nil {
		doc["club_joined"] = p.ClubJoined
	}
	return json.Marshal(doc)
}
