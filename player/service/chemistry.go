// player/service/chemistry.go
package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Ftotnem/FIFA-SERVICES/shared/models"
)

// MaxAttributeValue is the highest value a boosted attribute can report.
const MaxAttributeValue = 99

// ChemistryStyle names a boost profile and the attributes it raises.
type ChemistryStyle struct {
	Name       string   `json:"name"`
	Attributes []string `json:"attributes"`
}

var chemistryStyles = []ChemistryStyle{
	{"sniper", []string{"mentality_positioning", "attacking_finishing", "attacking_volleys", "power_long_shots", "power_shot_power", "movement_agility", "movement_balance", "skill_dribbling", "skill_ball_control"}},
	{"finisher", []string{"mentality_positioning", "attacking_finishing", "attacking_volleys", "power_shot_power", "power_long_shots", "power_jumping", "power_strength", "mentality_aggression"}},
	{"deadeye", []string{"mentality_positioning", "attacking_finishing", "power_shot_power", "power_long_shots", "mentality_vision", "attacking_short_passing", "skill_fk_accuracy", "skill_curve"}},
	{"marksman", []string{"attacking_finishing", "power_long_shots", "mentality_positioning", "skill_dribbling", "skill_ball_control", "movement_reactions", "power_jumping", "power_strength"}},
	{"hawk", []string{"movement_acceleration", "movement_sprint_speed", "attacking_finishing", "power_shot_power", "power_long_shots", "power_jumping", "power_strength", "mentality_aggression"}},
	{"artist", []string{"mentality_vision", "attacking_crossing", "skill_long_passing", "skill_curve", "movement_agility", "skill_ball_control", "skill_dribbling", "movement_reactions"}},
	{"architect", []string{"attacking_short_passing", "skill_long_passing", "attacking_crossing", "skill_curve", "power_jumping", "power_strength", "mentality_aggression"}},
	{"powerhouse", []string{"mentality_vision", "attacking_short_passing", "skill_long_passing", "skill_curve", "mentality_interceptions", "defending_marking", "defending_standing_tackle", "defending_sliding_tackle"}},
	{"maestro", []string{"power_long_shots", "power_shot_power", "skill_fk_accuracy", "mentality_vision", "attacking_short_passing", "skill_long_passing", "movement_reactions", "skill_ball_control", "skill_dribbling"}},
	{"engine", []string{"movement_acceleration", "movement_sprint_speed", "mentality_vision", "attacking_short_passing", "skill_long_passing", "movement_agility", "movement_balance", "skill_dribbling"}},
	{"sentinel", []string{"mentality_interceptions", "attacking_heading_accuracy", "defending_marking", "defending_standing_tackle", "defending_sliding_tackle", "power_jumping", "power_strength", "mentality_aggression"}},
	{"guardian", []string{"movement_agility", "movement_balance", "skill_dribbling", "mentality_composure", "defending_marking", "defending_standing_tackle", "defending_sliding_tackle"}},
	{"gladiator", []string{"attacking_finishing", "attacking_volleys", "power_shot_power", "power_long_shots", "mentality_interceptions", "attacking_heading_accuracy", "defending_marking", "defending_standing_tackle", "defending_sliding_tackle"}},
	{"backbone", []string{"attacking_short_passing", "skill_long_passing", "mentality_vision", "mentality_interceptions", "defending_marking", "defending_standing_tackle", "power_jumping", "power_stamina", "power_strength"}},
	{"anchor", []string{"movement_acceleration", "movement_sprint_speed", "mentality_interceptions", "defending_marking", "defending_standing_tackle", "defending_sliding_tackle", "power_jumping", "power_strength", "mentality_aggression"}},
	{"hunter", []string{"movement_acceleration", "movement_sprint_speed", "attacking_finishing", "attacking_volleys", "power_shot_power", "mentality_positioning"}},
	{"catalyst", []string{"movement_acceleration", "movement_sprint_speed", "attacking_crossing", "attacking_short_passing", "skill_long_passing", "skill_curve", "skill_fk_accuracy"}},
	{"shadow", []string{"movement_acceleration", "movement_sprint_speed", "mentality_interceptions", "defending_marking", "defending_standing_tackle", "defending_sliding_tackle"}},
}

// ChemistryStyles returns the style table in its fixed order.
func ChemistryStyles() []ChemistryStyle {
	out := make([]ChemistryStyle, len(chemistryStyles))
	for i, s := range chemistryStyles {
		out[i] = ChemistryStyle{Name: s.Name, Attributes: append([]string(nil), s.Attributes...)}
	}
	return out
}

// LookupStyle finds a style by name, ignoring case.
func LookupStyle(name string) (ChemistryStyle, error) {
	for _, s := range chemistryStyles {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return ChemistryStyle{}, fmt.Errorf("%w: %q", ErrUnrecognizedStyle, name)
}

// ApplyChemistry adds boost to every attribute of the style and clamps the
// result: anything at or above 100 becomes MaxAttributeValue.
func ApplyChemistry(player *models.Player, style ChemistryStyle, boost int) (map[string]int, error) {
	out := make(map[string]int, len(style.Attributes))
	for _, name := range style.Attributes {
		raw, ok := player.Attribute(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s is missing", ErrAttributeUnusable, name)
		}
		v, err := attributeInt(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrAttributeUnusable, name, err)
		}
		v += boost
		if v >= 100 {
			v = MaxAttributeValue
		}
		out[name] = v
	}
	return out, nil
}

func attributeInt(raw interface{}) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	case models.Value:
		return strconv.Atoi(strings.TrimSpace(string(v)))
	default:
		return 0, fmt.Errorf("unsupported type %T", raw)
	}
}
