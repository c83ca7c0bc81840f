// Package dnd5e implements the D&D 5e entities
package dnd5e

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AbilityScores holds the six ability scores for a character
type AbilityScores struct {
	Strength     int32 `json:"STR"`
	Dexterity    int32 `json:"DEX"`
	Constitution int32 `json:"CON"`
	Intelligence int32 `json:"INT"`
	Wisdom       int32 `json:"WIS"`
	Charisma     int32 `json:"CHA"`
}

// StatNames lists the ability score names in canonical order
var StatNames = []string{"STR", "DEX", "CON", "INT", "WIS", "CHA"}

// Score returns the score for the named ability, or 0 for unknown names
func (a AbilityScores) Score(name string) int32 {
	switch name {
	case "STR":
		return a.Strength
	case "DEX":
		return a.Dexterity
	case "CON":
		return a.Constitution
	case "INT":
		return a.Intelligence
	case "WIS":
		return a.Wisdom
	case "CHA":
		return a.Charisma
	default:
		return 0
	}
}

// Modifier calculates the ability modifier for a score, rounding down
func Modifier(score int32) int32 {
	if score >= 10 {
		return (score - 10) / 2
	}
	return -((11 - score) / 2)
}

// Character represents a player character loaded from a character file.
// NOTE: This is a data-only struct; loading semantics (defaults, id and
// timestamp generation) live in the playerdata repository.
type Character struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Class             string        `json:"character_class"`
	Level             int32         `json:"level"`
	Race              string        `json:"race"`
	Background        string        `json:"background"`
	Alignment         string        `json:"alignment"`
	Stats             AbilityScores `json:"stats"`
	Skills            []string      `json:"skills"`
	Equipment         []string      `json:"equipment"`
	Backstory         string        `json:"backstory"`
	PersonalityTraits []string      `json:"personality_traits"`
	Ideals            string        `json:"ideals"`
	Bonds             string        `json:"bonds"`
	Flaws             string        `json:"flaws"`
	HitPoints         int32         `json:"hit_points"`
	ArmorClass        int32         `json:"armor_class"`
	CreatedAt         string        `json:"created_at"`

	// Extra holds user-added fields not part of the schema. They are
	// preserved verbatim across load/save.
	Extra map[string]json.RawMessage `json:"-"`
}

// characterKeys mirrors the json tags above; keys absent from this set are
// treated as custom attributes and preserved in Extra.
var characterKeys = map[string]struct{}{
	"id":                 {},
	"name":               {},
	"character_class":    {},
	"level":              {},
	"race":               {},
	"background":         {},
	"alignment":          {},
	"stats":              {},
	"skills":             {},
	"equipment":          {},
	"backstory":          {},
	"personality_traits": {},
	"ideals":             {},
	"bonds":              {},
	"flaws":              {},
	"hit_points":         {},
	"armor_class":        {},
	"created_at":         {},
}

// UnmarshalJSON decodes the schema fields and captures unrecognized keys
func (c *Character) UnmarshalJSON(data []byte) error {
	type alias Character
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	extra, err := splitExtra(data, characterKeys)
	if err != nil {
		return err
	}
	a.Extra = extra

	*c = Character(a)
	return nil
}

// MarshalJSON encodes the schema fields and re-emits preserved extras
func (c Character) MarshalJSON() ([]byte, error) {
	type alias Character
	data, err := json.Marshal(alias(c))
	if err != nil {
		return nil, err
	}
	return appendExtra(data, c.Extra)
}

// StatModifier calculates the ability modifier for a named stat.
// Unknown stat names have a zero modifier.
func (c *Character) StatModifier(stat string) int32 {
	for _, name := range StatNames {
		if name == stat {
			return Modifier(c.Stats.Score(stat))
		}
	}
	return 0
}

// Summary returns a brief one-line summary of the character
func (c *Character) Summary() string {
	return fmt.Sprintf("%s: Level %d %s %s (AC: %d, HP: %d)",
		c.Name, c.Level, c.Race, c.Class, c.ArmorClass, c.HitPoints)
}

// RoleplayInfo returns the roleplay details used for DM context
func (c *Character) RoleplayInfo() string {
	traits := "None"
	if len(c.PersonalityTraits) > 0 {
		traits = strings.Join(c.PersonalityTraits, ", ")
	}
	return fmt.Sprintf("Background: %s\nPersonality: %s\nIdeals: %s\nBonds: %s\nFlaws: %s",
		c.Background, traits, c.Ideals, c.Bonds, c.Flaws)
}
