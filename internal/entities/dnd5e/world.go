package dnd5e

import (
	"fmt"
	"strings"
)

// Quest status values
const (
	QuestStatusAvailable = "available"
	QuestStatusActive    = "active"
	QuestStatusCompleted = "completed"
	QuestStatusFailed    = "failed"
)

// Location types
const (
	LocationTypeTown       = "town"
	LocationTypeDungeon    = "dungeon"
	LocationTypeWilderness = "wilderness"
	LocationTypeBuilding   = "building"
)

// NPC represents a non-player character in the game world
type NPC struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Description         string `json:"description"`
	Personality         string `json:"personality"`
	Location            string `json:"location"`
	Role                string `json:"role"`
	RelationshipToParty string `json:"relationship_to_party"`
	DialogueStyle       string `json:"dialogue_style"`
	CreatedAt           string `json:"created_at"`
}

// ContextSummary returns a one-line summary for DM context
func (n *NPC) ContextSummary() string {
	return fmt.Sprintf("%s (%s): %s Personality: %s. Located in %s. Relationship to party: %s",
		n.Name, n.Role, n.Description, n.Personality, n.Location, n.RelationshipToParty)
}

// SearchText returns the text the store matches queries against
func (n *NPC) SearchText() string {
	return strings.Join([]string{n.Name, n.Description, n.Personality, n.Location, n.Role, n.DialogueStyle}, " ")
}

// Quest represents a quest or adventure hook
type Quest struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Giver       string   `json:"giver"`
	Status      string   `json:"status"`
	Objectives  []string `json:"objectives"`
	Rewards     string   `json:"rewards"`
	Difficulty  string   `json:"difficulty"`
	Location    string   `json:"location"`
	CreatedAt   string   `json:"created_at"`
}

// ContextSummary returns a one-line summary for DM context
func (q *Quest) ContextSummary() string {
	objectives := "No specific objectives"
	if len(q.Objectives) > 0 {
		objectives = strings.Join(q.Objectives, "; ")
	}
	return fmt.Sprintf("Quest '%s' (Status: %s): %s Given by %s. Objectives: %s. Difficulty: %s. Rewards: %s",
		q.Title, q.Status, q.Description, q.Giver, objectives, q.Difficulty, q.Rewards)
}

// SearchText returns the text the store matches queries against
func (q *Quest) SearchText() string {
	return strings.Join(append([]string{q.Title, q.Description, q.Giver, q.Location, q.Difficulty}, q.Objectives...), " ")
}

// IsActive reports whether the quest is currently active
func (q *Quest) IsActive() bool {
	return q.Status == QuestStatusActive
}

// IsAvailable reports whether the quest can still be accepted
func (q *Quest) IsAvailable() bool {
	return q.Status == QuestStatusAvailable
}

// Location represents a place in the game world
type Location struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Type               string   `json:"type"`
	NotableFeatures    []string `json:"notable_features"`
	ConnectedLocations []string `json:"connected_locations"`
	NPCsPresent        []string `json:"npcs_present"`
	QuestsAvailable    []string `json:"quests_available"`
	Atmosphere         string   `json:"atmosphere"`
	CreatedAt          string   `json:"created_at"`
}

// ContextSummary returns a one-line summary for DM context
func (l *Location) ContextSummary() string {
	features := "No notable features"
	if len(l.NotableFeatures) > 0 {
		features = strings.Join(l.NotableFeatures, ", ")
	}
	return fmt.Sprintf("Location '%s' (%s): %s Notable features: %s. Atmosphere: %s",
		l.Name, l.Type, l.Description, features, l.Atmosphere)
}

// SearchText returns the text the store matches queries against
func (l *Location) SearchText() string {
	return strings.Join(append([]string{l.Name, l.Description, l.Type, l.Atmosphere}, l.NotableFeatures...), " ")
}

// DetailedDescription returns the full location description for scene setting
func (l *Location) DetailedDescription() string {
	lines := []string{
		fmt.Sprintf("Location: %s", l.Name),
		fmt.Sprintf("Type: %s", l.Type),
		fmt.Sprintf("Description: %s", l.Description),
		fmt.Sprintf("Atmosphere: %s", l.Atmosphere),
	}

	if len(l.NotableFeatures) > 0 {
		lines = append(lines, "Notable Features:")
		for _, feature := range l.NotableFeatures {
			lines = append(lines, fmt.Sprintf("  - %s", feature))
		}
	}

	if len(l.ConnectedLocations) > 0 {
		lines = append(lines, "Connected to:")
		for _, connected := range l.ConnectedLocations {
			lines = append(lines, fmt.Sprintf("  - %s", connected))
		}
	}

	return strings.Join(lines, "\n")
}
