package dnd5e

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Reputation sentiment levels used in the party reputation map
const (
	ReputationFriendly   = "friendly"
	ReputationNeutral    = "neutral"
	ReputationUnfriendly = "unfriendly"
	ReputationHostile    = "hostile"
)

// Party represents an adventuring party. The party file references its
// member character files by name; it never owns the character data.
type Party struct {
	Name            string            `json:"name"`
	MemberFiles     []string          `json:"member_files"`
	Formation       string            `json:"formation"`
	SharedEquipment []string          `json:"shared_equipment"`
	PartyFunds      int               `json:"party_funds"`
	Reputation      map[string]string `json:"reputation"`
	ActiveQuests    []string          `json:"active_quests"`
	CompletedQuests []string          `json:"completed_quests"`
	Notes           string            `json:"notes"`
	CreatedAt       string            `json:"created_at"`

	// Members holds the characters resolved from MemberFiles. Populated by
	// the loader, never serialized into the party file.
	Members []*Character `json:"-"`

	// Extra holds user-added fields preserved verbatim across load/save
	Extra map[string]json.RawMessage `json:"-"`
}

// partyKeys mirrors the json tags above
var partyKeys = map[string]struct{}{
	"name":             {},
	"member_files":     {},
	"formation":        {},
	"shared_equipment": {},
	"party_funds":      {},
	"reputation":       {},
	"active_quests":    {},
	"completed_quests": {},
	"notes":            {},
	"created_at":       {},
}

// UnmarshalJSON decodes the schema fields and captures unrecognized keys
func (p *Party) UnmarshalJSON(data []byte) error {
	type alias Party
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	extra, err := splitExtra(data, partyKeys)
	if err != nil {
		return err
	}
	a.Extra = extra

	*p = Party(a)
	return nil
}

// MarshalJSON encodes the schema fields and re-emits preserved extras
func (p Party) MarshalJSON() ([]byte, error) {
	type alias Party
	data, err := json.Marshal(alias(p))
	if err != nil {
		return nil, err
	}
	return appendExtra(data, p.Extra)
}

// AverageLevel calculates the average level across loaded members
func (p *Party) AverageLevel() float64 {
	if len(p.Members) == 0 {
		return 0
	}
	var total int32
	for _, member := range p.Members {
		total += member.Level
	}
	return float64(total) / float64(len(p.Members))
}

// ClassComposition returns the count of each class in the party
func (p *Party) ClassComposition() map[string]int {
	composition := make(map[string]int)
	for _, member := range p.Members {
		composition[member.Class]++
	}
	return composition
}

// Summary returns a short multi-line summary of the party
func (p *Party) Summary() string {
	if len(p.Members) == 0 {
		return fmt.Sprintf("Party '%s' has no members", p.Name)
	}

	composition := p.ClassComposition()
	classes := make([]string, 0, len(composition))
	for class := range composition {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	classParts := make([]string, len(classes))
	for i, class := range classes {
		classParts[i] = fmt.Sprintf("%d %s", composition[class], class)
	}

	lines := []string{
		fmt.Sprintf("Party: %s", p.Name),
		fmt.Sprintf("Members: %d (Average Level: %.1f)", len(p.Members), p.AverageLevel()),
		fmt.Sprintf("Composition: %s", strings.Join(classParts, ", ")),
		fmt.Sprintf("Funds: %d gold", p.PartyFunds),
	}

	if len(p.ActiveQuests) > 0 {
		lines = append(lines, fmt.Sprintf("Active Quests: %d", len(p.ActiveQuests)))
	}

	return strings.Join(lines, "\n")
}

// DetailedSummary returns the full party summary including every member
func (p *Party) DetailedSummary() string {
	lines := []string{p.Summary(), ""}

	if len(p.Members) > 0 {
		lines = append(lines, "Members:")
		for _, member := range p.Members {
			lines = append(lines, fmt.Sprintf("  - %s", member.Summary()))
		}
	}

	if p.Formation != "" {
		lines = append(lines, "", fmt.Sprintf("Formation: %s", p.Formation))
	}

	if len(p.ActiveQuests) > 0 {
		lines = append(lines, "", fmt.Sprintf("Active Quests: %s", strings.Join(p.ActiveQuests, ", ")))
	}

	if len(p.Reputation) > 0 {
		lines = append(lines, "", "Reputation:")
		factions := make([]string, 0, len(p.Reputation))
		for faction := range p.Reputation {
			factions = append(factions, faction)
		}
		sort.Strings(factions)
		for _, faction := range factions {
			lines = append(lines, fmt.Sprintf("  - %s: %s", faction, p.Reputation[faction]))
		}
	}

	return strings.Join(lines, "\n")
}
