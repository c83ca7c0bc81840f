// Package gamestore persists world elements the DM draws on when narrating:
// NPCs, quests, and locations. Two implementations exist, Redis-backed for
// durable campaigns and in-memory for sessions without a Redis endpoint.
package gamestore

import (
	"context"

	"github.com/dmforge/dmforge/internal/entities/dnd5e"
)

// Element types used for search filtering
const (
	ElementTypeNPC      = "npc"
	ElementTypeQuest    = "quest"
	ElementTypeLocation = "location"
)

// DefaultSearchLimit caps search results when the input doesn't specify one
const DefaultSearchLimit = 5

// SearchResult is one matched world element. Exactly one of NPC, Quest, or
// Location is set, indicated by Type.
type SearchResult struct {
	Type     string
	NPC      *dnd5e.NPC
	Quest    *dnd5e.Quest
	Location *dnd5e.Location
}

// Summary returns the context line for whichever element the result holds
func (r *SearchResult) Summary() string {
	switch r.Type {
	case ElementTypeNPC:
		return r.NPC.ContextSummary()
	case ElementTypeQuest:
		return r.Quest.ContextSummary()
	case ElementTypeLocation:
		return r.Location.ContextSummary()
	}
	return ""
}

// Repository defines the interface for world element storage
type Repository interface {
	// AddNPC stores an NPC, generating id and created_at when absent
	AddNPC(ctx context.Context, input AddNPCInput) (*AddNPCOutput, error)

	// GetNPC retrieves an NPC by ID.
	// Returns errors.NotFound if it doesn't exist
	GetNPC(ctx context.Context, input GetNPCInput) (*GetNPCOutput, error)

	// ListNPCs returns all stored NPCs
	ListNPCs(ctx context.Context, input ListNPCsInput) (*ListNPCsOutput, error)

	// AddQuest stores a quest, generating id and created_at when absent.
	// Status defaults to available
	AddQuest(ctx context.Context, input AddQuestInput) (*AddQuestOutput, error)

	// GetQuest retrieves a quest by ID.
	// Returns errors.NotFound if it doesn't exist
	GetQuest(ctx context.Context, input GetQuestInput) (*GetQuestOutput, error)

	// ListQuests returns all stored quests
	ListQuests(ctx context.Context, input ListQuestsInput) (*ListQuestsOutput, error)

	// UpdateQuestStatus transitions a quest to a new status.
	// Returns errors.NotFound if the quest doesn't exist
	// Returns errors.InvalidArgument for an unknown status value
	UpdateQuestStatus(ctx context.Context, input UpdateQuestStatusInput) (*UpdateQuestStatusOutput, error)

	// AddLocation stores a location, generating id and created_at when absent
	AddLocation(ctx context.Context, input AddLocationInput) (*AddLocationOutput, error)

	// GetLocation retrieves a location by ID.
	// Returns errors.NotFound if it doesn't exist
	GetLocation(ctx context.Context, input GetLocationInput) (*GetLocationOutput, error)

	// FindLocationByName retrieves a location by case-insensitive name match.
	// Returns errors.NotFound if no location matches
	FindLocationByName(ctx context.Context, input FindLocationByNameInput) (*FindLocationByNameOutput, error)

	// ListLocations returns all stored locations
	ListLocations(ctx context.Context, input ListLocationsInput) (*ListLocationsOutput, error)

	// Search matches the query against element search text,
	// case-insensitively. Type narrows the search to one element type when
	// set. Results are capped at Limit (DefaultSearchLimit when zero)
	Search(ctx context.Context, input SearchInput) (*SearchOutput, error)
}

// AddNPCInput defines the input for storing an NPC
type AddNPCInput struct {
	NPC *dnd5e.NPC
}

// AddNPCOutput defines the output for storing an NPC
type AddNPCOutput struct {
	NPC *dnd5e.NPC
}

// GetNPCInput defines the input for retrieving an NPC
type GetNPCInput struct {
	ID string
}

// GetNPCOutput defines the output for retrieving an NPC
type GetNPCOutput struct {
	NPC *dnd5e.NPC
}

// ListNPCsInput defines the input for listing NPCs
type ListNPCsInput struct{}

// ListNPCsOutput defines the output for listing NPCs
type ListNPCsOutput struct {
	NPCs []*dnd5e.NPC
}

// AddQuestInput defines the input for storing a quest
type AddQuestInput struct {
	Quest *dnd5e.Quest
}

// AddQuestOutput defines the output for storing a quest
type AddQuestOutput struct {
	Quest *dnd5e.Quest
}

// GetQuestInput defines the input for retrieving a quest
type GetQuestInput struct {
	ID string
}

// GetQuestOutput defines the output for retrieving a quest
type GetQuestOutput struct {
	Quest *dnd5e.Quest
}

// ListQuestsInput defines the input for listing quests
type ListQuestsInput struct{}

// ListQuestsOutput defines the output for listing quests
type ListQuestsOutput struct {
	Quests []*dnd5e.Quest
}

// UpdateQuestStatusInput defines the input for a quest status transition
type UpdateQuestStatusInput struct {
	ID     string
	Status string
}

// UpdateQuestStatusOutput defines the output for a quest status transition
type UpdateQuestStatusOutput struct {
	Quest *dnd5e.Quest
}

// AddLocationInput defines the input for storing a location
type AddLocationInput struct {
	Location *dnd5e.Location
}

// AddLocationOutput defines the output for storing a location
type AddLocationOutput struct {
	Location *dnd5e.Location
}

// GetLocationInput defines the input for retrieving a location
type GetLocationInput struct {
	ID string
}

// GetLocationOutput defines the output for retrieving a location
type GetLocationOutput struct {
	Location *dnd5e.Location
}

// FindLocationByNameInput defines the input for a name lookup
type FindLocationByNameInput struct {
	Name string
}

// FindLocationByNameOutput defines the output for a name lookup
type FindLocationByNameOutput struct {
	Location *dnd5e.Location
}

// ListLocationsInput defines the input for listing locations
type ListLocationsInput struct{}

// ListLocationsOutput defines the output for listing locations
type ListLocationsOutput struct {
	Locations []*dnd5e.Location
}

// SearchInput defines the input for searching world elements
type SearchInput struct {
	Query string
	// Type narrows results to one element type; empty searches all
	Type  string
	Limit int
}

// SearchOutput defines the output for searching world elements
type SearchOutput struct {
	Results []*SearchResult
}
