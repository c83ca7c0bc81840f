package dungeonmaster

import (
	"github.com/dmforge/dmforge/internal/entities/dnd5e"
)

// LoadPartyInput defines the input for loading the party
type LoadPartyInput struct {
	// Filename is optional; the repository default is used when empty
	Filename string
}

// LoadPartyOutput defines the output for loading the party
type LoadPartyOutput struct {
	Party *dnd5e.Party
}

// SetLocationInput defines the input for moving the party
type SetLocationInput struct {
	LocationName string
}

// SetLocationOutput defines the output for moving the party.
// Location is nil when the name matched nothing in the store; the raw name
// still becomes the current location so narration can run ahead of worldbuilding.
type SetLocationOutput struct {
	LocationName string
	Location     *dnd5e.Location
}

// GenerateNarrationInput defines the input for a DM narration turn
type GenerateNarrationInput struct {
	PlayerInput string
}

// GenerateNarrationOutput defines the output for a DM narration turn
type GenerateNarrationOutput struct {
	Narration string
	Model     string
}

// PartySummaryInput defines the input for the party summary
type PartySummaryInput struct{}

// PartySummaryOutput defines the output for the party summary
type PartySummaryOutput struct {
	Summary string
}

// ContextSummaryInput defines the input for the game state summary
type ContextSummaryInput struct{}

// ContextSummaryOutput defines the output for the game state summary
type ContextSummaryOutput struct {
	Summary string
}

// AddNPCInput defines the input for introducing an NPC
type AddNPCInput struct {
	NPC *dnd5e.NPC
}

// AddNPCOutput defines the output for introducing an NPC
type AddNPCOutput struct {
	NPC *dnd5e.NPC
}

// AddQuestInput defines the input for introducing a quest
type AddQuestInput struct {
	Quest *dnd5e.Quest
}

// AddQuestOutput defines the output for introducing a quest
type AddQuestOutput struct {
	Quest *dnd5e.Quest
}

// AddLocationInput defines the input for introducing a location
type AddLocationInput struct {
	Location *dnd5e.Location
}

// AddLocationOutput defines the output for introducing a location
type AddLocationOutput struct {
	Location *dnd5e.Location
}

// UpdateQuestStatusInput defines the input for a quest transition. The quest
// is addressed by title, case-insensitively, since that's how it appears in
// narration.
type UpdateQuestStatusInput struct {
	QuestTitle string
	Status     string
}

// UpdateQuestStatusOutput defines the output for a quest transition
type UpdateQuestStatusOutput struct {
	Quest *dnd5e.Quest
}
