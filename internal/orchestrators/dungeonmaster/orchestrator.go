// Package dungeonmaster implements the orchestrator that runs a game
// session: it assembles context from the party and the world store, sends
// narration requests to the language model, and keeps the conversation
// window.
package dungeonmaster

//go:generate mockgen -destination=mock/mock_service.go -package=dungeonmastermock github.com/dmforge/dmforge/internal/orchestrators/dungeonmaster Service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dmforge/dmforge/internal/entities/dnd5e"
	"github.com/dmforge/dmforge/internal/errors"
	"github.com/dmforge/dmforge/internal/llm"
	"github.com/dmforge/dmforge/internal/repositories/gamestore"
	"github.com/dmforge/dmforge/internal/repositories/playerdata"
)

// DefaultConversationWindow is how many exchanges the DM remembers when the
// config doesn't say otherwise
const DefaultConversationWindow = 10

// Service defines the interface for running a game session
type Service interface {
	// LoadParty loads the party and its members from the player data
	// directory and makes it the active party
	LoadParty(ctx context.Context, input *LoadPartyInput) (*LoadPartyOutput, error)

	// SetLocation moves the party. The name is matched against stored
	// locations first; an unmatched name is kept verbatim
	SetLocation(ctx context.Context, input *SetLocationInput) (*SetLocationOutput, error)

	// GenerateNarration runs one DM turn: gathers relevant world context,
	// asks the model, and records the exchange
	GenerateNarration(ctx context.Context, input *GenerateNarrationInput) (*GenerateNarrationOutput, error)

	// PartySummary returns the detailed summary of the active party
	PartySummary(ctx context.Context, input *PartySummaryInput) (*PartySummaryOutput, error)

	// ContextSummary returns a short summary of the current game state
	ContextSummary(ctx context.Context, input *ContextSummaryInput) (*ContextSummaryOutput, error)

	// AddNPC introduces an NPC into the world
	AddNPC(ctx context.Context, input *AddNPCInput) (*AddNPCOutput, error)

	// AddQuest introduces a quest into the world
	AddQuest(ctx context.Context, input *AddQuestInput) (*AddQuestOutput, error)

	// AddLocation introduces a location into the world
	AddLocation(ctx context.Context, input *AddLocationInput) (*AddLocationOutput, error)

	// UpdateQuestStatus transitions a quest by title and keeps the party's
	// active and completed quest lists in step
	UpdateQuestStatus(ctx context.Context, input *UpdateQuestStatusInput) (*UpdateQuestStatusOutput, error)
}

// Config holds the dependencies for the dungeon master orchestrator
type Config struct {
	PlayerData playerdata.Repository
	GameStore  gamestore.Repository
	LLM        llm.Client

	Temperature float64
	MaxTokens   int
	// ConversationWindow defaults to DefaultConversationWindow
	ConversationWindow int
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if c.PlayerData == nil {
		vb.RequiredField("PlayerData")
	}
	if c.GameStore == nil {
		vb.RequiredField("GameStore")
	}
	if c.LLM == nil {
		vb.RequiredField("LLM")
	}
	return vb.Build()
}

type orchestrator struct {
	playerData  playerdata.Repository
	gameStore   gamestore.Repository
	llm         llm.Client
	temperature float64
	maxTokens   int
	memory      *conversationMemory

	mu              sync.RWMutex
	party           *dnd5e.Party
	currentLocation string
}

// NewOrchestrator creates a new dungeon master orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	window := cfg.ConversationWindow
	if window <= 0 {
		window = DefaultConversationWindow
	}

	return &orchestrator{
		playerData:  cfg.PlayerData,
		gameStore:   cfg.GameStore,
		llm:         cfg.LLM,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		memory:      newConversationMemory(window),
	}, nil
}

func (o *orchestrator) LoadParty(ctx context.Context, input *LoadPartyInput) (*LoadPartyOutput, error) {
	if input == nil {
		input = &LoadPartyInput{}
	}

	output, err := o.playerData.LoadParty(ctx, playerdata.LoadPartyInput{Filename: input.Filename})
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	o.party = output.Party
	o.mu.Unlock()

	slog.InfoContext(ctx, "loaded party",
		"party", output.Party.Name,
		"members", len(output.Party.Members))

	return &LoadPartyOutput{Party: output.Party}, nil
}

func (o *orchestrator) SetLocation(ctx context.Context, input *SetLocationInput) (*SetLocationOutput, error) {
	if input == nil || input.LocationName == "" {
		return nil, errors.InvalidArgument("location name cannot be empty")
	}

	name := input.LocationName
	var matched *dnd5e.Location

	found, err := o.gameStore.FindLocationByName(ctx, gamestore.FindLocationByNameInput{Name: name})
	switch {
	case err == nil:
		matched = found.Location
		name = matched.Name
	case errors.IsNotFound(err):
		// Unknown places are allowed; the DM can describe them freely
		slog.DebugContext(ctx, "location not in store, using raw name",
			"location", input.LocationName)
	default:
		return nil, err
	}

	o.mu.Lock()
	o.currentLocation = name
	o.mu.Unlock()

	return &SetLocationOutput{LocationName: name, Location: matched}, nil
}

func (o *orchestrator) GenerateNarration(
	ctx context.Context,
	input *GenerateNarrationInput,
) (*GenerateNarrationOutput, error) {
	if input == nil || strings.TrimSpace(input.PlayerInput) == "" {
		return nil, errors.InvalidArgument("player input cannot be empty")
	}

	o.mu.RLock()
	party := o.party
	location := o.currentLocation
	o.mu.RUnlock()

	situation := input.PlayerInput
	if location != "" {
		situation = fmt.Sprintf("%s Current location: %s", input.PlayerInput, location)
	}

	rc, err := o.relevantContext(ctx, situation)
	if err != nil {
		return nil, err
	}

	messages := o.memory.Messages()
	messages = append(messages, llm.Message{
		Role: llm.RoleUser,
		Content: fmt.Sprintf(
			"Player Action/Response: %s\n\nAs the DM, respond to this player action. Consider the current context and maintain narrative consistency.",
			input.PlayerInput),
	})

	response, err := o.llm.Complete(ctx, &llm.Request{
		System:      fmt.Sprintf(systemPromptTemplate, formatContext(rc, location, party)),
		Messages:    messages,
		Temperature: o.temperature,
		MaxTokens:   o.maxTokens,
	})
	if err != nil {
		return nil, errors.Wrap(err, "narration failed")
	}

	o.memory.AddExchange(input.PlayerInput, response.Content)

	slog.DebugContext(ctx, "generated narration",
		"model", response.Model,
		"input_length", len(input.PlayerInput),
		"response_length", len(response.Content))

	return &GenerateNarrationOutput{Narration: response.Content, Model: response.Model}, nil
}

// relevantContext searches each element type for matches against the
// current situation
func (o *orchestrator) relevantContext(ctx context.Context, situation string) (relevantContext, error) {
	var rc relevantContext
	for _, elementType := range []string{
		gamestore.ElementTypeNPC,
		gamestore.ElementTypeQuest,
		gamestore.ElementTypeLocation,
	} {
		output, err := o.gameStore.Search(ctx, gamestore.SearchInput{
			Query: situation,
			Type:  elementType,
		})
		if err != nil {
			return relevantContext{}, errors.Wrapf(err, "failed to search %ss", elementType)
		}
		split := splitResults(output.Results)
		rc.npcs = append(rc.npcs, split.npcs...)
		rc.quests = append(rc.quests, split.quests...)
		rc.locations = append(rc.locations, split.locations...)
	}
	return rc, nil
}

func (o *orchestrator) PartySummary(_ context.Context, _ *PartySummaryInput) (*PartySummaryOutput, error) {
	o.mu.RLock()
	party := o.party
	o.mu.RUnlock()

	if party == nil {
		return &PartySummaryOutput{Summary: "No party loaded"}, nil
	}
	return &PartySummaryOutput{Summary: party.DetailedSummary()}, nil
}

func (o *orchestrator) ContextSummary(ctx context.Context, _ *ContextSummaryInput) (*ContextSummaryOutput, error) {
	o.mu.RLock()
	party := o.party
	location := o.currentLocation
	o.mu.RUnlock()

	var lines []string
	if location != "" {
		lines = append(lines, fmt.Sprintf("Current Location: %s", location))
	}
	if party != nil {
		lines = append(lines, fmt.Sprintf("Party: %s (%d members)", party.Name, len(party.Members)))
		if len(party.ActiveQuests) > 0 {
			lines = append(lines, fmt.Sprintf("Active Quests: %s", strings.Join(party.ActiveQuests, ", ")))
		}
	}

	if location != "" {
		output, err := o.gameStore.Search(ctx, gamestore.SearchInput{
			Query: location,
			Type:  gamestore.ElementTypeNPC,
			Limit: 3,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to search nearby npcs")
		}
		if len(output.Results) > 0 {
			names := make([]string, len(output.Results))
			for i, result := range output.Results {
				names[i] = result.NPC.Name
			}
			lines = append(lines, fmt.Sprintf("Nearby NPCs: %s", strings.Join(names, ", ")))
		}
	}

	if len(lines) == 0 {
		return &ContextSummaryOutput{Summary: "No current context available."}, nil
	}
	return &ContextSummaryOutput{Summary: strings.Join(lines, "\n")}, nil
}

func (o *orchestrator) AddNPC(ctx context.Context, input *AddNPCInput) (*AddNPCOutput, error) {
	if input == nil || input.NPC == nil {
		return nil, errors.InvalidArgument("npc cannot be nil")
	}

	output, err := o.gameStore.AddNPC(ctx, gamestore.AddNPCInput{NPC: input.NPC})
	if err != nil {
		return nil, err
	}
	return &AddNPCOutput{NPC: output.NPC}, nil
}

func (o *orchestrator) AddQuest(ctx context.Context, input *AddQuestInput) (*AddQuestOutput, error) {
	if input == nil || input.Quest == nil {
		return nil, errors.InvalidArgument("quest cannot be nil")
	}

	output, err := o.gameStore.AddQuest(ctx, gamestore.AddQuestInput{Quest: input.Quest})
	if err != nil {
		return nil, err
	}
	return &AddQuestOutput{Quest: output.Quest}, nil
}

func (o *orchestrator) AddLocation(ctx context.Context, input *AddLocationInput) (*AddLocationOutput, error) {
	if input == nil || input.Location == nil {
		return nil, errors.InvalidArgument("location cannot be nil")
	}

	output, err := o.gameStore.AddLocation(ctx, gamestore.AddLocationInput{Location: input.Location})
	if err != nil {
		return nil, err
	}
	return &AddLocationOutput{Location: output.Location}, nil
}

func (o *orchestrator) UpdateQuestStatus(
	ctx context.Context,
	input *UpdateQuestStatusInput,
) (*UpdateQuestStatusOutput, error) {
	if input == nil || input.QuestTitle == "" {
		return nil, errors.InvalidArgument("quest title cannot be empty")
	}

	quest, err := o.findQuestByTitle(ctx, input.QuestTitle)
	if err != nil {
		return nil, err
	}

	updated, err := o.gameStore.UpdateQuestStatus(ctx, gamestore.UpdateQuestStatusInput{
		ID:     quest.ID,
		Status: input.Status,
	})
	if err != nil {
		return nil, err
	}

	o.syncPartyQuests(updated.Quest.Title, input.Status)

	slog.InfoContext(ctx, "updated quest status",
		"quest", updated.Quest.Title,
		"status", input.Status)

	return &UpdateQuestStatusOutput{Quest: updated.Quest}, nil
}

func (o *orchestrator) findQuestByTitle(ctx context.Context, title string) (*dnd5e.Quest, error) {
	output, err := o.gameStore.ListQuests(ctx, gamestore.ListQuestsInput{})
	if err != nil {
		return nil, err
	}
	for _, quest := range output.Quests {
		if strings.EqualFold(quest.Title, title) {
			return quest, nil
		}
	}
	return nil, errors.NotFoundf("quest %q not found", title)
}

// syncPartyQuests mirrors quest transitions onto the active party's quest
// lists so the party file stays truthful when saved
func (o *orchestrator) syncPartyQuests(title, status string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.party == nil {
		return
	}

	switch status {
	case dnd5e.QuestStatusActive:
		if !containsFold(o.party.ActiveQuests, title) {
			o.party.ActiveQuests = append(o.party.ActiveQuests, title)
		}
	case dnd5e.QuestStatusCompleted, dnd5e.QuestStatusFailed:
		o.party.ActiveQuests = removeFold(o.party.ActiveQuests, title)
		if status == dnd5e.QuestStatusCompleted && !containsFold(o.party.CompletedQuests, title) {
			o.party.CompletedQuests = append(o.party.CompletedQuests, title)
		}
	}
}

func containsFold(items []string, target string) bool {
	for _, item := range items {
		if strings.EqualFold(item, target) {
			return true
		}
	}
	return false
}

func removeFold(items []string, target string) []string {
	out := items[:0]
	for _, item := range items {
		if !strings.EqualFold(item, target) {
			out = append(out, item)
		}
	}
	return out
}
