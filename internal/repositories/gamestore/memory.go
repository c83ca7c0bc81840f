package gamestore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmforge/dmforge/internal/entities/dnd5e"
	"github.com/dmforge/dmforge/internal/errors"
	"github.com/dmforge/dmforge/internal/pkg/clock"
	"github.com/dmforge/dmforge/internal/pkg/idgen"
)

// memoryRepository keeps world elements in process memory. Used when no
// Redis endpoint is configured; everything is lost when the session ends.
type memoryRepository struct {
	mu        sync.RWMutex
	npcs      map[string]*dnd5e.NPC
	quests    map[string]*dnd5e.Quest
	locations map[string]*dnd5e.Location
	clock     clock.Clock
	idGen     idgen.Generator
}

// MemoryConfig contains configuration for the in-memory game store.
type MemoryConfig struct {
	Clock       clock.Clock
	IDGenerator idgen.Generator
}

// NewMemory creates a new in-memory game store
func NewMemory(cfg *MemoryConfig) Repository {
	if cfg == nil {
		cfg = &MemoryConfig{}
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	gen := cfg.IDGenerator
	if gen == nil {
		gen = idgen.NewUUID("")
	}

	return &memoryRepository{
		npcs:      make(map[string]*dnd5e.NPC),
		quests:    make(map[string]*dnd5e.Quest),
		locations: make(map[string]*dnd5e.Location),
		clock:     c,
		idGen:     gen,
	}
}

func (r *memoryRepository) stamp(id, createdAt *string) {
	if *id == "" {
		*id = r.idGen.Generate()
	}
	if *createdAt == "" {
		*createdAt = r.clock.Now().Format(time.RFC3339)
	}
}

func (r *memoryRepository) AddNPC(_ context.Context, input AddNPCInput) (*AddNPCOutput, error) {
	if input.NPC == nil {
		return nil, errors.InvalidArgument(errNPCNil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	npc := input.NPC
	r.stamp(&npc.ID, &npc.CreatedAt)
	r.npcs[npc.ID] = npc

	return &AddNPCOutput{NPC: npc}, nil
}

func (r *memoryRepository) GetNPC(_ context.Context, input GetNPCInput) (*GetNPCOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	npc, ok := r.npcs[input.ID]
	if !ok {
		return nil, errors.NotFoundf("npc with ID %s not found", input.ID)
	}
	return &GetNPCOutput{NPC: npc}, nil
}

func (r *memoryRepository) ListNPCs(_ context.Context, _ ListNPCsInput) (*ListNPCsOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return &ListNPCsOutput{NPCs: sortedValues(r.npcs, func(n *dnd5e.NPC) string { return n.ID })}, nil
}

func (r *memoryRepository) AddQuest(_ context.Context, input AddQuestInput) (*AddQuestOutput, error) {
	if input.Quest == nil {
		return nil, errors.InvalidArgument(errQuestNil)
	}

	quest := input.Quest
	if quest.Status == "" {
		quest.Status = dnd5e.QuestStatusAvailable
	}
	if err := validateQuestStatus(quest.Status); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.stamp(&quest.ID, &quest.CreatedAt)
	r.quests[quest.ID] = quest

	return &AddQuestOutput{Quest: quest}, nil
}

func (r *memoryRepository) GetQuest(_ context.Context, input GetQuestInput) (*GetQuestOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	quest, ok := r.quests[input.ID]
	if !ok {
		return nil, errors.NotFoundf("quest with ID %s not found", input.ID)
	}
	return &GetQuestOutput{Quest: quest}, nil
}

func (r *memoryRepository) ListQuests(_ context.Context, _ ListQuestsInput) (*ListQuestsOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return &ListQuestsOutput{Quests: sortedValues(r.quests, func(q *dnd5e.Quest) string { return q.ID })}, nil
}

func (r *memoryRepository) UpdateQuestStatus(
	_ context.Context,
	input UpdateQuestStatusInput,
) (*UpdateQuestStatusOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}
	if err := validateQuestStatus(input.Status); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	quest, ok := r.quests[input.ID]
	if !ok {
		return nil, errors.NotFoundf("quest with ID %s not found", input.ID)
	}
	quest.Status = input.Status

	return &UpdateQuestStatusOutput{Quest: quest}, nil
}

func (r *memoryRepository) AddLocation(_ context.Context, input AddLocationInput) (*AddLocationOutput, error) {
	if input.Location == nil {
		return nil, errors.InvalidArgument(errLocationNil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	location := input.Location
	r.stamp(&location.ID, &location.CreatedAt)
	r.locations[location.ID] = location

	return &AddLocationOutput{Location: location}, nil
}

func (r *memoryRepository) GetLocation(_ context.Context, input GetLocationInput) (*GetLocationOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	location, ok := r.locations[input.ID]
	if !ok {
		return nil, errors.NotFoundf("location with ID %s not found", input.ID)
	}
	return &GetLocationOutput{Location: location}, nil
}

func (r *memoryRepository) FindLocationByName(
	_ context.Context,
	input FindLocationByNameInput,
) (*FindLocationByNameOutput, error) {
	if input.Name == "" {
		return nil, errors.InvalidArgument("name cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	location := findLocationByName(sortedValues(r.locations, func(l *dnd5e.Location) string { return l.ID }), input.Name)
	if location == nil {
		return nil, errors.NotFoundf("location %q not found", input.Name)
	}
	return &FindLocationByNameOutput{Location: location}, nil
}

func (r *memoryRepository) ListLocations(_ context.Context, _ ListLocationsInput) (*ListLocationsOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return &ListLocationsOutput{
		Locations: sortedValues(r.locations, func(l *dnd5e.Location) string { return l.ID }),
	}, nil
}

func (r *memoryRepository) Search(_ context.Context, input SearchInput) (*SearchOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		npcs      []*dnd5e.NPC
		quests    []*dnd5e.Quest
		locations []*dnd5e.Location
	)
	if input.Type == "" || input.Type == ElementTypeNPC {
		npcs = sortedValues(r.npcs, func(n *dnd5e.NPC) string { return n.ID })
	}
	if input.Type == "" || input.Type == ElementTypeQuest {
		quests = sortedValues(r.quests, func(q *dnd5e.Quest) string { return q.ID })
	}
	if input.Type == "" || input.Type == ElementTypeLocation {
		locations = sortedValues(r.locations, func(l *dnd5e.Location) string { return l.ID })
	}

	return searchElements(npcs, quests, locations, input)
}

// sortedValues returns map values ordered by ID so listings are stable
func sortedValues[T any](m map[string]T, id func(T) string) []T {
	values := make([]T, 0, len(m))
	for _, v := range m {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool { return id(values[i]) < id(values[j]) })
	return values
}
