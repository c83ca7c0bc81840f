package gamestore

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/dmforge/dmforge/internal/entities/dnd5e"
	"github.com/dmforge/dmforge/internal/errors"
	"github.com/dmforge/dmforge/internal/pkg/clock"
	"github.com/dmforge/dmforge/internal/pkg/idgen"
	redisclient "github.com/dmforge/dmforge/internal/redis"
)

const (
	npcKeyPrefix      = "element:npc:"
	questKeyPrefix    = "element:quest:"
	locationKeyPrefix = "element:location:"

	npcIndexKey      = "element:npc:index"
	questIndexKey    = "element:quest:index"
	locationIndexKey = "element:location:index"

	// Error messages
	errNPCNil      = "npc cannot be nil"
	errQuestNil    = "quest cannot be nil"
	errLocationNil = "location cannot be nil"
	errIDEmpty     = "id cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
	idGen  idgen.Generator
}

// RedisConfig contains configuration for the Redis game store.
type RedisConfig struct {
	Client      redisclient.Client
	Clock       clock.Clock
	IDGenerator idgen.Generator
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed game store
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	gen := cfg.IDGenerator
	if gen == nil {
		gen = idgen.NewUUID("")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
		idGen:  gen,
	}, nil
}

func (r *redisRepository) stamp(id, createdAt *string) {
	if *id == "" {
		*id = r.idGen.Generate()
	}
	if *createdAt == "" {
		*createdAt = r.clock.Now().Format(time.RFC3339)
	}
}

func (r *redisRepository) store(ctx context.Context, key, indexKey, id string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal element")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0) // campaign data has no TTL
	pipe.SAdd(ctx, indexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "failed to store element")
	}
	return nil
}

func (r *redisRepository) fetch(ctx context.Context, key, elementType string, v interface{}) error {
	result, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return errors.NotFoundf("%s with ID %s not found", elementType, strings.TrimPrefix(key, "element:"+elementType+":"))
		}
		return errors.Wrapf(err, "failed to get %s", elementType)
	}
	if err := json.Unmarshal([]byte(result), v); err != nil {
		return errors.Wrapf(err, "failed to unmarshal %s", elementType)
	}
	return nil
}

func (r *redisRepository) AddNPC(ctx context.Context, input AddNPCInput) (*AddNPCOutput, error) {
	if input.NPC == nil {
		return nil, errors.InvalidArgument(errNPCNil)
	}

	npc := input.NPC
	r.stamp(&npc.ID, &npc.CreatedAt)

	if err := r.store(ctx, npcKeyPrefix+npc.ID, npcIndexKey, npc.ID, npc); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "stored npc",
		"npc_id", npc.ID,
		"name", npc.Name)

	return &AddNPCOutput{NPC: npc}, nil
}

func (r *redisRepository) GetNPC(ctx context.Context, input GetNPCInput) (*GetNPCOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	var npc dnd5e.NPC
	if err := r.fetch(ctx, npcKeyPrefix+input.ID, ElementTypeNPC, &npc); err != nil {
		return nil, err
	}
	return &GetNPCOutput{NPC: &npc}, nil
}

func (r *redisRepository) ListNPCs(ctx context.Context, _ ListNPCsInput) (*ListNPCsOutput, error) {
	ids, err := r.indexMembers(ctx, npcIndexKey)
	if err != nil {
		return nil, err
	}

	npcs := make([]*dnd5e.NPC, 0, len(ids))
	for _, id := range ids {
		output, err := r.GetNPC(ctx, GetNPCInput{ID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "npc not found, cleaning up index",
					"npc_id", id)
				r.client.SRem(ctx, npcIndexKey, id)
				continue
			}
			return nil, errors.Wrapf(err, "failed to get npc %s", id)
		}
		npcs = append(npcs, output.NPC)
	}

	return &ListNPCsOutput{NPCs: npcs}, nil
}

func (r *redisRepository) AddQuest(ctx context.Context, input AddQuestInput) (*AddQuestOutput, error) {
	if input.Quest == nil {
		return nil, errors.InvalidArgument(errQuestNil)
	}

	quest := input.Quest
	r.stamp(&quest.ID, &quest.CreatedAt)
	if quest.Status == "" {
		quest.Status = dnd5e.QuestStatusAvailable
	}
	if err := validateQuestStatus(quest.Status); err != nil {
		return nil, err
	}

	if err := r.store(ctx, questKeyPrefix+quest.ID, questIndexKey, quest.ID, quest); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "stored quest",
		"quest_id", quest.ID,
		"title", quest.Title,
		"status", quest.Status)

	return &AddQuestOutput{Quest: quest}, nil
}

func (r *redisRepository) GetQuest(ctx context.Context, input GetQuestInput) (*GetQuestOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	var quest dnd5e.Quest
	if err := r.fetch(ctx, questKeyPrefix+input.ID, ElementTypeQuest, &quest); err != nil {
		return nil, err
	}
	return &GetQuestOutput{Quest: &quest}, nil
}

func (r *redisRepository) ListQuests(ctx context.Context, _ ListQuestsInput) (*ListQuestsOutput, error) {
	ids, err := r.indexMembers(ctx, questIndexKey)
	if err != nil {
		return nil, err
	}

	quests := make([]*dnd5e.Quest, 0, len(ids))
	for _, id := range ids {
		output, err := r.GetQuest(ctx, GetQuestInput{ID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "quest not found, cleaning up index",
					"quest_id", id)
				r.client.SRem(ctx, questIndexKey, id)
				continue
			}
			return nil, errors.Wrapf(err, "failed to get quest %s", id)
		}
		quests = append(quests, output.Quest)
	}

	return &ListQuestsOutput{Quests: quests}, nil
}

func (r *redisRepository) UpdateQuestStatus(
	ctx context.Context,
	input UpdateQuestStatusInput,
) (*UpdateQuestStatusOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}
	if err := validateQuestStatus(input.Status); err != nil {
		return nil, err
	}

	getOutput, err := r.GetQuest(ctx, GetQuestInput{ID: input.ID})
	if err != nil {
		return nil, err
	}

	quest := getOutput.Quest
	quest.Status = input.Status

	if err := r.store(ctx, questKeyPrefix+quest.ID, questIndexKey, quest.ID, quest); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "updated quest status",
		"quest_id", quest.ID,
		"title", quest.Title,
		"status", quest.Status)

	return &UpdateQuestStatusOutput{Quest: quest}, nil
}

func (r *redisRepository) AddLocation(ctx context.Context, input AddLocationInput) (*AddLocationOutput, error) {
	if input.Location == nil {
		return nil, errors.InvalidArgument(errLocationNil)
	}

	location := input.Location
	r.stamp(&location.ID, &location.CreatedAt)

	if err := r.store(ctx, locationKeyPrefix+location.ID, locationIndexKey, location.ID, location); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "stored location",
		"location_id", location.ID,
		"name", location.Name)

	return &AddLocationOutput{Location: location}, nil
}

func (r *redisRepository) GetLocation(ctx context.Context, input GetLocationInput) (*GetLocationOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	var location dnd5e.Location
	if err := r.fetch(ctx, locationKeyPrefix+input.ID, ElementTypeLocation, &location); err != nil {
		return nil, err
	}
	return &GetLocationOutput{Location: &location}, nil
}

func (r *redisRepository) FindLocationByName(
	ctx context.Context,
	input FindLocationByNameInput,
) (*FindLocationByNameOutput, error) {
	if input.Name == "" {
		return nil, errors.InvalidArgument("name cannot be empty")
	}

	listOutput, err := r.ListLocations(ctx, ListLocationsInput{})
	if err != nil {
		return nil, err
	}

	location := findLocationByName(listOutput.Locations, input.Name)
	if location == nil {
		return nil, errors.NotFoundf("location %q not found", input.Name)
	}
	return &FindLocationByNameOutput{Location: location}, nil
}

func (r *redisRepository) ListLocations(ctx context.Context, _ ListLocationsInput) (*ListLocationsOutput, error) {
	ids, err := r.indexMembers(ctx, locationIndexKey)
	if err != nil {
		return nil, err
	}

	locations := make([]*dnd5e.Location, 0, len(ids))
	for _, id := range ids {
		output, err := r.GetLocation(ctx, GetLocationInput{ID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "location not found, cleaning up index",
					"location_id", id)
				r.client.SRem(ctx, locationIndexKey, id)
				continue
			}
			return nil, errors.Wrapf(err, "failed to get location %s", id)
		}
		locations = append(locations, output.Location)
	}

	return &ListLocationsOutput{Locations: locations}, nil
}

func (r *redisRepository) Search(ctx context.Context, input SearchInput) (*SearchOutput, error) {
	npcs, quests, locations, err := r.searchCorpus(ctx, input.Type)
	if err != nil {
		return nil, err
	}
	return searchElements(npcs, quests, locations, input)
}

// searchCorpus gathers the element lists the search will scan, honoring the
// type filter so untargeted element types are never fetched
func (r *redisRepository) searchCorpus(
	ctx context.Context,
	elementType string,
) ([]*dnd5e.NPC, []*dnd5e.Quest, []*dnd5e.Location, error) {
	var (
		npcs      []*dnd5e.NPC
		quests    []*dnd5e.Quest
		locations []*dnd5e.Location
	)

	if elementType == "" || elementType == ElementTypeNPC {
		output, err := r.ListNPCs(ctx, ListNPCsInput{})
		if err != nil {
			return nil, nil, nil, err
		}
		npcs = output.NPCs
	}
	if elementType == "" || elementType == ElementTypeQuest {
		output, err := r.ListQuests(ctx, ListQuestsInput{})
		if err != nil {
			return nil, nil, nil, err
		}
		quests = output.Quests
	}
	if elementType == "" || elementType == ElementTypeLocation {
		output, err := r.ListLocations(ctx, ListLocationsInput{})
		if err != nil {
			return nil, nil, nil, err
		}
		locations = output.Locations
	}

	return npcs, quests, locations, nil
}

func (r *redisRepository) indexMembers(ctx context.Context, indexKey string) ([]string, error) {
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read index %s", indexKey)
	}
	// SMembers order is undefined; keep listings stable
	sort.Strings(ids)
	return ids, nil
}

func validateQuestStatus(status string) error {
	switch status {
	case dnd5e.QuestStatusAvailable, dnd5e.QuestStatusActive,
		dnd5e.QuestStatusCompleted, dnd5e.QuestStatusFailed:
		return nil
	}
	return errors.InvalidArgumentf("unknown quest status %q", status)
}

func findLocationByName(locations []*dnd5e.Location, name string) *dnd5e.Location {
	for _, location := range locations {
		if strings.EqualFold(location.Name, name) {
			return location
		}
	}
	return nil
}

// minKeywordLength filters out connective words when a whole situation
// sentence is used as the query
const minKeywordLength = 4

// queryKeywords breaks a query into matchable keywords. Short words are
// dropped so that a full sentence doesn't match on "the" and "at"; a query
// with no long words is matched whole.
func queryKeywords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	keywords := make([]string, 0, len(fields))
	for _, field := range fields {
		field = strings.Trim(field, ".,!?:;\"'()")
		if len(field) >= minKeywordLength {
			keywords = append(keywords, field)
		}
	}
	if len(keywords) == 0 {
		return []string{strings.TrimSpace(strings.ToLower(query))}
	}
	return keywords
}

func matchesKeywords(searchText string, keywords []string) bool {
	text := strings.ToLower(searchText)
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// searchElements performs the shared keyword match over gathered elements.
// Matching is case-insensitive against each element's search text.
func searchElements(
	npcs []*dnd5e.NPC,
	quests []*dnd5e.Quest,
	locations []*dnd5e.Location,
	input SearchInput,
) (*SearchOutput, error) {
	if input.Query == "" {
		return nil, errors.InvalidArgument("query cannot be empty")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	keywords := queryKeywords(input.Query)
	results := make([]*SearchResult, 0, limit)

	for _, npc := range npcs {
		if len(results) >= limit {
			break
		}
		if matchesKeywords(npc.SearchText(), keywords) {
			results = append(results, &SearchResult{Type: ElementTypeNPC, NPC: npc})
		}
	}
	for _, quest := range quests {
		if len(results) >= limit {
			break
		}
		if matchesKeywords(quest.SearchText(), keywords) {
			results = append(results, &SearchResult{Type: ElementTypeQuest, Quest: quest})
		}
	}
	for _, location := range locations {
		if len(results) >= limit {
			break
		}
		if matchesKeywords(location.SearchText(), keywords) {
			results = append(results, &SearchResult{Type: ElementTypeLocation, Location: location})
		}
	}

	return &SearchOutput{Results: results}, nil
}
