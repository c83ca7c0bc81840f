package playerdata

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dmforge/dmforge/internal/entities/dnd5e"
	"github.com/dmforge/dmforge/internal/errors"
	"github.com/dmforge/dmforge/internal/pkg/clock"
	"github.com/dmforge/dmforge/internal/pkg/idgen"
)

const (
	characterFileExt = ".json"
	filePerm         = 0o644
	dirPerm          = 0o755
)

type fileRepository struct {
	dir   string
	clock clock.Clock
	idGen idgen.Generator
}

// FileConfig contains configuration for the file-backed player data
// repository.
type FileConfig struct {
	// Dir is the player data directory; created if it doesn't exist
	Dir         string
	Clock       clock.Clock
	IDGenerator idgen.Generator
}

// Validate validates the FileConfig.
func (cfg *FileConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Dir == "" {
		return errors.InvalidArgument("data directory cannot be empty")
	}
	return nil
}

// NewFile creates a new file-backed player data repository
func NewFile(cfg *FileConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	g := cfg.IDGenerator
	if g == nil {
		g = idgen.NewUUID("")
	}

	if err := os.MkdirAll(cfg.Dir, dirPerm); err != nil {
		return nil, errors.Wrapf(err, "failed to create data directory %s", cfg.Dir)
	}

	return &fileRepository{
		dir:   cfg.Dir,
		clock: c,
		idGen: g,
	}, nil
}

func (r *fileRepository) LoadCharacter(ctx context.Context, input LoadCharacterInput) (*LoadCharacterOutput, error) {
	if input.Filename == "" {
		return nil, errors.InvalidArgument("character filename cannot be empty")
	}

	data, err := os.ReadFile(filepath.Join(r.dir, input.Filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("character file not found: %s", input.Filename).
				WithMeta("file", input.Filename)
		}
		return nil, errors.Wrapf(err, "failed to read character file %s", input.Filename)
	}

	var char dnd5e.Character
	if err := json.Unmarshal(data, &char); err != nil {
		return nil, parseError(err, input.Filename)
	}

	present, err := presentCharacterFields(data)
	if err != nil {
		return nil, parseError(err, input.Filename)
	}

	r.fillCharacterDefaults(&char, present)

	if err := validateCharacter(&char, input.Filename); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "loaded character",
		"file", input.Filename,
		"name", char.Name,
		"level", char.Level)

	return &LoadCharacterOutput{Character: &char}, nil
}

func (r *fileRepository) SaveCharacter(ctx context.Context, input SaveCharacterInput) (*SaveCharacterOutput, error) {
	if input.Character == nil {
		return nil, errors.InvalidArgument("character cannot be nil")
	}
	if input.Character.Name == "" {
		return nil, errors.InvalidArgument("character name cannot be empty")
	}

	filename := input.Filename
	if filename == "" {
		filename = CharacterFilename(input.Character.Name)
	}

	data, err := json.MarshalIndent(input.Character, "", "  ")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character %s", input.Character.Name)
	}

	if err := os.WriteFile(filepath.Join(r.dir, filename), data, filePerm); err != nil {
		return nil, errors.Wrapf(err, "failed to write character file %s", filename)
	}

	slog.DebugContext(ctx, "saved character",
		"file", filename,
		"name", input.Character.Name)

	return &SaveCharacterOutput{Filename: filename}, nil
}

func (r *fileRepository) LoadParty(ctx context.Context, input LoadPartyInput) (*LoadPartyOutput, error) {
	filename := input.Filename
	if filename == "" {
		filename = DefaultPartyFilename
	}

	data, err := os.ReadFile(filepath.Join(r.dir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("party file not found: %s", filename).
				WithMeta("file", filename)
		}
		return nil, errors.Wrapf(err, "failed to read party file %s", filename)
	}

	var party dnd5e.Party
	if err := json.Unmarshal(data, &party); err != nil {
		return nil, parseError(err, filename)
	}

	r.fillPartyDefaults(&party)

	if party.Name == "" {
		return nil, errors.InvalidArgumentf("party file %s has no name", filename).
			WithMeta("file", filename)
	}

	// Every member reference must resolve. A dangling entry aborts the
	// load so the user can fix the party file by hand.
	party.Members = make([]*dnd5e.Character, 0, len(party.MemberFiles))
	for _, memberFile := range party.MemberFiles {
		memberOutput, err := r.LoadCharacter(ctx, LoadCharacterInput{Filename: memberFile})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve party member %s", memberFile)
		}
		party.Members = append(party.Members, memberOutput.Character)
	}

	slog.DebugContext(ctx, "loaded party",
		"file", filename,
		"name", party.Name,
		"members", len(party.Members))

	return &LoadPartyOutput{Party: &party}, nil
}

func (r *fileRepository) SaveParty(ctx context.Context, input SavePartyInput) (*SavePartyOutput, error) {
	if input.Party == nil {
		return nil, errors.InvalidArgument("party cannot be nil")
	}
	if input.Party.Name == "" {
		return nil, errors.InvalidArgument("party name cannot be empty")
	}

	filename := input.Filename
	if filename == "" {
		filename = DefaultPartyFilename
	}

	// Member files are written first so the references the party file ends
	// up holding always resolve.
	memberFiles := make([]string, 0, len(input.Party.Members))
	for _, member := range input.Party.Members {
		saved, err := r.SaveCharacter(ctx, SaveCharacterInput{Character: member})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to save party member %s", member.Name)
		}
		memberFiles = append(memberFiles, saved.Filename)
	}

	// The regenerated references go into the serialized copy only; the
	// caller's party is left untouched
	party := *input.Party
	party.MemberFiles = memberFiles

	data, err := json.MarshalIndent(&party, "", "  ")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal party %s", input.Party.Name)
	}

	if err := os.WriteFile(filepath.Join(r.dir, filename), data, filePerm); err != nil {
		return nil, errors.Wrapf(err, "failed to write party file %s", filename)
	}

	slog.DebugContext(ctx, "saved party",
		"file", filename,
		"name", input.Party.Name,
		"members", len(memberFiles))

	return &SavePartyOutput{Filename: filename, MemberFiles: memberFiles}, nil
}

func (r *fileRepository) ListCharacters(ctx context.Context, input ListCharactersInput) (*ListCharactersOutput, error) {
	partyFilename := input.PartyFilename
	if partyFilename == "" {
		partyFilename = DefaultPartyFilename
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return &ListCharactersOutput{Filenames: []string{}}, nil
		}
		return nil, errors.Wrapf(err, "failed to read data directory %s", r.dir)
	}

	filenames := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, characterFileExt) || name == partyFilename {
			continue
		}
		filenames = append(filenames, name)
	}
	sort.Strings(filenames)

	return &ListCharactersOutput{Filenames: filenames}, nil
}

func (r *fileRepository) CharacterExists(ctx context.Context, input CharacterExistsInput) (*CharacterExistsOutput, error) {
	if input.Filename == "" {
		return nil, errors.InvalidArgument("character filename cannot be empty")
	}

	_, err := os.Stat(filepath.Join(r.dir, input.Filename))
	if err != nil {
		if os.IsNotExist(err) {
			return &CharacterExistsOutput{Exists: false}, nil
		}
		return nil, errors.Wrapf(err, "failed to stat character file %s", input.Filename)
	}
	return &CharacterExistsOutput{Exists: true}, nil
}

func (r *fileRepository) PartyExists(ctx context.Context, input PartyExistsInput) (*PartyExistsOutput, error) {
	filename := input.Filename
	if filename == "" {
		filename = DefaultPartyFilename
	}

	_, err := os.Stat(filepath.Join(r.dir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return &PartyExistsOutput{Exists: false}, nil
		}
		return nil, errors.Wrapf(err, "failed to stat party file %s", filename)
	}
	return &PartyExistsOutput{Exists: true}, nil
}

func (r *fileRepository) DeleteCharacter(ctx context.Context, input DeleteCharacterInput) (*DeleteCharacterOutput, error) {
	if input.Filename == "" {
		return nil, errors.InvalidArgument("character filename cannot be empty")
	}

	err := os.Remove(filepath.Join(r.dir, input.Filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("character file not found: %s", input.Filename)
		}
		return nil, errors.Wrapf(err, "failed to delete character file %s", input.Filename)
	}

	return &DeleteCharacterOutput{}, nil
}

func (r *fileRepository) CreateExampleCharacter(ctx context.Context, input CreateExampleCharacterInput) (*CreateExampleCharacterOutput, error) {
	name := input.Name
	if name == "" {
		name = "example_character"
	}

	char := &dnd5e.Character{
		ID:         r.idGen.Generate(),
		Name:       "Thorin Ironforge",
		Class:      "Fighter",
		Level:      3,
		Race:       "Dwarf",
		Background: "Soldier",
		Alignment:  "Lawful Good",
		Stats: dnd5e.AbilityScores{
			Strength:     16,
			Dexterity:    12,
			Constitution: 15,
			Intelligence: 10,
			Wisdom:       14,
			Charisma:     8,
		},
		Skills: []string{"Athletics", "Intimidation", "Perception", "Survival"},
		Equipment: []string{
			"Chain Mail",
			"Shield",
			"Warhammer",
			"Handaxe (2)",
			"Explorers Pack",
			"Military Rank Insignia",
		},
		Backstory: "A veteran soldier who served in the King's Guard for over a decade.",
		PersonalityTraits: []string{
			"I face problems head-on with direct, simple solutions",
			"I enjoy being strong and like breaking things",
		},
		Ideals:     "Responsibility. I do what I must and obey just authority.",
		Bonds:      "My honor is my life. I would rather die than compromise my principles.",
		Flaws:      "I have little respect for anyone who is not a proven warrior.",
		HitPoints:  29,
		ArmorClass: 18,
		CreatedAt:  r.timestamp(),
	}

	filename := name + characterFileExt
	if _, err := r.SaveCharacter(ctx, SaveCharacterInput{Character: char, Filename: filename}); err != nil {
		return nil, err
	}

	return &CreateExampleCharacterOutput{Filename: filename, Character: char}, nil
}

// presentFields records which keys the source document actually carried,
// so a default never overwrites an explicitly written zero or empty value
type presentFields struct {
	keys  map[string]bool
	stats map[string]bool
}

func presentCharacterFields(data []byte) (presentFields, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return presentFields{}, err
	}

	present := presentFields{
		keys:  make(map[string]bool, len(raw)),
		stats: make(map[string]bool),
	}
	for key := range raw {
		present.keys[key] = true
	}

	if statsRaw, ok := raw["stats"]; ok {
		var stats map[string]json.RawMessage
		if err := json.Unmarshal(statsRaw, &stats); err != nil {
			return presentFields{}, err
		}
		for key := range stats {
			present.stats[key] = true
		}
	}

	return present, nil
}

// fillCharacterDefaults substitutes documented defaults for fields absent
// from the source document. Explicit values, zero included, stay as written.
// Runs once at load time; the file on disk is never rewritten.
func (r *fileRepository) fillCharacterDefaults(char *dnd5e.Character, present presentFields) {
	if char.ID == "" {
		char.ID = r.idGen.Generate()
	}
	if char.CreatedAt == "" {
		char.CreatedAt = r.timestamp()
	}
	if !present.keys["level"] {
		char.Level = DefaultLevel
	}
	if !present.keys["hit_points"] {
		char.HitPoints = DefaultHitPoints
	}
	if !present.keys["armor_class"] {
		char.ArmorClass = DefaultArmorClass
	}
	if !present.keys["alignment"] {
		char.Alignment = DefaultAlignment
	}

	fillStat(&char.Stats.Strength, present.stats["STR"])
	fillStat(&char.Stats.Dexterity, present.stats["DEX"])
	fillStat(&char.Stats.Constitution, present.stats["CON"])
	fillStat(&char.Stats.Intelligence, present.stats["INT"])
	fillStat(&char.Stats.Wisdom, present.stats["WIS"])
	fillStat(&char.Stats.Charisma, present.stats["CHA"])

	if char.Skills == nil {
		char.Skills = []string{}
	}
	if char.Equipment == nil {
		char.Equipment = []string{}
	}
	if char.PersonalityTraits == nil {
		char.PersonalityTraits = []string{}
	}
}

func (r *fileRepository) fillPartyDefaults(party *dnd5e.Party) {
	if party.CreatedAt == "" {
		party.CreatedAt = r.timestamp()
	}
	if party.MemberFiles == nil {
		party.MemberFiles = []string{}
	}
	if party.SharedEquipment == nil {
		party.SharedEquipment = []string{}
	}
	if party.Reputation == nil {
		party.Reputation = map[string]string{}
	}
	if party.ActiveQuests == nil {
		party.ActiveQuests = []string{}
	}
	if party.CompletedQuests == nil {
		party.CompletedQuests = []string{}
	}
}

func (r *fileRepository) timestamp() string {
	return r.clock.Now().Format(time.RFC3339)
}

func fillStat(score *int32, present bool) {
	if !present {
		*score = DefaultStat
	}
}

func validateCharacter(char *dnd5e.Character, filename string) error {
	vb := errors.NewValidationBuilder()
	if char.Name == "" {
		vb.RequiredField("name")
	}
	if char.Level < 1 {
		vb.Fieldf("level", "must be at least 1, got %d", char.Level)
	}
	if err := vb.Build(); err != nil {
		return errors.Wrapf(err, "invalid character data in %s", filename)
	}
	return nil
}

// parseError converts a JSON decoding error into an InvalidArgument error
// naming the offending file and, when known, the byte offset.
func parseError(err error, filename string) error {
	if syntaxErr, ok := err.(*json.SyntaxError); ok {
		return errors.WrapWithCodef(err, errors.CodeInvalidArgument,
			"invalid JSON in file %s at offset %d", filename, syntaxErr.Offset).
			WithMeta("file", filename).
			WithMeta("offset", syntaxErr.Offset)
	}
	if typeErr, ok := err.(*json.UnmarshalTypeError); ok {
		return errors.WrapWithCodef(err, errors.CodeInvalidArgument,
			"invalid value for field %q in file %s", typeErr.Field, filename).
			WithMeta("file", filename)
	}
	return errors.WrapWithCodef(err, errors.CodeInvalidArgument,
		"invalid JSON in file %s", filename).
		WithMeta("file", filename)
}

// CharacterFilename derives the on-disk filename for a character name,
// e.g. "Thorin Ironforge" -> "thorin_ironforge.json".
func CharacterFilename(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_") + characterFileExt
}
