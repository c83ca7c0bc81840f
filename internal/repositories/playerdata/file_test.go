package playerdata_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/dmforge/dmforge/internal/entities/dnd5e"
	"github.com/dmforge/dmforge/internal/errors"
	"github.com/dmforge/dmforge/internal/pkg/clock"
	"github.com/dmforge/dmforge/internal/pkg/idgen"
	"github.com/dmforge/dmforge/internal/repositories/playerdata"
)

var testTime = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

const thorinJSON = `{
  "id": "char-thorin",
  "name": "Thorin Ironforge",
  "character_class": "Fighter",
  "level": 3,
  "race": "Dwarf",
  "background": "Soldier",
  "alignment": "Lawful Good",
  "stats": {
    "STR": 16,
    "DEX": 12,
    "CON": 15,
    "INT": 10,
    "WIS": 14,
    "CHA": 8
  },
  "skills": ["Athletics", "Intimidation", "Perception", "Survival"],
  "equipment": ["Chain Mail", "Shield", "Warhammer"],
  "backstory": "A veteran soldier.",
  "personality_traits": ["I face problems head-on"],
  "ideals": "Responsibility.",
  "bonds": "My honor is my life.",
  "flaws": "Little respect for non-warriors.",
  "hit_points": 29,
  "armor_class": 18,
  "created_at": "2024-01-01T00:00:00Z"
}`

type FileRepositoryTestSuite struct {
	suite.Suite
	dir  string
	repo playerdata.Repository
	ctx  context.Context
}

func TestFileRepositorySuite(t *testing.T) {
	suite.Run(t, new(FileRepositoryTestSuite))
}

func (s *FileRepositoryTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
	repo, err := playerdata.NewFile(&playerdata.FileConfig{
		Dir:         s.dir,
		Clock:       clock.NewFixed(testTime),
		IDGenerator: idgen.NewSequential("char"),
	})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *FileRepositoryTestSuite) writeFile(name, content string) {
	s.Require().NoError(os.WriteFile(filepath.Join(s.dir, name), []byte(content), 0o644))
}

func (s *FileRepositoryTestSuite) TestConfigValidation() {
	_, err := playerdata.NewFile(nil)
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = playerdata.NewFile(&playerdata.FileConfig{})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *FileRepositoryTestSuite) TestLoadCharacterFullFile() {
	s.writeFile("thorin_ironforge.json", thorinJSON)

	output, err := s.repo.LoadCharacter(s.ctx, playerdata.LoadCharacterInput{Filename: "thorin_ironforge.json"})
	s.Require().NoError(err)

	char := output.Character
	s.Assert().Equal("char-thorin", char.ID)
	s.Assert().Equal("Thorin Ironforge", char.Name)
	s.Assert().Equal(int32(3), char.Level)
	s.Assert().Equal(int32(29), char.HitPoints)
	s.Assert().Equal(int32(18), char.ArmorClass)
	s.Assert().Equal(int32(16), char.Stats.Strength)
	s.Assert().Equal(int32(12), char.Stats.Dexterity)
	s.Assert().Equal(int32(15), char.Stats.Constitution)
	s.Assert().Equal(int32(10), char.Stats.Intelligence)
	s.Assert().Equal(int32(14), char.Stats.Wisdom)
	s.Assert().Equal(int32(8), char.Stats.Charisma)
	// Every field was present, so nothing got defaulted
	s.Assert().Equal("2024-01-01T00:00:00Z", char.CreatedAt)
	s.Assert().Equal("Lawful Good", char.Alignment)
	s.Assert().Nil(char.Extra)
}

func (s *FileRepositoryTestSuite) TestLoadCharacterMinimalFileGetsDefaults() {
	s.writeFile("simple_character.json", `{"name": "Wren", "character_class": "Druid", "race": "Human"}`)

	output, err := s.repo.LoadCharacter(s.ctx, playerdata.LoadCharacterInput{Filename: "simple_character.json"})
	s.Require().NoError(err)

	char := output.Character
	s.Assert().Equal("Wren", char.Name)
	s.Assert().Equal("Druid", char.Class)

	// Generated once at load time, never written back
	s.Assert().Equal("char_1", char.ID)
	s.Assert().Equal(testTime.Format(time.RFC3339), char.CreatedAt)

	s.Assert().Equal(int32(playerdata.DefaultLevel), char.Level)
	s.Assert().Equal(int32(playerdata.DefaultHitPoints), char.HitPoints)
	s.Assert().Equal(int32(playerdata.DefaultArmorClass), char.ArmorClass)
	s.Assert().Equal(playerdata.DefaultAlignment, char.Alignment)
	for _, stat := range dnd5e.StatNames {
		s.Assert().Equal(int32(playerdata.DefaultStat), char.Stats.Score(stat), stat)
	}
	s.Assert().Empty(char.Skills)
	s.Assert().NotNil(char.Skills)
	s.Assert().NotNil(char.Equipment)
	s.Assert().NotNil(char.PersonalityTraits)
	s.Assert().Empty(char.Backstory)

	// The file on disk keeps its minimal shape
	raw, readErr := os.ReadFile(filepath.Join(s.dir, "simple_character.json"))
	s.Require().NoError(readErr)
	s.Assert().NotContains(string(raw), "char_1")
}

func (s *FileRepositoryTestSuite) TestLoadCharacterKeepsExplicitZeroValues() {
	s.writeFile("downed.json", `{
		"name": "Downed Hero",
		"character_class": "Fighter",
		"level": 2,
		"hit_points": 0,
		"armor_class": 0,
		"alignment": "",
		"stats": {"STR": 0, "DEX": 12}
	}`)

	output, err := s.repo.LoadCharacter(s.ctx, playerdata.LoadCharacterInput{Filename: "downed.json"})
	s.Require().NoError(err)

	// Explicitly written zeros and empty strings stay as written
	char := output.Character
	s.Assert().Equal(int32(0), char.HitPoints)
	s.Assert().Equal(int32(0), char.ArmorClass)
	s.Assert().Equal("", char.Alignment)
	s.Assert().Equal(int32(0), char.Stats.Strength)
	s.Assert().Equal(int32(12), char.Stats.Dexterity)

	// Absent fields still get the documented defaults
	s.Assert().Equal(int32(playerdata.DefaultStat), char.Stats.Wisdom)
	s.Assert().Equal(int32(2), char.Level)
}

func (s *FileRepositoryTestSuite) TestLoadCharacterPartialStats() {
	s.writeFile("half.json", `{"name": "Half", "stats": {"STR": 14, "DEX": 9}}`)

	output, err := s.repo.LoadCharacter(s.ctx, playerdata.LoadCharacterInput{Filename: "half.json"})
	s.Require().NoError(err)

	s.Assert().Equal(int32(14), output.Character.Stats.Strength)
	s.Assert().Equal(int32(9), output.Character.Stats.Dexterity)
	s.Assert().Equal(int32(playerdata.DefaultStat), output.Character.Stats.Wisdom)
}

func (s *FileRepositoryTestSuite) TestLoadCharacterMissingFile() {
	output, err := s.repo.LoadCharacter(s.ctx, playerdata.LoadCharacterInput{Filename: "ghost.json"})

	s.Assert().Nil(output)
	s.Require().Error(err)
	s.Assert().True(errors.IsNotFound(err))
	s.Assert().Contains(err.Error(), "ghost.json")
}

func (s *FileRepositoryTestSuite) TestLoadCharacterMalformedJSON() {
	s.writeFile("broken.json", `{"name": "Broken",`)

	output, err := s.repo.LoadCharacter(s.ctx, playerdata.LoadCharacterInput{Filename: "broken.json"})

	s.Assert().Nil(output)
	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))
	s.Assert().Contains(err.Error(), "broken.json")
	s.Assert().Contains(err.Error(), "offset")
}

func (s *FileRepositoryTestSuite) TestLoadCharacterWrongFieldType() {
	s.writeFile("typed.json", `{"name": "Typed", "level": "three"}`)

	_, err := s.repo.LoadCharacter(s.ctx, playerdata.LoadCharacterInput{Filename: "typed.json"})

	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))
	s.Assert().Contains(err.Error(), "typed.json")
}

func (s *FileRepositoryTestSuite) TestLoadCharacterMissingName() {
	s.writeFile("anon.json", `{"character_class": "Monk"}`)

	_, err := s.repo.LoadCharacter(s.ctx, playerdata.LoadCharacterInput{Filename: "anon.json"})

	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))
	s.Assert().Contains(err.Error(), "anon.json")
	s.Assert().Contains(err.Error(), "name")
}

func (s *FileRepositoryTestSuite) TestRoundTripPreservesCustomAttributes() {
	s.writeFile("custom.json", `{
		"name": "Zara",
		"character_class": "Bard",
		"level": 4,
		"favorite_color": "purple",
		"homebrew": {"patron": "The Laughing Moon"}
	}`)

	loaded, err := s.repo.LoadCharacter(s.ctx, playerdata.LoadCharacterInput{Filename: "custom.json"})
	s.Require().NoError(err)

	saved, err := s.repo.SaveCharacter(s.ctx, playerdata.SaveCharacterInput{
		Character: loaded.Character,
		Filename:  "custom.json",
	})
	s.Require().NoError(err)
	s.Assert().Equal("custom.json", saved.Filename)

	raw, err := os.ReadFile(filepath.Join(s.dir, "custom.json"))
	s.Require().NoError(err)

	var reparsed map[string]json.RawMessage
	s.Require().NoError(json.Unmarshal(raw, &reparsed))
	s.Assert().JSONEq(`"purple"`, string(reparsed["favorite_color"]))
	s.Assert().JSONEq(`{"patron": "The Laughing Moon"}`, string(reparsed["homebrew"]))

	// And the reloaded copy still carries them, modulo formatting
	reloaded, err := s.repo.LoadCharacter(s.ctx, playerdata.LoadCharacterInput{Filename: "custom.json"})
	s.Require().NoError(err)
	s.Require().Len(reloaded.Character.Extra, 2)
	s.Assert().JSONEq(string(loaded.Character.Extra["favorite_color"]), string(reloaded.Character.Extra["favorite_color"]))
	s.Assert().JSONEq(string(loaded.Character.Extra["homebrew"]), string(reloaded.Character.Extra["homebrew"]))
}

func (s *FileRepositoryTestSuite) TestSaveCharacterDerivesFilename() {
	char := &dnd5e.Character{Name: "Pip Lightfingers", Class: "Rogue"}

	saved, err := s.repo.SaveCharacter(s.ctx, playerdata.SaveCharacterInput{Character: char})
	s.Require().NoError(err)
	s.Assert().Equal("pip_lightfingers.json", saved.Filename)

	exists, err := s.repo.CharacterExists(s.ctx, playerdata.CharacterExistsInput{Filename: "pip_lightfingers.json"})
	s.Require().NoError(err)
	s.Assert().True(exists.Exists)
}

func (s *FileRepositoryTestSuite) writeParty(memberFiles []string) {
	party := map[string]interface{}{
		"name":         "The Brave Companions",
		"member_files": memberFiles,
		"party_funds":  150,
	}
	data, err := json.Marshal(party)
	s.Require().NoError(err)
	s.writeFile("party.json", string(data))
}

func (s *FileRepositoryTestSuite) TestLoadPartyResolvesMembers() {
	s.writeFile("thorin_ironforge.json", thorinJSON)
	s.writeFile("wren.json", `{"name": "Wren"}`)
	s.writeParty([]string{"thorin_ironforge.json", "wren.json"})

	output, err := s.repo.LoadParty(s.ctx, playerdata.LoadPartyInput{})
	s.Require().NoError(err)

	party := output.Party
	s.Assert().Equal("The Brave Companions", party.Name)
	s.Assert().Equal(150, party.PartyFunds)
	s.Require().Len(party.Members, 2)
	s.Assert().Equal("Thorin Ironforge", party.Members[0].Name)
	s.Assert().Equal("Wren", party.Members[1].Name)

	// Defaults for absent party fields
	s.Assert().NotNil(party.Reputation)
	s.Assert().NotNil(party.ActiveQuests)
	s.Assert().Equal(testTime.Format(time.RFC3339), party.CreatedAt)
}

func (s *FileRepositoryTestSuite) TestLoadPartyMissingMemberIsHardFailure() {
	s.writeFile("thorin_ironforge.json", thorinJSON)
	s.writeFile("wren.json", `{"name": "Wren"}`)
	s.writeFile("pip.json", `{"name": "Pip"}`)
	s.writeParty([]string{"thorin_ironforge.json", "wren.json", "pip.json", "ghost.json"})

	output, err := s.repo.LoadParty(s.ctx, playerdata.LoadPartyInput{})

	s.Assert().Nil(output)
	s.Require().Error(err)
	s.Assert().True(errors.IsNotFound(err))
	s.Assert().Contains(err.Error(), "ghost.json")
}

func (s *FileRepositoryTestSuite) TestLoadPartyMissingFile() {
	_, err := s.repo.LoadParty(s.ctx, playerdata.LoadPartyInput{})

	s.Require().Error(err)
	s.Assert().True(errors.IsNotFound(err))
	s.Assert().Contains(err.Error(), "party.json")
}

func (s *FileRepositoryTestSuite) TestLoadPartyMalformedJSON() {
	s.writeFile("party.json", `{"name": }`)

	_, err := s.repo.LoadParty(s.ctx, playerdata.LoadPartyInput{})

	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))
	s.Assert().Contains(err.Error(), "party.json")
}

func (s *FileRepositoryTestSuite) TestSavePartyWritesMembersFirst() {
	party := &dnd5e.Party{
		Name:       "Duo",
		PartyFunds: 30,
		Members: []*dnd5e.Character{
			{Name: "Thorin Ironforge", Class: "Fighter"},
			{Name: "Wren", Class: "Druid"},
		},
	}

	saved, err := s.repo.SaveParty(s.ctx, playerdata.SavePartyInput{Party: party})
	s.Require().NoError(err)
	s.Assert().Equal([]string{"thorin_ironforge.json", "wren.json"}, saved.MemberFiles)

	// The party file references members, never embeds them
	raw, err := os.ReadFile(filepath.Join(s.dir, "party.json"))
	s.Require().NoError(err)
	var reparsed map[string]json.RawMessage
	s.Require().NoError(json.Unmarshal(raw, &reparsed))
	s.Assert().NotContains(reparsed, "members")
	s.Assert().JSONEq(`["thorin_ironforge.json", "wren.json"]`, string(reparsed["member_files"]))

	// And reloading resolves them
	reloaded, err := s.repo.LoadParty(s.ctx, playerdata.LoadPartyInput{})
	s.Require().NoError(err)
	s.Assert().Len(reloaded.Party.Members, 2)
}

func (s *FileRepositoryTestSuite) TestSavePartyLeavesInputUntouched() {
	party := &dnd5e.Party{
		Name:        "Duo",
		MemberFiles: []string{"stale.json"},
		Members: []*dnd5e.Character{
			{Name: "Wren", Class: "Druid"},
		},
	}

	saved, err := s.repo.SaveParty(s.ctx, playerdata.SavePartyInput{Party: party})
	s.Require().NoError(err)

	// The regenerated list comes back in the output; the caller's party
	// keeps whatever it held before the save
	s.Assert().Equal([]string{"wren.json"}, saved.MemberFiles)
	s.Assert().Equal([]string{"stale.json"}, party.MemberFiles)
}

func (s *FileRepositoryTestSuite) TestPartyRoundTripPreservesCustomAttributes() {
	s.writeFile("wren.json", `{"name": "Wren"}`)
	s.writeFile("party.json", `{
		"name": "Duo",
		"member_files": ["wren.json"],
		"campaign_arc": "The Riverside Mysteries"
	}`)

	loaded, err := s.repo.LoadParty(s.ctx, playerdata.LoadPartyInput{})
	s.Require().NoError(err)
	s.Require().Len(loaded.Party.Extra, 1)

	_, err = s.repo.SaveParty(s.ctx, playerdata.SavePartyInput{Party: loaded.Party})
	s.Require().NoError(err)

	raw, err := os.ReadFile(filepath.Join(s.dir, "party.json"))
	s.Require().NoError(err)
	var reparsed map[string]json.RawMessage
	s.Require().NoError(json.Unmarshal(raw, &reparsed))
	s.Assert().JSONEq(`"The Riverside Mysteries"`, string(reparsed["campaign_arc"]))
}

func (s *FileRepositoryTestSuite) TestListCharactersExcludesPartyFile() {
	s.writeFile("thorin_ironforge.json", thorinJSON)
	s.writeFile("wren.json", `{"name": "Wren"}`)
	s.writeFile("party.json", `{"name": "Duo"}`)
	s.writeFile("notes.txt", "scribbles")

	output, err := s.repo.ListCharacters(s.ctx, playerdata.ListCharactersInput{})
	s.Require().NoError(err)
	s.Assert().Equal([]string{"thorin_ironforge.json", "wren.json"}, output.Filenames)
}

func (s *FileRepositoryTestSuite) TestDeleteCharacter() {
	s.writeFile("wren.json", `{"name": "Wren"}`)

	_, err := s.repo.DeleteCharacter(s.ctx, playerdata.DeleteCharacterInput{Filename: "wren.json"})
	s.Require().NoError(err)

	exists, err := s.repo.CharacterExists(s.ctx, playerdata.CharacterExistsInput{Filename: "wren.json"})
	s.Require().NoError(err)
	s.Assert().False(exists.Exists)

	_, err = s.repo.DeleteCharacter(s.ctx, playerdata.DeleteCharacterInput{Filename: "wren.json"})
	s.Assert().True(errors.IsNotFound(err))
}

func (s *FileRepositoryTestSuite) TestCreateExampleCharacter() {
	output, err := s.repo.CreateExampleCharacter(s.ctx, playerdata.CreateExampleCharacterInput{})
	s.Require().NoError(err)
	s.Assert().Equal("example_character.json", output.Filename)

	loaded, err := s.repo.LoadCharacter(s.ctx, playerdata.LoadCharacterInput{Filename: "example_character.json"})
	s.Require().NoError(err)

	char := loaded.Character
	s.Assert().Equal("Thorin Ironforge", char.Name)
	s.Assert().Equal(int32(3), char.Level)
	s.Assert().Equal(int32(29), char.HitPoints)
	s.Assert().Equal(int32(18), char.ArmorClass)
	s.Assert().Equal(int32(16), char.Stats.Strength)
}

func (s *FileRepositoryTestSuite) TestPartyExists() {
	output, err := s.repo.PartyExists(s.ctx, playerdata.PartyExistsInput{})
	s.Require().NoError(err)
	s.Assert().False(output.Exists)

	s.writeFile("party.json", `{"name": "Duo"}`)

	output, err = s.repo.PartyExists(s.ctx, playerdata.PartyExistsInput{})
	s.Require().NoError(err)
	s.Assert().True(output.Exists)
}
