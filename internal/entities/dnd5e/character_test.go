package dnd5e_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/dmforge/dmforge/internal/entities/dnd5e"
)

type CharacterTestSuite struct {
	suite.Suite
}

func TestCharacterSuite(t *testing.T) {
	suite.Run(t, new(CharacterTestSuite))
}

func (s *CharacterTestSuite) thorin() *dnd5e.Character {
	return &dnd5e.Character{
		ID:         "char-thorin",
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
		Skills:    []string{"Athletics", "Intimidation"},
		Equipment: []string{"Chain Mail", "Warhammer"},
		PersonalityTraits: []string{
			"I face problems head-on with direct, simple solutions",
		},
		Ideals:     "Responsibility.",
		Bonds:      "My honor is my life.",
		Flaws:      "I have little respect for anyone who is not a proven warrior.",
		HitPoints:  29,
		ArmorClass: 18,
	}
}

func (s *CharacterTestSuite) TestModifier() {
	testCases := []struct {
		score    int32
		expected int32
	}{
		{score: 1, expected: -5},
		{score: 7, expected: -2},
		{score: 8, expected: -1},
		{score: 9, expected: -1},
		{score: 10, expected: 0},
		{score: 11, expected: 0},
		{score: 12, expected: 1},
		{score: 16, expected: 3},
		{score: 20, expected: 5},
	}

	for _, tc := range testCases {
		s.Assert().Equal(tc.expected, dnd5e.Modifier(tc.score), "score %d", tc.score)
	}
}

func (s *CharacterTestSuite) TestStatModifier() {
	char := s.thorin()

	s.Assert().Equal(int32(3), char.StatModifier("STR"))
	s.Assert().Equal(int32(-1), char.StatModifier("CHA"))
	s.Assert().Equal(int32(0), char.StatModifier("INT"))
	s.Assert().Equal(int32(0), char.StatModifier("unknown"))
}

func (s *CharacterTestSuite) TestSummary() {
	char := s.thorin()

	s.Assert().Equal("Thorin Ironforge: Level 3 Dwarf Fighter (AC: 18, HP: 29)", char.Summary())
}

func (s *CharacterTestSuite) TestRoleplayInfo() {
	char := s.thorin()
	info := char.RoleplayInfo()

	s.Assert().Contains(info, "Background: Soldier")
	s.Assert().Contains(info, "I face problems head-on")
	s.Assert().Contains(info, "Ideals: Responsibility.")

	char.PersonalityTraits = nil
	s.Assert().Contains(char.RoleplayInfo(), "Personality: None")
}

func (s *CharacterTestSuite) TestUnmarshalCapturesUnknownFields() {
	data := []byte(`{
		"name": "Zara",
		"character_class": "Bard",
		"level": 4,
		"favorite_color": "purple",
		"homebrew": {"patron": "The Laughing Moon", "boons": [1, 2]}
	}`)

	var char dnd5e.Character
	s.Require().NoError(json.Unmarshal(data, &char))

	s.Assert().Equal("Zara", char.Name)
	s.Assert().Equal("Bard", char.Class)
	s.Assert().Equal(int32(4), char.Level)

	s.Require().Len(char.Extra, 2)
	s.Assert().JSONEq(`"purple"`, string(char.Extra["favorite_color"]))
	s.Assert().JSONEq(`{"patron": "The Laughing Moon", "boons": [1, 2]}`, string(char.Extra["homebrew"]))
}

func (s *CharacterTestSuite) TestMarshalRoundTripPreservesUnknownFields() {
	data := []byte(`{
		"name": "Zara",
		"character_class": "Bard",
		"level": 4,
		"favorite_color": "purple",
		"lucky_number": 7
	}`)

	var char dnd5e.Character
	s.Require().NoError(json.Unmarshal(data, &char))

	out, err := json.Marshal(&char)
	s.Require().NoError(err)

	var reparsed map[string]json.RawMessage
	s.Require().NoError(json.Unmarshal(out, &reparsed))
	s.Assert().JSONEq(`"purple"`, string(reparsed["favorite_color"]))
	s.Assert().JSONEq(`7`, string(reparsed["lucky_number"]))
	s.Assert().JSONEq(`"Zara"`, string(reparsed["name"]))

	// A second round trip must be stable
	var again dnd5e.Character
	s.Require().NoError(json.Unmarshal(out, &again))
	s.Assert().Equal(char.Extra, again.Extra)
}

func (s *CharacterTestSuite) TestMarshalWithoutExtras() {
	char := s.thorin()

	out, err := json.Marshal(char)
	s.Require().NoError(err)

	var reparsed map[string]json.RawMessage
	s.Require().NoError(json.Unmarshal(out, &reparsed))
	s.Assert().Contains(reparsed, "stats")
	s.Assert().NotContains(reparsed, "Extra")
}
