package dnd5e_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/dmforge/dmforge/internal/entities/dnd5e"
)

type PartyTestSuite struct {
	suite.Suite
	party *dnd5e.Party
}

func TestPartySuite(t *testing.T) {
	suite.Run(t, new(PartyTestSuite))
}

func (s *PartyTestSuite) SetupTest() {
	s.party = &dnd5e.Party{
		Name:        "The Brave Companions",
		MemberFiles: []string{"thorin_ironforge.json", "elaria_starweaver.json"},
		Formation:   "Thorin takes point",
		PartyFunds:  150,
		Reputation: map[string]string{
			"Riverside Village": dnd5e.ReputationFriendly,
		},
		ActiveQuests: []string{"The Missing Merchant"},
		Members: []*dnd5e.Character{
			{Name: "Thorin Ironforge", Class: "Fighter", Level: 3, Race: "Dwarf", ArmorClass: 18, HitPoints: 29},
			{Name: "Elaria Starweaver", Class: "Wizard", Level: 2, Race: "Elf", ArmorClass: 12, HitPoints: 14},
		},
	}
}

func (s *PartyTestSuite) TestAverageLevel() {
	s.Assert().InDelta(2.5, s.party.AverageLevel(), 0.001)

	empty := &dnd5e.Party{Name: "Nobody"}
	s.Assert().Zero(empty.AverageLevel())
}

func (s *PartyTestSuite) TestClassComposition() {
	composition := s.party.ClassComposition()

	s.Assert().Equal(1, composition["Fighter"])
	s.Assert().Equal(1, composition["Wizard"])
	s.Assert().Len(composition, 2)
}

func (s *PartyTestSuite) TestSummary() {
	summary := s.party.Summary()

	s.Assert().Contains(summary, "Party: The Brave Companions")
	s.Assert().Contains(summary, "Members: 2 (Average Level: 2.5)")
	s.Assert().Contains(summary, "1 Fighter")
	s.Assert().Contains(summary, "1 Wizard")
	s.Assert().Contains(summary, "Funds: 150 gold")
	s.Assert().Contains(summary, "Active Quests: 1")
}

func (s *PartyTestSuite) TestSummaryEmptyParty() {
	empty := &dnd5e.Party{Name: "Nobody"}
	s.Assert().Equal("Party 'Nobody' has no members", empty.Summary())
}

func (s *PartyTestSuite) TestDetailedSummary() {
	detailed := s.party.DetailedSummary()

	s.Assert().Contains(detailed, "  - Thorin Ironforge: Level 3 Dwarf Fighter (AC: 18, HP: 29)")
	s.Assert().Contains(detailed, "Formation: Thorin takes point")
	s.Assert().Contains(detailed, "Active Quests: The Missing Merchant")
	s.Assert().Contains(detailed, "  - Riverside Village: friendly")
}

func (s *PartyTestSuite) TestUnmarshalCapturesUnknownFields() {
	data := []byte(`{
		"name": "The Brave Companions",
		"member_files": ["thorin_ironforge.json"],
		"party_funds": 150,
		"house_rules": ["no flanking"],
		"campaign_arc": "The Riverside Mysteries"
	}`)

	var party dnd5e.Party
	s.Require().NoError(json.Unmarshal(data, &party))

	s.Assert().Equal("The Brave Companions", party.Name)
	s.Assert().Equal([]string{"thorin_ironforge.json"}, party.MemberFiles)
	s.Require().Len(party.Extra, 2)
	s.Assert().JSONEq(`["no flanking"]`, string(party.Extra["house_rules"]))
}

func (s *PartyTestSuite) TestMarshalRoundTripPreservesUnknownFields() {
	data := []byte(`{"name": "Duo", "member_files": [], "campaign_arc": "Act One"}`)

	var party dnd5e.Party
	s.Require().NoError(json.Unmarshal(data, &party))

	out, err := json.Marshal(&party)
	s.Require().NoError(err)

	var reparsed map[string]json.RawMessage
	s.Require().NoError(json.Unmarshal(out, &reparsed))
	s.Assert().JSONEq(`"Act One"`, string(reparsed["campaign_arc"]))
	s.Assert().NotContains(reparsed, "members")
}
