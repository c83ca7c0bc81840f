package campaign_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/dmforge/dmforge/internal/campaign"
	mockllm "github.com/dmforge/dmforge/internal/llm/mock"
	"github.com/dmforge/dmforge/internal/orchestrators/dungeonmaster"
	"github.com/dmforge/dmforge/internal/pkg/clock"
	"github.com/dmforge/dmforge/internal/pkg/idgen"
	"github.com/dmforge/dmforge/internal/repositories/gamestore"
	"github.com/dmforge/dmforge/internal/repositories/playerdata"
)

type CampaignTestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	playerData playerdata.Repository
	store      gamestore.Repository
	service    dungeonmaster.Service
	ctx        context.Context
}

func TestCampaignSuite(t *testing.T) {
	suite.Run(t, new(CampaignTestSuite))
}

func (s *CampaignTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ctx = context.Background()

	fixed := clock.NewFixed(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))

	repo, err := playerdata.NewFile(&playerdata.FileConfig{
		Dir:         s.T().TempDir(),
		Clock:       fixed,
		IDGenerator: idgen.NewSequential("char"),
	})
	s.Require().NoError(err)
	s.playerData = repo

	s.store = gamestore.NewMemory(&gamestore.MemoryConfig{
		Clock:       fixed,
		IDGenerator: idgen.NewSequential("elem"),
	})

	service, err := dungeonmaster.NewOrchestrator(&dungeonmaster.Config{
		PlayerData: s.playerData,
		GameStore:  s.store,
		LLM:        mockllm.NewMockClient(s.ctrl),
	})
	s.Require().NoError(err)
	s.service = service
}

func (s *CampaignTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *CampaignTestSuite) TestCreateExampleParty() {
	files, err := campaign.CreateExampleParty(s.ctx, s.playerData)
	s.Require().NoError(err)
	s.Assert().Equal([]string{
		"thorin_ironforge.json",
		"elaria_starweaver.json",
		"pip_lightfingers.json",
		"brother_marcus.json",
	}, files)

	loaded, err := s.playerData.LoadParty(s.ctx, playerdata.LoadPartyInput{})
	s.Require().NoError(err)

	party := loaded.Party
	s.Assert().Equal("The Brave Companions", party.Name)
	s.Assert().Equal(150, party.PartyFunds)
	s.Require().Len(party.Members, 4)
	s.Assert().Equal(2.0, party.AverageLevel())

	composition := party.ClassComposition()
	s.Assert().Equal(1, composition["Fighter"])
	s.Assert().Equal(1, composition["Wizard"])
	s.Assert().Equal(1, composition["Rogue"])
	s.Assert().Equal(1, composition["Cleric"])
}

func (s *CampaignTestSuite) TestSeedWorld() {
	s.Require().NoError(campaign.SeedWorld(s.ctx, s.service))

	locations, err := s.store.ListLocations(s.ctx, gamestore.ListLocationsInput{})
	s.Require().NoError(err)
	s.Assert().Len(locations.Locations, 3)

	npcs, err := s.store.ListNPCs(s.ctx, gamestore.ListNPCsInput{})
	s.Require().NoError(err)
	s.Assert().Len(npcs.NPCs, 3)

	quests, err := s.store.ListQuests(s.ctx, gamestore.ListQuestsInput{})
	s.Require().NoError(err)
	s.Require().Len(quests.Quests, 3)
	for _, quest := range quests.Quests {
		s.Assert().True(quest.IsAvailable())
	}

	tavern, err := s.store.FindLocationByName(s.ctx, gamestore.FindLocationByNameInput{
		Name: campaign.StartingLocation,
	})
	s.Require().NoError(err)
	s.Assert().Equal("welcoming and lively", tavern.Location.Atmosphere)
}

func (s *CampaignTestSuite) TestIntro() {
	intro := campaign.Intro()
	s.Assert().Contains(intro, "Riverside Tavern")
	s.Assert().Contains(intro, "Whispering Woods")
}
