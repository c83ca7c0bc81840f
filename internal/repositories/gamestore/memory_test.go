package gamestore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/dmforge/dmforge/internal/pkg/clock"
	"github.com/dmforge/dmforge/internal/pkg/idgen"
	"github.com/dmforge/dmforge/internal/repositories/gamestore"
)

// MemoryGameStoreTestSuite runs the shared store behavior against the
// in-memory implementation
type MemoryGameStoreTestSuite struct {
	storeSuite
}

func TestMemoryGameStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryGameStoreTestSuite))
}

func (s *MemoryGameStoreTestSuite) SetupTest() {
	s.repo = gamestore.NewMemory(&gamestore.MemoryConfig{
		Clock:       clock.NewFixed(storeTime),
		IDGenerator: idgen.NewSequential("elem"),
	})
	s.ctx = context.Background()
}

func (s *MemoryGameStoreTestSuite) TestNilConfigUsesDefaults() {
	repo := gamestore.NewMemory(nil)
	s.Require().NotNil(repo)

	output, err := repo.ListNPCs(s.ctx, gamestore.ListNPCsInput{})
	s.Require().NoError(err)
	s.Assert().Empty(output.NPCs)
}
