package character_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/driftcrew/wildsea-api/internal/catalog"
	"github.com/driftcrew/wildsea-api/internal/entities/wildsea"
	"github.com/driftcrew/wildsea-api/internal/errors"
	charorch "github.com/driftcrew/wildsea-api/internal/orchestrators/character"
	"github.com/driftcrew/wildsea-api/internal/pkg/idgen"
	characterrepo "github.com/driftcrew/wildsea-api/internal/repositories/character"
	charactermock "github.com/driftcrew/wildsea-api/internal/repositories/character/mock"
	"github.com/driftcrew/wildsea-api/internal/sync"
	"github.com/driftcrew/wildsea-api/internal/testutils"
)

// Failure-path coverage against a mocked repository; the happy paths
// run against real storage in orchestrator_test.go.
type orchestratorMockTestSuite struct {
	suite.Suite
	ctx  context.Context
	ctrl *gomock.Controller
	repo *charactermock.MockRepository
	orch *charorch.Orchestrator
}

func (s *orchestratorMockTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.repo = charactermock.NewMockRepository(s.ctrl)

	client, _ := testutils.CreateTestRedis(s.T())
	pub, err := sync.NewPublisher(&sync.PublisherConfig{Client: client})
	s.Require().NoError(err)

	cat, err := catalog.Load()
	s.Require().NoError(err)

	s.orch, err = charorch.New(&charorch.Config{
		CharacterRepo:   s.repo,
		Catalog:         cat,
		Publisher:       pub,
		IDGenerator:     idgen.NewSequential("char"),
		ItemIDGenerator: idgen.NewSequential("item"),
	})
	s.Require().NoError(err)
}

func (s *orchestratorMockTestSuite) TestGetPropagatesStorageFailure() {
	s.repo.EXPECT().
		Get(gomock.Any(), characterrepo.GetInput{ID: "char_1"}).
		Return(nil, errors.Unavailable("connection refused"))

	_, err := s.orch.Get(s.ctx, &charorch.GetInput{ID: "char_1"})
	s.Require().Error(err)
	s.Equal(errors.CodeUnavailable, errors.GetCode(err))
}

func (s *orchestratorMockTestSuite) TestSetNameSurfacesSaveFailure() {
	char := wildsea.NewCharacter("char_1")
	s.repo.EXPECT().
		Get(gomock.Any(), characterrepo.GetInput{ID: "char_1"}).
		Return(&characterrepo.GetOutput{Character: char}, nil)
	s.repo.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		Return(nil, errors.Unavailable("connection refused"))

	_, err := s.orch.SetName(s.ctx, &charorch.SetNameInput{ID: "char_1", Name: "Issa"})
	s.Require().Error(err)
	s.Equal(errors.CodeUnavailable, errors.GetCode(err))
}

func (s *orchestratorMockTestSuite) TestCreateWrapsStorageFailure() {
	s.repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil, errors.Internal("write failed"))

	_, err := s.orch.Create(s.ctx, &charorch.CreateInput{SessionID: "sess_1", Name: "Varek"})
	s.Require().Error(err)
	s.Equal(errors.CodeInternal, errors.GetCode(err))
}

func TestOrchestratorMockSuite(t *testing.T) {
	suite.Run(t, new(orchestratorMockTestSuite))
}
