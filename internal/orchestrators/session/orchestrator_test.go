package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/driftcrew/wildsea-api/internal/entities/wildsea"
	"github.com/driftcrew/wildsea-api/internal/errors"
	sessionorch "github.com/driftcrew/wildsea-api/internal/orchestrators/session"
	"github.com/driftcrew/wildsea-api/internal/pkg/idgen"
	characterrepo "github.com/driftcrew/wildsea-api/internal/repositories/character"
	presencerepo "github.com/driftcrew/wildsea-api/internal/repositories/presence"
	sessionrepo "github.com/driftcrew/wildsea-api/internal/repositories/session"
	shiprepo "github.com/driftcrew/wildsea-api/internal/repositories/ship"
	"github.com/driftcrew/wildsea-api/internal/sync"
	"github.com/driftcrew/wildsea-api/internal/testutils"
)

type orchestratorTestSuite struct {
	suite.Suite
	ctx      context.Context
	orch     *sessionorch.Orchestrator
	charRepo characterrepo.Repository
	shipRepo shiprepo.Repository
	presRepo presencerepo.Repository
}

func (s *orchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()

	client, _ := testutils.CreateTestRedis(s.T())

	sessRepo, err := sessionrepo.NewRedis(&sessionrepo.RedisConfig{Client: client})
	s.Require().NoError(err)

	s.charRepo, err = characterrepo.NewRedis(&characterrepo.RedisConfig{Client: client})
	s.Require().NoError(err)

	s.shipRepo, err = shiprepo.NewRedis(&shiprepo.RedisConfig{Client: client})
	s.Require().NoError(err)

	s.presRepo, err = presencerepo.NewRedis(&presencerepo.RedisConfig{Client: client})
	s.Require().NoError(err)

	pub, err := sync.NewPublisher(&sync.PublisherConfig{Client: client})
	s.Require().NoError(err)

	s.orch, err = sessionorch.New(&sessionorch.Config{
		SessionRepo:   sessRepo,
		CharacterRepo: s.charRepo,
		ShipRepo:      s.shipRepo,
		PresenceRepo:  s.presRepo,
		Publisher:     pub,
		IDGenerator:   idgen.NewSequential("sess"),
	})
	s.Require().NoError(err)
}

func (s *orchestratorTestSuite) createSession() *wildsea.Session {
	out, err := s.orch.Create(s.ctx, &sessionorch.CreateInput{CrewName: "The Marrow Tithe"})
	s.Require().NoError(err)
	return out.Session
}

func (s *orchestratorTestSuite) createCharacter(id string) {
	_, err := s.charRepo.Create(s.ctx, characterrepo.CreateInput{Character: wildsea.NewCharacter(id)})
	s.Require().NoError(err)
}

func (s *orchestratorTestSuite) addCharacter(sessionID, characterID string) *wildsea.Session {
	out, err := s.orch.AddCharacter(s.ctx, &sessionorch.AddCharacterInput{
		SessionID: sessionID, CharacterID: characterID,
	})
	s.Require().NoError(err)
	return out.Session
}

func (s *orchestratorTestSuite) TestCreateStartsEmpty() {
	sess := s.createSession()

	s.Equal("The Marrow Tithe", sess.CrewName)
	s.Empty(sess.ActiveCharacterIDs)
	s.Empty(sess.ActiveCharacterID)
	s.Equal(wildsea.ViewCharacter, sess.ActiveView)
}

func (s *orchestratorTestSuite) TestFirstCharacterBecomesActive() {
	sess := s.createSession()
	s.createCharacter("char_a")
	s.createCharacter("char_b")

	got := s.addCharacter(sess.ID, "char_a")
	s.Equal("char_a", got.ActiveCharacterID)

	got = s.addCharacter(sess.ID, "char_b")
	s.Equal([]string{"char_a", "char_b"}, got.ActiveCharacterIDs)
	s.Equal("char_a", got.ActiveCharacterID)
}

func (s *orchestratorTestSuite) TestAddCharacterStampsSessionOntoRow() {
	sess := s.createSession()
	s.createCharacter("char_a")
	s.addCharacter(sess.ID, "char_a")

	listed, err := s.charRepo.ListBySessionID(s.ctx, characterrepo.ListBySessionIDInput{SessionID: sess.ID})
	s.Require().NoError(err)
	s.Require().Len(listed.Characters, 1)
	s.Equal("char_a", listed.Characters[0].ID)
}

func (s *orchestratorTestSuite) TestAddUnknownCharacterFails() {
	sess := s.createSession()

	_, err := s.orch.AddCharacter(s.ctx, &sessionorch.AddCharacterInput{
		SessionID: sess.ID, CharacterID: "char_ghost",
	})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *orchestratorTestSuite) TestRemoveActiveCharacterPromotesNext() {
	sess := s.createSession()
	for _, id := range []string{"char_a", "char_b", "char_c"} {
		s.createCharacter(id)
		s.addCharacter(sess.ID, id)
	}

	out, err := s.orch.RemoveCharacter(s.ctx, &sessionorch.RemoveCharacterInput{
		SessionID: sess.ID, CharacterID: "char_a",
	})
	s.Require().NoError(err)
	s.Equal("char_b", out.Session.ActiveCharacterID)
	s.Equal([]string{"char_b", "char_c"}, out.Session.ActiveCharacterIDs)
}

func (s *orchestratorTestSuite) TestRemoveLastCharacterClearsActive() {
	sess := s.createSession()
	s.createCharacter("char_a")
	s.addCharacter(sess.ID, "char_a")

	out, err := s.orch.RemoveCharacter(s.ctx, &sessionorch.RemoveCharacterInput{
		SessionID: sess.ID, CharacterID: "char_a",
	})
	s.Require().NoError(err)
	s.Empty(out.Session.ActiveCharacterID)
	s.Empty(out.Session.ActiveCharacterIDs)

	// The row survives, detached.
	char, err := s.charRepo.Get(s.ctx, characterrepo.GetInput{ID: "char_a"})
	s.Require().NoError(err)
	s.Empty(char.Character.SessionID)
}

func (s *orchestratorTestSuite) TestSetShipAttachesRow() {
	sess := s.createSession()
	_, err := s.shipRepo.Create(s.ctx, shiprepo.CreateInput{Ship: wildsea.NewShip("ship_a")})
	s.Require().NoError(err)

	out, err := s.orch.SetShip(s.ctx, &sessionorch.SetShipInput{SessionID: sess.ID, ShipID: "ship_a"})
	s.Require().NoError(err)
	s.Equal("ship_a", out.Session.ActiveShipID)

	ship, err := s.shipRepo.Get(s.ctx, shiprepo.GetInput{ID: "ship_a"})
	s.Require().NoError(err)
	s.Equal(sess.ID, ship.Ship.SessionID)
}

func (s *orchestratorTestSuite) TestSetActiveCharacterRequiresMembership() {
	sess := s.createSession()
	s.createCharacter("char_a")
	s.addCharacter(sess.ID, "char_a")

	_, err := s.orch.SetActiveCharacter(s.ctx, &sessionorch.SetActiveCharacterInput{
		SessionID: sess.ID, CharacterID: "char_stranger",
	})
	s.Require().Error(err)
	s.Equal(errors.CodeFailedPrecondition, errors.GetCode(err))
}

func (s *orchestratorTestSuite) TestViewToggleRemembersActiveCharacter() {
	sess := s.createSession()
	s.createCharacter("char_a")
	s.addCharacter(sess.ID, "char_a")

	out, err := s.orch.SetActiveView(s.ctx, &sessionorch.SetActiveViewInput{
		SessionID: sess.ID, View: wildsea.ViewShip,
	})
	s.Require().NoError(err)
	s.Equal(wildsea.ViewShip, out.Session.ActiveView)
	s.Equal("char_a", out.Session.ActiveCharacterID)

	out, err = s.orch.SetActiveView(s.ctx, &sessionorch.SetActiveViewInput{
		SessionID: sess.ID, View: wildsea.ViewCharacter,
	})
	s.Require().NoError(err)
	s.Equal("char_a", out.Session.ActiveCharacterID)
}

func (s *orchestratorTestSuite) TestGetIncludesOnlineClients() {
	sess := s.createSession()

	_, err := s.presRepo.Heartbeat(s.ctx, presencerepo.HeartbeatInput{
		SessionID: sess.ID, Identity: "ysolde@crew.example",
	})
	s.Require().NoError(err)

	out, err := s.orch.Get(s.ctx, &sessionorch.GetInput{ID: sess.ID})
	s.Require().NoError(err)
	s.Require().Len(out.Online, 1)
	s.Equal("ysolde@crew.example", out.Online[0].Identity)
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(orchestratorTestSuite))
}
