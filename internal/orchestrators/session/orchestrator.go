// Package session orchestrates the crew roster: which characters and
// ship belong to a session, which one is active, and which view the
// session shows by default. The session row holds only foreign ids;
// membership changes also stamp the session id onto the member entity
// so per-session listings stay correct.
package session

import (
	"context"
	"log/slog"

	"github.com/driftcrew/wildsea-api/internal/entities/wildsea"
	"github.com/driftcrew/wildsea-api/internal/errors"
	characterrepo "github.com/driftcrew/wildsea-api/internal/repositories/character"
	presencerepo "github.com/driftcrew/wildsea-api/internal/repositories/presence"
	sessionrepo "github.com/driftcrew/wildsea-api/internal/repositories/session"
	shiprepo "github.com/driftcrew/wildsea-api/internal/repositories/ship"
	"github.com/driftcrew/wildsea-api/internal/sync"
)

// Service orchestrates session operations.
type Service interface {
	Create(ctx context.Context, input *CreateInput) (*CreateOutput, error)
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)

	SetCrewName(ctx context.Context, input *SetCrewNameInput) (*SetCrewNameOutput, error)
	AddCharacter(ctx context.Context, input *AddCharacterInput) (*AddCharacterOutput, error)
	RemoveCharacter(ctx context.Context, input *RemoveCharacterInput) (*RemoveCharacterOutput, error)
	SetShip(ctx context.Context, input *SetShipInput) (*SetShipOutput, error)
	SetActiveCharacter(ctx context.Context, input *SetActiveCharacterInput) (*SetActiveCharacterOutput, error)
	SetActiveView(ctx context.Context, input *SetActiveViewInput) (*SetActiveViewOutput, error)
}

// Orchestrator implements Service.
type Orchestrator struct {
	repo          sessionrepo.Repository
	characterRepo characterrepo.Repository
	shipRepo      shiprepo.Repository
	presenceRepo  presencerepo.Repository
	publisher     *sync.Publisher
	idGen         idGenerator
}

type idGenerator interface {
	Generate() string
}

// Config contains the dependencies for an Orchestrator.
type Config struct {
	SessionRepo   sessionrepo.Repository
	CharacterRepo characterrepo.Repository
	ShipRepo      shiprepo.Repository
	PresenceRepo  presencerepo.Repository
	Publisher     *sync.Publisher
	IDGenerator   idGenerator
}

// Validate validates the Config.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if cfg.SessionRepo == nil {
		vb.RequiredField("SessionRepo")
	}
	if cfg.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if cfg.ShipRepo == nil {
		vb.RequiredField("ShipRepo")
	}
	if cfg.PresenceRepo == nil {
		vb.RequiredField("PresenceRepo")
	}
	if cfg.Publisher == nil {
		vb.RequiredField("Publisher")
	}
	if cfg.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	return vb.Build()
}

// New creates an Orchestrator.
func New(cfg *Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Orchestrator{
		repo:          cfg.SessionRepo,
		characterRepo: cfg.CharacterRepo,
		shipRepo:      cfg.ShipRepo,
		presenceRepo:  cfg.PresenceRepo,
		publisher:     cfg.Publisher,
		idGen:         cfg.IDGenerator,
	}, nil
}

// Create creates an empty session for a crew.
func (o *Orchestrator) Create(ctx context.Context, input *CreateInput) (*CreateOutput, error) {
	if input == nil || input.CrewName == "" {
		return nil, errors.InvalidArgument("crew name is required")
	}

	sess := wildsea.NewSession(o.idGen.Generate(), input.CrewName)
	created, err := o.repo.Create(ctx, sessionrepo.CreateInput{Session: sess})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create session")
	}

	o.publish(ctx, created.Session, sync.EventCreated, input.ClientID)
	return &CreateOutput{Session: created.Session}, nil
}

// Get retrieves a session with its currently online clients.
func (o *Orchestrator) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}

	sess, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	online, err := o.presenceRepo.ListOnline(ctx, presencerepo.ListOnlineInput{SessionID: sess.ID})
	if err != nil {
		// Presence is advisory; a read failure degrades to "nobody
		// visible" rather than failing the session read.
		slog.WarnContext(ctx, "failed to list online clients",
			"session_id", sess.ID,
			"error", err.Error())
		return &GetOutput{Session: sess}, nil
	}

	return &GetOutput{Session: sess, Online: online.Records}, nil
}

// Delete removes a session. Member entities survive; they simply no
// longer belong to a live session.
func (o *Orchestrator) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}

	sess, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if _, err := o.repo.Delete(ctx, sessionrepo.DeleteInput{ID: input.ID}); err != nil {
		return nil, errors.Wrap(err, "failed to delete session")
	}

	o.publish(ctx, sess, sync.EventDeleted, input.ClientID)
	return &DeleteOutput{}, nil
}

// SetCrewName renames the crew.
func (o *Orchestrator) SetCrewName(ctx context.Context, input *SetCrewNameInput) (*SetCrewNameOutput, error) {
	if input == nil || input.ID == "" || input.CrewName == "" {
		return nil, errors.InvalidArgument("id and crew name are required")
	}

	sess, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	sess.CrewName = input.CrewName
	if err := o.save(ctx, sess, input.ClientID); err != nil {
		return nil, err
	}
	return &SetCrewNameOutput{Session: sess}, nil
}

// AddCharacter adds a character to the crew roster. The first character
// added becomes the active one. The character row is stamped with the
// session id so session listings find it.
func (o *Orchestrator) AddCharacter(ctx context.Context, input *AddCharacterInput) (*AddCharacterOutput, error) {
	if input == nil || input.SessionID == "" || input.CharacterID == "" {
		return nil, errors.InvalidArgument("session id and character id are required")
	}

	sess, err := o.load(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	charOut, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get character %s", input.CharacterID)
	}

	if sess.HasCharacter(input.CharacterID) {
		return &AddCharacterOutput{Session: sess}, nil
	}
	sess.AddCharacter(input.CharacterID)

	if charOut.Character.SessionID != sess.ID {
		charOut.Character.SessionID = sess.ID
		if _, err := o.characterRepo.Update(ctx, characterrepo.UpdateInput{Character: charOut.Character}); err != nil {
			return nil, errors.Wrapf(err, "failed to attach character %s", input.CharacterID)
		}
	}

	if err := o.save(ctx, sess, input.ClientID); err != nil {
		return nil, err
	}
	return &AddCharacterOutput{Session: sess}, nil
}

// RemoveCharacter removes a character from the crew roster. Removing
// the active character promotes the next id in list order. The
// character row itself survives, detached from the session.
func (o *Orchestrator) RemoveCharacter(ctx context.Context, input *RemoveCharacterInput) (*RemoveCharacterOutput, error) {
	if input == nil || input.SessionID == "" || input.CharacterID == "" {
		return nil, errors.InvalidArgument("session id and character id are required")
	}

	sess, err := o.load(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if !sess.HasCharacter(input.CharacterID) {
		return &RemoveCharacterOutput{Session: sess}, nil
	}

	sess.RemoveCharacter(input.CharacterID)

	// Detach best-effort: the roster is authoritative either way.
	if charOut, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: input.CharacterID}); err == nil {
		charOut.Character.SessionID = ""
		if _, err := o.characterRepo.Update(ctx, characterrepo.UpdateInput{Character: charOut.Character}); err != nil {
			slog.WarnContext(ctx, "failed to detach character from session",
				"character_id", input.CharacterID,
				"session_id", sess.ID,
				"error", err.Error())
		}
	}

	if err := o.save(ctx, sess, input.ClientID); err != nil {
		return nil, err
	}
	return &RemoveCharacterOutput{Session: sess}, nil
}

// SetShip attaches the crew's ship, replacing any previous one.
func (o *Orchestrator) SetShip(ctx context.Context, input *SetShipInput) (*SetShipOutput, error) {
	if input == nil || input.SessionID == "" || input.ShipID == "" {
		return nil, errors.InvalidArgument("session id and ship id are required")
	}

	sess, err := o.load(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	shipOut, err := o.shipRepo.Get(ctx, shiprepo.GetInput{ID: input.ShipID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get ship %s", input.ShipID)
	}

	sess.ActiveShipID = input.ShipID

	if shipOut.Ship.SessionID != sess.ID {
		shipOut.Ship.SessionID = sess.ID
		if _, err := o.shipRepo.Update(ctx, shiprepo.UpdateInput{Ship: shipOut.Ship}); err != nil {
			return nil, errors.Wrapf(err, "failed to attach ship %s", input.ShipID)
		}
	}

	if err := o.save(ctx, sess, input.ClientID); err != nil {
		return nil, err
	}
	return &SetShipOutput{Session: sess}, nil
}

// SetActiveCharacter switches which rostered character is active.
func (o *Orchestrator) SetActiveCharacter(ctx context.Context, input *SetActiveCharacterInput) (*SetActiveCharacterOutput, error) {
	if input == nil || input.SessionID == "" || input.CharacterID == "" {
		return nil, errors.InvalidArgument("session id and character id are required")
	}

	sess, err := o.load(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if !sess.HasCharacter(input.CharacterID) {
		return nil, errors.FailedPreconditionf("character %s is not in the crew", input.CharacterID)
	}

	sess.ActiveCharacterID = input.CharacterID
	if err := o.save(ctx, sess, input.ClientID); err != nil {
		return nil, err
	}
	return &SetActiveCharacterOutput{Session: sess}, nil
}

// SetActiveView switches the session's default view between character
// and ship without touching the active character.
func (o *Orchestrator) SetActiveView(ctx context.Context, input *SetActiveViewInput) (*SetActiveViewOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.InvalidArgument("session id is required")
	}
	if input.View != wildsea.ViewCharacter && input.View != wildsea.ViewShip {
		return nil, errors.InvalidArgumentf("unknown view %q", input.View)
	}

	sess, err := o.load(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	sess.ActiveView = input.View
	if err := o.save(ctx, sess, input.ClientID); err != nil {
		return nil, err
	}
	return &SetActiveViewOutput{Session: sess}, nil
}

func (o *Orchestrator) load(ctx context.Context, id string) (*wildsea.Session, error) {
	out, err := o.repo.Get(ctx, sessionrepo.GetInput{ID: id})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get session %s", id)
	}
	return out.Session, nil
}

func (o *Orchestrator) save(ctx context.Context, sess *wildsea.Session, clientID string) error {
	if _, err := o.repo.Update(ctx, sessionrepo.UpdateInput{Session: sess}); err != nil {
		return errors.Wrapf(err, "failed to update session %s", sess.ID)
	}
	o.publish(ctx, sess, sync.EventUpdated, clientID)
	return nil
}

func (o *Orchestrator) publish(ctx context.Context, sess *wildsea.Session, eventType sync.EventType, clientID string) {
	err := o.publisher.Publish(ctx, sess.ID, sync.Event{
		Type:     eventType,
		Kind:     sync.KindSession,
		EntityID: sess.ID,
		Origin:   clientID,
	})
	if err != nil {
		slog.DebugContext(ctx, "change event not delivered",
			"session_id", sess.ID,
			"error", err.Error())
	}
}
