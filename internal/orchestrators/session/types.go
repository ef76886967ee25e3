package session

import (
	"github.com/driftcrew/wildsea-api/internal/entities/wildsea"
	"github.com/driftcrew/wildsea-api/internal/repositories/presence"
)

// CreateInput defines the input for creating a session.
type CreateInput struct {
	CrewName string
	ClientID string
}

// CreateOutput defines the output for creating a session.
type CreateOutput struct {
	Session *wildsea.Session
}

// GetInput defines the input for getting a session.
type GetInput struct {
	ID string
}

// GetOutput carries the session plus which clients are currently
// online in it.
type GetOutput struct {
	Session *wildsea.Session
	Online  []*presence.Record
}

// DeleteInput defines the input for deleting a session.
type DeleteInput struct {
	ID       string
	ClientID string
}

// DeleteOutput defines the output for deleting a session.
type DeleteOutput struct{}

// SetCrewNameInput defines the input for renaming the crew.
type SetCrewNameInput struct {
	ID       string
	CrewName string
	ClientID string
}

// SetCrewNameOutput defines the output for renaming the crew.
type SetCrewNameOutput struct {
	Session *wildsea.Session
}

// AddCharacterInput defines the input for adding a character to the
// crew roster.
type AddCharacterInput struct {
	SessionID   string
	CharacterID string
	ClientID    string
}

// AddCharacterOutput defines the output for adding a character.
type AddCharacterOutput struct {
	Session *wildsea.Session
}

// RemoveCharacterInput defines the input for removing a character from
// the crew roster.
type RemoveCharacterInput struct {
	SessionID   string
	CharacterID string
	ClientID    string
}

// RemoveCharacterOutput defines the output for removing a character.
type RemoveCharacterOutput struct {
	Session *wildsea.Session
}

// SetShipInput defines the input for attaching the crew's ship.
type SetShipInput struct {
	SessionID string
	ShipID    string
	ClientID  string
}

// SetShipOutput defines the output for attaching the ship.
type SetShipOutput struct {
	Session *wildsea.Session
}

// SetActiveCharacterInput defines the input for switching the active
// character.
type SetActiveCharacterInput struct {
	SessionID   string
	CharacterID string
	ClientID    string
}

// SetActiveCharacterOutput defines the output for switching the active
// character.
type SetActiveCharacterOutput struct {
	Session *wildsea.Session
}

// SetActiveViewInput defines the input for switching between the
// character and ship views. The view toggle is independent of which
// character is active, so flipping to the ship remembers the character
// for the flip back.
type SetActiveViewInput struct {
	SessionID string
	View      wildsea.ActiveView
	ClientID  string
}

// SetActiveViewOutput defines the output for switching the view.
type SetActiveViewOutput struct {
	Session *wildsea.Session
}
