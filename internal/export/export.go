// Package export encodes characters and ships as versioned, portable
// JSON documents for sharing between sessions and installations. The
// envelope carries exactly one entity; identity fields are dropped on
// decode so importing mints a fresh row instead of colliding with the
// original.
package export

import (
	"encoding/json"

	"github.com/driftcrew/wildsea-api/internal/entities/wildsea"
	"github.com/driftcrew/wildsea-api/internal/errors"
)

// Version is the current envelope format version.
const Version = "1.0"

// Envelope is the export document shape.
type Envelope struct {
	Version   string             `json:"version"`
	Character *wildsea.Character `json:"character,omitempty"`
	Ship      *wildsea.Ship      `json:"ship,omitempty"`
}

// EncodeCharacter wraps a character in an export envelope.
func EncodeCharacter(char *wildsea.Character) ([]byte, error) {
	if char == nil {
		return nil, errors.InvalidArgument("character cannot be nil")
	}
	data, err := json.MarshalIndent(Envelope{Version: Version, Character: char}, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode character")
	}
	return data, nil
}

// EncodeShip wraps a ship in an export envelope.
func EncodeShip(ship *wildsea.Ship) ([]byte, error) {
	if ship == nil {
		return nil, errors.InvalidArgument("ship cannot be nil")
	}
	data, err := json.MarshalIndent(Envelope{Version: Version, Ship: ship}, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode ship")
	}
	return data, nil
}

// DecodeCharacter unwraps an export envelope into a character with its
// identity cleared, ready for a fresh id and session.
func DecodeCharacter(data []byte) (*wildsea.Character, error) {
	env, err := decode(data)
	if err != nil {
		return nil, err
	}
	if env.Character == nil {
		return nil, errors.InvalidArgument("envelope does not contain a character")
	}

	char := env.Character
	char.ID = ""
	char.SessionID = ""
	char.CreatedAt = 0
	char.UpdatedAt = 0
	return char, nil
}

// DecodeShip unwraps an export envelope into a ship with its identity
// cleared.
func DecodeShip(data []byte) (*wildsea.Ship, error) {
	env, err := decode(data)
	if err != nil {
		return nil, err
	}
	if env.Ship == nil {
		return nil, errors.InvalidArgument("envelope does not contain a ship")
	}

	ship := env.Ship
	ship.ID = ""
	ship.SessionID = ""
	ship.CreatedAt = 0
	ship.UpdatedAt = 0
	return ship, nil
}

func decode(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.InvalidArgument("malformed export document").WithMeta("cause", err.Error())
	}
	if env.Version != Version {
		return nil, errors.InvalidArgumentf("unsupported export version %q", env.Version)
	}
	return &env, nil
}
