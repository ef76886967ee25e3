package character

import (
	"context"

	"github.com/driftcrew/wildsea-api/internal/entities/wildsea"
	"github.com/driftcrew/wildsea-api/internal/errors"
	"github.com/driftcrew/wildsea-api/internal/export"
	characterrepo "github.com/driftcrew/wildsea-api/internal/repositories/character"
	"github.com/driftcrew/wildsea-api/internal/sync"
)

// ExportInput defines the input for exporting a character.
type ExportInput struct {
	ID string
}

// ExportOutput carries the portable export document.
type ExportOutput struct {
	Data []byte
}

// ImportInput defines the input for importing an exported character
// into a session.
type ImportInput struct {
	SessionID string
	Data      []byte
	ClientID  string
}

// ImportOutput defines the output for an import.
type ImportOutput struct {
	Character *wildsea.Character
}

// Export encodes a character as a portable document.
func (o *Orchestrator) Export(ctx context.Context, input *ExportInput) (*ExportOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}

	char, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	data, err := export.EncodeCharacter(char)
	if err != nil {
		return nil, err
	}
	return &ExportOutput{Data: data}, nil
}

// Import creates a new character from an export document. The imported
// character gets a fresh id so it never collides with the original.
func (o *Orchestrator) Import(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	if input == nil || len(input.Data) == 0 {
		return nil, errors.InvalidArgument("data is required")
	}

	char, err := export.DecodeCharacter(input.Data)
	if err != nil {
		return nil, err
	}

	char.ID = o.idGen.Generate()
	char.SessionID = input.SessionID

	created, err := o.repo.Create(ctx, characterrepo.CreateInput{Character: char})
	if err != nil {
		return nil, errors.Wrap(err, "failed to import character")
	}

	o.publish(ctx, created.Character, sync.EventCreated, input.ClientID)
	return &ImportOutput{Character: created.Character}, nil
}
