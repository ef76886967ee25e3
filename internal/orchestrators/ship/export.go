package ship

import (
	"context"

	"github.com/driftcrew/wildsea-api/internal/entities/wildsea"
	"github.com/driftcrew/wildsea-api/internal/errors"
	"github.com/driftcrew/wildsea-api/internal/export"
	shiprepo "github.com/driftcrew/wildsea-api/internal/repositories/ship"
	"github.com/driftcrew/wildsea-api/internal/sync"
)

// ExportInput defines the input for exporting a ship.
type ExportInput struct {
	ID string
}

// ExportOutput carries the portable export document.
type ExportOutput struct {
	Data []byte
}

// ImportInput defines the input for importing an exported ship into a
// session.
type ImportInput struct {
	SessionID string
	Data      []byte
	ClientID  string
}

// ImportOutput defines the output for an import.
type ImportOutput struct {
	Ship *wildsea.Ship
}

// Export encodes a ship as a portable document.
func (o *Orchestrator) Export(ctx context.Context, input *ExportInput) (*ExportOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}

	ship, err := o.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	data, err := export.EncodeShip(ship)
	if err != nil {
		return nil, err
	}
	return &ExportOutput{Data: data}, nil
}

// Import creates a new ship from an export document. The imported ship
// gets a fresh id so it never collides with the original.
func (o *Orchestrator) Import(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	if input == nil || len(input.Data) == 0 {
		return nil, errors.InvalidArgument("data is required")
	}

	ship, err := export.DecodeShip(input.Data)
	if err != nil {
		return nil, err
	}

	ship.ID = o.idGen.Generate()
	ship.SessionID = input.SessionID

	created, err := o.repo.Create(ctx, shiprepo.CreateInput{Ship: ship})
	if err != nil {
		return nil, errors.Wrap(err, "failed to import ship")
	}

	o.publish(ctx, created.Ship, sync.EventCreated, input.ClientID)
	return &ImportOutput{Ship: created.Ship}, nil
}
