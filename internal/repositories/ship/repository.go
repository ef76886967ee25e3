// Package ship provides the interface for ship persistence.
package ship

import (
	"context"

	"github.com/driftcrew/wildsea-api/internal/entities/wildsea"
)

// Repository defines the persistence contract for ships. Same row-level
// semantics as the character repository: atomic whole-row writes,
// last-writer-wins.
type Repository interface {
	// Create stores a new ship.
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a ship by ID.
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update overwrites an existing ship.
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete removes a ship by ID.
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// ListBySessionID retrieves all ships in a session.
	ListBySessionID(ctx context.Context, input ListBySessionIDInput) (*ListBySessionIDOutput, error)
}

// CreateInput defines the input for creating a ship.
type CreateInput struct {
	Ship *wildsea.Ship
}

// CreateOutput defines the output for creating a ship.
type CreateOutput struct {
	Ship *wildsea.Ship
}

// GetInput defines the input for getting a ship.
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a ship.
type GetOutput struct {
	Ship *wildsea.Ship
}

// UpdateInput defines the input for updating a ship.
type UpdateInput struct {
	Ship *wildsea.Ship
}

// UpdateOutput defines the output for updating a ship.
type UpdateOutput struct {
	Ship *wildsea.Ship
}

// DeleteInput defines the input for deleting a ship.
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a ship.
type DeleteOutput struct{}

// ListBySessionIDInput defines the input for listing ships by session.
type ListBySessionIDInput struct {
	SessionID string
}

// ListBySessionIDOutput defines the output for listing ships by session.
type ListBySessionIDOutput struct {
	Ships []*wildsea.Ship
}
