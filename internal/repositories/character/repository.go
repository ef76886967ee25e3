// Package character provides the interface for character persistence.
package character

//go:generate mockgen -destination=mock/mock_repository.go -package=charactermock github.com/driftcrew/wildsea-api/internal/repositories/character Repository

import (
	"context"

	"github.com/driftcrew/wildsea-api/internal/entities/wildsea"
)

// Repository defines the persistence contract for characters. Writes
// are atomic at the row level; concurrent updates to the same id are
// resolved last-writer-wins, whole row.
type Repository interface {
	// Create stores a new character.
	// Returns errors.InvalidArgument for validation failures.
	// Returns errors.AlreadyExists if a character with the same ID exists.
	// Returns errors.Internal for storage failures.
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a character by ID.
	// Returns errors.NotFound if the character doesn't exist.
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update overwrites an existing character.
	// Returns errors.NotFound if the character doesn't exist.
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete removes a character by ID.
	// Returns errors.NotFound if the character doesn't exist.
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// ListBySessionID retrieves all characters in a session.
	ListBySessionID(ctx context.Context, input ListBySessionIDInput) (*ListBySessionIDOutput, error)
}

// CreateInput defines the input for creating a character.
type CreateInput struct {
	Character *wildsea.Character
}

// CreateOutput defines the output for creating a character.
type CreateOutput struct {
	Character *wildsea.Character
}

// GetInput defines the input for getting a character.
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a character.
type GetOutput struct {
	Character *wildsea.Character
}

// UpdateInput defines the input for updating a character.
type UpdateInput struct {
	Character *wildsea.Character
}

// UpdateOutput defines the output for updating a character.
type UpdateOutput struct {
	Character *wildsea.Character
}

// DeleteInput defines the input for deleting a character.
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a character.
type DeleteOutput struct{}

// ListBySessionIDInput defines the input for listing characters by session.
type ListBySessionIDInput struct {
	SessionID string
}

// ListBySessionIDOutput defines the output for listing characters by session.
type ListBySessionIDOutput struct {
	Characters []*wildsea.Character
}
