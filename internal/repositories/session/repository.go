// Package session provides the interface for session persistence.
package session

import (
	"context"

	"github.com/driftcrew/wildsea-api/internal/entities/wildsea"
)

// Repository defines the persistence contract for play sessions.
type Repository interface {
	// Create stores a new session.
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a session by ID.
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update overwrites an existing session.
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete removes a session by ID.
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// CreateInput defines the input for creating a session.
type CreateInput struct {
	Session *wildsea.Session
}

// CreateOutput defines the output for creating a session.
type CreateOutput struct {
	Session *wildsea.Session
}

// GetInput defines the input for getting a session.
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a session.
type GetOutput struct {
	Session *wildsea.Session
}

// UpdateInput defines the input for updating a session.
type UpdateInput struct {
	Session *wildsea.Session
}

// UpdateOutput defines the output for updating a session.
type UpdateOutput struct {
	Session *wildsea.Session
}

// DeleteInput defines the input for deleting a session.
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a session.
type DeleteOutput struct{}
