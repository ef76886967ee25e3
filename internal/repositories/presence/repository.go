// Package presence provides the interface for client liveness records.
package presence

import (
	"context"
	"time"
)

// OnlineWindow is how recent a heartbeat must be for a client to count
// as online: three missed 10s heartbeats and the client is presumed
// offline.
const OnlineWindow = 30 * time.Second

// Record is one client's liveness record within a session.
type Record struct {
	SessionID string `json:"sessionId"`
	Identity  string `json:"identity"`
	LastSeen  int64  `json:"lastSeen"`
}

// Repository defines the persistence contract for presence.
type Repository interface {
	// Heartbeat upserts the client's liveness record with the current time.
	Heartbeat(ctx context.Context, input HeartbeatInput) (*HeartbeatOutput, error)

	// ListOnline returns the clients whose last heartbeat falls within
	// OnlineWindow.
	ListOnline(ctx context.Context, input ListOnlineInput) (*ListOnlineOutput, error)

	// Clear removes the client's liveness record on sign-out or session
	// switch.
	Clear(ctx context.Context, input ClearInput) (*ClearOutput, error)
}

// HeartbeatInput defines the input for a heartbeat upsert.
type HeartbeatInput struct {
	SessionID string
	Identity  string
}

// HeartbeatOutput defines the output for a heartbeat upsert.
type HeartbeatOutput struct {
	Record *Record
}

// ListOnlineInput defines the input for listing online clients.
type ListOnlineInput struct {
	SessionID string
}

// ListOnlineOutput defines the output for listing online clients.
type ListOnlineOutput struct {
	Records []*Record
}

// ClearInput defines the input for clearing a liveness record.
type ClearInput struct {
	SessionID string
	Identity  string
}

// ClearOutput defines the output for clearing a liveness record.
type ClearOutput struct{}
