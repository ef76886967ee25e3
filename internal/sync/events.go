// Package sync keeps connected viewers of a session consistent. Writes
// publish change events over Redis pub/sub; each watcher combines that
// push feed with an always-running polling fallback into a single
// refresh signal, and a presence heartbeat reports client liveness.
package sync

import (
	"encoding/json"
	"fmt"
)

// EntityKind names a watched entity kind.
type EntityKind string

const (
	KindCharacter EntityKind = "character"
	KindShip      EntityKind = "ship"
	KindSession   EntityKind = "session"
)

// EventType classifies a change event.
type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// Event is a change notification. It is a dirty signal only: consumers
// re-fetch the entity rather than trusting any payload fields. Delivery
// is at-least-once; duplicates are tolerated because the re-fetch is
// idempotent.
type Event struct {
	Type     EventType  `json:"eventType"`
	Kind     EntityKind `json:"kind"`
	EntityID string     `json:"entityId"`

	// Origin is the writing client's ID, used to suppress a client's
	// own echo.
	Origin string `json:"origin,omitempty"`
}

// Channel returns the pub/sub channel for a kind within a session.
func Channel(kind EntityKind, sessionID string) string {
	return fmt.Sprintf("sync:%s:%s", kind, sessionID)
}

func (e Event) marshal() ([]byte, error) {
	return json.Marshal(e)
}

func unmarshalEvent(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}
