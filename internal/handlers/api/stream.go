package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/driftcrew/wildsea-api/internal/errors"
	charorch "github.com/driftcrew/wildsea-api/internal/orchestrators/character"
	sessorch "github.com/driftcrew/wildsea-api/internal/orchestrators/session"
	shiporch "github.com/driftcrew/wildsea-api/internal/orchestrators/ship"
	"github.com/driftcrew/wildsea-api/internal/sync"
)

// keepAliveInterval spaces SSE comment lines so intermediaries keep the
// idle connection open.
const keepAliveInterval = 15 * time.Second

// streamSession holds a server-sent-events connection open for one
// client in one session. Every watched kind collapses into refresh
// events telling the client to re-fetch; payloads carry no entity data.
// Closing the request tears down the client's watchers and heartbeat.
func (h *Handler) streamSession(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, r, errors.Internal("streaming unsupported by connection"))
		return
	}

	sessionID := chi.URLParam(r, "id")
	identity := r.URL.Query().Get("identity")
	if identity == "" {
		respondError(w, r, errors.InvalidArgument("identity is required"))
		return
	}

	ctx := r.Context()
	engine, err := sync.NewEngine(ctx, &sync.EngineConfig{
		Client:       h.client,
		PresenceRepo: h.presenceRepo,
		SessionID:    sessionID,
		Identity:     identity,
		ClientID:     clientID(r),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer engine.Stop()

	// Refresh signals from all three watchers funnel through one channel
	// so only this goroutine ever writes the response.
	refreshes := make(chan sync.EntityKind, 8)
	notify := func(kind sync.EntityKind) func(context.Context) {
		return func(context.Context) {
			select {
			case refreshes <- kind:
			default:
			}
		}
	}

	watches := []struct {
		kind        sync.EntityKind
		fingerprint sync.Fingerprint
	}{
		{sync.KindCharacter, h.characterFingerprint(sessionID)},
		{sync.KindShip, h.shipFingerprint(sessionID)},
		{sync.KindSession, h.sessionFingerprint(sessionID)},
	}
	for _, watch := range watches {
		if _, err := engine.Watch(ctx, watch.kind, "", watch.fingerprint, notify(watch.kind)); err != nil {
			respondError(w, r, err)
			return
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// The client may have omitted X-Client-ID; hand back the generated
	// one so it can tag its writes for echo suppression.
	fmt.Fprintf(w, "event: hello\ndata: {\"clientId\":%q}\n\n", engine.ClientID())
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case kind := <-refreshes:
			fmt.Fprintf(w, "event: refresh\ndata: {\"kind\":%q}\n\n", string(kind))
			flusher.Flush()
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		}
	}
}

// characterFingerprint probes the newest write across the session's
// characters so polling notices edits even when push is down.
func (h *Handler) characterFingerprint(sessionID string) sync.Fingerprint {
	return func(ctx context.Context) (int64, error) {
		out, err := h.characters.List(ctx, &charorch.ListInput{SessionID: sessionID})
		if err != nil {
			return 0, err
		}
		var latest int64
		for _, char := range out.Characters {
			if char.UpdatedAt > latest {
				latest = char.UpdatedAt
			}
		}
		return latest, nil
	}
}

func (h *Handler) shipFingerprint(sessionID string) sync.Fingerprint {
	return func(ctx context.Context) (int64, error) {
		out, err := h.ships.List(ctx, &shiporch.ListInput{SessionID: sessionID})
		if err != nil {
			return 0, err
		}
		var latest int64
		for _, ship := range out.Ships {
			if ship.UpdatedAt > latest {
				latest = ship.UpdatedAt
			}
		}
		return latest, nil
	}
}

func (h *Handler) sessionFingerprint(sessionID string) sync.Fingerprint {
	return func(ctx context.Context) (int64, error) {
		out, err := h.sessions.Get(ctx, &sessorch.GetInput{ID: sessionID})
		if err != nil {
			return 0, err
		}
		return out.Session.UpdatedAt, nil
	}
}
