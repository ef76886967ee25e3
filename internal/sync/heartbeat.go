package sync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/driftcrew/wildsea-api/internal/errors"
	"github.com/driftcrew/wildsea-api/internal/repositories/presence"
)

// DefaultHeartbeatInterval is how often a client reasserts liveness.
const DefaultHeartbeatInterval = 10 * time.Second

// HeartbeatConfig contains configuration for a presence heartbeat.
type HeartbeatConfig struct {
	Repo      presence.Repository
	SessionID string
	Identity  string
	Interval  time.Duration
}

// Validate validates the HeartbeatConfig.
func (cfg *HeartbeatConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Repo == nil {
		return errors.InvalidArgument("repo cannot be nil")
	}
	if cfg.SessionID == "" {
		return errors.InvalidArgument("session ID cannot be empty")
	}
	if cfg.Identity == "" {
		return errors.InvalidArgument("identity cannot be empty")
	}
	return nil
}

// Heartbeat periodically upserts the client's liveness record.
type Heartbeat struct {
	cfg    HeartbeatConfig
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// StartHeartbeat begins beating immediately, then on every interval.
func StartHeartbeat(ctx context.Context, cfg *HeartbeatConfig) (*Heartbeat, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	cfg.Interval = interval

	hctx, cancel := context.WithCancel(ctx)
	h := &Heartbeat{cfg: *cfg, cancel: cancel}

	h.wg.Add(1)
	go h.loop(hctx)

	return h, nil
}

// Stop halts the heartbeat and clears the liveness record so other
// clients see this one go offline without waiting out the window.
func (h *Heartbeat) Stop() {
	h.cancel()
	h.wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := h.cfg.Repo.Clear(ctx, presence.ClearInput{
		SessionID: h.cfg.SessionID,
		Identity:  h.cfg.Identity,
	}); err != nil {
		slog.WarnContext(ctx, "failed to clear presence on stop",
			"session_id", h.cfg.SessionID,
			"identity", h.cfg.Identity,
			"error", err.Error())
	}
}

func (h *Heartbeat) loop(ctx context.Context) {
	defer h.wg.Done()

	h.beat(ctx)

	ticker := time.NewTicker(h.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.beat(ctx)
		}
	}
}

func (h *Heartbeat) beat(ctx context.Context) {
	if _, err := h.cfg.Repo.Heartbeat(ctx, presence.HeartbeatInput{
		SessionID: h.cfg.SessionID,
		Identity:  h.cfg.Identity,
	}); err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.WarnContext(ctx, "heartbeat failed",
			"session_id", h.cfg.SessionID,
			"identity", h.cfg.Identity,
			"error", err.Error())
	}
}
