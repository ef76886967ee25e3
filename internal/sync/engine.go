package sync

import (
	"context"
	"sync"

	"github.com/driftcrew/wildsea-api/internal/errors"
	"github.com/driftcrew/wildsea-api/internal/pkg/idgen"
	redisclient "github.com/driftcrew/wildsea-api/internal/redis"
	"github.com/driftcrew/wildsea-api/internal/repositories/presence"
)

// Engine owns one client's watchers and heartbeat for one session.
// Switching sessions or signing out calls Stop, which synchronously
// tears down every subscription and timer before a new engine starts,
// so no watcher leaks events across sessions.
type Engine struct {
	cfg EngineConfig

	mu        sync.Mutex
	watchers  []*Watcher
	heartbeat *Heartbeat
	stopped   bool
}

// EngineConfig contains configuration for an Engine.
type EngineConfig struct {
	Client       redisclient.Client
	PresenceRepo presence.Repository
	SessionID    string

	// Identity names this client in presence records, e.g. a player
	// name or account id.
	Identity string

	// ClientID distinguishes this connection for echo suppression. It
	// is generated when omitted.
	ClientID string
}

// Validate validates the EngineConfig.
func (cfg *EngineConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	if cfg.PresenceRepo == nil {
		return errors.InvalidArgument("presence repo cannot be nil")
	}
	if cfg.SessionID == "" {
		return errors.InvalidArgument("session ID cannot be empty")
	}
	if cfg.Identity == "" {
		return errors.InvalidArgument("identity cannot be empty")
	}
	return nil
}

// NewEngine creates an engine and starts its presence heartbeat.
func NewEngine(ctx context.Context, cfg *EngineConfig) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.ClientID == "" {
		cfg.ClientID = idgen.NewUUID("client").Generate()
	}

	hb, err := StartHeartbeat(ctx, &HeartbeatConfig{
		Repo:      cfg.PresenceRepo,
		SessionID: cfg.SessionID,
		Identity:  cfg.Identity,
	})
	if err != nil {
		return nil, err
	}

	return &Engine{cfg: *cfg, heartbeat: hb}, nil
}

// ClientID returns the engine's client identity for echo suppression;
// writers pass it as the Origin of events they publish.
func (e *Engine) ClientID() string {
	return e.cfg.ClientID
}

// Watch registers a watcher for one entity (or all entities of a kind
// when entityID is empty). The watcher is torn down with the engine.
func (e *Engine) Watch(
	ctx context.Context,
	kind EntityKind,
	entityID string,
	fingerprint Fingerprint,
	onRefresh func(ctx context.Context),
) (*Watcher, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return nil, errors.FailedPrecondition("engine is stopped")
	}

	w, err := Watch(ctx, &WatcherConfig{
		Client:      e.cfg.Client,
		SessionID:   e.cfg.SessionID,
		Kind:        kind,
		EntityID:    entityID,
		ClientID:    e.cfg.ClientID,
		Fingerprint: fingerprint,
		OnRefresh:   onRefresh,
	})
	if err != nil {
		return nil, err
	}

	e.watchers = append(e.watchers, w)
	return w, nil
}

// Stop tears down every watcher and the heartbeat, blocking until all
// goroutines have exited. Safe to call more than once.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	watchers := e.watchers
	e.watchers = nil
	hb := e.heartbeat
	e.heartbeat = nil
	e.mu.Unlock()

	for _, w := range watchers {
		w.Stop()
	}
	if hb != nil {
		hb.Stop()
	}
}
