package sync

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/driftcrew/wildsea-api/internal/errors"
	redisclient "github.com/driftcrew/wildsea-api/internal/redis"
)

// State is the push channel's connection state. The polling path runs
// regardless; push being anything other than Live just means polling is
// the sole delivery mechanism.
type State int32

const (
	StateDisconnected State = iota
	StateSubscribing
	StateLive
)

// DefaultPollInterval is how often the polling fallback probes the
// watched entity's fingerprint.
const DefaultPollInterval = 3 * time.Second

// Fingerprint probes the watched entity's freshness: a last-modified
// timestamp, or a row count for link tables that carry none. Any
// increase fires a refresh.
type Fingerprint func(ctx context.Context) (int64, error)

// WatcherConfig contains configuration for a Watcher.
type WatcherConfig struct {
	Client    redisclient.Client
	SessionID string
	Kind      EntityKind

	// EntityID narrows the watch to one entity; empty watches every
	// entity of the kind in the session.
	EntityID string

	// ClientID is this client's identity; events it originated are
	// suppressed.
	ClientID string

	// Fingerprint drives the polling fallback. Optional: without it
	// only push delivery runs.
	Fingerprint Fingerprint

	// OnRefresh is invoked (from a single goroutine, coalesced) when
	// the watched entity may have changed. The consumer re-fetches and
	// re-renders; it must not rely on event payloads.
	OnRefresh func(ctx context.Context)

	PollInterval time.Duration
}

// Validate validates the WatcherConfig.
func (cfg *WatcherConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	if cfg.SessionID == "" {
		return errors.InvalidArgument("session ID cannot be empty")
	}
	if cfg.Kind == "" {
		return errors.InvalidArgument("kind cannot be empty")
	}
	if cfg.OnRefresh == nil {
		return errors.InvalidArgument("OnRefresh cannot be nil")
	}
	return nil
}

// Watcher keeps one client's view of one watched entity fresh. Push and
// poll are two producers feeding one coalescing refresh consumer; Stop
// tears all of it down together.
type Watcher struct {
	cfg    WatcherConfig
	state  atomic.Int32
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// notify coalesces refresh triggers: a pending refresh absorbs any
	// further triggers until it is consumed.
	notify chan struct{}

	lastSeen atomic.Int64
}

// Watch starts a watcher. It returns immediately; delivery begins in
// the background.
func Watch(ctx context.Context, cfg *WatcherConfig) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	cfg.PollInterval = interval

	wctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		cfg:    *cfg,
		cancel: cancel,
		notify: make(chan struct{}, 1),
	}

	w.wg.Add(2)
	go w.pushLoop(wctx)
	go w.consumeLoop(wctx)

	if cfg.Fingerprint != nil {
		w.wg.Add(1)
		go w.pollLoop(wctx)
	}

	return w, nil
}

// State reports the push channel state.
func (w *Watcher) State() State {
	return State(w.state.Load())
}

// Stop cancels the subscription and all timers and waits for the
// watcher's goroutines to exit. Safe to call more than once.
func (w *Watcher) Stop() {
	w.cancel()
	w.wg.Wait()
}

func (w *Watcher) trigger() {
	select {
	case w.notify <- struct{}{}:
	default:
		// A refresh is already pending; duplicates collapse into it.
	}
}

func (w *Watcher) consumeLoop(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.notify:
			w.cfg.OnRefresh(ctx)
		}
	}
}

// pushLoop maintains the pub/sub subscription. Errors are logged and
// retried; they are never fatal because polling runs in parallel.
func (w *Watcher) pushLoop(ctx context.Context) {
	defer w.wg.Done()
	defer w.state.Store(int32(StateDisconnected))

	channel := Channel(w.cfg.Kind, w.cfg.SessionID)

	for {
		if ctx.Err() != nil {
			return
		}

		w.state.Store(int32(StateSubscribing))
		pubsub := w.cfg.Client.Subscribe(ctx, channel)

		// Wait for the subscription to be confirmed before reporting
		// the push channel live.
		if _, err := pubsub.Receive(ctx); err != nil {
			_ = pubsub.Close()
			if ctx.Err() != nil {
				return
			}
			slog.WarnContext(ctx, "push subscribe failed, polling remains active",
				"channel", channel,
				"error", err.Error())
			w.state.Store(int32(StateDisconnected))
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.cfg.PollInterval):
			}
			continue
		}
		w.state.Store(int32(StateLive))

		msgs := pubsub.Channel()
	receive:
		for {
			select {
			case <-ctx.Done():
				_ = pubsub.Close()
				return
			case msg, ok := <-msgs:
				if !ok {
					break receive
				}
				event, err := unmarshalEvent([]byte(msg.Payload))
				if err != nil {
					slog.WarnContext(ctx, "dropping malformed change event",
						"channel", channel,
						"error", err.Error())
					continue
				}
				if event.Origin != "" && event.Origin == w.cfg.ClientID {
					continue // own echo
				}
				if w.cfg.EntityID != "" && event.EntityID != w.cfg.EntityID {
					continue
				}
				w.trigger()
			}
		}

		// Channel closed underneath us; resubscribe.
		_ = pubsub.Close()
		w.state.Store(int32(StateDisconnected))
		slog.WarnContext(ctx, "push channel closed, resubscribing", "channel", channel)
	}
}

// pollLoop is the always-running safety net: even with push nominally
// live, the fingerprint is probed every interval.
func (w *Watcher) pollLoop(ctx context.Context) {
	defer w.wg.Done()

	// Seed the baseline so the first tick doesn't fire a spurious
	// refresh for an unchanged entity.
	if v, err := w.cfg.Fingerprint(ctx); err == nil {
		w.lastSeen.Store(v)
	}

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v, err := w.cfg.Fingerprint(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				slog.WarnContext(ctx, "poll probe failed",
					"kind", string(w.cfg.Kind),
					"entity_id", w.cfg.EntityID,
					"error", err.Error())
				continue
			}
			if v > w.lastSeen.Load() {
				w.lastSeen.Store(v)
				w.trigger()
			}
		}
	}
}
