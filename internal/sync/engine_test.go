package sync_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftcrew/wildsea-api/internal/pkg/clock"
	"github.com/driftcrew/wildsea-api/internal/repositories/presence"
	syncengine "github.com/driftcrew/wildsea-api/internal/sync"
	"github.com/driftcrew/wildsea-api/internal/testutils"
)

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}

func TestPushDeliveryTriggersRefresh(t *testing.T) {
	client, _ := testutils.CreateTestRedis(t)
	ctx := context.Background()

	var refreshes atomic.Int32
	watcher, err := syncengine.Watch(ctx, &syncengine.WatcherConfig{
		Client:    client,
		SessionID: "sess_1",
		Kind:      syncengine.KindCharacter,
		EntityID:  "char_1",
		ClientID:  "client_a",
		OnRefresh: func(context.Context) { refreshes.Add(1) },
	})
	require.NoError(t, err)
	defer watcher.Stop()

	waitFor(t, func() bool { return watcher.State() == syncengine.StateLive }, "push channel live")

	pub, err := syncengine.NewPublisher(&syncengine.PublisherConfig{Client: client})
	require.NoError(t, err)

	err = pub.Publish(ctx, "sess_1", syncengine.Event{
		Type:     syncengine.EventUpdated,
		Kind:     syncengine.KindCharacter,
		EntityID: "char_1",
		Origin:   "client_b",
	})
	require.NoError(t, err)

	waitFor(t, func() bool { return refreshes.Load() >= 1 }, "refresh after push")
}

func TestOwnEchoSuppressed(t *testing.T) {
	client, _ := testutils.CreateTestRedis(t)
	ctx := context.Background()

	var refreshes atomic.Int32
	watcher, err := syncengine.Watch(ctx, &syncengine.WatcherConfig{
		Client:    client,
		SessionID: "sess_1",
		Kind:      syncengine.KindShip,
		EntityID:  "ship_1",
		ClientID:  "client_a",
		OnRefresh: func(context.Context) { refreshes.Add(1) },
	})
	require.NoError(t, err)
	defer watcher.Stop()

	waitFor(t, func() bool { return watcher.State() == syncengine.StateLive }, "push channel live")

	pub, err := syncengine.NewPublisher(&syncengine.PublisherConfig{Client: client})
	require.NoError(t, err)

	// Own write first, then another client's: only the second fires.
	require.NoError(t, pub.Publish(ctx, "sess_1", syncengine.Event{
		Type: syncengine.EventUpdated, Kind: syncengine.KindShip, EntityID: "ship_1", Origin: "client_a",
	}))
	require.NoError(t, pub.Publish(ctx, "sess_1", syncengine.Event{
		Type: syncengine.EventUpdated, Kind: syncengine.KindShip, EntityID: "ship_1", Origin: "client_b",
	}))

	waitFor(t, func() bool { return refreshes.Load() >= 1 }, "refresh from other client")
	assert.Equal(t, int32(1), refreshes.Load(), "own echo must not refresh")
}

func TestOtherEntityEventsFiltered(t *testing.T) {
	client, _ := testutils.CreateTestRedis(t)
	ctx := context.Background()

	var refreshes atomic.Int32
	watcher, err := syncengine.Watch(ctx, &syncengine.WatcherConfig{
		Client:    client,
		SessionID: "sess_1",
		Kind:      syncengine.KindCharacter,
		EntityID:  "char_1",
		ClientID:  "client_a",
		OnRefresh: func(context.Context) { refreshes.Add(1) },
	})
	require.NoError(t, err)
	defer watcher.Stop()

	waitFor(t, func() bool { return watcher.State() == syncengine.StateLive }, "push channel live")

	pub, err := syncengine.NewPublisher(&syncengine.PublisherConfig{Client: client})
	require.NoError(t, err)

	require.NoError(t, pub.Publish(ctx, "sess_1", syncengine.Event{
		Type: syncengine.EventUpdated, Kind: syncengine.KindCharacter, EntityID: "char_other", Origin: "client_b",
	}))
	require.NoError(t, pub.Publish(ctx, "sess_1", syncengine.Event{
		Type: syncengine.EventUpdated, Kind: syncengine.KindCharacter, EntityID: "char_1", Origin: "client_b",
	}))

	waitFor(t, func() bool { return refreshes.Load() >= 1 }, "refresh for watched entity")
	assert.Equal(t, int32(1), refreshes.Load())
}

func TestPollingFallbackDetectsChange(t *testing.T) {
	client, _ := testutils.CreateTestRedis(t)
	ctx := context.Background()

	var stamp atomic.Int64
	stamp.Store(100)

	var refreshes atomic.Int32
	watcher, err := syncengine.Watch(ctx, &syncengine.WatcherConfig{
		Client:       client,
		SessionID:    "sess_1",
		Kind:         syncengine.KindCharacter,
		EntityID:     "char_1",
		ClientID:     "client_a",
		PollInterval: 20 * time.Millisecond,
		Fingerprint: func(context.Context) (int64, error) {
			return stamp.Load(), nil
		},
		OnRefresh: func(context.Context) { refreshes.Add(1) },
	})
	require.NoError(t, err)
	defer watcher.Stop()

	// Unchanged fingerprint never fires.
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, refreshes.Load())

	stamp.Store(101)
	waitFor(t, func() bool { return refreshes.Load() >= 1 }, "refresh after fingerprint increase")
}

func TestStopTearsDownEverything(t *testing.T) {
	client, _ := testutils.CreateTestRedis(t)
	ctx := context.Background()

	var refreshes atomic.Int32
	watcher, err := syncengine.Watch(ctx, &syncengine.WatcherConfig{
		Client:       client,
		SessionID:    "sess_1",
		Kind:         syncengine.KindCharacter,
		EntityID:     "char_1",
		ClientID:     "client_a",
		PollInterval: 20 * time.Millisecond,
		Fingerprint:  func(context.Context) (int64, error) { return 0, nil },
		OnRefresh:    func(context.Context) { refreshes.Add(1) },
	})
	require.NoError(t, err)

	waitFor(t, func() bool { return watcher.State() == syncengine.StateLive }, "push channel live")
	watcher.Stop()
	assert.Equal(t, syncengine.StateDisconnected, watcher.State())

	// Events published after teardown are not delivered.
	pub, err := syncengine.NewPublisher(&syncengine.PublisherConfig{Client: client})
	require.NoError(t, err)
	require.NoError(t, pub.Publish(ctx, "sess_1", syncengine.Event{
		Type: syncengine.EventUpdated, Kind: syncengine.KindCharacter, EntityID: "char_1", Origin: "client_b",
	}))
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, refreshes.Load())
}

func TestEngineLifecycle(t *testing.T) {
	client, _ := testutils.CreateTestRedis(t)
	ctx := context.Background()

	fixed := clock.NewFixed(time.Unix(1_700_000_000, 0))
	presenceRepo, err := presence.NewRedis(&presence.RedisConfig{Client: client, Clock: fixed})
	require.NoError(t, err)

	engine, err := syncengine.NewEngine(ctx, &syncengine.EngineConfig{
		Client:       client,
		PresenceRepo: presenceRepo,
		SessionID:    "sess_1",
		Identity:     "alice",
	})
	require.NoError(t, err)
	require.NotEmpty(t, engine.ClientID())

	// The initial heartbeat lands immediately.
	waitFor(t, func() bool {
		online, err := presenceRepo.ListOnline(ctx, presence.ListOnlineInput{SessionID: "sess_1"})
		return err == nil && len(online.Records) == 1
	}, "heartbeat recorded")

	var refreshes atomic.Int32
	_, err = engine.Watch(ctx, syncengine.KindCharacter, "char_1", nil,
		func(context.Context) { refreshes.Add(1) })
	require.NoError(t, err)

	engine.Stop()
	engine.Stop() // idempotent

	// Presence is cleared on stop, and new watchers are refused.
	online, err := presenceRepo.ListOnline(ctx, presence.ListOnlineInput{SessionID: "sess_1"})
	require.NoError(t, err)
	assert.Empty(t, online.Records)

	_, err = engine.Watch(ctx, syncengine.KindShip, "ship_1", nil, func(context.Context) {})
	assert.Error(t, err)
}
