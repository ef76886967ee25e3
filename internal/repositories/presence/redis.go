package presence

import (
	"context"
	"strconv"

	"github.com/driftcrew/wildsea-api/internal/errors"
	"github.com/driftcrew/wildsea-api/internal/pkg/clock"
	redisclient "github.com/driftcrew/wildsea-api/internal/redis"
)

const (
	presenceKeyPrefix = "presence:"

	errSessionIDEmpty = "session ID cannot be empty"
	errIdentityEmpty  = "identity cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis presence repository.
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a Redis-backed presence repository. Records live in
// a hash per session: field identity, value last-seen unix seconds.
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{client: cfg.Client, clock: c}, nil
}

func (r *redisRepository) Heartbeat(ctx context.Context, input HeartbeatInput) (*HeartbeatOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}
	if input.Identity == "" {
		return nil, errors.InvalidArgument(errIdentityEmpty)
	}

	now := r.clock.Now().Unix()
	key := presenceKeyPrefix + input.SessionID
	if err := r.client.HSet(ctx, key, input.Identity, now).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to record heartbeat")
	}

	return &HeartbeatOutput{Record: &Record{
		SessionID: input.SessionID,
		Identity:  input.Identity,
		LastSeen:  now,
	}}, nil
}

func (r *redisRepository) ListOnline(ctx context.Context, input ListOnlineInput) (*ListOnlineOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	key := presenceKeyPrefix + input.SessionID
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list presence")
	}

	cutoff := r.clock.Now().Add(-OnlineWindow).Unix()
	records := make([]*Record, 0, len(fields))
	for identity, raw := range fields {
		lastSeen, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			// Unparseable records are dropped from the hash.
			r.client.HDel(ctx, key, identity)
			continue
		}
		if lastSeen < cutoff {
			continue
		}
		records = append(records, &Record{
			SessionID: input.SessionID,
			Identity:  identity,
			LastSeen:  lastSeen,
		})
	}

	return &ListOnlineOutput{Records: records}, nil
}

func (r *redisRepository) Clear(ctx context.Context, input ClearInput) (*ClearOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}
	if input.Identity == "" {
		return nil, errors.InvalidArgument(errIdentityEmpty)
	}

	key := presenceKeyPrefix + input.SessionID
	if err := r.client.HDel(ctx, key, input.Identity).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to clear presence")
	}

	return &ClearOutput{}, nil
}
