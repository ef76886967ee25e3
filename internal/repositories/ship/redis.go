package ship

import (
	"context"
	"encoding/json"
	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/driftcrew/wildsea-api/internal/entities/wildsea"
	"github.com/driftcrew/wildsea-api/internal/errors"
	"github.com/driftcrew/wildsea-api/internal/pkg/clock"
	redisclient "github.com/driftcrew/wildsea-api/internal/redis"
)

const (
	shipKeyPrefix      = "ship:"
	sessionIndexPrefix = "ship:session:"

	errShipNil        = "ship cannot be nil"
	errShipIDEmpty    = "ship ID cannot be empty"
	errSessionIDEmpty = "session ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis ship repository.
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

// NewRedis creates a Redis-backed ship repository.
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

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Ship == nil {
		return nil, errors.InvalidArgument(errShipNil)
	}
	if input.Ship.ID == "" {
		return nil, errors.InvalidArgument(errShipIDEmpty)
	}

	key := shipKeyPrefix + input.Ship.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("ship with ID %s already exists", input.Ship.ID)
	}

	now := r.clock.Now().Unix()
	input.Ship.CreatedAt = now
	input.Ship.UpdatedAt = now

	data, err := json.Marshal(input.Ship)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal ship")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	if input.Ship.SessionID != "" {
		pipe.SAdd(ctx, sessionIndexPrefix+input.Ship.SessionID, input.Ship.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create ship")
	}

	return &CreateOutput{Ship: input.Ship}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errShipIDEmpty)
	}

	result, err := r.client.Get(ctx, shipKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("ship with ID %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get ship")
	}

	var s wildsea.Ship
	if err := json.Unmarshal([]byte(result), &s); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal ship")
	}

	return &GetOutput{Ship: &s}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.Ship == nil {
		return nil, errors.InvalidArgument(errShipNil)
	}
	if input.Ship.ID == "" {
		return nil, errors.InvalidArgument(errShipIDEmpty)
	}

	existing, err := r.Get(ctx, GetInput{ID: input.Ship.ID})
	if err != nil {
		return nil, err
	}

	input.Ship.UpdatedAt = r.clock.Now().Unix()

	data, err := json.Marshal(input.Ship)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal ship")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, shipKeyPrefix+input.Ship.ID, data, 0)

	if existing.Ship.SessionID != input.Ship.SessionID {
		if existing.Ship.SessionID != "" {
			pipe.SRem(ctx, sessionIndexPrefix+existing.Ship.SessionID, input.Ship.ID)
		}
		if input.Ship.SessionID != "" {
			pipe.SAdd(ctx, sessionIndexPrefix+input.Ship.SessionID, input.Ship.ID)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to update ship")
	}

	return &UpdateOutput{Ship: input.Ship}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errShipIDEmpty)
	}

	getOutput, err := r.Get(ctx, GetInput(input))
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, shipKeyPrefix+input.ID)
	if getOutput.Ship.SessionID != "" {
		pipe.SRem(ctx, sessionIndexPrefix+getOutput.Ship.SessionID, input.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete ship")
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) ListBySessionID(
	ctx context.Context,
	input ListBySessionIDInput,
) (*ListBySessionIDOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	indexKey := sessionIndexPrefix + input.SessionID
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read index %s", indexKey)
	}

	ships := make([]*wildsea.Ship, 0, len(ids))
	for _, id := range ids {
		getOutput, err := r.Get(ctx, GetInput{ID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "ship missing, cleaning up session index",
					"ship_id", id,
					"index_key", indexKey)
				r.client.SRem(ctx, indexKey, id)
				continue
			}
			return nil, errors.Wrapf(err, "failed to get ship %s", id)
		}
		ships = append(ships, getOutput.Ship)
	}

	return &ListBySessionIDOutput{Ships: ships}, nil
}
