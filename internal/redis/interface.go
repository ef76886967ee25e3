package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client wraps redis.UniversalClient so repositories and the sync engine
// depend on an interface we can substitute in tests.
type Client interface {
	redis.UniversalClient
}

// Pipeliner wraps redis.Pipeliner for batched writes.
type Pipeliner interface {
	redis.Pipeliner
}
