package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

// Minimal row shape; only the session link matters here.
type entityRow struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId"`
}

// Rebuilds the <kind>:session:<sid> index sets from the entity blobs.
// Needed after hand-editing rows in redis-cli, which bypasses the
// pipelined blob+index writes the repositories do.
func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	for _, kind := range []string{"character", "ship"} {
		if err := rebuildKind(ctx, client, kind); err != nil {
			log.Fatalf("Failed to rebuild %s indexes: %v", kind, err)
		}
	}
}

func rebuildKind(ctx context.Context, client *redis.Client, kind string) error {
	stale, err := client.Keys(ctx, fmt.Sprintf("%s:session:*", kind)).Result()
	if err != nil {
		return err
	}
	for _, key := range stale {
		if err := client.Del(ctx, key).Err(); err != nil {
			return err
		}
	}

	keys, err := client.Keys(ctx, kind+":*").Result()
	if err != nil {
		return err
	}

	rebuilt := 0
	for _, key := range keys {
		blob, err := client.Get(ctx, key).Result()
		if err != nil {
			// Index sets and other non-string keys surface here; skip.
			continue
		}

		var row entityRow
		if err := json.Unmarshal([]byte(blob), &row); err != nil || row.ID == "" {
			continue
		}
		if row.SessionID == "" {
			continue
		}

		index := fmt.Sprintf("%s:session:%s", kind, row.SessionID)
		if err := client.SAdd(ctx, index, row.ID).Err(); err != nil {
			return err
		}
		rebuilt++
	}

	fmt.Printf("%s: reindexed %d rows\n", kind, rebuilt)
	return nil
}
