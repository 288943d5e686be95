// Package redis caches solved boards keyed by their puzzle cell string,
// so repeated solve requests for the same board skip the search.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "goarc:solution:"

// Solution is the cached payload for one solved board.
type Solution struct {
	Cells       string        `json:"cells"`
	SearchCalls int           `json:"search_calls"`
	DeadEnds    int           `json:"dead_ends"`
	Propagation time.Duration `json:"propagation"`
	Search      time.Duration `json:"search"`
}

// SolutionCache stores solutions in Redis with an optional TTL.
// A zero TTL keeps entries until evicted.
type SolutionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSolutionCache(client *redis.Client, ttl time.Duration) *SolutionCache {
	return &SolutionCache{client: client, ttl: ttl}
}

func makeKey(puzzleKey string) string {
	return fmt.Sprintf("%s%s", keyPrefix, puzzleKey)
}

// Set caches a solution under the puzzle's cell key. Failures are
// logged, not returned; the cache is best effort.
func (c *SolutionCache) Set(ctx context.Context, puzzleKey string, sol Solution) {
	data, err := json.Marshal(sol)
	if err != nil {
		slog.Warn("failed to marshal cached solution", "error", err)
		return
	}
	key := makeKey(puzzleKey)
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		slog.Warn("failed to SET cached solution", "key", key, "error", err)
	}
}

// Get returns the cached solution for a puzzle key, or false on a miss.
func (c *SolutionCache) Get(ctx context.Context, puzzleKey string) (Solution, bool) {
	key := makeKey(puzzleKey)
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("failed to GET cached solution", "key", key, "error", err)
		}
		return Solution{}, false
	}
	var sol Solution
	if err := json.Unmarshal([]byte(data), &sol); err != nil {
		slog.Warn("failed to unmarshal cached solution", "key", key, "error", err)
		return Solution{}, false
	}
	return sol, true
}
