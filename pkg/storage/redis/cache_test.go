package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T, ttl time.Duration) (*SolutionCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSolutionCache(client, ttl), mr
}

func TestSolutionCache_SetAndGet(t *testing.T) {
	cache, _ := newTestCache(t, 0)
	ctx := context.Background()

	sol := Solution{
		Cells:       "1234341221434321",
		SearchCalls: 17,
		DeadEnds:    2,
		Propagation: 1500 * time.Microsecond,
		Search:      4200 * time.Microsecond,
	}
	cache.Set(ctx, "1030040221030321", sol)

	got, ok := cache.Get(ctx, "1030040221030321")
	if !ok {
		t.Fatal("Get() miss, want hit")
	}
	if got != sol {
		t.Errorf("Get() = %+v, want %+v", got, sol)
	}
}

func TestSolutionCache_Miss(t *testing.T) {
	cache, _ := newTestCache(t, 0)

	if _, ok := cache.Get(context.Background(), "0000000000000000"); ok {
		t.Error("Get() hit for an unset key, want miss")
	}
}

func TestSolutionCache_TTLExpiry(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	cache.Set(ctx, "1030040221030321", Solution{Cells: "1234341221434321"})
	if _, ok := cache.Get(ctx, "1030040221030321"); !ok {
		t.Fatal("Get() miss before expiry, want hit")
	}

	mr.FastForward(2 * time.Minute)
	if _, ok := cache.Get(ctx, "1030040221030321"); ok {
		t.Error("Get() hit after expiry, want miss")
	}
}

func TestSolutionCache_CorruptPayload(t *testing.T) {
	cache, mr := newTestCache(t, 0)

	mr.Set(makeKey("1030040221030321"), "not json")
	if _, ok := cache.Get(context.Background(), "1030040221030321"); ok {
		t.Error("Get() hit for a corrupt payload, want miss")
	}
}
