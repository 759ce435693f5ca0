package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestHelper(t *testing.T) (*miniredis.Miniredis, *CacheHelper) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return server, NewCacheHelper(client, "catalog:")
}

type payload struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func TestCacheHelperRoundTrip(t *testing.T) {
	_, helper := newTestHelper(t)
	ctx := context.Background()

	stored := payload{ID: 3, Name: "Harbor Log"}
	if err := helper.Set(ctx, "detail:3", stored, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var got payload
	if err := helper.Get(ctx, "detail:3", &got); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != stored {
		t.Errorf("Get() = %+v, want %+v", got, stored)
	}
}

func TestCacheHelperMiss(t *testing.T) {
	_, helper := newTestHelper(t)

	var got payload
	err := helper.Get(context.Background(), "detail:404", &got)
	if !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("Expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheHelperExpiry(t *testing.T) {
	server, helper := newTestHelper(t)
	ctx := context.Background()

	if err := helper.Set(ctx, "list", payload{ID: 1}, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	server.FastForward(2 * time.Minute)

	var got payload
	if err := helper.Get(ctx, "list", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("Expected ErrCacheNotFound after TTL, got %v", err)
	}
}

func TestCacheHelperDelete(t *testing.T) {
	_, helper := newTestHelper(t)
	ctx := context.Background()

	if err := helper.Set(ctx, "list", payload{ID: 1}, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := helper.Delete(ctx, "list"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var got payload
	if err := helper.Get(ctx, "list", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("Expected ErrCacheNotFound after delete, got %v", err)
	}
}

func TestCacheHelperInvalidatePattern(t *testing.T) {
	_, helper := newTestHelper(t)
	ctx := context.Background()

	for _, key := range []string{"detail:1", "detail:2", "list"} {
		if err := helper.Set(ctx, key, payload{ID: 1}, time.Minute); err != nil {
			t.Fatalf("Set(%q) error = %v", key, err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "detail:*"); err != nil {
		t.Fatalf("InvalidatePattern() error = %v", err)
	}

	var got payload
	for _, key := range []string{"detail:1", "detail:2"} {
		if err := helper.Get(ctx, key, &got); !errors.Is(err, ErrCacheNotFound) {
			t.Errorf("Get(%q) after invalidation = %v, want ErrCacheNotFound", key, err)
		}
	}
	// Keys outside the pattern survive.
	if err := helper.Get(ctx, "list", &got); err != nil {
		t.Errorf("Get(list) error = %v", err)
	}
}

func TestCacheHelperNilClient(t *testing.T) {
	helper := NewCacheHelper(nil, "catalog:")
	ctx := context.Background()

	var got payload
	if err := helper.Get(ctx, "list", &got); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Get() = %v, want ErrCacheNotAvailable", err)
	}
	if err := helper.Set(ctx, "list", payload{}, time.Minute); err != nil {
		t.Errorf("Set() with nil client must degrade silently, got %v", err)
	}
	if err := helper.Delete(ctx, "list"); err != nil {
		t.Errorf("Delete() with nil client must degrade silently, got %v", err)
	}
	if err := helper.InvalidatePattern(ctx, "detail:*"); err != nil {
		t.Errorf("InvalidatePattern() with nil client must degrade silently, got %v", err)
	}
}
