package ratelimit

import (
	"context"
	"testing"
	"time"

	"novaestudio_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, window time.Duration, max int) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(rdb, window, max, logger.New("development")), mr
}

func TestLimiterAllowsUpToMax(t *testing.T) {
	limiter, _ := newTestLimiter(t, time.Minute, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "1.2.3.4")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	allowed, err := limiter.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Error("request above the limit should be rejected")
	}
}

func TestLimiterIsolatesKeys(t *testing.T) {
	limiter, _ := newTestLimiter(t, time.Minute, 1)
	ctx := context.Background()

	if allowed, _ := limiter.Allow(ctx, "1.1.1.1"); !allowed {
		t.Fatal("first key should be allowed")
	}
	if allowed, _ := limiter.Allow(ctx, "2.2.2.2"); !allowed {
		t.Error("second key must have its own window")
	}
}

func TestLimiterWindowResets(t *testing.T) {
	limiter, mr := newTestLimiter(t, time.Minute, 1)
	ctx := context.Background()

	if allowed, _ := limiter.Allow(ctx, "1.2.3.4"); !allowed {
		t.Fatal("first request should be allowed")
	}
	if allowed, _ := limiter.Allow(ctx, "1.2.3.4"); allowed {
		t.Fatal("second request should be rejected")
	}

	mr.FastForward(2 * time.Minute)

	if allowed, _ := limiter.Allow(ctx, "1.2.3.4"); !allowed {
		t.Error("request after window expiry should be allowed")
	}
}

func TestLimiterFailsOpenOnRedisOutage(t *testing.T) {
	limiter, mr := newTestLimiter(t, time.Minute, 1)
	mr.Close()

	allowed, err := limiter.Allow(context.Background(), "1.2.3.4")
	if err == nil {
		t.Error("expected an error with redis down")
	}
	if !allowed {
		t.Error("limiter must fail open when redis is unavailable")
	}
}
