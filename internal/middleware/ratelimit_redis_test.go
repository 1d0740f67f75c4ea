package middleware

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// newTestRedis はTEST_REDIS_URLのRedisに接続する。未設定または接続できない場合はスキップする。
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL is not set")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("invalid TEST_REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(opts)
	t.Cleanup(func() { rdb.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("redis is not reachable: %v", err)
	}
	return rdb
}

func TestRedisRateLimiter_FixedWindow(t *testing.T) {
	rdb := newTestRedis(t)
	prefix := "test:" + uuid.NewString()
	rl := NewRedisRateLimiter(rdb, 2, 10*time.Second, prefix)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, _, err := rl.Allow(ctx, "192.0.2.1")
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !allowed {
			t.Fatalf("request %d should be allowed", i)
		}
	}

	allowed, retryAfter, err := rl.Allow(ctx, "192.0.2.1")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if allowed {
		t.Fatal("third request should be rejected")
	}
	if retryAfter <= 0 || retryAfter > 10*time.Second {
		t.Errorf("retryAfter = %v, want within window", retryAfter)
	}

	// 別クライアントは独立してカウントされる
	if allowed, _, _ := rl.Allow(ctx, "198.51.100.7"); !allowed {
		t.Error("other client should be allowed")
	}
}

func TestNewRedisRateLimiter_Defaults(t *testing.T) {
	rl := NewRedisRateLimiter(nil, 0, 0, " ")
	if rl.limit != 60 || rl.window != time.Minute || rl.prefix != "salon:rl" {
		t.Errorf("defaults = %d / %v / %q", rl.limit, rl.window, rl.prefix)
	}
}
