package middleware

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter はRedisを使った固定ウィンドウ方式のレート制限。
// 複数のAPIインスタンスで上限を共有する。
type RedisRateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// カウンタを加算し、初回のみ有効期限を設定する。戻り値は {現在値, 残りミリ秒}。
var redisFixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

// NewRedisRateLimiter はwindowあたりlimit件を上限とするRedisRateLimiterを生成する。
func NewRedisRateLimiter(rdb *redis.Client, limit int, window time.Duration, prefix string) *RedisRateLimiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "salon:rl"
	}
	return &RedisRateLimiter{rdb: rdb, limit: limit, window: window, prefix: prefix}
}

// Allow はKeyLimiterを実装する。
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	count, ttl, err := rl.incr(ctx, rl.prefix+":"+key)
	if err != nil {
		return false, 0, err
	}
	if count > int64(rl.limit) {
		if ttl <= 0 {
			ttl = rl.window
		}
		return false, ttl, nil
	}
	return true, 0, nil
}

func (rl *RedisRateLimiter) incr(ctx context.Context, key string) (int64, time.Duration, error) {
	res, err := redisFixedWindowScript.Run(ctx, rl.rdb, []string{key}, rl.window.Milliseconds()).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("レート制限カウンタの更新に失敗しました: %w", err)
	}

	values, ok := res.([]any)
	if !ok || len(values) != 2 {
		return 0, 0, fmt.Errorf("レート制限スクリプトの戻り値が不正です: %T", res)
	}
	count, err := toInt64(values[0])
	if err != nil {
		return 0, 0, err
	}
	pttl, err := toInt64(values[1])
	if err != nil {
		return 0, 0, err
	}
	return count, time.Duration(pttl) * time.Millisecond, nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	}
	return 0, fmt.Errorf("数値に変換できない型です: %T", v)
}
