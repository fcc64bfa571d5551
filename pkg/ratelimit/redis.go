package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
var rateLimitScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`)

// Redis keeps fixed-window counters in Redis so several instances share limits.
type Redis struct {
	client goredis.Scripter
	prefix string
	limit  int
	window time.Duration
}

func NewRedis(client goredis.Scripter, prefix string, limit int, window time.Duration) *Redis {
	return &Redis{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

func (r *Redis) Allow(ctx context.Context, key string) (Result, error) {
	ttlSeconds := int(r.window.Seconds())
	if ttlSeconds < 1 {
		ttlSeconds = 1
	}

	raw, err := rateLimitScript.Run(ctx, r.client, []string{r.prefix + key}, ttlSeconds).Result()
	if err != nil {
		return Result{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	count, ttl, err := parseScriptResult(raw)
	if err != nil {
		return Result{}, err
	}

	return newResult(int(count), r.limit, time.Now().Add(time.Duration(ttl)*time.Second)), nil
}

func parseScriptResult(raw any) (int64, int64, error) {
	arr, ok := raw.([]any)
	if !ok || len(arr) < 2 {
		return 0, 0, errors.New("unexpected redis result format")
	}

	count, ok := arr[0].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("unexpected redis count type %T", arr[0])
	}
	ttl, _ := arr[1].(int64)
	if ttl < 0 {
		ttl = 0
	}
	return count, ttl, nil
}
