package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/storefront/internal/port"
)

const (
	kvKeyPrefix          = "kv:"
	idempotencyKeyPrefix = "idempotency:"
	idempotencyKeyTTL    = 24 * time.Hour
)

// Returns the new version, or -1 when the expected version does not match.
var compareAndSetScript = redis.NewScript(`
local key = KEYS[1]
local expected = tonumber(ARGV[2])

local current = tonumber(redis.call('HGET', key, 'version') or '0')
if expected >= 0 and current ~= expected then
	return -1
end

local next = current + 1
redis.call('HSET', key, 'value', ARGV[1], 'version', next)
return next
`)

type RedisAdapter struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client, ttl: idempotencyKeyTTL}
}

// WithIdempotencyTTL changes how long claimed request keys are remembered.
func (r *RedisAdapter) WithIdempotencyTTL(ttl time.Duration) *RedisAdapter {
	if ttl > 0 {
		r.ttl = ttl
	}
	return r
}

func (r *RedisAdapter) Get(ctx context.Context, key string) (port.Entry, bool, error) {
	vals, err := r.client.HMGet(ctx, kvKeyPrefix+key, "value", "version").Result()
	if err != nil {
		return port.Entry{}, false, err
	}
	if len(vals) != 2 || vals[0] == nil {
		return port.Entry{}, false, nil
	}

	value, _ := vals[0].(string)
	rawVersion, _ := vals[1].(string)
	version, err := strconv.ParseInt(rawVersion, 10, 64)
	if err != nil {
		return port.Entry{}, false, fmt.Errorf("parse version of %s: %w", key, err)
	}

	return port.Entry{Value: value, Version: version}, true, nil
}

func (r *RedisAdapter) Put(ctx context.Context, key, value string, expectedVersion int64) (int64, error) {
	result, err := compareAndSetScript.Run(ctx, r.client, []string{kvKeyPrefix + key}, value, expectedVersion).Int64()
	if err != nil {
		return 0, err
	}
	if result < 0 {
		return 0, port.ErrOptimisticLock
	}

	return result, nil
}

func (r *RedisAdapter) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, idempotencyKeyPrefix+key, 1, r.ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (r *RedisAdapter) Release(ctx context.Context, key string) error {
	err := r.client.Del(ctx, idempotencyKeyPrefix+key).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
