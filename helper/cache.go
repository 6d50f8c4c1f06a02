package helper

import (
	"asaan_shaadi/logger"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	LookupCacheTTL  = 10 * time.Minute
	// LookupKeyPrefix namespaces every cached lookup list.
	LookupKeyPrefix = "lookup:"
)

// Cached returns the value stored under key, calling load and storing its
// result on a miss. Without Redis it always calls load.
func Cached[T any](ctx context.Context, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if redisClient == nil {
		return load()
	}

	raw, err := redisClient.Get(ctx, key).Bytes()
	if err == nil {
		var out T
		if err := json.Unmarshal(raw, &out); err == nil {
			return out, nil
		}
		logger.L().Warn("discarding unreadable cache entry", zap.String("key", key))
	} else if !errors.Is(err, redis.Nil) {
		logger.L().Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	value, err := load()
	if err != nil {
		return value, err
	}
	if payload, err := json.Marshal(value); err == nil {
		if err := redisClient.Set(ctx, key, payload, ttl).Err(); err != nil {
			logger.L().Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return value, nil
}

// InvalidateLookups drops the cached lookup lists after their tables change
// and reports how many keys were removed.
func InvalidateLookups(ctx context.Context) (int, error) {
	if redisClient == nil {
		return 0, nil
	}
	var keys []string
	iter := redisClient.Scan(ctx, 0, LookupKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := redisClient.Del(ctx, keys...).Err(); err != nil {
		return 0, err
	}
	return len(keys), nil
}
