package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "character:published:"

// redisStore keeps fingerprints as keys with a TTL; redis handles expiry.
type redisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func openRedis(opts Options) Store {
	return newRedisStore(redis.NewClient(&redis.Options{
		Addr:     opts.RedisAddr,
		Password: opts.RedisPassword,
		DB:       opts.RedisDB,
	}), opts.TTL)
}

func newRedisStore(rdb *redis.Client, ttl time.Duration) *redisStore {
	return &redisStore{rdb: rdb, ttl: ttl}
}

func (r *redisStore) Close() error {
	if r == nil || r.rdb == nil {
		return nil
	}
	return r.rdb.Close()
}

func (r *redisStore) Seen(ctx context.Context, key string) (bool, error) {
	exists, err := r.rdb.Exists(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (r *redisStore) Mark(ctx context.Context, key string) error {
	return r.rdb.Set(ctx, redisKeyPrefix+key, "1", r.ttl).Err()
}
