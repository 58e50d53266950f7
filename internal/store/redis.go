package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisKV is a key-value store on a Redis server. Keys are namespaced under
// a prefix so several tools can share one database.
type RedisKV struct {
	rdb       *redis.Client
	namespace string
}

// DialRedis parses url, connects and pings the server.
func DialRedis(ctx context.Context, url string, log zerolog.Logger) (*RedisKV, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().
		Str("addr", opt.Addr).
		Int("db", opt.DB).
		Msg("Redis connected")

	return NewRedisKV(rdb), nil
}

// NewRedisKV wraps an existing client.
func NewRedisKV(rdb *redis.Client) *RedisKV {
	return &RedisKV{rdb: rdb, namespace: "learnex:"}
}

func (kv *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := kv.rdb.Get(ctx, kv.namespace+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return b, nil
}

func (kv *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := kv.rdb.Set(ctx, kv.namespace+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (kv *RedisKV) Delete(ctx context.Context, key string) error {
	if err := kv.rdb.Del(ctx, kv.namespace+key).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

// List scans keys with the given prefix. Redis keeps no modification time,
// so UpdatedAt is left zero.
func (kv *RedisKV) List(ctx context.Context, prefix string) ([]KVEntry, error) {
	var out []KVEntry
	iter := kv.rdb.Scan(ctx, 0, kv.namespace+prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		full := iter.Val()
		n, err := kv.rdb.StrLen(ctx, full).Result()
		if err != nil {
			return nil, fmt.Errorf("redis strlen %q: %w", full, err)
		}
		out = append(out, KVEntry{Key: full[len(kv.namespace):], Size: int(n)})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Close closes the client.
func (kv *RedisKV) Close() error {
	return kv.rdb.Close()
}
