package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	scanCount = 100
	mgetBatch = 200
)

type RedisBackend struct {
	client redis.UniversalClient
}

var _ Backend = (*RedisBackend)(nil)

func NewRedisBackend(client redis.UniversalClient) *RedisBackend {
	return &RedisBackend{client: client}
}

func (r *RedisBackend) Put(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("kv - redis - Put: %w", err)
	}
	return nil
}

func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv - redis - Get: %w", err)
	}
	return value, nil
}

func (r *RedisBackend) List(ctx context.Context, prefix string) ([]Entry, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, escapeGlob(prefix)+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("kv - redis - List - scan: %w", err)
	}

	entries := make([]Entry, 0, len(keys))
	for start := 0; start < len(keys); start += mgetBatch {
		end := min(start+mgetBatch, len(keys))
		batch := keys[start:end]

		values, err := r.client.MGet(ctx, batch...).Result()
		if err != nil {
			return nil, fmt.Errorf("kv - redis - List - mget: %w", err)
		}
		for i, v := range values {
			s, ok := v.(string)
			if !ok {
				continue
			}
			entries = append(entries, Entry{Key: batch[i], Value: []byte(s)})
		}
	}
	return entries, nil
}

func (r *RedisBackend) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("kv - redis - Delete: %w", err)
	}
	return nil
}

func escapeGlob(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', ']', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
