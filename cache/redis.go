package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/oginisearch/ogini-go/config"

	"github.com/redis/go-redis/v9"
)

// RedisStore backs the query cache with Redis. A nil client degrades every
// operation to a cache miss instead of failing.
type RedisStore struct {
	rc     *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed store from configuration
func NewRedisStore(ctx context.Context, cfg *config.Redis, prefix string) (*RedisStore, error) {
	if cfg == nil || cfg.Addr == "" {
		return &RedisStore{prefix: prefix}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.Db,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		DialTimeout:  cfg.DialTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: failed to ping server: %w", err)
	}

	return &RedisStore{rc: client, prefix: prefix}, nil
}

// NewRedisStoreFromClient wraps an existing Redis client
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{rc: client, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.rc == nil {
		log.Printf("redis client is nil, skipping Get operation")
		return nil, false, nil
	}

	result, err := s.rc.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cache: %w", err)
	}
	return result, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s.rc == nil {
		log.Printf("redis client is nil, skipping Set operation")
		return nil
	}

	if err := s.rc.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if s.rc == nil {
		log.Printf("redis client is nil, skipping Delete operation")
		return nil
	}

	if err := s.rc.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

// Flush deletes every key under the store's prefix
func (s *RedisStore) Flush(ctx context.Context) error {
	if s.rc == nil {
		log.Printf("redis client is nil, skipping Flush operation")
		return nil
	}

	iter := s.rc.Scan(ctx, 0, s.prefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.rc.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client
func (s *RedisStore) Close() error {
	if s.rc == nil {
		return nil
	}
	return s.rc.Close()
}
