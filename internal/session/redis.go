package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang/snappy"
	"github.com/redis/go-redis/v9"

	"github.com/soltixdb/soltix-forecast/internal/config"
)

const redisOpTimeout = 3 * time.Second

// RedisStorage implements fiber.Storage on Redis. Values are optionally
// snappy-compressed.
type RedisStorage struct {
	client   *redis.Client
	prefix   string
	compress bool
}

// NewRedisStorage connects to the Redis server named in cfg
func NewRedisStorage(cfg config.SessionConfig) (*RedisStorage, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		opts = &redis.Options{Addr: cfg.RedisURL, DB: cfg.RedisDB}
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to session Redis: %w", err)
	}

	return NewRedisStorageWithClient(client, cfg.KeyPrefix, cfg.Compress), nil
}

// NewRedisStorageWithClient wraps an existing client
func NewRedisStorageWithClient(client *redis.Client, prefix string, compress bool) *RedisStorage {
	return &RedisStorage{client: client, prefix: prefix, compress: compress}
}

func (s *RedisStorage) key(id string) string {
	return s.prefix + id
}

// Get returns nil without error for a missing session
func (s *RedisStorage) Get(id string) ([]byte, error) {
	if id == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	val, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if !s.compress {
		return val, nil
	}

	decoded, err := snappy.Decode(nil, val)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress session: %w", err)
	}
	return decoded, nil
}

// Set stores val for exp; zero exp means no expiry
func (s *RedisStorage) Set(id string, val []byte, exp time.Duration) error {
	if id == "" || len(val) == 0 {
		return nil
	}
	if s.compress {
		val = snappy.Encode(nil, val)
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := s.client.Set(ctx, s.key(id), val, exp).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Delete removes a session
func (s *RedisStorage) Delete(id string) error {
	if id == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return s.client.Del(ctx, s.key(id)).Err()
}

// Reset removes every session under the prefix
func (s *RedisStorage) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to reset sessions: %w", err)
		}
	}
	return iter.Err()
}

// Close closes the Redis client
func (s *RedisStorage) Close() error {
	return s.client.Close()
}
