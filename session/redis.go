package session

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisKeyPrefix is prepended to every key written by RedisStorage
const RedisKeyPrefix = "watchlist:"

const redisTimeout = 5 * time.Second

// RedisStorage is a fiber.Storage backed by a redis server
type RedisStorage struct {
	client *redis.Client
	prefix string
}

// NewRedisStorage connects to redis and verifies the connection
func NewRedisStorage(opts *redis.Options) (*RedisStorage, error) {
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "could not connect to redis")
	}
	return &RedisStorage{
		client: client,
		prefix: RedisKeyPrefix,
	}, nil
}

func (s *RedisStorage) key(k string) string {
	return s.prefix + k
}

// Get implements the fiber.Storage interface
func (s *RedisStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

// Set implements the fiber.Storage interface
func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	if exp < 0 {
		exp = 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	return s.client.Set(ctx, s.key(key), val, exp).Err()
}

// Delete implements the fiber.Storage interface
func (s *RedisStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	return s.client.Del(ctx, s.key(key)).Err()
}

// Reset removes all keys with this storage's prefix; other keys in the same
// redis database are left alone.
func (s *RedisStorage) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Close implements the fiber.Storage interface
func (s *RedisStorage) Close() error {
	return s.client.Close()
}
