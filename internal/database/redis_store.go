package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements KVStore on a single Redis hash.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int, key string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{client: client, key: key}, nil
}

func (s *RedisStore) Close(ctx context.Context) error {
	return s.client.Close()
}

func (s *RedisStore) GetAll(ctx context.Context) (Records, error) {
	values, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis HGETALL failed: %w", err)
	}

	records := make(Records, len(values))
	for field, value := range values {
		records[field] = []byte(value)
	}
	return records, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (Records, error) {
	value, err := s.client.HGet(ctx, s.key, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Records{}, nil
		}
		return nil, fmt.Errorf("redis HGET failed: %w", err)
	}
	return Records{key: []byte(value)}, nil
}

func (s *RedisStore) Set(ctx context.Context, records Records) error {
	if len(records) == 0 {
		return nil
	}

	values := make(map[string]interface{}, len(records))
	for key, data := range records {
		values[key] = string(data)
	}

	if err := s.client.HSet(ctx, s.key, values).Err(); err != nil {
		return fmt.Errorf("redis HSET failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.client.HDel(ctx, s.key, key).Err(); err != nil {
		return fmt.Errorf("redis HDEL failed: %w", err)
	}
	return nil
}
