package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps sessions in Redis so they survive restarts and are shared
// between instances.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, userID int64, ttl time.Duration) error {
	return s.client.Set(ctx, keyPrefix+id, userID, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (int64, error) {
	userID, err := s.client.Get(ctx, keyPrefix+id).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return userID, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
