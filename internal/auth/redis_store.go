package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenKeyPrefix = "estore:auth:token:"

// RedisTokenStore хранит токены в Redis; TTL делегируется самому Redis.
type RedisTokenStore struct {
	client *redis.Client
}

// NewRedisTokenStore создаёт хранилище поверх готового клиента Redis.
func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) Save(ctx context.Context, token, subject string, ttl time.Duration) error {
	if err := s.client.Set(ctx, tokenKeyPrefix+token, subject, ttl).Err(); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *RedisTokenStore) Subject(ctx context.Context, token string) (string, error) {
	subject, err := s.client.Get(ctx, tokenKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("lookup token: %w", err)
	}
	return subject, nil
}

func (s *RedisTokenStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, tokenKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

var _ TokenStore = (*RedisTokenStore)(nil)
