package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"clicker/internal/identity"
	"clicker/pkg/platform/sentinel"
)

// Redis key prefix for card bindings
const bindingKeyPrefix = "clicker:can:"

// Redis is a binding store shared by terminals at the same venue. Expiry is
// left to Redis via the key TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Bind stores the binding with SET and the configured TTL.
func (s *Redis) Bind(ctx context.Context, canID identity.CanID, id identity.Identifier) error {
	if err := s.client.Set(ctx, bindingKeyPrefix+canID.String(), id.String(), s.ttl).Err(); err != nil {
		return fmt.Errorf("store card binding: %w", err)
	}
	return nil
}

func (s *Redis) Lookup(ctx context.Context, canID identity.CanID) (identity.Identifier, error) {
	v, err := s.client.Get(ctx, bindingKeyPrefix+canID.String()).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("look up card binding: %w", err)
	}
	return identity.Identifier(v), nil
}
