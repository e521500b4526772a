package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"clicker/internal/auth"
	"clicker/pkg/domain"
	"clicker/pkg/platform/sentinel"
)

// Redis key prefix for terminal logins
const loginKeyPrefix = "clicker:login:"

// persistedRecord is the JSON form of auth.Record.
type persistedRecord struct {
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	ClickerID    string    `json:"clicker_id,omitempty"`
	Username     string    `json:"username,omitempty"`
}

// Redis keeps the login of one terminal under its own key. The key expires
// with the session.
type Redis struct {
	client *redis.Client
	key    string
	now    func() time.Time
}

type RedisOption func(*Redis)

// WithRedisClock overrides the time source used to compute key expiry.
func WithRedisClock(now func() time.Time) RedisOption {
	return func(s *Redis) {
		s.now = now
	}
}

// NewRedis stores the login of the terminal named terminalID.
func NewRedis(client *redis.Client, terminalID string, opts ...RedisOption) *Redis {
	s := &Redis{
		client: client,
		key:    loginKeyPrefix + terminalID,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Redis) Save(ctx context.Context, record auth.Record) error {
	p := persistedRecord{
		SessionToken: record.Session.Token,
		ExpiresAt:    record.Session.ExpiresAt,
		Username:     record.Binding.Username,
	}
	if !record.Binding.ClickerID.IsNil() {
		p.ClickerID = record.Binding.ClickerID.String()
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal login: %w", err)
	}

	var ttl time.Duration
	if !record.Session.ExpiresAt.IsZero() {
		ttl = record.Session.ExpiresAt.Sub(s.now())
		if ttl <= 0 {
			return s.Clear(ctx)
		}
	}
	if err := s.client.Set(ctx, s.key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("store login: %w", err)
	}
	return nil
}

func (s *Redis) Load(ctx context.Context) (auth.Record, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return auth.Record{}, sentinel.ErrNotFound
	}
	if err != nil {
		return auth.Record{}, fmt.Errorf("load login: %w", err)
	}

	var p persistedRecord
	if err := json.Unmarshal(raw, &p); err != nil {
		return auth.Record{}, fmt.Errorf("decode login: %w", err)
	}
	record := auth.Record{
		Session: domain.Session{Token: p.SessionToken, ExpiresAt: p.ExpiresAt},
		Binding: domain.ClickerBinding{Username: p.Username},
	}
	if p.ClickerID != "" {
		id, err := domain.ParseClickerID(p.ClickerID)
		if err != nil {
			return auth.Record{}, fmt.Errorf("decode login: %w", err)
		}
		record.Binding.ClickerID = id
	}
	return record, nil
}

func (s *Redis) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear login: %w", err)
	}
	return nil
}
