// Package store keeps card bindings on the terminal, in memory or in Redis.
package store

import (
	"context"
	"sync"
	"time"

	"clicker/internal/identity"
	"clicker/pkg/platform/sentinel"
)

type binding struct {
	id        identity.Identifier
	expiresAt time.Time
}

// InMemory is a process-local binding store. Entries expire after the TTL;
// a zero TTL keeps them for the life of the process.
type InMemory struct {
	mu       sync.RWMutex
	bindings map[identity.CanID]binding
	ttl      time.Duration
	now      func() time.Time
}

type InMemoryOption func(*InMemory)

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) InMemoryOption {
	return func(s *InMemory) {
		s.now = now
	}
}

func NewInMemory(ttl time.Duration, opts ...InMemoryOption) *InMemory {
	s := &InMemory{
		bindings: make(map[identity.CanID]binding),
		ttl:      ttl,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemory) Bind(_ context.Context, canID identity.CanID, id identity.Identifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := binding{id: id}
	if s.ttl > 0 {
		b.expiresAt = s.now().Add(s.ttl)
	}
	s.bindings[canID] = b
	return nil
}

func (s *InMemory) Lookup(_ context.Context, canID identity.CanID) (identity.Identifier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bindings[canID]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	if !b.expiresAt.IsZero() && !s.now().Before(b.expiresAt) {
		return "", sentinel.ErrNotFound
	}
	return b.id, nil
}
