// Package store persists the terminal's login, in memory or in Redis.
package store

import (
	"context"
	"sync"

	"clicker/internal/auth"
	"clicker/pkg/platform/sentinel"
)

// InMemory keeps the login for the life of the process.
type InMemory struct {
	mu     sync.RWMutex
	record *auth.Record
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Save(_ context.Context, record auth.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = &record
	return nil
}

func (s *InMemory) Load(_ context.Context) (auth.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.record == nil {
		return auth.Record{}, sentinel.ErrNotFound
	}
	return *s.record, nil
}

func (s *InMemory) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = nil
	return nil
}
