package scanner

import (
	"bytes"
	"context"
	"errors"
	"sync"

	dErrors "clicker/pkg/domain-errors"
)

// ErrNoCard is returned by Simulated.Transceive when no card is held.
var ErrNoCard = errors.New("transceive fail")

var statusOK = []byte{0x90, 0x00}

type simulatedCard struct {
	tag   Tag
	canID []byte
}

// Simulated is an in-process Reader for mock mode and tests. Cards are queued
// with Present and answer the purse APDUs with the given CAN ID bytes.
type Simulated struct {
	cards chan simulatedCard

	mu      sync.Mutex
	current *simulatedCard
}

func NewSimulated() *Simulated {
	return &Simulated{cards: make(chan simulatedCard, 8)}
}

// Present queues a card. A canID shorter than eight bytes models a card
// without a purse.
func (s *Simulated) Present(tagID string, canID []byte) error {
	select {
	case s.cards <- simulatedCard{tag: Tag{ID: tagID}, canID: bytes.Clone(canID)}:
		return nil
	default:
		return dErrors.New(dErrors.CodeConflict, "too many simulated cards queued")
	}
}

func (s *Simulated) WaitForCard(ctx context.Context) (Tag, error) {
	select {
	case card := <-s.cards:
		s.mu.Lock()
		s.current = &card
		s.mu.Unlock()
		return card.tag, nil
	case <-ctx.Done():
		return Tag{}, ctx.Err()
	}
}

func (s *Simulated) Transceive(_ context.Context, apdu []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, ErrNoCard
	}
	switch {
	case bytes.Equal(apdu, selectPurseAPDU):
		return statusOK, nil
	case bytes.Equal(apdu, readPurseAPDU):
		resp := make([]byte, canIDOffset, canIDOffset+len(s.current.canID)+len(statusOK))
		resp = append(resp, s.current.canID...)
		if len(s.current.canID) < 8 {
			return resp, nil
		}
		return append(resp, statusOK...), nil
	default:
		return []byte{0x6d, 0x00}, nil
	}
}

func (s *Simulated) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	return nil
}
