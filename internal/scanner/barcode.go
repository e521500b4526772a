package scanner

import (
	"context"
	"sync"
)

// Barcode relays raw decode events from the camera barcode scanner. It has
// no state beyond enabled/disabled; events delivered while disabled are
// dropped.
type Barcode struct {
	mu      sync.Mutex
	enabled bool
	events  chan string
}

// NewBarcode returns a disabled barcode scanner buffering up to size events.
func NewBarcode(size int) *Barcode {
	if size <= 0 {
		size = 1
	}
	return &Barcode{events: make(chan string, size)}
}

func (b *Barcode) Enable() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = true
}

// Disable stops accepting events and discards any not yet consumed.
func (b *Barcode) Disable() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = false
	for {
		select {
		case <-b.events:
		default:
			return
		}
	}
}

func (b *Barcode) Enabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enabled
}

// Deliver offers a decoded string. It reports false when the event was
// dropped because the scanner is disabled or the buffer is full.
func (b *Barcode) Deliver(raw string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.enabled {
		return false
	}
	select {
	case b.events <- raw:
		return true
	default:
		return false
	}
}

// Next blocks until an event is available or ctx is done.
func (b *Barcode) Next(ctx context.Context) (string, error) {
	select {
	case raw := <-b.events:
		return raw, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
