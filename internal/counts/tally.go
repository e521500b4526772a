package counts

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ClickerDetails is the running total and display name of the clicker the
// station is bound to.
type ClickerDetails struct {
	Count int
	Name  string
}

// Tally caches the clicker's details. Concurrent refreshes share one remote
// call.
type Tally struct {
	fetcher     DetailsFetcher
	credentials CredentialsSource
	group       singleflight.Group

	mu      sync.RWMutex
	details ClickerDetails
	loaded  bool
}

func NewTally(fetcher DetailsFetcher, credentials CredentialsSource) (*Tally, error) {
	if fetcher == nil {
		return nil, errors.New("details fetcher is required")
	}
	if credentials == nil {
		return nil, errors.New("credentials source is required")
	}
	return &Tally{fetcher: fetcher, credentials: credentials}, nil
}

// Refresh fetches the details from the service and caches them.
func (t *Tally) Refresh(ctx context.Context) (ClickerDetails, error) {
	v, err, _ := t.group.Do("details", func() (any, error) {
		d, err := t.fetcher.ClickerDetails(ctx, t.credentials.Credentials())
		if err != nil {
			return nil, err
		}
		if d == nil {
			return nil, &ProtocolError{Detail: "empty clicker details"}
		}
		t.mu.Lock()
		t.details = *d
		t.loaded = true
		t.mu.Unlock()
		return *d, nil
	})
	if err != nil {
		return ClickerDetails{}, err
	}
	return v.(ClickerDetails), nil
}

// Current returns the cached details and whether any have been loaded.
func (t *Tally) Current() (ClickerDetails, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.details, t.loaded
}

// Observe records a running total reported with a successful update.
func (t *Tally) Observe(count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.details.Count = count
}
