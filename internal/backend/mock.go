package backend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"clicker/internal/counts"
	"clicker/internal/identity"
	"clicker/internal/registration"
	"clicker/pkg/domain"
	dErrors "clicker/pkg/domain-errors"
	"clicker/pkg/requestcontext"
)

// Mock is an in-process stand-in for the counting service. Visitors may only
// enter when the parity of the second-last character of their identifier
// matches the parity of the day of month; a non-digit counts as odd.
type Mock struct {
	latency time.Duration

	mu       sync.Mutex
	count    int
	name     string
	bindings map[identity.CanID]identity.Identifier
}

var (
	_ counts.Counter         = (*Mock)(nil)
	_ counts.DetailsFetcher  = (*Mock)(nil)
	_ registration.Registrar = (*Mock)(nil)
	_ counts.Counter         = (*Client)(nil)
	_ counts.DetailsFetcher  = (*Client)(nil)
	_ registration.Registrar = (*Client)(nil)
)

type MockOption func(*Mock)

// WithLatency delays every call by d, or until ctx is done.
func WithLatency(d time.Duration) MockOption {
	return func(m *Mock) {
		m.latency = d
	}
}

// WithClickerName sets the name returned by ClickerDetails.
func WithClickerName(name string) MockOption {
	return func(m *Mock) {
		m.name = name
	}
}

func NewMock(opts ...MockOption) *Mock {
	m := &Mock{
		name:     "Mock clicker",
		bindings: make(map[identity.CanID]identity.Identifier),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Mock) wait(ctx context.Context) error {
	if m.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(m.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "counting service timed out, please try again later")
	case <-timer.C:
		return nil
	}
}

func (m *Mock) UpdateCount(ctx context.Context, sub counts.Submission) (*counts.Result, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := sub.Identifier
	if !sub.CanID.IsZero() {
		bound, ok := m.bindings[sub.CanID]
		if !ok {
			return nil, dErrors.Wrap(counts.ErrCanIDNotRegistered, dErrors.CodeNotFound,
				"card is not registered, please register it first")
		}
		id = bound
	}

	if !sub.BypassRestriction && !parityAllowed(id, requestcontext.Now(ctx)) {
		return &counts.Result{
			Status:  counts.StatusRejected,
			Message: "Visitor does not meet odd/even requirement",
		}, nil
	}

	msg := "Successfully recorded entry"
	if sub.GantryMode == counts.GantryCheckOut {
		msg = "Successfully recorded exit"
		if m.count > 0 {
			m.count--
		}
	} else {
		m.count++
	}
	total := m.count
	return &counts.Result{Status: counts.StatusSuccess, Message: msg, Count: &total}, nil
}

func parityAllowed(id identity.Identifier, now time.Time) bool {
	s := id.String()
	if len(s) < 2 {
		return false
	}
	c := s[len(s)-2]
	idEven := c >= '0' && c <= '9' && (c-'0')%2 == 0
	return idEven == (now.Day()%2 == 0)
}

func (m *Mock) ClickerDetails(ctx context.Context, _ domain.Credentials) (*counts.ClickerDetails, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return &counts.ClickerDetails{Count: m.count, Name: m.name}, nil
}

func (m *Mock) RegisterCanID(ctx context.Context, reg registration.Registration) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bindings[reg.CanID] = reg.Identifier
	return nil
}

func (m *Mock) RequestLogin(ctx context.Context, _ string) (domain.LoginID, error) {
	if err := m.wait(ctx); err != nil {
		return domain.LoginID{}, err
	}
	return domain.LoginID(uuid.New()), nil
}

func (m *Mock) RequestOTP(ctx context.Context, _ domain.LoginID) error {
	return m.wait(ctx)
}

func (m *Mock) VerifyOTP(ctx context.Context, loginID domain.LoginID, _ string) (domain.Session, error) {
	if err := m.wait(ctx); err != nil {
		return domain.Session{}, err
	}
	return domain.Session{
		Token:     fmt.Sprintf("mock-session-%s", loginID),
		ExpiresAt: time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC),
	}, nil
}

func (m *Mock) BindClicker(ctx context.Context, _, _, username string) (domain.ClickerBinding, error) {
	if err := m.wait(ctx); err != nil {
		return domain.ClickerBinding{}, err
	}
	return domain.ClickerBinding{ClickerID: domain.ClickerID(uuid.New()), Username: username}, nil
}
