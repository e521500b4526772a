// Package scanner reads CAN IDs from contactless cards and raw strings from
// the barcode scanner.
package scanner

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"clicker/internal/identity"
	"clicker/internal/platform/metrics"
	dErrors "clicker/pkg/domain-errors"
	audit "clicker/pkg/platform/audit"
)

// State is the session's position in one scan cycle.
type State string

const (
	StateStarted       State = "STARTED"
	StateCardDetected  State = "PAUSED/CARD_DETECTED"
	StateCanIDDetected State = "PAUSED/CAN_ID_DETECTED"
)

// Reporter receives audit events for rejected scans.
type Reporter interface {
	Audit(ctx context.Context, event audit.Event)
}

// Snapshot is a consistent view of the session.
type Snapshot struct {
	State State
	CanID identity.CanID
	Err   error
}

// Session drives a Reader through scan cycles. The reader is an exclusive
// resource: one Scan at a time, and the card session is released on every
// exit path.
type Session struct {
	reader     Reader
	hardware   *semaphore.Weighted
	retryDelay time.Duration
	reporter   Reporter
	logger     *slog.Logger
	metrics    *metrics.Metrics

	mu        sync.Mutex
	state     State
	canID     identity.CanID
	err       error
	prevTagID string
}

type Option func(*Session)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

func WithReporter(reporter Reporter) Option {
	return func(s *Session) {
		s.reporter = reporter
	}
}

// WithRetryDelay sets how long Scan waits before retrying a busy reader.
func WithRetryDelay(d time.Duration) Option {
	return func(s *Session) {
		s.retryDelay = d
	}
}

func NewSession(reader Reader, opts ...Option) (*Session, error) {
	if reader == nil {
		return nil, errors.New("reader is required")
	}
	s := &Session{
		reader:     reader,
		hardware:   semaphore.NewWeighted(1),
		retryDelay: time.Second,
		logger:     slog.Default(),
		state:      StateStarted,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Scan waits for a card and reads its CAN ID. It returns a conflict error if
// another Scan holds the reader. Duplicate, moved and invalid cards are
// non-fatal: the session returns to STARTED with the error recorded.
func (s *Session) Scan(ctx context.Context) (identity.CanID, error) {
	if !s.hardware.TryAcquire(1) {
		return "", dErrors.New(dErrors.CodeConflict, "scanner is already in use")
	}
	defer s.hardware.Release(1)

	for {
		canID, err := s.scanOnce(ctx)
		if !errors.Is(err, ErrReaderBusy) {
			return canID, err
		}
		s.logger.DebugContext(ctx, "reader busy, retrying", "delay", s.retryDelay)
		timer := time.NewTimer(s.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}

func (s *Session) scanOnce(ctx context.Context) (identity.CanID, error) {
	s.mu.Lock()
	s.state = StateStarted
	s.canID = ""
	s.err = nil
	s.mu.Unlock()

	defer func() {
		if err := s.reader.Release(); err != nil {
			s.logger.WarnContext(ctx, "failed to release reader", "error", err)
		}
	}()

	tag, err := s.reader.WaitForCard(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(err, ErrReaderBusy) {
			return "", err
		}
		return "", s.fail(ctx, "reader_error", dErrors.Wrap(err, dErrors.CodeUnavailable, "card reader failed"))
	}

	s.mu.Lock()
	s.state = StateCardDetected
	duplicate := tag.ID == s.prevTagID
	if !duplicate {
		s.prevTagID = tag.ID
	}
	s.mu.Unlock()

	if duplicate {
		return "", s.fail(ctx, "duplicate", dErrors.Wrap(&DuplicateCardError{TagID: tag.ID}, dErrors.CodeConflict,
			"card is the same as the previous detected card, please scan a different card"))
	}

	canID, err := readCanID(ctx, s.reader)
	if err != nil {
		var invalid *InvalidCardError
		if errors.As(err, &invalid) {
			return "", s.fail(ctx, "invalid", dErrors.Wrap(err, dErrors.CodeValidation,
				"card does not have a CAN ID, supported cards have a CAN ID on their underside"))
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		s.mu.Lock()
		s.prevTagID = ""
		s.mu.Unlock()
		return "", s.fail(ctx, "moved", dErrors.Wrap(&CardMovedError{Err: err}, dErrors.CodeBadRequest,
			"card moved while processing, please try again"))
	}

	s.mu.Lock()
	s.state = StateCanIDDetected
	s.canID = canID
	s.mu.Unlock()

	s.metrics.ObserveScan("detected")
	s.logger.InfoContext(ctx, "card detected", "can_id", identity.MaskID(canID.String(), 4))
	return canID, nil
}

func (s *Session) fail(ctx context.Context, result string, err error) error {
	s.mu.Lock()
	s.state = StateStarted
	s.err = err
	s.mu.Unlock()

	s.metrics.ObserveScan(result)
	s.logger.WarnContext(ctx, "scan rejected", "result", result, "error", err)
	if s.reporter != nil {
		s.reporter.Audit(ctx, audit.Event{
			Action:   string(audit.EventScanRejected),
			Decision: result,
			Reason:   dErrors.Message(err),
		})
	}
	return err
}

// Resume returns the session to STARTED and clears the detected card and
// error. The duplicate guard is kept so the same card cannot be counted
// twice across a resume.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateStarted
	s.canID = ""
	s.err = nil
}

// Snapshot returns the current state, detected card and error.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{State: s.state, CanID: s.canID, Err: s.err}
}
