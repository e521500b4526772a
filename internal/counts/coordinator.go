// Package counts turns a validated visitor identifier or card number into a
// confirmed entry or exit count.
package counts

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"clicker/internal/identity"
	"clicker/internal/platform/metrics"
	dErrors "clicker/pkg/domain-errors"
	audit "clicker/pkg/platform/audit"
	"clicker/pkg/platform/sentinel"
)

// Coordinator runs one count update cycle at a time:
// DEFAULT -> VALIDATING_ID -> UPDATING_COUNT -> RESULT_RETURNED.
// Validation failures halt in VALIDATING_ID; service and transport failures
// halt in UPDATING_COUNT. Only ResetState or a new cycle clears them.
// Every cycle and every reset takes a new cycle number; a service reply is
// recorded only if its cycle is still current.
type Coordinator struct {
	counter     Counter
	credentials CredentialsSource
	reporter    Reporter
	tally       *Tally
	logger      *slog.Logger
	metrics     *metrics.Metrics

	mu       sync.Mutex
	inFlight bool
	cycle    uint64
	state    State
	outcome  Outcome
	err      error
	subject  Submission
}

type Option func(*Coordinator)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

func WithReporter(reporter Reporter) Option {
	return func(c *Coordinator) {
		c.reporter = reporter
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// WithTally keeps the clicker's running total in step with successful results.
func WithTally(t *Tally) Option {
	return func(c *Coordinator) {
		c.tally = t
	}
}

func New(counter Counter, credentials CredentialsSource, opts ...Option) (*Coordinator, error) {
	if counter == nil {
		return nil, errors.New("counter is required")
	}
	if credentials == nil {
		return nil, errors.New("credentials source is required")
	}
	c := &Coordinator{
		counter:     counter,
		credentials: credentials,
		logger:      slog.Default(),
		state:       StateDefault,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// UpdateCount runs a full cycle for params and blocks until it settles. The
// returned error is also kept in the snapshot until the next cycle or reset.
// Rejected results are not errors; they settle in RESULT_RETURNED.
func (c *Coordinator) UpdateCount(ctx context.Context, params UpdateCountParams) error {
	rawID := strings.TrimSpace(params.Identifier)
	rawCanID := strings.TrimSpace(params.CanID)
	if err := checkParams(rawID, rawCanID, params.GantryMode); err != nil {
		c.mu.Lock()
		if !c.inFlight {
			c.err = err
		}
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return dErrors.Wrap(sentinel.ErrInvalidState, dErrors.CodeConflict, "a count update is already in progress")
	}
	c.inFlight = true
	c.cycle++
	cycle := c.cycle
	c.outcome = nil
	c.err = nil

	sub := Submission{
		GantryMode:        params.GantryMode,
		BypassRestriction: params.BypassRestriction,
		Credentials:       c.credentials.Credentials(),
	}
	if rawID != "" {
		c.state = StateValidatingID
		id, err := identity.ValidateAndClean(rawID, params.BypassRestriction)
		if err != nil {
			c.err = err
			c.inFlight = false
			c.mu.Unlock()
			return err
		}
		sub.Identifier = id
	} else {
		// Card numbers come straight from the reader; the service is the
		// authority on whether they are known.
		sub.CanID = identity.CanID(strings.ToLower(rawCanID))
	}
	c.subject = sub
	c.state = StateUpdatingCount
	c.mu.Unlock()

	res, err := c.counter.UpdateCount(ctx, sub)

	c.mu.Lock()
	defer c.mu.Unlock()
	if cycle != c.cycle {
		c.logger.InfoContext(ctx, "count reply dropped after reset",
			"subject", subjectOf(sub),
			"gantry_mode", sub.GantryMode,
		)
		return dErrors.Wrap(ErrCycleReset, dErrors.CodeConflict, "the count was reset before the service replied")
	}
	c.inFlight = false

	if err != nil {
		c.err = err
		c.metrics.ObserveCountUpdate(sub.GantryMode.String(), "error")
		c.logger.WarnContext(ctx, "count update failed",
			"subject", subjectOf(sub),
			"gantry_mode", sub.GantryMode,
			"error", err,
		)
		return err
	}

	outcome, err := interpret(res)
	if err != nil {
		c.err = err
		var pe *ProtocolError
		if errors.As(err, &pe) {
			c.metrics.ObserveCountUpdate(sub.GantryMode.String(), "protocol_error")
			if c.reporter != nil {
				c.reporter.ProtocolViolation(ctx, "update_count", pe)
			}
			return err
		}
		c.metrics.ObserveCountUpdate(sub.GantryMode.String(), StatusFail)
		c.emit(ctx, sub, audit.EventCountFailed, StatusFail, dErrors.Message(err))
		return err
	}

	c.outcome = outcome
	c.state = StateResultReturned
	switch o := outcome.(type) {
	case Success:
		c.metrics.ObserveCountUpdate(sub.GantryMode.String(), StatusSuccess)
		c.emit(ctx, sub, audit.EventCountRecorded, StatusSuccess, o.Message)
		if c.tally != nil && o.Count != nil {
			c.tally.Observe(*o.Count)
		}
	case Rejected:
		c.metrics.ObserveCountUpdate(sub.GantryMode.String(), StatusRejected)
		c.emit(ctx, sub, audit.EventCountRejected, StatusRejected, o.Message)
	}
	c.logger.InfoContext(ctx, "count update settled",
		"subject", subjectOf(sub),
		"gantry_mode", sub.GantryMode,
		"bypass", sub.BypassRestriction,
		"result", outcome.Text(),
	)
	return nil
}

// ResetState returns the coordinator to DEFAULT and clears the last result
// and error. A cycle in flight is abandoned: its reply changes nothing and a
// new cycle may start straight away.
func (c *Coordinator) ResetState() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cycle++
	c.inFlight = false
	c.state = StateDefault
	c.outcome = nil
	c.err = nil
	c.subject = Submission{}
}

// Snapshot returns the current state, result and error.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:      c.state,
		Outcome:    c.outcome,
		Err:        c.err,
		Identifier: c.subject.Identifier,
		CanID:      c.subject.CanID,
		GantryMode: c.subject.GantryMode,
	}
}

// checkParams rejects requests that cannot start a cycle.
func checkParams(rawID, rawCanID string, mode GantryMode) error {
	switch {
	case rawID == "" && rawCanID == "":
		return dErrors.New(dErrors.CodeValidation, "specify either an identifier or a CAN identifier")
	case rawID != "" && rawCanID != "":
		return dErrors.New(dErrors.CodeValidation, "specify only one of identifier or CAN identifier")
	case !mode.IsValid():
		return dErrors.New(dErrors.CodeValidation, "gantry mode must be CHECK_IN or CHECK_OUT")
	}
	return nil
}

func interpret(res *Result) (Outcome, error) {
	if res == nil {
		return nil, dErrors.Wrap(&ProtocolError{Detail: "empty response"}, dErrors.CodeContractMismatch, "unexpected response from counting service")
	}
	switch res.Status {
	case StatusSuccess:
		return Success{Message: res.Message, Count: res.Count}, nil
	case StatusRejected:
		return Rejected{Message: res.Message}, nil
	case StatusFail:
		msg := res.Message
		if msg == "" {
			msg = "count update failed"
		}
		return nil, dErrors.Wrap(&FailedError{Message: res.Message}, dErrors.CodeUpstreamFailure, msg)
	default:
		return nil, dErrors.Wrap(&ProtocolError{Status: res.Status}, dErrors.CodeContractMismatch, "unexpected response from counting service")
	}
}

func (c *Coordinator) emit(ctx context.Context, sub Submission, action audit.AuditEvent, decision, reason string) {
	if c.reporter == nil {
		return
	}
	c.reporter.Audit(ctx, audit.Event{
		Action:    string(action),
		ClickerID: sub.Credentials.ClickerID.String(),
		Subject:   subjectOf(sub),
		Decision:  decision,
		Reason:    reason,
	})
}

// subjectOf is the log-safe form of the submission's visitor.
func subjectOf(sub Submission) string {
	if sub.Identifier != "" {
		return sub.Identifier.Masked()
	}
	return identity.MaskID(sub.CanID.String(), 4)
}
