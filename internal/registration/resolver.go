// Package registration binds contactless cards to visitor identifiers so a
// card tap can stand in for showing an ID.
package registration

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"clicker/internal/identity"
	"clicker/internal/platform/metrics"
	dErrors "clicker/pkg/domain-errors"
	audit "clicker/pkg/platform/audit"
	"clicker/pkg/platform/sentinel"
)

// ErrNotRegistered is returned by Resolve for a card with no local binding.
var ErrNotRegistered = errors.New("CAN ID is not registered on this terminal")

// ErrCycleReset is returned by RegisterCanID when ResetState ran while the
// service call was outstanding.
var ErrCycleReset = errors.New("registration cycle was reset")

const failedMessage = "registration failed, please try again later"

// Resolver runs one registration cycle at a time:
// DEFAULT -> VALIDATING_ID -> REGISTERING_CAN_ID -> REGISTRATION_COMPLETE.
// Starting a new cycle from any settled state is allowed; callers that want
// a clean slate between cards call ResetState. A reset abandons a cycle in
// flight; its reply only refreshes the binding cache.
type Resolver struct {
	registrar   Registrar
	credentials CredentialsSource
	bindings    BindingStore
	reporter    Reporter
	logger      *slog.Logger
	metrics     *metrics.Metrics

	mu       sync.Mutex
	inFlight bool
	cycle    uint64
	state    State
	result   *Result
	err      error
}

type Option func(*Resolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func WithReporter(reporter Reporter) Option {
	return func(r *Resolver) {
		r.reporter = reporter
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

func New(registrar Registrar, credentials CredentialsSource, bindings BindingStore, opts ...Option) (*Resolver, error) {
	if registrar == nil {
		return nil, errors.New("registrar is required")
	}
	if credentials == nil {
		return nil, errors.New("credentials source is required")
	}
	if bindings == nil {
		return nil, errors.New("binding store is required")
	}
	r := &Resolver{
		registrar:   registrar,
		credentials: credentials,
		bindings:    bindings,
		logger:      slog.Default(),
		state:       StateDefault,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// RegisterCanID validates params and binds the card on the registration
// service. Validation failures halt in VALIDATING_ID; service failures halt
// in REGISTERING_CAN_ID with a generic retry message.
func (r *Resolver) RegisterCanID(ctx context.Context, params RegisterParams) error {
	r.mu.Lock()
	if r.inFlight {
		r.mu.Unlock()
		return dErrors.Wrap(sentinel.ErrInvalidState, dErrors.CodeConflict, "a registration is already in progress")
	}
	r.inFlight = true
	r.cycle++
	cycle := r.cycle
	r.state = StateValidatingID
	r.result = nil
	r.err = nil

	canID, err := identity.ParseCanID(params.CanID)
	if err == nil {
		var id identity.Identifier
		id, err = identity.ValidateAndClean(params.Identifier, params.BypassRestriction)
		if err == nil {
			r.state = StateRegisteringCanID
			r.mu.Unlock()
			return r.register(ctx, cycle, Registration{
				CanID:             canID,
				Identifier:        id,
				BypassRestriction: params.BypassRestriction,
				Credentials:       r.credentials.Credentials(),
			})
		}
	}
	r.err = err
	r.inFlight = false
	r.mu.Unlock()
	r.metrics.ObserveRegistration("invalid")
	return err
}

func (r *Resolver) register(ctx context.Context, cycle uint64, reg Registration) error {
	remoteErr := r.registrar.RegisterCanID(ctx, reg)

	r.mu.Lock()
	defer r.mu.Unlock()
	if cycle != r.cycle {
		if remoteErr == nil {
			r.cacheBinding(ctx, reg)
		}
		r.logger.InfoContext(ctx, "registration reply dropped after reset",
			"can_id", identity.MaskID(reg.CanID.String(), 4),
		)
		return dErrors.Wrap(ErrCycleReset, dErrors.CodeConflict, "the registration was reset before the service replied")
	}
	r.inFlight = false

	if remoteErr != nil {
		r.err = dErrors.Wrap(remoteErr, dErrors.CodeUnavailable, failedMessage)
		r.metrics.ObserveRegistration("failed")
		r.logger.WarnContext(ctx, "card registration failed",
			"can_id", identity.MaskID(reg.CanID.String(), 4),
			"identifier", reg.Identifier.Masked(),
			"error", remoteErr,
		)
		r.emit(ctx, reg, audit.EventRegistrationFailed, "failed", remoteErr.Error())
		return r.err
	}

	r.cacheBinding(ctx, reg)
	r.result = &Result{CanID: reg.CanID, Identifier: reg.Identifier}
	r.state = StateRegistrationComplete
	r.metrics.ObserveRegistration("registered")
	r.logger.InfoContext(ctx, "card registered",
		"can_id", identity.MaskID(reg.CanID.String(), 4),
		"identifier", reg.Identifier.Masked(),
		"bypass", reg.BypassRestriction,
	)
	r.emit(ctx, reg, audit.EventCardRegistered, "registered", "")
	return nil
}

func (r *Resolver) cacheBinding(ctx context.Context, reg Registration) {
	if err := r.bindings.Bind(ctx, reg.CanID, reg.Identifier); err != nil {
		r.logger.WarnContext(ctx, "failed to cache card binding",
			"can_id", identity.MaskID(reg.CanID.String(), 4),
			"error", err,
		)
	}
}

// ResetState returns the resolver to DEFAULT and clears result and error.
func (r *Resolver) ResetState() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cycle++
	r.inFlight = false
	r.state = StateDefault
	r.result = nil
	r.err = nil
}

// Snapshot returns the current state, result and error.
func (r *Resolver) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := Snapshot{State: r.state, Err: r.err}
	if r.result != nil {
		res := *r.result
		snap.Result = &res
	}
	return snap
}

// Resolve returns the identifier a card was bound to on this terminal.
func (r *Resolver) Resolve(ctx context.Context, raw string) (identity.Identifier, error) {
	canID, err := identity.ParseCanID(raw)
	if err != nil {
		return "", err
	}
	id, err := r.bindings.Lookup(ctx, canID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return "", dErrors.Wrap(ErrNotRegistered, dErrors.CodeNotFound, "card is not registered")
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up card binding")
	}
	return id, nil
}

func (r *Resolver) emit(ctx context.Context, reg Registration, action audit.AuditEvent, decision, reason string) {
	if r.reporter == nil {
		return
	}
	r.reporter.Audit(ctx, audit.Event{
		Action:    string(action),
		ClickerID: reg.Credentials.ClickerID.String(),
		Subject:   reg.Identifier.Masked(),
		Decision:  decision,
		Reason:    reason,
	})
}
