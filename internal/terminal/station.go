// Package terminal runs the card station: it scans cards, submits counts,
// prompts for registration of unknown cards and resets between visitors.
package terminal

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"clicker/internal/counts"
	"clicker/internal/identity"
	"clicker/internal/registration"
	"clicker/internal/scanner"
	dErrors "clicker/pkg/domain-errors"
	"clicker/pkg/platform/sentinel"
)

// View is what the presentation layer renders for the station.
type View struct {
	GantryMode   counts.GantryMode
	Scanner      scanner.Snapshot
	Count        counts.Snapshot
	Registration registration.Snapshot
	// CanID is the card being served, empty between visitors.
	CanID identity.CanID
	// Holder is the masked identifier bound to CanID, when known locally.
	Holder string
	// NeedsRegistration is set when the service did not recognise CanID.
	NeedsRegistration bool
	// Message is the last scan problem shown to staff.
	Message string
	// Paused is set while staff have stopped the station from scanning.
	Paused bool
}

// ErrPaused is returned by HandleCard while the station is paused.
var ErrPaused = errors.New("station is paused")

// Station ties the scanner, coordinator and resolver into one visitor
// cycle. A card stays on the station until Reset.
type Station struct {
	coordinator Coordinator
	resolver    Resolver
	scanner     Scanner
	barcode     Barcode
	logger      *slog.Logger

	ready chan struct{}

	mu                sync.Mutex
	mode              counts.GantryMode
	canID             identity.CanID
	holder            string
	needsRegistration bool
	message           string
	paused            bool
	cancelScan        context.CancelFunc
	scanDone          chan struct{}
}

type Option func(*Station)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Station) {
		s.logger = logger
	}
}

// WithBarcode lets registration identifiers arrive from the camera scanner.
func WithBarcode(b Barcode) Option {
	return func(s *Station) {
		s.barcode = b
	}
}

func New(coordinator Coordinator, resolver Resolver, sc Scanner, mode counts.GantryMode, opts ...Option) (*Station, error) {
	if coordinator == nil {
		return nil, errors.New("coordinator is required")
	}
	if resolver == nil {
		return nil, errors.New("resolver is required")
	}
	if sc == nil {
		return nil, errors.New("scanner is required")
	}
	if !mode.IsValid() {
		return nil, errors.New("gantry mode must be CHECK_IN or CHECK_OUT")
	}
	s := &Station{
		coordinator: coordinator,
		resolver:    resolver,
		scanner:     sc,
		logger:      slog.Default(),
		ready:       make(chan struct{}, 1),
		mode:        mode,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.signalReady()
	return s, nil
}

func (s *Station) GantryMode() counts.GantryMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Station) SetGantryMode(mode counts.GantryMode) error {
	if !mode.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "gantry mode must be CHECK_IN or CHECK_OUT")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	return nil
}

// ToggleGantryMode flips the direction and returns the new one.
func (s *Station) ToggleGantryMode() counts.GantryMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = s.mode.Toggle()
	return s.mode
}

// CheckIdentifier counts a visitor by a typed or scanned identifier.
func (s *Station) CheckIdentifier(ctx context.Context, raw string, bypass bool) error {
	return s.coordinator.UpdateCount(ctx, counts.UpdateCountParams{
		Identifier:        raw,
		GantryMode:        s.GantryMode(),
		BypassRestriction: bypass,
	})
}

// HandleCard waits for a card and counts it. Scan problems are shown to staff
// and the scanner resumes; an unknown card turns into a registration prompt.
func (s *Station) HandleCard(ctx context.Context) error {
	canID, err := s.scan(ctx)
	if err != nil {
		if isScanProblem(err) {
			s.mu.Lock()
			s.message = dErrors.Message(err)
			s.mu.Unlock()
			s.scanner.Resume()
		}
		return err
	}

	holder := ""
	if id, err := s.resolver.Resolve(ctx, canID.String()); err == nil {
		holder = id.Masked()
	}

	s.mu.Lock()
	s.canID = canID
	s.holder = holder
	s.needsRegistration = false
	s.message = ""
	s.mu.Unlock()

	return s.countCard(ctx, canID, false)
}

// scan waits for a card under a context that Pause can cancel on its own.
func (s *Station) scan(ctx context.Context) (identity.CanID, error) {
	s.mu.Lock()
	if s.paused {
		s.mu.Unlock()
		return "", dErrors.Wrap(ErrPaused, dErrors.CodeConflict, "scanning is paused")
	}
	scanCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancelScan, s.scanDone = cancel, done
	s.mu.Unlock()

	canID, err := s.scanner.Scan(scanCtx)

	s.mu.Lock()
	s.cancelScan, s.scanDone = nil, nil
	s.mu.Unlock()
	cancel()
	close(done)

	if err != nil && ctx.Err() == nil && scanCtx.Err() != nil {
		return "", dErrors.Wrap(ErrPaused, dErrors.CodeConflict, "scanning is paused")
	}
	return canID, err
}

// Pause stops the station from waiting for cards. A scan in progress is
// cancelled and Pause returns once the reader has been released, so another
// process can open it. Scanning starts again on Resume or Reset.
func (s *Station) Pause() {
	s.mu.Lock()
	s.paused = true
	cancel, done := s.cancelScan, s.scanDone
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Resume lifts a pause. When no card is on the station the scanner starts
// waiting for the next one; otherwise scanning waits for Reset as usual.
func (s *Station) Resume() {
	s.mu.Lock()
	wasPaused := s.paused
	s.paused = false
	idle := s.canID.IsZero()
	s.mu.Unlock()

	if wasPaused && idle {
		s.scanner.Resume()
		s.signalReady()
	}
}

func (s *Station) countCard(ctx context.Context, canID identity.CanID, bypass bool) error {
	err := s.coordinator.UpdateCount(ctx, counts.UpdateCountParams{
		CanID:             canID.String(),
		GantryMode:        s.GantryMode(),
		BypassRestriction: bypass,
	})
	if errors.Is(err, counts.ErrCanIDNotRegistered) {
		s.coordinator.ResetState()
		s.mu.Lock()
		s.needsRegistration = true
		s.mu.Unlock()
		if s.barcode != nil {
			s.barcode.Enable()
		}
		s.logger.InfoContext(ctx, "card needs registration", "can_id", identity.MaskID(canID.String(), 4))
		return nil
	}
	return err
}

// RegisterPending binds the card awaiting registration to raw and counts it.
// An invalid identifier keeps the prompt open so staff can try again.
func (s *Station) RegisterPending(ctx context.Context, raw string, bypass bool) error {
	s.mu.Lock()
	canID, pending := s.canID, s.needsRegistration
	s.mu.Unlock()
	if !pending {
		return dErrors.Wrap(sentinel.ErrInvalidState, dErrors.CodeConflict, "no card is waiting for registration")
	}

	if err := s.resolver.RegisterCanID(ctx, registration.RegisterParams{
		CanID:             canID.String(),
		Identifier:        raw,
		BypassRestriction: bypass,
	}); err != nil {
		return err
	}

	holder := ""
	if snap := s.resolver.Snapshot(); snap.Result != nil {
		holder = snap.Result.Identifier.Masked()
	}
	s.mu.Lock()
	s.needsRegistration = false
	s.holder = holder
	s.mu.Unlock()
	if s.barcode != nil {
		s.barcode.Disable()
	}

	return s.countCard(ctx, canID, false)
}

// ForceUpdate resubmits a rejected visitor with the restriction bypassed.
func (s *Station) ForceUpdate(ctx context.Context) error {
	snap := s.coordinator.Snapshot()
	if _, ok := snap.Outcome.(counts.Rejected); !ok {
		return dErrors.Wrap(sentinel.ErrInvalidState, dErrors.CodeConflict, "only a rejected visitor can be force updated")
	}
	if !snap.CanID.IsZero() {
		return s.countCard(ctx, snap.CanID, true)
	}
	return s.coordinator.UpdateCount(ctx, counts.UpdateCountParams{
		Identifier:        snap.Identifier.String(),
		GantryMode:        s.GantryMode(),
		BypassRestriction: true,
	})
}

// Reset ends the current visitor: all state machines return to their initial
// state and the scanner is ready for the next card.
func (s *Station) Reset() {
	s.coordinator.ResetState()
	s.resolver.ResetState()
	if s.barcode != nil {
		s.barcode.Disable()
	}

	s.mu.Lock()
	s.canID = ""
	s.holder = ""
	s.needsRegistration = false
	s.message = ""
	s.paused = false
	s.mu.Unlock()

	s.scanner.Resume()
	s.signalReady()
}

func (s *Station) View() View {
	s.mu.Lock()
	v := View{
		GantryMode:        s.mode,
		CanID:             s.canID,
		Holder:            s.holder,
		NeedsRegistration: s.needsRegistration,
		Message:           s.message,
		Paused:            s.paused,
	}
	s.mu.Unlock()

	v.Scanner = s.scanner.Snapshot()
	v.Count = s.coordinator.Snapshot()
	v.Registration = s.resolver.Snapshot()
	return v
}

// Run serves cards until ctx is done. After a card is handled the station
// waits for Reset before scanning again; scan problems resume immediately.
// While paused the loop idles until Resume or Reset.
func (s *Station) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.ready:
		}

		err := s.HandleCard(ctx)
		if ctx.Err() != nil {
			return nil
		}
		switch {
		case err == nil, errors.Is(err, ErrPaused):
		case isScanProblem(err):
			s.signalReady()
		default:
			s.logger.WarnContext(ctx, "card not counted", "error", err)
		}
	}
}

// RunBarcode feeds camera scans into RegisterPending until ctx is done.
func (s *Station) RunBarcode(ctx context.Context) error {
	if s.barcode == nil {
		return nil
	}
	for {
		raw, err := s.barcode.Next(ctx)
		if err != nil {
			return nil
		}
		if err := s.RegisterPending(ctx, raw, false); err != nil {
			s.logger.WarnContext(ctx, "registration from barcode failed", "error", err)
		}
	}
}

func (s *Station) signalReady() {
	select {
	case s.ready <- struct{}{}:
	default:
	}
}

func isScanProblem(err error) bool {
	var (
		dup     *scanner.DuplicateCardError
		moved   *scanner.CardMovedError
		invalid *scanner.InvalidCardError
	)
	return errors.As(err, &dup) || errors.As(err, &moved) || errors.As(err, &invalid)
}
