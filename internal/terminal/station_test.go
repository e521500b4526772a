package terminal_test

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"clicker/internal/backend"
	"clicker/internal/counts"
	"clicker/internal/identity"
	"clicker/internal/registration"
	"clicker/internal/registration/store"
	"clicker/internal/scanner"
	"clicker/internal/terminal"
	"clicker/pkg/domain"
	dErrors "clicker/pkg/domain-errors"
	"clicker/pkg/requestcontext"
)

var (
	purse = []byte{0x10, 0x01, 0x00, 0x02, 0x00, 0x03, 0x00, 0x04}
	canID = identity.CanID("1001000200030004")

	// S0000001I has an odd second-last digit.
	oddDay  = time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC)
	evenDay = time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)
)

// =============================================================================
// Station Test Suite
// =============================================================================

type StationSuite struct {
	suite.Suite
	service  *backend.Mock
	reader   *scanner.Simulated
	barcode  *scanner.Barcode
	counts   *counts.Coordinator
	resolver *registration.Resolver
	station  *terminal.Station
	ctx      context.Context
}

func TestStationSuite(t *testing.T) {
	suite.Run(t, new(StationSuite))
}

func (s *StationSuite) SetupTest() {
	logger := slog.New(slog.DiscardHandler)
	creds := domain.StaticCredentials{
		SessionToken: "tok",
		ClickerID:    domain.ClickerID(uuid.New()),
		Username:     "alice",
	}
	s.service = backend.NewMock()
	s.reader = scanner.NewSimulated()
	s.barcode = scanner.NewBarcode(4)

	var err error
	s.counts, err = counts.New(s.service, creds, counts.WithLogger(logger))
	s.Require().NoError(err)
	s.resolver, err = registration.New(s.service, creds, store.NewInMemory(time.Hour), registration.WithLogger(logger))
	s.Require().NoError(err)
	session, err := scanner.NewSession(s.reader, scanner.WithLogger(logger), scanner.WithRetryDelay(time.Millisecond))
	s.Require().NoError(err)

	s.station, err = terminal.New(s.counts, s.resolver, session, counts.GantryCheckIn,
		terminal.WithLogger(logger),
		terminal.WithBarcode(s.barcode),
	)
	s.Require().NoError(err)
	s.ctx = requestcontext.WithTime(context.Background(), oddDay)
}

func (s *StationSuite) TestNew() {
	_, err := terminal.New(nil, s.resolver, nil, counts.GantryCheckIn)
	s.Require().Error(err)
	s.Contains(err.Error(), "coordinator is required")
}

func (s *StationSuite) TestGantryMode() {
	s.Equal(counts.GantryCheckIn, s.station.GantryMode())
	s.Equal(counts.GantryCheckOut, s.station.ToggleGantryMode())
	s.Equal(counts.GantryCheckOut, s.station.View().GantryMode)

	err := s.station.SetGantryMode("SIDEWAYS")
	s.True(dErrors.Is(err, dErrors.CodeValidation))
}

// =============================================================================
// Card Flow
// =============================================================================

func (s *StationSuite) TestUnregisteredCardIsRegisteredThenCounted() {
	s.Require().NoError(s.reader.Present("tag-1", purse))

	s.Require().NoError(s.station.HandleCard(s.ctx))

	view := s.station.View()
	s.True(view.NeedsRegistration)
	s.Equal(canID, view.CanID)
	s.Equal(counts.StateDefault, view.Count.State)
	s.Equal(scanner.StateCanIDDetected, view.Scanner.State)
	s.True(s.barcode.Enabled())

	s.Run("invalid identifier keeps the prompt open", func() {
		err := s.station.RegisterPending(s.ctx, "S0000001A", false)
		s.True(dErrors.Is(err, dErrors.CodeValidation))
		s.True(s.station.View().NeedsRegistration)
		s.Equal(registration.StateValidatingID, s.station.View().Registration.State)
	})

	s.Run("valid identifier registers and recounts", func() {
		s.Require().NoError(s.station.RegisterPending(s.ctx, "s0000001i", false))

		view := s.station.View()
		s.False(view.NeedsRegistration)
		s.False(s.barcode.Enabled())
		s.Equal("*****001I", view.Holder)
		s.Equal(registration.StateRegistrationComplete, view.Registration.State)
		s.Equal(counts.StateResultReturned, view.Count.State)
		s.IsType(counts.Success{}, view.Count.Outcome)
	})

	s.Run("reset readies the station for the next visitor", func() {
		s.station.Reset()

		view := s.station.View()
		s.True(view.CanID.IsZero())
		s.Equal(counts.StateDefault, view.Count.State)
		s.Equal(registration.StateDefault, view.Registration.State)
		s.Equal(scanner.StateStarted, view.Scanner.State)
	})
}

func (s *StationSuite) TestKnownCardShowsHolder() {
	s.Require().NoError(s.resolver.RegisterCanID(s.ctx, registration.RegisterParams{
		CanID:      canID.String(),
		Identifier: "S0000001I",
	}))
	s.resolver.ResetState()
	s.Require().NoError(s.reader.Present("tag-5", purse))

	s.Require().NoError(s.station.HandleCard(s.ctx))

	view := s.station.View()
	s.Equal("*****001I", view.Holder)
	s.False(view.NeedsRegistration)
	s.IsType(counts.Success{}, view.Count.Outcome)
}

func (s *StationSuite) TestScanProblemIsShown() {
	s.Require().NoError(s.reader.Present("tag-2", []byte{0x01}))

	err := s.station.HandleCard(s.ctx)

	var invalid *scanner.InvalidCardError
	s.Require().ErrorAs(err, &invalid)
	view := s.station.View()
	s.NotEmpty(view.Message)
	s.Equal(scanner.StateStarted, view.Scanner.State)
	s.True(view.CanID.IsZero())
}

func (s *StationSuite) TestRegisterPendingWithoutCard() {
	err := s.station.RegisterPending(s.ctx, "S0000001I", false)
	s.True(dErrors.Is(err, dErrors.CodeConflict))
}

// =============================================================================
// Manual Entry and Override
// =============================================================================

func (s *StationSuite) TestRejectedVisitorCanBeForced() {
	ctx := requestcontext.WithTime(context.Background(), evenDay)

	s.Require().NoError(s.station.CheckIdentifier(ctx, "S0000001I", false))
	s.IsType(counts.Rejected{}, s.station.View().Count.Outcome)

	s.Require().NoError(s.station.ForceUpdate(ctx))

	snap := s.station.View().Count
	s.IsType(counts.Success{}, snap.Outcome)
	s.Equal(identity.Identifier("S0000001I"), snap.Identifier)
}

func (s *StationSuite) TestForceUpdateNeedsRejection() {
	s.Require().NoError(s.station.CheckIdentifier(s.ctx, "S0000001I", false))

	err := s.station.ForceUpdate(s.ctx)

	s.True(dErrors.Is(err, dErrors.CodeConflict))
}

// =============================================================================
// Loops
// =============================================================================

func (s *StationSuite) TestRunCountsRegisteredCards() {
	s.Require().NoError(s.service.RegisterCanID(s.ctx, registration.Registration{CanID: canID, Identifier: "S0000001I"}))
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.station.Run(ctx) }()

	s.Require().NoError(s.reader.Present("tag-3", purse))

	s.Eventually(func() bool {
		return s.station.View().Count.State == counts.StateResultReturned
	}, time.Second, 5*time.Millisecond)

	cancel()
	s.NoError(<-done)
}

func (s *StationSuite) TestRunBarcodeRegistersPendingCard() {
	s.Require().NoError(s.reader.Present("tag-4", purse))
	s.Require().NoError(s.station.HandleCard(s.ctx))
	s.Require().True(s.station.View().NeedsRegistration)

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.station.RunBarcode(ctx) }()

	s.True(s.barcode.Deliver("S0000001I"))

	s.Eventually(func() bool {
		return s.station.View().Count.State == counts.StateResultReturned
	}, time.Second, 5*time.Millisecond)

	cancel()
	s.NoError(<-done)
}

// =============================================================================
// Pause
// =============================================================================

// countingReader records how often the station waits for and releases the
// reader.
type countingReader struct {
	*scanner.Simulated
	waits    atomic.Int32
	releases atomic.Int32
}

func (r *countingReader) WaitForCard(ctx context.Context) (scanner.Tag, error) {
	r.waits.Add(1)
	return r.Simulated.WaitForCard(ctx)
}

func (r *countingReader) Release() error {
	r.releases.Add(1)
	return r.Simulated.Release()
}

func (s *StationSuite) TestPauseReleasesReader() {
	reader := &countingReader{Simulated: scanner.NewSimulated()}
	session, err := scanner.NewSession(reader, scanner.WithLogger(slog.New(slog.DiscardHandler)))
	s.Require().NoError(err)
	station, err := terminal.New(s.counts, s.resolver, session, counts.GantryCheckIn,
		terminal.WithLogger(slog.New(slog.DiscardHandler)),
	)
	s.Require().NoError(err)
	s.Require().NoError(s.service.RegisterCanID(s.ctx, registration.Registration{CanID: canID, Identifier: "S0000001I"}))

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- station.Run(ctx) }()

	s.Eventually(func() bool {
		return reader.waits.Load() == 1
	}, time.Second, 5*time.Millisecond)
	before := reader.releases.Load()

	station.Pause()

	s.Greater(reader.releases.Load(), before)
	s.True(station.View().Paused)

	s.Run("reader can be acquired while paused", func() {
		s.Require().NoError(reader.Present("tag-5", purse))
		scanCtx, scanCancel := context.WithTimeout(s.ctx, time.Second)
		defer scanCancel()

		got, err := session.Scan(scanCtx)

		s.Require().NoError(err)
		s.Equal(canID, got)
		s.Equal(int32(2), reader.waits.Load(), "only this scan waited after the pause")
	})

	s.Run("paused station does not scan", func() {
		err := station.HandleCard(s.ctx)
		s.ErrorIs(err, terminal.ErrPaused)
		s.True(dErrors.Is(err, dErrors.CodeConflict))
	})

	s.Run("resume counts the next card", func() {
		station.Resume()
		s.False(station.View().Paused)
		s.Require().NoError(reader.Present("tag-6", purse))

		s.Eventually(func() bool {
			return station.View().Count.State == counts.StateResultReturned
		}, time.Second, 5*time.Millisecond)
	})

	cancel()
	s.NoError(<-done)
}

func (s *StationSuite) TestResetLiftsPause() {
	s.station.Pause()
	s.True(s.station.View().Paused)

	s.station.Reset()

	s.False(s.station.View().Paused)
	s.Require().NoError(s.reader.Present("tag-7", purse))
	s.Require().NoError(s.station.HandleCard(s.ctx))
	s.Equal(canID, s.station.View().CanID)
}
