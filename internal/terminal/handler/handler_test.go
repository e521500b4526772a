package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"clicker/internal/counts"
	"clicker/internal/identity"
	"clicker/internal/registration"
	"clicker/internal/scanner"
	"clicker/internal/terminal"
	"clicker/internal/terminal/handler"
	"clicker/internal/terminal/handler/mocks"
	dErrors "clicker/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

// =============================================================================
// Station Handler Test Suite
// =============================================================================

type HandlerSuite struct {
	suite.Suite
	station *mocks.MockStation
	tally   *mocks.MockTally
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.station = mocks.NewMockStation(ctrl)
	s.tally = mocks.NewMockTally(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.router = chi.NewRouter()
	handler.New(s.station, s.tally, logger).Register(s.router)
}

func (s *HandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) decode(rec *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), out))
}

func successView() terminal.View {
	total := 42
	return terminal.View{
		GantryMode: counts.GantryCheckIn,
		Scanner:    scanner.Snapshot{State: scanner.StateCanIDDetected, CanID: "1001000200030004"},
		Count: counts.Snapshot{
			State:      counts.StateResultReturned,
			Outcome:    counts.Success{Message: "Successfully recorded entry", Count: &total},
			Identifier: identity.Identifier("S0000001I"),
		},
		Registration: registration.Snapshot{State: registration.StateDefault},
		CanID:        "1001000200030004",
		Holder:       "*****001I",
	}
}

// =============================================================================
// Station View
// =============================================================================

func (s *HandlerSuite) TestView() {
	s.station.EXPECT().View().Return(successView())

	rec := s.do(http.MethodGet, "/station", nil)

	s.Equal(http.StatusOK, rec.Code)
	var resp handler.ViewResponse
	s.decode(rec, &resp)
	s.Equal("CHECK_IN", resp.GantryMode)
	s.Equal("1001 0002 0003 0004", resp.CanID)
	s.Equal("*****001I", resp.Holder)
	s.Equal("success", resp.Count.Outcome)
	s.Equal("*****001I", resp.Count.Identifier)
	s.Require().NotNil(resp.Count.Count)
	s.Equal(42, *resp.Count.Count)
	s.False(resp.Count.CanForce)
	s.NotContains(rec.Body.String(), "S0000001I")
}

func (s *HandlerSuite) TestReset() {
	s.station.EXPECT().Reset()
	s.station.EXPECT().View().Return(terminal.View{GantryMode: counts.GantryCheckIn})

	rec := s.do(http.MethodPost, "/station/reset", nil)

	s.Equal(http.StatusOK, rec.Code)
}

func (s *HandlerSuite) TestPauseAndResume() {
	s.Run("pause reports the station as paused", func() {
		s.station.EXPECT().Pause()
		s.station.EXPECT().View().Return(terminal.View{GantryMode: counts.GantryCheckIn, Paused: true})

		rec := s.do(http.MethodPost, "/station/pause", nil)

		s.Equal(http.StatusOK, rec.Code)
		var resp handler.ViewResponse
		s.decode(rec, &resp)
		s.True(resp.Paused)
	})

	s.Run("resume", func() {
		s.station.EXPECT().Resume()
		s.station.EXPECT().View().Return(terminal.View{GantryMode: counts.GantryCheckIn})

		rec := s.do(http.MethodPost, "/station/resume", nil)

		s.Equal(http.StatusOK, rec.Code)
		var resp handler.ViewResponse
		s.decode(rec, &resp)
		s.False(resp.Paused)
	})
}

func (s *HandlerSuite) TestGantryMode() {
	s.Run("set accepts lower case", func() {
		s.station.EXPECT().SetGantryMode(counts.GantryCheckOut).Return(nil)

		rec := s.do(http.MethodPut, "/station/gantry-mode", map[string]string{"gantry_mode": "check_out"})

		s.Equal(http.StatusOK, rec.Code)
		var resp handler.GantryModeResponse
		s.decode(rec, &resp)
		s.Equal("CHECK_OUT", resp.GantryMode)
	})

	s.Run("unknown mode is rejected before the station", func() {
		rec := s.do(http.MethodPut, "/station/gantry-mode", map[string]string{"gantry_mode": "SIDEWAYS"})
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("toggle", func() {
		s.station.EXPECT().ToggleGantryMode().Return(counts.GantryCheckIn)

		rec := s.do(http.MethodPost, "/station/gantry-mode/toggle", nil)

		var resp handler.GantryModeResponse
		s.decode(rec, &resp)
		s.Equal("CHECK_IN", resp.GantryMode)
	})
}

// =============================================================================
// Counts and Registration
// =============================================================================

func (s *HandlerSuite) TestCheckIdentifier() {
	s.Run("rejected visitor can be forced", func() {
		s.station.EXPECT().CheckIdentifier(gomock.Any(), "S0000001I", false).Return(nil)
		s.station.EXPECT().View().Return(terminal.View{
			GantryMode: counts.GantryCheckIn,
			Count: counts.Snapshot{
				State:   counts.StateResultReturned,
				Outcome: counts.Rejected{Message: "Visitor does not meet odd/even requirement"},
			},
		})

		rec := s.do(http.MethodPost, "/counts", map[string]any{"identifier": "  S0000001I "})

		s.Equal(http.StatusOK, rec.Code)
		var resp handler.ViewResponse
		s.decode(rec, &resp)
		s.Equal("rejected", resp.Count.Outcome)
		s.True(resp.Count.CanForce)
	})

	s.Run("missing identifier", func() {
		rec := s.do(http.MethodPost, "/counts", map[string]any{"bypass_restriction": true})
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("unknown fields are refused", func() {
		rec := s.do(http.MethodPost, "/counts", map[string]any{"identifier": "S0000001I", "nric": "x"})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("service errors map to status", func() {
		s.station.EXPECT().CheckIdentifier(gomock.Any(), "S0000001I", true).
			Return(dErrors.New(dErrors.CodeUnavailable, "counting service unavailable"))

		rec := s.do(http.MethodPost, "/counts", map[string]any{"identifier": "S0000001I", "bypass_restriction": true})

		s.Equal(http.StatusServiceUnavailable, rec.Code)
		s.Contains(rec.Body.String(), "counting service unavailable")
	})
}

func (s *HandlerSuite) TestForceUpdate() {
	s.station.EXPECT().ForceUpdate(gomock.Any()).
		Return(dErrors.New(dErrors.CodeConflict, "only a rejected visitor can be force updated"))

	rec := s.do(http.MethodPost, "/counts/force", nil)

	s.Equal(http.StatusConflict, rec.Code)
}

func (s *HandlerSuite) TestRegister() {
	s.station.EXPECT().RegisterPending(gomock.Any(), "S0000001I", false).Return(nil)
	s.station.EXPECT().View().Return(successView())

	rec := s.do(http.MethodPost, "/registrations", map[string]any{"identifier": "S0000001I"})

	s.Equal(http.StatusOK, rec.Code)
}

// =============================================================================
// Clicker Details
// =============================================================================

func (s *HandlerSuite) TestClicker() {
	s.Run("fresh", func() {
		s.tally.EXPECT().Refresh(gomock.Any()).Return(counts.ClickerDetails{Count: 7, Name: "Hall A"}, nil)

		rec := s.do(http.MethodGet, "/clicker", nil)

		var resp handler.ClickerResponse
		s.decode(rec, &resp)
		s.Equal(handler.ClickerResponse{Count: 7, Name: "Hall A"}, resp)
	})

	s.Run("falls back to cached details", func() {
		s.tally.EXPECT().Refresh(gomock.Any()).Return(counts.ClickerDetails{}, errors.New("boom"))
		s.tally.EXPECT().Current().Return(counts.ClickerDetails{Count: 7, Name: "Hall A"}, true)

		rec := s.do(http.MethodGet, "/clicker", nil)

		s.Equal(http.StatusOK, rec.Code)
		var resp handler.ClickerResponse
		s.decode(rec, &resp)
		s.True(resp.Stale)
	})

	s.Run("nothing cached", func() {
		s.tally.EXPECT().Refresh(gomock.Any()).
			Return(counts.ClickerDetails{}, dErrors.New(dErrors.CodeTimeout, "counting service timed out"))
		s.tally.EXPECT().Current().Return(counts.ClickerDetails{}, false)

		rec := s.do(http.MethodGet, "/clicker", nil)

		s.Equal(http.StatusGatewayTimeout, rec.Code)
	})
}
