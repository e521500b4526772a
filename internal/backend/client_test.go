package backend_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"clicker/internal/backend"
	"clicker/internal/counts"
	"clicker/internal/identity"
	"clicker/internal/platform/metrics"
	"clicker/internal/registration"
	"clicker/pkg/domain"
	dErrors "clicker/pkg/domain-errors"
	"clicker/pkg/platform/circuit"
	"clicker/pkg/requestcontext"
)

var clickerID = domain.ClickerID(uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7"))

type recordedRequest struct {
	method  string
	path    string
	query   string
	headers http.Header
	body    string
}

type violationRecorder struct {
	mu     sync.Mutex
	source []string
}

func (v *violationRecorder) ProtocolViolation(_ context.Context, source string, _ error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.source = append(v.source, source)
}

// =============================================================================
// Client Test Suite
// =============================================================================

type ClientSuite struct {
	suite.Suite
	server     *httptest.Server
	hits       atomic.Int32
	mu         sync.Mutex
	last       recordedRequest
	status     int
	reply      string
	metrics    *metrics.Metrics
	violations *violationRecorder
	client     *backend.Client
	creds      domain.Credentials
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.hits.Store(0)
	s.status = http.StatusOK
	s.reply = `{}`
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.last = recordedRequest{
			method:  r.Method,
			path:    r.URL.Path,
			query:   r.URL.RawQuery,
			headers: r.Header.Clone(),
			body:    string(body),
		}
		s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.status)
		_, _ = io.WriteString(w, s.reply)
	}))
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.violations = &violationRecorder{}
	var err error
	s.client, err = backend.New(s.server.URL+"/", "api-key",
		backend.WithLogger(slog.New(slog.DiscardHandler)),
		backend.WithMetrics(s.metrics),
		backend.WithReporter(s.violations),
		backend.WithBreaker(circuit.New("test", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour))),
	)
	s.Require().NoError(err)
	s.creds = domain.Credentials{SessionToken: "session-1", ClickerID: clickerID, Username: "alice"}
}

func (s *ClientSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientSuite) lastRequest() recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *ClientSuite) TestNew() {
	_, err := backend.New("  ", "key")
	s.Require().Error(err)
	s.Contains(err.Error(), "endpoint is required")
}

// =============================================================================
// Update Count
// =============================================================================

func (s *ClientSuite) TestUpdateCount() {
	s.Run("entry by identifier sends the session headers and ordered body", func() {
		s.reply = `{"status":"success","message":"Successfully recorded entry","count":11}`
		ctx := requestcontext.WithRequestID(context.Background(), "req-42")

		res, err := s.client.UpdateCount(ctx, counts.Submission{
			Identifier:  identity.Identifier("S0000001I"),
			GantryMode:  counts.GantryCheckIn,
			Credentials: s.creds,
		})

		s.Require().NoError(err)
		s.Equal("success", res.Status)
		s.Equal("Successfully recorded entry", res.Message)
		s.Require().NotNil(res.Count)
		s.Equal(11, *res.Count)

		s.Equal(http.MethodPost, s.lastRequest().method)
		s.Equal("/entries/update_entry", s.lastRequest().path)
		s.Equal("api-key", s.lastRequest().headers.Get("CROWD_GO_WHERE_TOKEN"))
		s.Equal("session-1", s.lastRequest().headers.Get("USER_SESSION_ID"))
		s.Equal("application/json", s.lastRequest().headers.Get("Content-Type"))
		s.Equal("req-42", s.lastRequest().headers.Get("X-Request-ID"))
		s.JSONEq(`{"clickerUuid":"7c9e6679-7425-40de-944b-e07fc1f90ae7","name":"alice","bypassRestriction":false,"id":"S0000001I"}`, s.lastRequest().body)
		s.Equal(`{"clickerUuid":"7c9e6679-7425-40de-944b-e07fc1f90ae7","name":"alice","bypassRestriction":false,"id":"S0000001I"}`, s.lastRequest().body)
	})

	s.Run("exit by CAN ID", func() {
		s.reply = `{"status":"rejected","message":"Visitor does not meet odd/even requirement"}`

		res, err := s.client.UpdateCount(context.Background(), counts.Submission{
			CanID:             identity.CanID("1001000200030004"),
			GantryMode:        counts.GantryCheckOut,
			BypassRestriction: true,
			Credentials:       s.creds,
		})

		s.Require().NoError(err)
		s.Equal("rejected", res.Status)
		s.Nil(res.Count)
		s.Equal("/entries/update_exit", s.lastRequest().path)
		s.JSONEq(`{"clickerUuid":"7c9e6679-7425-40de-944b-e07fc1f90ae7","name":"alice","bypassRestriction":true,"canId":"1001000200030004"}`, s.lastRequest().body)
	})

	s.Run("unknown status is passed through for interpretation", func() {
		s.reply = `{"status":"maybe","message":"?"}`

		res, err := s.client.UpdateCount(context.Background(), counts.Submission{
			Identifier: "S0000001I", GantryMode: counts.GantryCheckIn, Credentials: s.creds,
		})

		s.Require().NoError(err)
		s.Equal("maybe", res.Status)
	})

	s.Run("missing message is a protocol error", func() {
		s.reply = `{"status":"success"}`

		_, err := s.client.UpdateCount(context.Background(), counts.Submission{
			Identifier: "S0000001I", GantryMode: counts.GantryCheckIn, Credentials: s.creds,
		})

		var pe *backend.ProtocolError
		s.Require().ErrorAs(err, &pe)
		s.True(dErrors.Is(err, dErrors.CodeContractMismatch))
		s.Contains(s.violations.source, "update_count")
	})

	s.Run("unregistered card maps to ErrCanIDNotRegistered", func() {
		s.status = http.StatusBadRequest
		s.reply = `{"type":"CAN_ID_NOT_REGISTERED","title":"Not registered","error":"CAN ID is not registered"}`

		_, err := s.client.UpdateCount(context.Background(), counts.Submission{
			CanID: "1001000200030004", GantryMode: counts.GantryCheckIn, Credentials: s.creds,
		})

		s.ErrorIs(err, counts.ErrCanIDNotRegistered)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
		var apiErr *backend.APIError
		s.Require().ErrorAs(err, &apiErr)
		s.Equal(http.StatusBadRequest, apiErr.Status)
	})

	s.Run("message-only error body", func() {
		s.status = http.StatusBadRequest
		s.reply = `{"message":"Clicker is closed"}`

		_, err := s.client.UpdateCount(context.Background(), counts.Submission{
			Identifier: "S0000001I", GantryMode: counts.GantryCheckIn, Credentials: s.creds,
		})

		var apiErr *backend.APIError
		s.Require().ErrorAs(err, &apiErr)
		s.Equal("Clicker is closed", apiErr.Message())
		s.Equal("Clicker is closed", dErrors.Message(err))
		s.True(dErrors.Is(err, dErrors.CodeUpstreamFailure))
		s.NotErrorIs(err, counts.ErrCanIDNotRegistered)
	})

	s.Run("malformed error body is a protocol error", func() {
		s.status = http.StatusBadRequest
		s.reply = `<html>bad gateway</html>`

		_, err := s.client.UpdateCount(context.Background(), counts.Submission{
			Identifier: "S0000001I", GantryMode: counts.GantryCheckIn, Credentials: s.creds,
		})

		var pe *backend.ProtocolError
		s.Require().ErrorAs(err, &pe)
		s.Equal(http.StatusBadRequest, pe.Status)
	})
}

// =============================================================================
// Availability
// =============================================================================

func (s *ClientSuite) TestBreakerOpensOnServerErrors() {
	s.status = http.StatusBadGateway
	s.reply = `{"type":"UPSTREAM","title":"Bad gateway","error":"try later"}`
	sub := counts.Submission{Identifier: "S0000001I", GantryMode: counts.GantryCheckIn, Credentials: s.creds}

	for range 2 {
		_, err := s.client.UpdateCount(context.Background(), sub)
		s.True(dErrors.Is(err, dErrors.CodeUnavailable))
	}
	s.Equal(1.0, testutil.ToFloat64(s.metrics.BreakerOpen))

	_, err := s.client.UpdateCount(context.Background(), sub)
	s.True(dErrors.Is(err, dErrors.CodeUnavailable))
	s.EqualValues(2, s.hits.Load(), "an open breaker short-circuits the call")
}

func (s *ClientSuite) TestBreakerRetriesAfterCooldown() {
	now := time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)
	breaker := circuit.New("counting-service",
		circuit.WithFailureThreshold(1),
		circuit.WithCooldown(30*time.Second),
		circuit.WithClock(func() time.Time { return now }),
	)
	client, err := backend.New(s.server.URL, "api-key",
		backend.WithLogger(slog.New(slog.DiscardHandler)),
		backend.WithMetrics(s.metrics),
		backend.WithBreaker(breaker),
	)
	s.Require().NoError(err)
	sub := counts.Submission{Identifier: "S0000001I", GantryMode: counts.GantryCheckIn, Credentials: s.creds}

	s.status = http.StatusServiceUnavailable
	s.reply = `{"error":"maintenance"}`
	_, err = client.UpdateCount(context.Background(), sub)
	s.True(dErrors.Is(err, dErrors.CodeUnavailable))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.BreakerOpen))

	s.Run("failed trial call keeps the breaker open", func() {
		now = now.Add(30 * time.Second)

		_, err := client.UpdateCount(context.Background(), sub)

		s.True(dErrors.Is(err, dErrors.CodeUnavailable))
		s.EqualValues(2, s.hits.Load(), "the trial call reached the service")
		s.Equal(circuit.StateOpen, breaker.State())

		_, err = client.UpdateCount(context.Background(), sub)
		s.True(dErrors.Is(err, dErrors.CodeUnavailable))
		s.EqualValues(2, s.hits.Load(), "cooldown restarted after the failed trial call")
	})

	s.Run("successful trial call closes the breaker", func() {
		now = now.Add(30 * time.Second)
		s.status = http.StatusOK
		s.reply = `{"status":"success","message":"Successfully recorded entry","count":3}`

		res, err := client.UpdateCount(context.Background(), sub)

		s.Require().NoError(err)
		s.Equal("success", res.Status)
		s.Equal(circuit.StateClosed, breaker.State())
		s.Equal(0.0, testutil.ToFloat64(s.metrics.BreakerOpen))
	})
}

func (s *ClientSuite) TestTransportFailure() {
	s.server.Close()

	err := s.client.RegisterCanID(context.Background(), registration.Registration{
		CanID: "1001000200030004", Identifier: "S0000001I", Credentials: s.creds,
	})

	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeUnavailable))
	var apiErr *backend.APIError
	s.False(errors.As(err, &apiErr))
}

// =============================================================================
// Details, Registration and Login
// =============================================================================

func (s *ClientSuite) TestClickerDetails() {
	s.reply = `{"count":42,"name":"Main Gate"}`

	details, err := s.client.ClickerDetails(context.Background(), s.creds)

	s.Require().NoError(err)
	s.Equal(counts.ClickerDetails{Count: 42, Name: "Main Gate"}, *details)
	s.Equal(http.MethodGet, s.lastRequest().method)
	s.Equal("/entries/retrieve_entries_info", s.lastRequest().path)
	s.Equal("clickerUuid=7c9e6679-7425-40de-944b-e07fc1f90ae7", s.lastRequest().query)
}

func (s *ClientSuite) TestRegisterCanID() {
	s.reply = `{"ok":true}`

	err := s.client.RegisterCanID(context.Background(), registration.Registration{
		CanID:       "1001000200030004",
		Identifier:  "S0000001I",
		Credentials: s.creds,
	})

	s.Require().NoError(err)
	s.Equal("/cepas-registration", s.lastRequest().path)
	s.Equal("session-1", s.lastRequest().headers.Get("USER_SESSION_ID"))
	s.Equal(`{"canId":"1001000200030004","id":"S0000001I","bypassRestriction":false}`, s.lastRequest().body)
}

func (s *ClientSuite) TestLoginFlow() {
	loginID := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")

	s.reply = `{"loginUuid":"0f8fad5b-d9cb-469f-a165-70867728950e"}`
	got, err := s.client.RequestLogin(context.Background(), "+6591234567")
	s.Require().NoError(err)
	s.Equal(domain.LoginID(loginID), got)
	s.Empty(s.lastRequest().headers.Get("USER_SESSION_ID"))
	s.JSONEq(`{"mobileNumber":"+6591234567"}`, s.lastRequest().body)

	s.reply = `{}`
	s.Require().NoError(s.client.RequestOTP(context.Background(), got))
	s.Equal("/logins/request_otp", s.lastRequest().path)

	s.reply = `{"sessionToken":"tok","ttl":1893456000}`
	session, err := s.client.VerifyOTP(context.Background(), got, "123456")
	s.Require().NoError(err)
	s.Equal("tok", session.Token)
	s.Equal(time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC), session.ExpiresAt)

	s.reply = `{"clickerUuid":"7c9e6679-7425-40de-944b-e07fc1f90ae7","username":"alice"}`
	binding, err := s.client.BindClicker(context.Background(), "tok", "BR01", "alice")
	s.Require().NoError(err)
	s.Equal(clickerID, binding.ClickerID)
	s.Equal("tok", s.lastRequest().headers.Get("USER_SESSION_ID"))
	s.JSONEq(`{"code":"BR01","name":"alice"}`, s.lastRequest().body)
}

func (s *ClientSuite) TestVerifyOTP_MissingTTL() {
	s.reply = `{"sessionToken":"tok"}`

	_, err := s.client.VerifyOTP(context.Background(), domain.LoginID(uuid.New()), "123456")

	s.True(dErrors.Is(err, dErrors.CodeContractMismatch))
}
