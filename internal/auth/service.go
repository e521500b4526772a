// Package auth bootstraps the terminal's session: mobile-number login, OTP
// verification and binding the session to a branch clicker.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"clicker/internal/identity"
	"clicker/pkg/domain"
	dErrors "clicker/pkg/domain-errors"
	audit "clicker/pkg/platform/audit"
	"clicker/pkg/platform/sentinel"
	"clicker/pkg/requestcontext"
)

var (
	mobileNumberPattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)
	otpPattern          = regexp.MustCompile(`^[0-9]{4,8}$`)
)

const maxFieldLength = 64

// Service holds the terminal's single login. It implements the credentials
// source the coordinator and resolver read on every remote call.
type Service struct {
	gateway  Gateway
	store    RecordStore
	reporter Reporter
	logger   *slog.Logger

	mu      sync.RWMutex
	pending domain.LoginID
	record  Record
}

type Option func(*Service)

// WithStore persists the login so a restarted terminal stays logged in.
func WithStore(store RecordStore) Option {
	return func(s *Service) {
		s.store = store
	}
}

func WithReporter(reporter Reporter) Option {
	return func(s *Service) {
		s.reporter = reporter
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(gateway Gateway, opts ...Option) (*Service, error) {
	if gateway == nil {
		return nil, errors.New("gateway is required")
	}
	s := &Service{
		gateway: gateway,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// StartLogin requests a login for the mobile number and has the service send
// an OTP to it. A new login replaces any pending one.
func (s *Service) StartLogin(ctx context.Context, mobileNumber string) error {
	mobileNumber = strings.ReplaceAll(strings.TrimSpace(mobileNumber), " ", "")
	if !mobileNumberPattern.MatchString(mobileNumber) {
		return dErrors.New(dErrors.CodeValidation, "enter a valid mobile number")
	}

	loginID, err := s.gateway.RequestLogin(ctx, mobileNumber)
	if err != nil {
		return loginError(err, "could not start login, please try again later")
	}
	if err := s.gateway.RequestOTP(ctx, loginID); err != nil {
		return loginError(err, "could not send OTP, please try again later")
	}

	s.mu.Lock()
	s.pending = loginID
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "login started",
		"login_id", loginID.String(),
		"mobile_number", identity.MaskID(mobileNumber, 4),
	)
	return nil
}

// ResendOTP asks for a new OTP for the pending login.
func (s *Service) ResendOTP(ctx context.Context) error {
	loginID, err := s.pendingLogin()
	if err != nil {
		return err
	}
	if err := s.gateway.RequestOTP(ctx, loginID); err != nil {
		return loginError(err, "could not send OTP, please try again later")
	}
	return nil
}

// VerifyOTP completes the pending login. The session replaces any previous
// one and the clicker binding is cleared until BindClicker is called.
func (s *Service) VerifyOTP(ctx context.Context, otp string) (domain.Session, error) {
	otp = strings.TrimSpace(otp)
	if !otpPattern.MatchString(otp) {
		return domain.Session{}, dErrors.New(dErrors.CodeValidation, "enter the OTP sent to your mobile number")
	}
	loginID, err := s.pendingLogin()
	if err != nil {
		return domain.Session{}, err
	}

	session, err := s.gateway.VerifyOTP(ctx, loginID, otp)
	if err != nil {
		return domain.Session{}, loginError(err, "could not verify OTP, please try again")
	}
	if session.Expired(requestcontext.Now(ctx)) {
		return domain.Session{}, dErrors.Wrap(sentinel.ErrExpired, dErrors.CodeUnauthorized, "session has already expired, please log in again")
	}

	record := Record{Session: session}
	s.mu.Lock()
	s.pending = domain.LoginID{}
	s.record = record
	s.mu.Unlock()

	s.persist(ctx, record)
	s.audit(ctx, audit.EventSessionStarted, "")
	s.logger.InfoContext(ctx, "session started", "login_id", loginID.String(), "expires_at", session.ExpiresAt)
	return session, nil
}

// BindClicker binds the session to the clicker of a branch. It requires a
// live session.
func (s *Service) BindClicker(ctx context.Context, branchCode, username string) (domain.ClickerBinding, error) {
	branchCode = strings.TrimSpace(branchCode)
	username = strings.TrimSpace(username)
	if branchCode == "" || username == "" {
		return domain.ClickerBinding{}, dErrors.New(dErrors.CodeValidation, "branch code and name are required")
	}
	if len(branchCode) > maxFieldLength || len(username) > maxFieldLength {
		return domain.ClickerBinding{}, dErrors.New(dErrors.CodeValidation, "branch code and name must be at most 64 characters")
	}

	s.mu.RLock()
	session := s.record.Session
	s.mu.RUnlock()
	if session.Token == "" {
		return domain.ClickerBinding{}, dErrors.New(dErrors.CodeUnauthorized, "log in before binding a clicker")
	}
	if session.Expired(requestcontext.Now(ctx)) {
		return domain.ClickerBinding{}, dErrors.Wrap(sentinel.ErrExpired, dErrors.CodeUnauthorized, "session has expired, please log in again")
	}

	binding, err := s.gateway.BindClicker(ctx, session.Token, branchCode, username)
	if err != nil {
		return domain.ClickerBinding{}, loginError(err, "could not bind clicker, please try again later")
	}

	s.mu.Lock()
	if s.record.Session.Token != session.Token {
		s.mu.Unlock()
		return domain.ClickerBinding{}, dErrors.Wrap(sentinel.ErrInvalidState, dErrors.CodeConflict, "session changed while binding the clicker")
	}
	s.record.Binding = binding
	record := s.record
	s.mu.Unlock()

	s.persist(ctx, record)
	s.audit(ctx, audit.EventClickerBound, binding.ClickerID.String())
	s.logger.InfoContext(ctx, "clicker bound", "clicker_id", binding.ClickerID.String(), "branch_code", branchCode)
	return binding, nil
}

// Restore loads a persisted login. An expired login is discarded.
func (s *Service) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	record, err := s.store.Load(ctx)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load saved login")
	}
	if record.Session.Expired(requestcontext.Now(ctx)) {
		s.logger.InfoContext(ctx, "saved session expired", "expired_at", record.Session.ExpiresAt)
		if err := s.store.Clear(ctx); err != nil {
			s.logger.WarnContext(ctx, "failed to clear expired login", "error", err)
		}
		return nil
	}

	s.mu.Lock()
	s.record = record
	s.mu.Unlock()
	s.logger.InfoContext(ctx, "session restored", "clicker_id", record.Binding.ClickerID.String())
	return nil
}

// Logout forgets the session, the binding and any pending login.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.pending = domain.LoginID{}
	s.record = Record{}
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Clear(ctx); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear saved login")
		}
	}
	s.audit(ctx, audit.EventSessionEnded, "")
	return nil
}

// Credentials returns the credentials of the current login. They are empty
// until a session is verified and bound to a clicker.
func (s *Service) Credentials() domain.Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record.Credentials()
}

func (s *Service) Status(ctx context.Context) Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loggedIn := s.record.Session.Token != "" && !s.record.Session.Expired(requestcontext.Now(ctx))
	return Status{
		AwaitingOTP:  !s.pending.IsNil(),
		LoggedIn:     loggedIn,
		ClickerBound: loggedIn && !s.record.Binding.ClickerID.IsNil(),
		Username:     s.record.Binding.Username,
		ExpiresAt:    s.record.Session.ExpiresAt,
	}
}

func (s *Service) pendingLogin() (domain.LoginID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pending.IsNil() {
		return domain.LoginID{}, dErrors.Wrap(sentinel.ErrInvalidState, dErrors.CodeConflict, "request a login first")
	}
	return s.pending, nil
}

func (s *Service) persist(ctx context.Context, record Record) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, record); err != nil {
		s.logger.WarnContext(ctx, "failed to save login", "error", err)
	}
}

func (s *Service) audit(ctx context.Context, action audit.AuditEvent, clickerID string) {
	if s.reporter == nil {
		return
	}
	s.reporter.Audit(ctx, audit.Event{
		Action:    string(action),
		ClickerID: clickerID,
	})
}

// loginError keeps a coded cause as is and wraps anything else with msg.
func loginError(err error, msg string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
}
