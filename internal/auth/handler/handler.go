package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"clicker/internal/auth"
	"clicker/pkg/domain"
	"clicker/pkg/platform/httputil"
	"clicker/pkg/requestcontext"
)

// Service defines the login operations of the terminal.
type Service interface {
	StartLogin(ctx context.Context, mobileNumber string) error
	ResendOTP(ctx context.Context) error
	VerifyOTP(ctx context.Context, otp string) (domain.Session, error)
	BindClicker(ctx context.Context, branchCode, username string) (domain.ClickerBinding, error)
	Status(ctx context.Context) auth.Status
	Logout(ctx context.Context) error
}

// Handler wires session endpoints to the login service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the login flow on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/session", h.HandleStatus)
	r.Post("/session/login", h.HandleStartLogin)
	r.Post("/session/otp", h.HandleResendOTP)
	r.Post("/session/verify", h.HandleVerifyOTP)
	r.Post("/session/clicker", h.HandleBindClicker)
}

// RegisterAdmin mounts staff-only session endpoints. The caller guards r.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Delete("/session", h.HandleLogout)
}

// HandleStatus handles GET /session.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, FromStatus(h.service.Status(r.Context())))
}

// HandleStartLogin handles POST /session/login.
func (h *Handler) HandleStartLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.service.StartLogin(ctx, req.MobileNumber); err != nil {
		h.logger.WarnContext(ctx, "login request failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, FromStatus(h.service.Status(ctx)))
}

// HandleResendOTP handles POST /session/otp.
func (h *Handler) HandleResendOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.ResendOTP(ctx); err != nil {
		h.logger.WarnContext(ctx, "otp resend failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// HandleVerifyOTP handles POST /session/verify.
func (h *Handler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if _, err := h.service.VerifyOTP(ctx, req.OTP); err != nil {
		h.logger.WarnContext(ctx, "otp verification failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromStatus(h.service.Status(ctx)))
}

// HandleBindClicker handles POST /session/clicker.
func (h *Handler) HandleBindClicker(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[BindClickerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	binding, err := h.service.BindClicker(ctx, req.BranchCode, req.Username)
	if err != nil {
		h.logger.WarnContext(ctx, "clicker binding failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromBinding(binding))
}

// HandleLogout handles DELETE /session.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.Logout(ctx); err != nil {
		h.logger.ErrorContext(ctx, "logout failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
