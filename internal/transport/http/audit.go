package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	dErrors "clicker/pkg/domain-errors"
	audit "clicker/pkg/platform/audit"
	"clicker/pkg/platform/httputil"
	"clicker/pkg/requestcontext"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// AuditLister reads the audit trail. Implemented by the audit publisher.
type AuditLister interface {
	Recent(ctx context.Context, limit int) ([]audit.Event, error)
	ByActions(ctx context.Context, actions ...string) ([]audit.Event, error)
}

// AuditHandler serves the recent audit trail to staff.
type AuditHandler struct {
	lister AuditLister
	logger *slog.Logger
}

func NewAuditHandler(lister AuditLister, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{lister: lister, logger: logger}
}

// Register mounts nothing publicly; the audit trail is staff-only.
func (h *AuditHandler) Register(chi.Router) {}

func (h *AuditHandler) RegisterAdmin(r chi.Router) {
	r.Get("/audit/recent", h.HandleRecent)
	r.Get("/audit/events", h.HandleByAction)
}

type AuditEventResponse struct {
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
	ClickerID string    `json:"clicker_id,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Action    string    `json:"action"`
	Decision  string    `json:"decision,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Severity  string    `json:"severity,omitempty"`
}

// HandleRecent handles GET /audit/recent?limit=N.
func (h *AuditHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxAuditLimit {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be between 1 and 500"))
			return
		}
		limit = n
	}

	events, err := h.lister.Recent(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list audit events",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.writeEvents(w, events)
}

// HandleByAction handles GET /audit/events?action=a&action=b.
func (h *AuditHandler) HandleByAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actions := r.URL.Query()["action"]
	if len(actions) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "at least one action is required"))
		return
	}

	events, err := h.lister.ByActions(ctx, actions...)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list audit events",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	h.writeEvents(w, events)
}

func (h *AuditHandler) writeEvents(w http.ResponseWriter, events []audit.Event) {
	resp := make([]AuditEventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, AuditEventResponse{
			Category:  string(e.Category),
			Timestamp: e.Timestamp,
			ClickerID: e.ClickerID,
			Subject:   e.Subject,
			Action:    e.Action,
			Decision:  e.Decision,
			Reason:    e.Reason,
			RequestID: e.RequestID,
			Severity:  string(e.Severity),
		})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": resp})
}
