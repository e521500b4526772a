package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"clicker/internal/counts"
	"clicker/internal/terminal"
	"clicker/pkg/platform/httputil"
	"clicker/pkg/requestcontext"
)

// Station is the card station driven by the presentation layer.
type Station interface {
	View() terminal.View
	CheckIdentifier(ctx context.Context, raw string, bypass bool) error
	RegisterPending(ctx context.Context, raw string, bypass bool) error
	ForceUpdate(ctx context.Context) error
	Reset()
	Pause()
	Resume()
	SetGantryMode(mode counts.GantryMode) error
	ToggleGantryMode() counts.GantryMode
}

// Tally reads the running total of the bound clicker.
type Tally interface {
	Refresh(ctx context.Context) (counts.ClickerDetails, error)
	Current() (counts.ClickerDetails, bool)
}

// Handler wires station endpoints to the station.
type Handler struct {
	station Station
	tally   Tally
	logger  *slog.Logger
}

func New(station Station, tally Tally, logger *slog.Logger) *Handler {
	return &Handler{
		station: station,
		tally:   tally,
		logger:  logger,
	}
}

// Register mounts station endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/station", h.HandleView)
	r.Post("/station/reset", h.HandleReset)
	r.Post("/station/pause", h.HandlePause)
	r.Post("/station/resume", h.HandleResume)
	r.Put("/station/gantry-mode", h.HandleSetGantryMode)
	r.Post("/station/gantry-mode/toggle", h.HandleToggleGantryMode)
	r.Post("/counts", h.HandleCheckIdentifier)
	r.Post("/counts/force", h.HandleForceUpdate)
	r.Post("/registrations", h.HandleRegister)
	r.Get("/clicker", h.HandleClicker)
}

// HandleView handles GET /station.
func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, FromView(h.station.View()))
}

// HandleReset handles POST /station/reset.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.station.Reset()
	h.logger.InfoContext(ctx, "station reset",
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, FromView(h.station.View()))
}

// HandlePause handles POST /station/pause. The reader is free once it returns.
func (h *Handler) HandlePause(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.station.Pause()
	h.logger.InfoContext(ctx, "station paused",
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, FromView(h.station.View()))
}

// HandleResume handles POST /station/resume.
func (h *Handler) HandleResume(w http.ResponseWriter, r *http.Request) {
	h.station.Resume()
	httputil.WriteJSON(w, http.StatusOK, FromView(h.station.View()))
}

// HandleSetGantryMode handles PUT /station/gantry-mode.
func (h *Handler) HandleSetGantryMode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[GantryModeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.station.SetGantryMode(req.ParsedMode()); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "gantry mode set",
		"request_id", requestID,
		"gantry_mode", req.ParsedMode(),
	)
	httputil.WriteJSON(w, http.StatusOK, GantryModeResponse{GantryMode: string(req.ParsedMode())})
}

// HandleToggleGantryMode handles POST /station/gantry-mode/toggle.
func (h *Handler) HandleToggleGantryMode(w http.ResponseWriter, r *http.Request) {
	mode := h.station.ToggleGantryMode()
	httputil.WriteJSON(w, http.StatusOK, GantryModeResponse{GantryMode: string(mode)})
}

// HandleCheckIdentifier handles POST /counts. A rejected visitor is a
// successful request; the outcome is in the returned view.
func (h *Handler) HandleCheckIdentifier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[IdentifierRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.station.CheckIdentifier(ctx, req.Identifier, req.BypassRestriction); err != nil {
		h.logger.WarnContext(ctx, "count update failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	view := h.station.View()
	h.logger.InfoContext(ctx, "count updated",
		"request_id", requestID,
		"state", view.Count.State,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromView(view))
}

// HandleForceUpdate handles POST /counts/force.
func (h *Handler) HandleForceUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.station.ForceUpdate(ctx); err != nil {
		h.logger.WarnContext(ctx, "force update failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromView(h.station.View()))
}

// HandleRegister handles POST /registrations for the card awaiting
// registration.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[IdentifierRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.station.RegisterPending(ctx, req.Identifier, req.BypassRestriction); err != nil {
		h.logger.WarnContext(ctx, "card registration failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromView(h.station.View()))
}

// HandleClicker handles GET /clicker. When the service is unreachable the
// last known details are served with stale set.
func (h *Handler) HandleClicker(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	details, err := h.tally.Refresh(ctx)
	if err != nil {
		cached, ok := h.tally.Current()
		if !ok {
			httputil.WriteError(w, err)
			return
		}
		h.logger.WarnContext(ctx, "serving cached clicker details",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteJSON(w, http.StatusOK, FromDetails(cached, true))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromDetails(details, false))
}
