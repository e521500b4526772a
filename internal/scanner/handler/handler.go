package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	dErrors "clicker/pkg/domain-errors"
	"clicker/pkg/platform/httputil"
	"clicker/pkg/requestcontext"
)

// BarcodeSink receives decoded strings from the camera scanner.
type BarcodeSink interface {
	Deliver(raw string) bool
}

// CardPresenter queues cards on a simulated reader.
type CardPresenter interface {
	Present(tagID string, canID []byte) error
}

// Handler exposes scanner input for the presentation layer and, in mock
// mode, a way for staff to tap simulated cards.
type Handler struct {
	barcode   BarcodeSink
	simulator CardPresenter
	logger    *slog.Logger
}

// New builds the handler. simulator may be nil when a hardware reader is
// attached.
func New(barcode BarcodeSink, simulator CardPresenter, logger *slog.Logger) *Handler {
	return &Handler{
		barcode:   barcode,
		simulator: simulator,
		logger:    logger,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/scanner/barcode", h.HandleBarcode)
}

// RegisterAdmin mounts the card simulator when one is configured. The caller
// guards r.
func (h *Handler) RegisterAdmin(r chi.Router) {
	if h.simulator == nil {
		return
	}
	r.Post("/scanner/cards", h.HandlePresentCard)
}

// HandleBarcode handles POST /scanner/barcode. Scans are only accepted while
// a card is waiting for registration.
func (h *Handler) HandleBarcode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[BarcodeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if !h.barcode.Deliver(req.Data) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeConflict, "barcode scanner is not accepting scans"))
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// HandlePresentCard handles POST /scanner/cards.
func (h *Handler) HandlePresentCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[PresentCardRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.simulator.Present(req.TagID, req.ParsedPurse()); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "simulated card presented",
		"request_id", requestID,
		"tag_id", req.TagID,
	)
	w.WriteHeader(http.StatusAccepted)
}
