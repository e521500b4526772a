// Package diagnostics reports station activity and contract violations to
// the structured log, the audit trail and metrics in one call.
package diagnostics

import (
	"context"
	"log/slog"

	"clicker/internal/platform/metrics"
	audit "clicker/pkg/platform/audit"
	"clicker/pkg/requestcontext"
)

// AuditPublisher is the subset of the audit publisher the reporter needs.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Reporter fans a station event out to the configured sinks. A nil Reporter
// is valid and reports nothing.
type Reporter struct {
	logger    *slog.Logger
	publisher AuditPublisher
	metrics   *metrics.Metrics
}

type Option func(*Reporter)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Reporter) {
		r.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(r *Reporter) {
		r.publisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Reporter) {
		r.metrics = m
	}
}

func New(opts ...Option) *Reporter {
	r := &Reporter{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Audit logs the event and emits it to the audit publisher. Publisher
// failures are logged and swallowed; the station flow never blocks on audit.
func (r *Reporter) Audit(ctx context.Context, event audit.Event) {
	if r == nil {
		return
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if r.logger != nil {
		r.logger.InfoContext(ctx, event.Action,
			"event", event.Action,
			"log_type", "audit",
			"subject", event.Subject,
			"decision", event.Decision,
			"reason", event.Reason,
			"request_id", event.RequestID,
		)
	}
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Emit(ctx, event); err != nil && r.logger != nil {
		r.logger.WarnContext(ctx, "failed to emit audit event", "event", event.Action, "error", err)
	}
}

// ProtocolViolation records a response from the counting service that broke
// its contract. source names the operation that received it.
func (r *Reporter) ProtocolViolation(ctx context.Context, source string, err error) {
	if r == nil {
		return
	}
	r.metrics.IncrementProtocolViolations()
	if r.logger != nil {
		r.logger.ErrorContext(ctx, "protocol violation",
			"source", source,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	if r.publisher == nil {
		return
	}
	event := audit.Event{
		Action:    string(audit.EventProtocolViolation),
		Subject:   source,
		Reason:    err.Error(),
		Severity:  audit.SeverityCritical,
		RequestID: requestcontext.RequestID(ctx),
	}
	if emitErr := r.publisher.Emit(ctx, event); emitErr != nil && r.logger != nil {
		r.logger.WarnContext(ctx, "failed to emit audit event", "event", event.Action, "error", emitErr)
	}
}
