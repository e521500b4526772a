package diagnostics_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clicker/internal/diagnostics"
	"clicker/internal/platform/metrics"
	audit "clicker/pkg/platform/audit"
	"clicker/pkg/platform/audit/publisher"
	"clicker/pkg/platform/audit/store/memory"
	"clicker/pkg/requestcontext"
)

type failingPublisher struct{}

func (failingPublisher) Emit(context.Context, audit.Event) error {
	return errors.New("buffer full")
}

func TestAudit(t *testing.T) {
	store := memory.NewInMemoryStore()
	var buf bytes.Buffer
	r := diagnostics.New(
		diagnostics.WithLogger(slog.New(slog.NewJSONHandler(&buf, nil))),
		diagnostics.WithAuditPublisher(publisher.NewPublisher(store)),
	)
	ctx := requestcontext.WithRequestID(context.Background(), "req-7")

	r.Audit(ctx, audit.Event{Action: string(audit.EventCountRecorded), Subject: "*****001I"})

	events, err := store.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "req-7", events[0].RequestID)
	assert.Contains(t, buf.String(), `"log_type":"audit"`)
	assert.NotContains(t, buf.String(), "S0000001I")
}

func TestAuditSwallowsPublisherErrors(t *testing.T) {
	var buf bytes.Buffer
	r := diagnostics.New(
		diagnostics.WithLogger(slog.New(slog.NewJSONHandler(&buf, nil))),
		diagnostics.WithAuditPublisher(failingPublisher{}),
	)

	r.Audit(context.Background(), audit.Event{Action: string(audit.EventSessionStarted)})

	assert.Contains(t, buf.String(), "failed to emit audit event")
}

func TestProtocolViolation(t *testing.T) {
	store := memory.NewInMemoryStore()
	m := metrics.New(prometheus.NewRegistry())
	r := diagnostics.New(
		diagnostics.WithAuditPublisher(publisher.NewPublisher(store)),
		diagnostics.WithMetrics(m),
	)

	r.ProtocolViolation(context.Background(), "update_entry", errors.New(`unknown status "maybe"`))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProtocolViolations))
	events, err := store.ListByActions(context.Background(), string(audit.EventProtocolViolation))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "update_entry", events[0].Subject)
	assert.Equal(t, audit.SeverityCritical, events[0].Severity)
}

func TestNilReporter(t *testing.T) {
	var r *diagnostics.Reporter
	assert.NotPanics(t, func() {
		r.Audit(context.Background(), audit.Event{Action: string(audit.EventCountFailed)})
		r.ProtocolViolation(context.Background(), "update_entry", errors.New("boom"))
	})
}
