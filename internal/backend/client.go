// Package backend is the client for the remote counting, registration and
// login service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"clicker/internal/platform/metrics"
	dErrors "clicker/pkg/domain-errors"
	"clicker/pkg/platform/circuit"
	"clicker/pkg/platform/sentinel"
	"clicker/pkg/requestcontext"
)

const (
	headerAPIKey    = "CROWD_GO_WHERE_TOKEN"
	headerSession   = "USER_SESSION_ID"
	headerRequestID = "X-Request-ID"

	maxResponseBytes = 1 << 20
	serviceName      = "counting-service"
)

// ProtocolReporter is told about replies that break the service contract.
type ProtocolReporter interface {
	ProtocolViolation(ctx context.Context, source string, err error)
}

// Client talks to the counting service over HTTP. Every call carries the
// client API key; calls made on behalf of a session also carry its token.
type Client struct {
	endpoint string
	apiKey   string

	httpClient *http.Client
	breaker    *circuit.Breaker
	tracer     trace.Tracer
	reporter   ProtocolReporter
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.httpClient = &http.Client{Timeout: d}
		}
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(cl *Client) {
		cl.breaker = b
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cl *Client) {
		cl.tracer = tp.Tracer("clicker/backend")
	}
}

func WithReporter(r ProtocolReporter) Option {
	return func(cl *Client) {
		cl.reporter = r
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(cl *Client) {
		cl.metrics = m
	}
}

// New creates a client for the service at endpoint.
func New(endpoint, apiKey string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, errors.New("endpoint is required")
	}
	c := &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		breaker:    circuit.New(serviceName),
		tracer:     otel.Tracer("clicker/backend"),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// call describes one request to the service.
type call struct {
	operation    string
	method       string
	path         string
	sessionToken string
	body         any
}

// errorBody accepts both error shapes the service produces.
type errorBody struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do sends the request and returns the raw body of a 2xx reply. Non-2xx
// replies become *APIError or *ProtocolError; transport failures are coded
// unavailable or timeout.
func (c *Client) do(ctx context.Context, cl call) ([]byte, error) {
	if !c.breaker.Allow() {
		c.metrics.ObserveRemoteCall(cl.operation, "short_circuit", 0)
		return nil, dErrors.Wrap(sentinel.ErrUnavailable, dErrors.CodeUnavailable,
			"counting service is temporarily unavailable, please try again later")
	}

	ctx, span := c.tracer.Start(ctx, "backend."+cl.operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("external.target", serviceName),
			attribute.String("external.operation", cl.operation),
			attribute.String("http.request.method", cl.method),
		),
	)
	defer span.End()

	start := time.Now()
	body, status, err := c.roundTrip(ctx, cl)
	elapsed := time.Since(start).Seconds()
	span.SetAttributes(attribute.Int("http.response.status_code", status))

	if err != nil {
		c.recordFailure(ctx, cl.operation)
		c.metrics.ObserveRemoteCall(cl.operation, "transport_error", elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport error")
		c.logger.WarnContext(ctx, "counting service unreachable",
			"operation", cl.operation,
			"error", err,
		)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "counting service timed out, please try again later")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "counting service is unavailable, please try again later")
	}

	if status >= http.StatusInternalServerError {
		c.recordFailure(ctx, cl.operation)
	} else {
		c.recordSuccess(ctx)
	}

	if status >= 200 && status < 300 {
		c.metrics.ObserveRemoteCall(cl.operation, "ok", elapsed)
		span.SetStatus(codes.Ok, "")
		return body, nil
	}

	c.metrics.ObserveRemoteCall(cl.operation, "error_reply", elapsed)
	span.SetStatus(codes.Error, http.StatusText(status))
	return nil, c.decodeError(ctx, cl, status, body)
}

func (c *Client) roundTrip(ctx context.Context, cl call) ([]byte, int, error) {
	var reader io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return nil, 0, fmt.Errorf("marshal %s request: %w", cl.operation, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.endpoint+cl.path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("create %s request: %w", cl.operation, err)
	}
	req.Header.Set(headerAPIKey, c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if cl.sessionToken != "" {
		req.Header.Set(headerSession, cl.sessionToken)
	}
	if id := requestcontext.RequestID(ctx); id != "" {
		req.Header.Set(headerRequestID, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read %s response: %w", cl.operation, err)
	}
	return body, resp.StatusCode, nil
}

func (c *Client) decodeError(ctx context.Context, cl call, status int, body []byte) error {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || (eb.Title == "" && eb.Error == "" && eb.Message == "") {
		pe := &ProtocolError{Operation: cl.operation, Status: status, Reason: "error body has no title, error or message", Err: err}
		return c.protocolViolation(ctx, pe)
	}

	apiErr := &APIError{
		Operation: cl.operation,
		Status:    status,
		Type:      eb.Type,
		Title:     eb.Title,
		Detail:    eb.Error,
	}
	if apiErr.Detail == "" {
		apiErr.Detail = eb.Message
	}
	c.logger.InfoContext(ctx, "counting service returned an error",
		"operation", cl.operation,
		"status", status,
		"type", apiErr.Type,
	)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return dErrors.Wrap(apiErr, dErrors.CodeUnauthorized, apiErr.Message())
	case status == http.StatusNotFound:
		return dErrors.Wrap(apiErr, dErrors.CodeNotFound, apiErr.Message())
	case status == http.StatusConflict:
		return dErrors.Wrap(apiErr, dErrors.CodeConflict, apiErr.Message())
	case status >= http.StatusInternalServerError:
		return dErrors.Wrap(apiErr, dErrors.CodeUnavailable, apiErr.Message())
	default:
		return dErrors.Wrap(apiErr, dErrors.CodeUpstreamFailure, apiErr.Message())
	}
}

// protocolViolation reports pe and returns it coded as a contract mismatch.
func (c *Client) protocolViolation(ctx context.Context, pe *ProtocolError) error {
	err := dErrors.Wrap(pe, dErrors.CodeContractMismatch, "unexpected response from the counting service")
	if c.reporter != nil {
		c.reporter.ProtocolViolation(ctx, pe.Operation, pe)
	} else {
		c.logger.ErrorContext(ctx, "counting service broke its contract", "error", pe)
	}
	return err
}

// decode unmarshals a 2xx body into out.
func (c *Client) decode(ctx context.Context, operation string, body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return c.protocolViolation(ctx, &ProtocolError{Operation: operation, Status: http.StatusOK, Reason: "invalid JSON", Err: err})
	}
	return nil
}

func (c *Client) recordFailure(ctx context.Context, operation string) {
	change := c.breaker.RecordFailure()
	if change.Opened {
		c.metrics.SetBreakerOpen(true)
		c.logger.WarnContext(ctx, "circuit breaker opened", "dependency", c.breaker.Name(), "operation", operation)
	}
}

func (c *Client) recordSuccess(ctx context.Context) {
	change := c.breaker.RecordSuccess()
	if change.Closed {
		c.metrics.SetBreakerOpen(false)
		c.logger.InfoContext(ctx, "circuit breaker closed", "dependency", c.breaker.Name())
	}
}
