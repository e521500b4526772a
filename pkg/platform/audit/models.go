package audit

import (
	"context"
	"time"
)

// EventCategory classifies events by their primary purpose so sinks can apply
// different retention.
type EventCategory string

const (
	// CategoryOperations covers routine station activity: counts recorded,
	// cards registered, scans rejected. Can be sampled or rotated.
	CategoryOperations EventCategory = "operations"

	// CategoryDiagnostics covers contract violations between the terminal and
	// the backend. These are the events a crash/telemetry sink would receive.
	CategoryDiagnostics EventCategory = "diagnostics"
)

// Severity levels used for routing.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Event is emitted from station logic to capture key actions. Subject must
// never carry a raw visitor identifier; use the masked form.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	ClickerID string
	Subject   string
	Action    string
	Decision  string
	Reason    string
	RequestID string
	Severity  Severity
}

type AuditEvent string

const (
	EventCountRecorded      AuditEvent = "count_recorded"
	EventCountRejected      AuditEvent = "count_rejected"
	EventCountFailed        AuditEvent = "count_failed"
	EventCardRegistered     AuditEvent = "card_registered"
	EventRegistrationFailed AuditEvent = "registration_failed"
	EventScanRejected       AuditEvent = "scan_rejected"
	EventProtocolViolation  AuditEvent = "protocol_violation"
	EventSessionStarted     AuditEvent = "session_started"
	EventClickerBound       AuditEvent = "clicker_bound"
	EventSessionEnded       AuditEvent = "session_ended"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventCountRecorded:      CategoryOperations,
	EventCountRejected:      CategoryOperations,
	EventCountFailed:        CategoryOperations,
	EventCardRegistered:     CategoryOperations,
	EventRegistrationFailed: CategoryOperations,
	EventScanRejected:       CategoryOperations,
	EventProtocolViolation:  CategoryDiagnostics,
	EventSessionStarted:     CategoryOperations,
	EventClickerBound:       CategoryOperations,
	EventSessionEnded:       CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
	ListByActions(ctx context.Context, actions ...string) ([]Event, error)
}
