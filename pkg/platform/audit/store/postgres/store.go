// Package postgres keeps the terminal's audit trail in a branch PostgreSQL
// database so it survives restarts and can be collected centrally.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	audit "clicker/pkg/platform/audit"
	pstrings "clicker/pkg/platform/strings"
	"clicker/pkg/platform/tx"
)

var schema = []string{`
	CREATE TABLE IF NOT EXISTS terminal_audit_events (
		id          UUID PRIMARY KEY,
		terminal_id TEXT NOT NULL,
		category    TEXT NOT NULL,
		timestamp   TIMESTAMPTZ NOT NULL,
		clicker_id  TEXT NOT NULL DEFAULT '',
		subject     TEXT NOT NULL DEFAULT '',
		action      TEXT NOT NULL,
		decision    TEXT NOT NULL DEFAULT '',
		reason      TEXT NOT NULL DEFAULT '',
		request_id  TEXT NOT NULL DEFAULT '',
		severity    TEXT NOT NULL DEFAULT ''
	)`, `
	CREATE INDEX IF NOT EXISTS terminal_audit_events_terminal_ts
		ON terminal_audit_events (terminal_id, timestamp DESC)`,
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Store implements audit.Store for one terminal. Several terminals may share
// the table; every query is scoped to terminalID.
type Store struct {
	db         *sql.DB
	terminalID string
	now        func() time.Time
}

type Option func(*Store)

// WithClock sets the time used for events without a timestamp.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func New(db *sql.DB, terminalID string, opts ...Option) *Store {
	s := &Store{db: db, terminalID: terminalID, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open connects with the lib/pq driver and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping audit database: %w", err)
	}
	return db, nil
}

// conn joins the caller's transaction when ctx carries one.
func (s *Store) conn(ctx context.Context) querier {
	if sqlTx, ok := tx.From(ctx); ok {
		return sqlTx
	}
	return s.db
}

// EnsureSchema creates the audit table and its index in one transaction.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return tx.Run(ctx, s.db, func(ctx context.Context) error {
		for _, stmt := range schema {
			if _, err := s.conn(ctx).ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("create audit schema: %w", err)
			}
		}
		return nil
	})
}

// AppendAll inserts events atomically.
func (s *Store) AppendAll(ctx context.Context, events []audit.Event) error {
	return tx.Run(ctx, s.db, func(ctx context.Context) error {
		for _, event := range events {
			if err := s.Append(ctx, event); err != nil {
				return err
			}
		}
		return nil
	})
}

// Append inserts one event. The category is always derived from the action.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	query := `
		INSERT INTO terminal_audit_events (
			id, terminal_id, category, timestamp, clicker_id, subject,
			action, decision, reason, request_id, severity
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.conn(ctx).ExecContext(ctx, query,
		uuid.New(),
		s.terminalID,
		string(audit.AuditEvent(event.Action).Category()),
		ts.UTC(),
		event.ClickerID,
		event.Subject,
		event.Action,
		event.Decision,
		event.Reason,
		event.RequestID,
		string(event.Severity),
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListRecent returns up to limit events, oldest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	query := `
		SELECT category, timestamp, clicker_id, subject, action,
		       decision, reason, request_id, severity
		FROM terminal_audit_events
		WHERE terminal_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`
	rows, err := s.conn(ctx).QueryContext(ctx, query, s.terminalID, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}
	slices.Reverse(events)
	return events, nil
}

// ListByActions returns every event whose action is one of actions, oldest
// first.
func (s *Store) ListByActions(ctx context.Context, actions ...string) ([]audit.Event, error) {
	actions = pstrings.DedupeAndTrim(actions)
	if len(actions) == 0 {
		return nil, nil
	}
	query := `
		SELECT category, timestamp, clicker_id, subject, action,
		       decision, reason, request_id, severity
		FROM terminal_audit_events
		WHERE terminal_id = $1 AND action = ANY($2)
		ORDER BY timestamp ASC
	`
	rows, err := s.conn(ctx).QueryContext(ctx, query, s.terminalID, pq.Array(actions))
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event
	for rows.Next() {
		var (
			event              audit.Event
			category, severity string
		)
		if err := rows.Scan(
			&category,
			&event.Timestamp,
			&event.ClickerID,
			&event.Subject,
			&event.Action,
			&event.Decision,
			&event.Reason,
			&event.RequestID,
			&severity,
		); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Category = audit.EventCategory(category)
		event.Severity = audit.Severity(severity)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
