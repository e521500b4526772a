package counts

import (
	"context"

	"clicker/pkg/domain"
	audit "clicker/pkg/platform/audit"
)

// Counter submits a count update to the counting service.
type Counter interface {
	UpdateCount(ctx context.Context, sub Submission) (*Result, error)
}

// DetailsFetcher reads the clicker's details from the counting service.
type DetailsFetcher interface {
	ClickerDetails(ctx context.Context, creds domain.Credentials) (*ClickerDetails, error)
}

// CredentialsSource provides the session credentials for each submission.
type CredentialsSource interface {
	Credentials() domain.Credentials
}

// Reporter receives audit events and contract violations.
type Reporter interface {
	Audit(ctx context.Context, event audit.Event)
	ProtocolViolation(ctx context.Context, source string, err error)
}
