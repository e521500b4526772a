package registration

import (
	"context"

	"clicker/internal/identity"
	"clicker/pkg/domain"
	audit "clicker/pkg/platform/audit"
)

// Registrar binds a card to an identifier on the registration service.
type Registrar interface {
	RegisterCanID(ctx context.Context, reg Registration) error
}

// BindingStore remembers successful registrations on the terminal.
// Lookup returns sentinel.ErrNotFound for unknown or expired cards.
type BindingStore interface {
	Bind(ctx context.Context, canID identity.CanID, id identity.Identifier) error
	Lookup(ctx context.Context, canID identity.CanID) (identity.Identifier, error)
}

// CredentialsSource provides the session credentials for each registration.
type CredentialsSource interface {
	Credentials() domain.Credentials
}

// Reporter receives audit events.
type Reporter interface {
	Audit(ctx context.Context, event audit.Event)
}
