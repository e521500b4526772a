package terminal

import (
	"context"

	"clicker/internal/counts"
	"clicker/internal/identity"
	"clicker/internal/registration"
	"clicker/internal/scanner"
)

// Coordinator submits counts. Implemented by *counts.Coordinator.
type Coordinator interface {
	UpdateCount(ctx context.Context, params counts.UpdateCountParams) error
	ResetState()
	Snapshot() counts.Snapshot
}

// Resolver registers cards. Implemented by *registration.Resolver.
type Resolver interface {
	RegisterCanID(ctx context.Context, params registration.RegisterParams) error
	Resolve(ctx context.Context, raw string) (identity.Identifier, error)
	ResetState()
	Snapshot() registration.Snapshot
}

// Scanner reads cards. Implemented by *scanner.Session.
type Scanner interface {
	Scan(ctx context.Context) (identity.CanID, error)
	Resume()
	Snapshot() scanner.Snapshot
}

// Barcode is the camera scanner used to capture an identifier during card
// registration. Implemented by *scanner.Barcode.
type Barcode interface {
	Enable()
	Disable()
	Next(ctx context.Context) (string, error)
}
