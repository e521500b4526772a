package auth

import (
	"context"

	"clicker/pkg/domain"
	audit "clicker/pkg/platform/audit"
)

// Gateway is the login API of the counting service.
type Gateway interface {
	RequestLogin(ctx context.Context, mobileNumber string) (domain.LoginID, error)
	RequestOTP(ctx context.Context, loginID domain.LoginID) error
	VerifyOTP(ctx context.Context, loginID domain.LoginID, otp string) (domain.Session, error)
	BindClicker(ctx context.Context, sessionToken, branchCode, username string) (domain.ClickerBinding, error)
}

// RecordStore persists the login across restarts. Load returns
// sentinel.ErrNotFound when nothing is stored.
type RecordStore interface {
	Save(ctx context.Context, record Record) error
	Load(ctx context.Context) (Record, error)
	Clear(ctx context.Context) error
}

// Reporter receives audit events.
type Reporter interface {
	Audit(ctx context.Context, event audit.Event)
}
