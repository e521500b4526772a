package auth

import (
	"time"

	"clicker/pkg/domain"
)

// Record is the persisted login of the terminal: the verified session and,
// once bound, the clicker it counts for.
type Record struct {
	Session domain.Session
	Binding domain.ClickerBinding
}

// Credentials returns the values remote calls need.
func (r Record) Credentials() domain.Credentials {
	return domain.Credentials{
		SessionToken: r.Session.Token,
		ClickerID:    r.Binding.ClickerID,
		Username:     r.Binding.Username,
	}
}

// Status is a read-only view of the login for the presentation layer.
type Status struct {
	AwaitingOTP  bool
	LoggedIn     bool
	ClickerBound bool
	Username     string
	ExpiresAt    time.Time
}
