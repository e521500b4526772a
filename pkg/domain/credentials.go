package domain

import "time"

// Credentials are the opaque session values every remote call needs. They are
// injected into the coordinator and resolver at construction time.
type Credentials struct {
	SessionToken string
	ClickerID    ClickerID
	Username     string
}

// Session is the result of a verified OTP login.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer usable at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// ClickerBinding is returned when a logged-in user is bound to a branch clicker.
type ClickerBinding struct {
	ClickerID ClickerID
	Username  string
}

// Complete reports whether the credentials can authorise remote calls.
func (c Credentials) Complete() bool {
	return c.SessionToken != "" && !c.ClickerID.IsNil()
}

// StaticCredentials serves a fixed set of credentials, for tests and for
// terminals provisioned without the login flow.
type StaticCredentials Credentials

func (s StaticCredentials) Credentials() Credentials { return Credentials(s) }
