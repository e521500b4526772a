package handler

import (
	"time"

	"clicker/internal/auth"
	"clicker/pkg/domain"
)

// StatusResponse never carries the session token.
type StatusResponse struct {
	AwaitingOTP  bool       `json:"awaiting_otp"`
	LoggedIn     bool       `json:"logged_in"`
	ClickerBound bool       `json:"clicker_bound"`
	Username     string     `json:"username,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

type BindingResponse struct {
	ClickerID string `json:"clicker_id"`
	Username  string `json:"username"`
}

func FromStatus(s auth.Status) *StatusResponse {
	resp := &StatusResponse{
		AwaitingOTP:  s.AwaitingOTP,
		LoggedIn:     s.LoggedIn,
		ClickerBound: s.ClickerBound,
		Username:     s.Username,
	}
	if s.LoggedIn && !s.ExpiresAt.IsZero() {
		expires := s.ExpiresAt.UTC()
		resp.ExpiresAt = &expires
	}
	return resp
}

func FromBinding(b domain.ClickerBinding) *BindingResponse {
	return &BindingResponse{
		ClickerID: b.ClickerID.String(),
		Username:  b.Username,
	}
}
