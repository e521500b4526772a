package backend

import (
	"context"
	"net/http"

	"clicker/internal/registration"
)

const (
	pathRegistration = "/cepas-registration"
	opRegisterCanID  = "register_can_id"
)

type registerCanIDRequest struct {
	CanID             string `json:"canId"`
	ID                string `json:"id"`
	BypassRestriction bool   `json:"bypassRestriction"`
}

// RegisterCanID binds a card to an identifier. Any 2xx reply is success;
// its body is not inspected.
func (c *Client) RegisterCanID(ctx context.Context, reg registration.Registration) error {
	_, err := c.do(ctx, call{
		operation:    opRegisterCanID,
		method:       http.MethodPost,
		path:         pathRegistration,
		sessionToken: reg.Credentials.SessionToken,
		body: registerCanIDRequest{
			CanID:             reg.CanID.String(),
			ID:                reg.Identifier.String(),
			BypassRestriction: reg.BypassRestriction,
		},
	})
	return err
}
