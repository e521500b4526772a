package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"clicker/internal/counts"
	"clicker/pkg/domain"
	dErrors "clicker/pkg/domain-errors"
)

const (
	pathUpdateEntry  = "/entries/update_entry"
	pathUpdateExit   = "/entries/update_exit"
	pathEntriesInfo  = "/entries/retrieve_entries_info"
	opUpdateCount    = "update_count"
	opClickerDetails = "clicker_details"
)

// Field order matches what the service logs and signs.
type updateCountRequest struct {
	ClickerUUID       string `json:"clickerUuid"`
	Name              string `json:"name"`
	BypassRestriction bool   `json:"bypassRestriction"`
	ID                string `json:"id,omitempty"`
	CanID             string `json:"canId,omitempty"`
}

type updateCountResponse struct {
	Status  *string `json:"status"`
	Message *string `json:"message"`
	Count   *int    `json:"count"`
}

type clickerDetailsResponse struct {
	Count *int    `json:"count"`
	Name  *string `json:"name"`
}

// UpdateCount records an entry or exit. The status is returned as sent;
// interpreting it is the coordinator's job.
func (c *Client) UpdateCount(ctx context.Context, sub counts.Submission) (*counts.Result, error) {
	path := pathUpdateEntry
	if sub.GantryMode == counts.GantryCheckOut {
		path = pathUpdateExit
	}
	req := updateCountRequest{
		ClickerUUID:       sub.Credentials.ClickerID.String(),
		Name:              sub.Credentials.Username,
		BypassRestriction: sub.BypassRestriction,
		ID:                sub.Identifier.String(),
		CanID:             sub.CanID.String(),
	}

	body, err := c.do(ctx, call{
		operation:    opUpdateCount,
		method:       http.MethodPost,
		path:         path,
		sessionToken: sub.Credentials.SessionToken,
		body:         req,
	})
	if err != nil {
		if notRegistered(err, !sub.CanID.IsZero()) {
			return nil, dErrors.Wrap(fmt.Errorf("%w: %w", counts.ErrCanIDNotRegistered, err),
				dErrors.CodeNotFound, "card is not registered, please register it first")
		}
		return nil, err
	}

	var resp updateCountResponse
	if err := c.decode(ctx, opUpdateCount, body, &resp); err != nil {
		return nil, err
	}
	if resp.Status == nil || resp.Message == nil {
		return nil, c.protocolViolation(ctx, &ProtocolError{
			Operation: opUpdateCount,
			Status:    http.StatusOK,
			Reason:    "status and message are required",
		})
	}
	return &counts.Result{Status: *resp.Status, Message: *resp.Message, Count: resp.Count}, nil
}

// notRegistered reports whether err is the service telling us a card has no
// binding yet.
func notRegistered(err error, byCanID bool) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Type == typeCanIDNotRegistered {
		return true
	}
	return byCanID && strings.Contains(strings.ToLower(apiErr.Message()), "not registered")
}

// ClickerDetails reads the clicker's running total and display name.
func (c *Client) ClickerDetails(ctx context.Context, creds domain.Credentials) (*counts.ClickerDetails, error) {
	q := url.Values{}
	q.Set("clickerUuid", creds.ClickerID.String())

	body, err := c.do(ctx, call{
		operation:    opClickerDetails,
		method:       http.MethodGet,
		path:         pathEntriesInfo + "?" + q.Encode(),
		sessionToken: creds.SessionToken,
	})
	if err != nil {
		return nil, err
	}

	var resp clickerDetailsResponse
	if err := c.decode(ctx, opClickerDetails, body, &resp); err != nil {
		return nil, err
	}
	if resp.Count == nil || resp.Name == nil {
		return nil, c.protocolViolation(ctx, &ProtocolError{
			Operation: opClickerDetails,
			Status:    http.StatusOK,
			Reason:    "count and name are required",
		})
	}
	return &counts.ClickerDetails{Count: *resp.Count, Name: *resp.Name}, nil
}
