package counts

import (
	"errors"
	"fmt"
)

// ErrCanIDNotRegistered is returned by a Counter when the card has not been
// bound to an identifier yet. The station answers it with a registration
// prompt.
var ErrCanIDNotRegistered = errors.New("CAN ID is not registered")

// ErrCycleReset is returned by UpdateCount when ResetState ran while the
// service call was outstanding. The reply was not recorded.
var ErrCycleReset = errors.New("count cycle was reset")

// FailedError is a "fail" reply: the service could not record the visit.
type FailedError struct {
	Message string
}

func (e *FailedError) Error() string {
	if e.Message == "" {
		return "count update failed"
	}
	return fmt.Sprintf("count update failed: %s", e.Message)
}

// ProtocolError is a reply that does not follow the counting contract, such
// as an unknown status.
type ProtocolError struct {
	Status string
	Detail string
}

func (e *ProtocolError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("unexpected count response: %s", e.Detail)
	}
	return fmt.Sprintf("unexpected count status %q", e.Status)
}
