package backend

import (
	"fmt"
)

// typeCanIDNotRegistered is the error type the service uses for cards that
// have not been bound to an identifier.
const typeCanIDNotRegistered = "CAN_ID_NOT_REGISTERED"

// APIError is a well-formed error reply from the counting service.
type APIError struct {
	Operation string
	Status    int
	Type      string
	Title     string
	Detail    string
}

func (e *APIError) Error() string {
	msg := e.Title
	if msg == "" {
		msg = e.Detail
	}
	if e.Type != "" {
		return fmt.Sprintf("%s: %s (%s, status %d)", e.Operation, msg, e.Type, e.Status)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Operation, msg, e.Status)
}

// Message is the text shown to staff for this error.
func (e *APIError) Message() string {
	switch {
	case e.Detail != "":
		return e.Detail
	case e.Title != "":
		return e.Title
	default:
		return "the counting service rejected the request"
	}
}

// ProtocolError is a reply whose body does not match the expected shape.
type ProtocolError struct {
	Operation string
	Status    int
	Reason    string
	Err       error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: malformed response (status %d): %s: %v", e.Operation, e.Status, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: malformed response (status %d): %s", e.Operation, e.Status, e.Reason)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
