package scanner

import (
	"errors"
	"fmt"
)

// ErrReaderBusy is returned by a Reader that is not ready for a new request.
// Scan retries it after the configured delay.
var ErrReaderBusy = errors.New("reader busy")

// DuplicateCardError is the same physical card presented twice in a row.
type DuplicateCardError struct {
	TagID string
}

func (e *DuplicateCardError) Error() string {
	return "card is the same as the previous detected card, please scan a different card"
}

// CardMovedError is a card that left the field while its CAN ID was read.
type CardMovedError struct {
	Err error
}

func (e *CardMovedError) Error() string {
	return fmt.Sprintf("card moved while processing, please try again: %v", e.Err)
}

func (e *CardMovedError) Unwrap() error { return e.Err }

// InvalidCardError is a card that did not answer with a CAN ID.
type InvalidCardError struct {
	Reason string
}

func (e *InvalidCardError) Error() string {
	return "card does not have a CAN ID: " + e.Reason
}
