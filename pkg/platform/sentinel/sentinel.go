package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, clients and hardware
// adapters return these (optionally wrapped) so services can translate them
// into domain errors.
//
// - ErrNotFound: no record for the key (e.g. an unbound CAN ID)
// - ErrExpired: the session token has expired
// - ErrInvalidState: the state machine cannot accept the operation right now
// - ErrUnavailable: remote service or hardware temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrExpired      = errors.New("expired")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
