package registration

import (
	"clicker/internal/identity"
	"clicker/pkg/domain"
)

// State is the resolver's position in one registration cycle.
type State string

const (
	StateDefault              State = "DEFAULT"
	StateValidatingID         State = "VALIDATING_ID"
	StateRegisteringCanID     State = "REGISTERING_CAN_ID"
	StateRegistrationComplete State = "REGISTRATION_COMPLETE"
)

// RegisterParams binds the card in CanID to the visitor typed or scanned
// into Identifier.
type RegisterParams struct {
	CanID             string
	Identifier        string
	BypassRestriction bool
}

// Registration is what the resolver sends to the registration service.
type Registration struct {
	CanID             identity.CanID
	Identifier        identity.Identifier
	BypassRestriction bool
	Credentials       domain.Credentials
}

// Result is a completed registration.
type Result struct {
	CanID      identity.CanID
	Identifier identity.Identifier
}

// Snapshot is a consistent view of the resolver.
type Snapshot struct {
	State  State
	Result *Result
	Err    error
}
