package counts

import (
	"strings"

	"clicker/internal/identity"
	"clicker/pkg/domain"
	dErrors "clicker/pkg/domain-errors"
)

// GantryMode is the direction the station is counting.
type GantryMode string

const (
	GantryCheckIn  GantryMode = "CHECK_IN"
	GantryCheckOut GantryMode = "CHECK_OUT"
)

// ParseGantryMode accepts the wire names case-insensitively.
func ParseGantryMode(s string) (GantryMode, error) {
	mode := GantryMode(strings.ToUpper(strings.TrimSpace(s)))
	if !mode.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "gantry mode must be CHECK_IN or CHECK_OUT")
	}
	return mode, nil
}

func (g GantryMode) IsValid() bool {
	return g == GantryCheckIn || g == GantryCheckOut
}

// Toggle returns the opposite direction.
func (g GantryMode) Toggle() GantryMode {
	if g == GantryCheckOut {
		return GantryCheckIn
	}
	return GantryCheckOut
}

func (g GantryMode) String() string { return string(g) }

// State is the coordinator's position in one update cycle.
type State string

const (
	StateDefault        State = "DEFAULT"
	StateValidatingID   State = "VALIDATING_ID"
	StateUpdatingCount  State = "UPDATING_COUNT"
	StateResultReturned State = "RESULT_RETURNED"
)

// Status values the counting service may return.
const (
	StatusSuccess  = "success"
	StatusRejected = "rejected"
	StatusFail     = "fail"
)

// UpdateCountParams is one submission from the station. Exactly one of
// Identifier or CanID must be set.
type UpdateCountParams struct {
	Identifier        string
	CanID             string
	GantryMode        GantryMode
	BypassRestriction bool
}

// Submission is what the coordinator sends to the counting service.
type Submission struct {
	Identifier        identity.Identifier
	CanID             identity.CanID
	GantryMode        GantryMode
	BypassRestriction bool
	Credentials       domain.Credentials
}

// Result is the raw reply of the counting service before interpretation.
type Result struct {
	Status  string
	Message string
	Count   *int
}

// Outcome is an accepted reply: either Success or Rejected.
type Outcome interface {
	outcome()
	Text() string
}

// Success means the visit was counted. Count is the clicker's running total
// when the service reports one.
type Success struct {
	Message string
	Count   *int
}

// Rejected means the visitor failed an eligibility rule. Staff may resubmit
// with BypassRestriction to force the update.
type Rejected struct {
	Message string
}

func (Success) outcome()        {}
func (s Success) Text() string  { return s.Message }
func (Rejected) outcome()       {}
func (r Rejected) Text() string { return r.Message }

// Snapshot is a consistent view of the coordinator.
type Snapshot struct {
	State      State
	Outcome    Outcome
	Err        error
	Identifier identity.Identifier
	CanID      identity.CanID
	GantryMode GantryMode
}
