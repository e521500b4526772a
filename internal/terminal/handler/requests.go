package handler

import (
	"strings"

	"clicker/internal/counts"
	dErrors "clicker/pkg/domain-errors"
)

const maxIdentifierLength = 32

// IdentifierRequest is the body of POST /counts and POST /registrations.
// The identifier itself is validated by the station.
type IdentifierRequest struct {
	Identifier        string `json:"identifier"`
	BypassRestriction bool   `json:"bypass_restriction"`
}

func (r *IdentifierRequest) Normalize() {
	r.Identifier = strings.TrimSpace(r.Identifier)
}

func (r *IdentifierRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Identifier) > maxIdentifierLength {
		return dErrors.New(dErrors.CodeValidation, "identifier is too long")
	}
	if r.Identifier == "" {
		return dErrors.New(dErrors.CodeValidation, "identifier is required")
	}
	return nil
}

// GantryModeRequest is the body of PUT /station/gantry-mode.
type GantryModeRequest struct {
	GantryMode string `json:"gantry_mode"`

	parsedMode counts.GantryMode
}

func (r *GantryModeRequest) Normalize() {
	r.GantryMode = strings.ToUpper(strings.TrimSpace(r.GantryMode))
}

func (r *GantryModeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.GantryMode == "" {
		return dErrors.New(dErrors.CodeValidation, "gantry_mode is required")
	}
	mode, err := counts.ParseGantryMode(r.GantryMode)
	if err != nil {
		return err
	}
	r.parsedMode = mode
	return nil
}

func (r *GantryModeRequest) ParsedMode() counts.GantryMode {
	return r.parsedMode
}
