package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	dErrors "clicker/pkg/domain-errors"
)

// ClickerID identifies a counting terminal session bound to a location.
type ClickerID uuid.UUID

// LoginID identifies a pending mobile-number login awaiting OTP verification.
type LoginID uuid.UUID

const maxIDLength = 64

func parseUUID(kind, s string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	if len(s) > maxIDLength || !utf8.ValidString(s) {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" must not be nil")
	}
	return u, nil
}

// ParseClickerID parses the clickerUuid issued by the backend.
func ParseClickerID(s string) (ClickerID, error) {
	u, err := parseUUID("clicker id", s)
	return ClickerID(u), err
}

// ParseLoginID parses the loginUuid issued by the backend.
func ParseLoginID(s string) (LoginID, error) {
	u, err := parseUUID("login id", s)
	return LoginID(u), err
}

func (id ClickerID) String() string { return uuid.UUID(id).String() }
func (id ClickerID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id LoginID) String() string   { return uuid.UUID(id).String() }
func (id LoginID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
