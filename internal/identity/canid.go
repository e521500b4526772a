package identity

import (
	"encoding/hex"
	"regexp"
	"strings"

	dErrors "clicker/pkg/domain-errors"
)

// CanID is the card access number read from a contactless card: 8 bytes
// rendered as 16 hex characters.
type CanID string

// CanIDLength is the number of raw bytes in a CAN identifier.
const CanIDLength = 8

var canIDPattern = regexp.MustCompile(`^[0-9a-f]{16}$`)

func (c CanID) String() string { return string(c) }

// IsZero reports whether no CAN ID is set.
func (c CanID) IsZero() bool { return c == "" }

// CanIDFromBytes renders raw card bytes as a CAN ID. It returns false when the
// slice does not hold exactly CanIDLength bytes.
func CanIDFromBytes(b []byte) (CanID, bool) {
	if len(b) != CanIDLength {
		return "", false
	}
	return CanID(hex.EncodeToString(b)), true
}

// ParseCanID normalizes a CAN ID typed or transported as text. Spaces used
// for display grouping are ignored.
func ParseCanID(s string) (CanID, error) {
	cleaned := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if cleaned == "" {
		return "", dErrors.New(dErrors.CodeValidation, "CAN ID must not be blank")
	}
	if !canIDPattern.MatchString(cleaned) {
		return "", dErrors.New(dErrors.CodeValidation, "CAN ID must be 16 hex characters")
	}
	return CanID(cleaned), nil
}

// FormatCanID groups the CAN ID in blocks of four for display,
// e.g. "1001 0002 0003 0004".
func FormatCanID(c CanID) string {
	s := string(c)
	var b strings.Builder
	for i := 0; i < len(s); i += 4 {
		if i > 0 {
			b.WriteByte(' ')
		}
		end := min(i+4, len(s))
		b.WriteString(s[i:end])
	}
	return b.String()
}
