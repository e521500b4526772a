// Package identity validates and normalizes visitor identifiers read by the
// terminal: national ID/FIN numbers, passport barcodes and contactless card
// CAN identifiers.
package identity

import (
	"fmt"
	"strings"

	dErrors "clicker/pkg/domain-errors"
)

// Identifier is a cleaned visitor identifier: uppercase and non-empty. For
// passport barcodes it is the payload without prefix and checksum character.
type Identifier string

func (i Identifier) String() string { return string(i) }

// Masked returns the identifier with all but the last four characters hidden.
func (i Identifier) Masked() string { return MaskID(string(i), 4) }

// InvalidIdentifierError reports raw input that matched no supported format
// or failed its checksum.
type InvalidIdentifierError struct {
	Reason string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid identifier: %s", e.Reason)
}

func invalid(reason string) error {
	return dErrors.Wrap(&InvalidIdentifierError{Reason: reason}, dErrors.CodeValidation, "invalid identifier: "+reason)
}

// ValidateAndClean turns raw scanner or keyboard input into an Identifier.
//
// Without bypass the input must be a national ID/FIN with a correct checksum
// letter or a passport barcode with a correct mod-43 check character. With
// bypass the input is only uppercased; it is the explicit escape hatch for
// foreign IDs typed as free text and never a fallback for failed validation.
func ValidateAndClean(raw string, bypass bool) (Identifier, error) {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	if cleaned == "" {
		return "", invalid("must not be blank")
	}
	if bypass {
		return Identifier(cleaned), nil
	}

	if nationalIDPattern.MatchString(cleaned) {
		if !ValidateNationalID(cleaned) {
			return "", invalid("national ID checksum mismatch")
		}
		return Identifier(cleaned), nil
	}

	if payload, ok := passportPayload(cleaned); ok {
		return Identifier(payload), nil
	}
	if passportPattern.MatchString(cleaned) {
		return "", invalid("passport barcode checksum mismatch")
	}
	return "", invalid("unrecognised format")
}
