package scanner

import (
	"context"
	"fmt"

	"clicker/internal/identity"
)

// Tag is a card detected in the reader's field.
type Tag struct {
	// ID is the card's anti-collision identifier, stable per physical card.
	ID string
}

// Reader is the contactless reader hardware. WaitForCard blocks until a card
// is in the field or ctx is done. Release ends the current card session and
// must be safe to call when no card is held.
type Reader interface {
	WaitForCard(ctx context.Context) (Tag, error)
	Transceive(ctx context.Context, apdu []byte) ([]byte, error)
	Release() error
}

var (
	selectPurseAPDU = []byte{0x00, 0xa4, 0x00, 0x00, 0x02, 0x40, 0x00}
	readPurseAPDU   = []byte{0x90, 0x32, 0x03, 0x00, 0x00}
)

// The CAN ID occupies bytes 8..16 of the purse record.
const canIDOffset = 8

// readCanID selects the purse file and reads the CAN ID from its record.
// Transport failures are returned as is; a short record is an
// InvalidCardError.
func readCanID(ctx context.Context, r Reader) (identity.CanID, error) {
	if _, err := r.Transceive(ctx, selectPurseAPDU); err != nil {
		return "", fmt.Errorf("select purse: %w", err)
	}
	resp, err := r.Transceive(ctx, readPurseAPDU)
	if err != nil {
		return "", fmt.Errorf("read purse: %w", err)
	}
	if len(resp) < canIDOffset+identity.CanIDLength {
		return "", &InvalidCardError{Reason: fmt.Sprintf("purse record has %d bytes", len(resp))}
	}
	canID, _ := identity.CanIDFromBytes(resp[canIDOffset : canIDOffset+identity.CanIDLength])
	return canID, nil
}
