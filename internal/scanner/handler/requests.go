package handler

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"

	"clicker/internal/identity"
	dErrors "clicker/pkg/domain-errors"
)

const maxBarcodeLength = 256

type BarcodeRequest struct {
	Data string `json:"data"`
}

func (r *BarcodeRequest) Normalize() {
	r.Data = strings.TrimSpace(r.Data)
}

func (r *BarcodeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Data) > maxBarcodeLength {
		return dErrors.New(dErrors.CodeValidation, "data is too long")
	}
	if r.Data == "" {
		return dErrors.New(dErrors.CodeValidation, "data is required")
	}
	return nil
}

// PresentCardRequest describes a simulated card. A card without a purse
// answers the purse read with too few bytes.
type PresentCardRequest struct {
	TagID   string `json:"tag_id"`
	CanID   string `json:"can_id"`
	NoPurse bool   `json:"no_purse"`

	purse []byte
}

func (r *PresentCardRequest) Normalize() {
	r.TagID = strings.TrimSpace(r.TagID)
	if r.TagID == "" {
		r.TagID = uuid.NewString()
	}
}

func (r *PresentCardRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.NoPurse {
		r.purse = []byte{0x00}
		return nil
	}
	canID, err := identity.ParseCanID(r.CanID)
	if err != nil {
		return err
	}
	purse, err := hex.DecodeString(canID.String())
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "CAN ID must be hex")
	}
	r.purse = purse
	return nil
}

func (r *PresentCardRequest) ParsedPurse() []byte {
	return r.purse
}
