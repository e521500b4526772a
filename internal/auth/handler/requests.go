package handler

import (
	"strings"

	dErrors "clicker/pkg/domain-errors"
)

// Format checks live in the service; these only bound sizes and presence.
const maxFieldLength = 64

type LoginRequest struct {
	MobileNumber string `json:"mobile_number"`
}

func (r *LoginRequest) Normalize() {
	r.MobileNumber = strings.TrimSpace(r.MobileNumber)
}

func (r *LoginRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.MobileNumber) > maxFieldLength {
		return dErrors.New(dErrors.CodeValidation, "mobile_number is too long")
	}
	if r.MobileNumber == "" {
		return dErrors.New(dErrors.CodeValidation, "mobile_number is required")
	}
	return nil
}

type VerifyRequest struct {
	OTP string `json:"otp"`
}

func (r *VerifyRequest) Normalize() {
	r.OTP = strings.TrimSpace(r.OTP)
}

func (r *VerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.OTP == "" {
		return dErrors.New(dErrors.CodeValidation, "otp is required")
	}
	if len(r.OTP) > maxFieldLength {
		return dErrors.New(dErrors.CodeValidation, "otp is too long")
	}
	return nil
}

type BindClickerRequest struct {
	BranchCode string `json:"branch_code"`
	Username   string `json:"username"`
}

func (r *BindClickerRequest) Normalize() {
	r.BranchCode = strings.TrimSpace(r.BranchCode)
	r.Username = strings.TrimSpace(r.Username)
}

func (r *BindClickerRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.BranchCode) > maxFieldLength || len(r.Username) > maxFieldLength {
		return dErrors.New(dErrors.CodeValidation, "branch_code and username must be at most 64 characters")
	}
	if r.BranchCode == "" {
		return dErrors.New(dErrors.CodeValidation, "branch_code is required")
	}
	if r.Username == "" {
		return dErrors.New(dErrors.CodeValidation, "username is required")
	}
	return nil
}
