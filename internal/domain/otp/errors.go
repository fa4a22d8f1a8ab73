package otp

import "errors"

var (
	ErrInvalidCode    = errors.New("invalid or expired code")
	ErrInvalidPurpose = errors.New("invalid otp purpose")
	ErrInvalidKey     = errors.New("otp key is required")

	// Repository level
	ErrNotFound    = errors.New("otp record not found")
	ErrAlreadyUsed = errors.New("otp record already used or superseded")
)
