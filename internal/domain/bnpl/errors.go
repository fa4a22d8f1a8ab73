package bnpl

import "errors"

var (
	ErrNotFound      = errors.New("plan not found")
	ErrNotActive     = errors.New("plan is not active")
	ErrInvalidAmount = errors.New("invalid plan amount")
)
