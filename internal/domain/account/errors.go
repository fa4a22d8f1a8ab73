package account

import "errors"

var (
	ErrNotFound          = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAlreadyExists     = errors.New("account already exists")
	ErrInvalidWallet     = errors.New("invalid wallet")
	ErrBalanceOverflow   = errors.New("balance out of range")
)
