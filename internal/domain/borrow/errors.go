package borrow

import "errors"

var (
	ErrNotFound      = errors.New("borrow request not found")
	ErrNotPending    = errors.New("borrow request already answered")
	ErrNotRecipient  = errors.New("only the lender can answer a borrow request")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrSameParty     = errors.New("cannot borrow from yourself")
)
