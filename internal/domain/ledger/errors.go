package ledger

import (
	"errors"

	"github.com/cihwallet/wallet-api/internal/domain/account"
	"github.com/cihwallet/wallet-api/internal/domain/otp"
	"github.com/cihwallet/wallet-api/internal/domain/pending"
)

// Error kinds surfaced by the ledger, re-exported from the owning packages.
var (
	ErrNotFound          = account.ErrNotFound
	ErrInsufficientFunds = account.ErrInsufficientFunds
	ErrBalanceOverflow   = account.ErrBalanceOverflow
	ErrInvalidCode       = otp.ErrInvalidCode
	ErrOperationNotFound = pending.ErrNotFound
	ErrAlreadyConsumed   = pending.ErrAlreadyConsumed
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrNotActive           = errors.New("wallet is not active")
	ErrUnknownKind         = errors.New("unknown operation kind")
	ErrMissingCounterparty = errors.New("operation requires a counterparty")
	ErrSameAccount         = errors.New("source and destination must differ")
	ErrWrongWalletType     = errors.New("wallet type not allowed for this operation")
)
