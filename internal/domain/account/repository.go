package account

import (
	"context"
	"math"

	"github.com/google/uuid"
)

// Repository owns users, wallets and balances. Balances change only through
// ApplyPostings or AdjustBalance, which check and mutate atomically.
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByPhone(ctx context.Context, phone string) (*User, error)

	CreateWallet(ctx context.Context, w *Wallet) error
	GetWalletByContractID(ctx context.Context, contractID string) (*Wallet, error)
	GetWalletByPhone(ctx context.Context, phone string, walletType WalletType) (*Wallet, error)
	ListWalletsByUser(ctx context.Context, userID uuid.UUID) ([]*Wallet, error)
	ListWalletsByType(ctx context.Context, walletType WalletType) ([]*Wallet, error)

	// ApplyPostings applies every leg or none. It fails with ErrNotFound for an
	// unknown contract, ErrInsufficientFunds if any balance would go negative and
	// ErrBalanceOverflow if one would leave the int64 range.
	// The returned balances are aligned with postings.
	ApplyPostings(ctx context.Context, postings []Posting) ([]int64, error)
	AdjustBalance(ctx context.Context, contractID string, delta int64) (int64, error)
}

// addDelta returns bal+delta, refusing overdrafts and int64 wraparound.
func addDelta(bal, delta int64) (int64, error) {
	if delta > 0 && bal > math.MaxInt64-delta {
		return 0, ErrBalanceOverflow
	}
	next := bal + delta
	if next < 0 {
		return 0, ErrInsufficientFunds
	}
	return next, nil
}

func adjustViaPostings(ctx context.Context, s Repository, contractID string, delta int64) (int64, error) {
	balances, err := s.ApplyPostings(ctx, []Posting{{ContractID: contractID, Delta: delta}})
	if err != nil {
		return 0, err
	}
	return balances[0], nil
}
