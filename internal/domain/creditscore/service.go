package creditscore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cihwallet/wallet-api/internal/domain/account"
)

const monthLength = 30 * 24 * time.Hour

type Accounts interface {
	GetUserByPhone(ctx context.Context, phone string) (*account.User, error)
	ListWalletsByUser(ctx context.Context, userID uuid.UUID) ([]*account.Wallet, error)
}

type Transactions interface {
	CountTransactions(ctx context.Context, contractID string) (int, error)
}

type Plans interface {
	CountCompletedByUser(ctx context.Context, userID uuid.UUID) (int, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

// Service gathers score inputs from the account store, the journal and BNPL plans.
// It only reads.
type Service struct {
	accounts Accounts
	txs      Transactions
	plans    Plans
	now      func() time.Time
}

func NewService(accounts Accounts, txs Transactions, plans Plans) *Service {
	return &Service{accounts: accounts, txs: txs, plans: plans, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Report is a snapshot tied to the user it was computed for.
type Report struct {
	Phone  string
	UserID uuid.UUID
	Inputs Inputs
	Snapshot
}

func (s *Service) GetCreditScore(ctx context.Context, phone string) (*Report, error) {
	user, err := s.accounts.GetUserByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	in, err := s.inputs(ctx, user)
	if err != nil {
		return nil, err
	}
	return &Report{Phone: phone, UserID: user.ID, Inputs: in, Snapshot: Compute(in)}, nil
}

func (s *Service) inputs(ctx context.Context, user *account.User) (Inputs, error) {
	var in Inputs

	if age := s.now().Sub(user.CreatedAt); age > 0 {
		in.AccountAgeMonths = int(age / monthLength)
	}

	wallets, err := s.accounts.ListWalletsByUser(ctx, user.ID)
	if err != nil {
		return in, err
	}
	for _, w := range wallets {
		in.TotalBalance += w.Balance
	}
	if len(wallets) > 0 {
		if in.TransactionCount, err = s.txs.CountTransactions(ctx, wallets[0].ContractID); err != nil {
			return in, err
		}
	}

	if in.CompletedPlans, err = s.plans.CountCompletedByUser(ctx, user.ID); err != nil {
		return in, err
	}
	if in.TotalPlans, err = s.plans.CountByUser(ctx, user.ID); err != nil {
		return in, err
	}
	return in, nil
}
