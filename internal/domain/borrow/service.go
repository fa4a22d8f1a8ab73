package borrow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cihwallet/wallet-api/internal/domain/account"
	"github.com/cihwallet/wallet-api/internal/domain/ledger"
	"github.com/cihwallet/wallet-api/internal/pkg/ids"
	"github.com/cihwallet/wallet-api/internal/pkg/money"
)

// Directory resolves display names for phones.
type Directory interface {
	GetWalletByPhone(ctx context.Context, phone string, walletType account.WalletType) (*account.Wallet, error)
}

// Transferer moves accepted loans between wallets.
type Transferer interface {
	Transfer(ctx context.Context, req ledger.TransferRequest) (*ledger.Receipt, error)
}

type Service struct {
	store     Repository
	directory Directory
	ledger    Transferer
	now       func() time.Time
}

func NewService(store Repository, directory Directory, transferer Transferer) *Service {
	return &Service{store: store, directory: directory, ledger: transferer, now: time.Now}
}

type NewRequest struct {
	FromPhone string
	FromName  string
	ToPhone   string
	Amount    int64
	Note      string
}

// Request records a pending loan request from the borrower to the lender.
func (s *Service) Request(ctx context.Context, in NewRequest) (*Request, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if in.FromPhone == in.ToPhone {
		return nil, ErrSameParty
	}

	toName := in.ToPhone
	lender, err := s.directory.GetWalletByPhone(ctx, in.ToPhone, account.WalletTypeCustomer)
	switch {
	case err == nil:
		toName = lender.DisplayName()
	case !errors.Is(err, account.ErrNotFound):
		return nil, err
	}

	note := in.Note
	if note == "" {
		note = fmt.Sprintf("Borrow request for %s DH", money.Format(in.Amount))
	}

	now := s.now()
	req := &Request{
		ID:        ids.NewULID(),
		FromPhone: in.FromPhone,
		FromName:  in.FromName,
		ToPhone:   in.ToPhone,
		ToName:    toName,
		Amount:    in.Amount,
		Note:      note,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Insert(ctx, req); err != nil {
		return nil, err
	}

	log.Info().
		Str("request_id", req.ID).
		Str("from", req.FromPhone).
		Str("to", req.ToPhone).
		Int64("amount", req.Amount).
		Msg("borrow request created")

	return req, nil
}

// Pending returns unanswered requests addressed to phone.
func (s *Service) Pending(ctx context.Context, phone string) ([]*Request, error) {
	all, err := s.store.ListByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	out := make([]*Request, 0, len(all))
	for _, req := range all {
		if req.ToPhone == phone && req.Status == StatusPending {
			out = append(out, req)
		}
	}
	return out, nil
}

// Respond answers a pending request. Accepting moves the amount from the lender
// to the borrower; if the transfer fails the request stays pending.
// An empty responder skips the lender check.
func (s *Service) Respond(ctx context.Context, id string, accept bool, responder string) (*Request, *ledger.Receipt, error) {
	var (
		receipt *ledger.Receipt
		loan    Request
	)

	req, err := s.store.Update(ctx, id, func(r *Request) error {
		if r.Status != StatusPending {
			return ErrNotPending
		}
		if responder != "" && responder != r.ToPhone {
			return ErrNotRecipient
		}

		if accept {
			rc, err := s.ledger.Transfer(ctx, ledger.TransferRequest{
				SourcePhone:      r.ToPhone,
				DestinationPhone: r.FromPhone,
				Amount:           r.Amount,
				Note:             "Loan to " + r.FromName,
				Category:         ledger.CategoryOther,
			})
			if err != nil {
				return err
			}
			receipt = rc
			loan = *r
			r.Status = StatusAccepted
		} else {
			r.Status = StatusDeclined
		}
		r.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		if receipt != nil {
			err = s.reverse(ctx, loan, err)
		}
		return nil, nil, err
	}

	log.Info().
		Str("request_id", req.ID).
		Str("status", string(req.Status)).
		Msg("borrow request answered")

	return req, receipt, nil
}

// reverse sends an accepted loan back when the request could not be marked
// accepted afterwards, so the request stays pending with no money moved.
func (s *Service) reverse(ctx context.Context, loan Request, cause error) error {
	_, err := s.ledger.Transfer(context.WithoutCancel(ctx), ledger.TransferRequest{
		SourcePhone:      loan.FromPhone,
		DestinationPhone: loan.ToPhone,
		Amount:           loan.Amount,
		Note:             "Loan reversal " + loan.ID,
		Category:         ledger.CategoryOther,
	})
	if err != nil {
		log.Error().Err(err).Str("request_id", loan.ID).Msg("failed to reverse loan transfer")
		return errors.Join(cause, err)
	}
	log.Warn().Err(cause).Str("request_id", loan.ID).Msg("loan transfer reversed")
	return cause
}

// Debts lists accepted loans involving phone from both sides.
func (s *Service) Debts(ctx context.Context, phone string) (*Debts, error) {
	all, err := s.store.ListByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	d := &Debts{OwedToMe: []Debt{}, IOwe: []Debt{}}
	for _, req := range all {
		if req.Status != StatusAccepted {
			continue
		}
		if req.ToPhone == phone {
			d.OwedToMe = append(d.OwedToMe, Debt{RequestID: req.ID, Counterparty: req.FromName, Phone: req.FromPhone, Amount: req.Amount, Date: req.CreatedAt})
			d.TotalOwedToMe += req.Amount
		}
		if req.FromPhone == phone {
			d.IOwe = append(d.IOwe, Debt{RequestID: req.ID, Counterparty: req.ToName, Phone: req.ToPhone, Amount: req.Amount, Date: req.CreatedAt})
			d.TotalIOwe += req.Amount
		}
	}
	return d, nil
}
