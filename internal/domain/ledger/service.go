package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cihwallet/wallet-api/internal/domain/account"
	"github.com/cihwallet/wallet-api/internal/domain/otp"
	"github.com/cihwallet/wallet-api/internal/domain/pending"
	"github.com/cihwallet/wallet-api/internal/pkg/ids"
	"github.com/cihwallet/wallet-api/internal/pkg/metrics"
	"github.com/cihwallet/wallet-api/internal/pkg/money"
)

// TransactionListLimit caps ListTransactions.
const TransactionListLimit = 50

// OTPRegistry is the part of the OTP registry used to authorize operations.
type OTPRegistry interface {
	Issue(ctx context.Context, phone string, purpose otp.Purpose) (string, error)
	Consume(ctx context.Context, key string, purpose otp.Purpose, code string) (*otp.Record, error)
}

type Config struct {
	PendingTTL time.Duration // zero keeps operations until confirmed
	Currency   string
	EchoOTP    bool
	Now        func() time.Time
}

// Service runs the two-phase simulate/confirm protocol and owns the commit path.
// Every balance change goes through commit, which pairs it with one journal record.
type Service struct {
	accounts account.Repository
	otps     OTPRegistry
	pending  pending.Repository
	journal  Journal
	policies map[Kind]Policy

	pendingTTL time.Duration
	currency   string
	echoOTP    bool
	now        func() time.Time

	commitMu sync.Mutex
}

func NewService(accounts account.Repository, otps OTPRegistry, ops pending.Repository, journal Journal, cfg Config) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "MAD"
	}
	return &Service{
		accounts:   accounts,
		otps:       otps,
		pending:    ops,
		journal:    journal,
		policies:   DefaultPolicies(),
		pendingTTL: cfg.PendingTTL,
		currency:   currency,
		echoOTP:    cfg.EchoOTP,
		now:        now,
	}
}

// Policy returns the policy for kind.
func (s *Service) Policy(kind Kind) (Policy, bool) {
	p, ok := s.policies[kind]
	return p, ok
}

// Simulate validates a request, freezes a snapshot under a fresh token and
// issues an OTP when the kind requires one. Balances are not touched.
func (s *Service) Simulate(ctx context.Context, req SimulateRequest) (q *Quote, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveOperation(string(req.Kind), "simulate", time.Since(start), err)
	}()

	policy, ok := s.policies[req.Kind]
	if !ok || policy.Direct {
		return nil, ErrUnknownKind
	}
	if !money.InRange(req.Amount) {
		return nil, ErrInvalidAmount
	}

	src, err := s.resolveSource(ctx, policy, req.SourceContractID, req.SourcePhone)
	if err != nil {
		return nil, err
	}
	dest, err := s.resolveDestination(ctx, policy, src, req.DestinationPhone)
	if err != nil {
		return nil, err
	}

	fee := policy.Fee.Compute(req.Amount)
	if policy.DebitsSource() && src.Balance < req.Amount+fee {
		return nil, ErrInsufficientFunds
	}

	now := s.now()
	snap := s.snapshot(policy, src, dest, req.Amount, fee, req.Note, req.Category)
	op := &pending.Operation{
		Token:     pending.NewToken(),
		Kind:      string(policy.Kind),
		Snapshot:  snap,
		CreatedAt: now,
	}
	if s.pendingTTL > 0 {
		op.ExpiresAt = now.Add(s.pendingTTL)
	}

	if err := s.pending.Put(ctx, op); err != nil {
		return nil, fmt.Errorf("store pending operation: %w", err)
	}

	quote := &Quote{
		Token:       op.Token,
		Kind:        policy.Kind,
		ReferenceID: snap.Reference,
		Amount:      snap.Amount,
		Fee:         snap.Fee,
		Total:       snap.Total(),
		Currency:    snap.Currency,
		Source:      snap.Source,
		Destination: snap.Destination,
		FeeLines:    FeeBreakdown(snap.Fee),
		RequiresOTP: snap.RequiresOTP(),
		ExpiresAt:   op.ExpiresAt,
	}

	if snap.RequiresOTP() {
		code, err := s.otps.Issue(ctx, snap.Source.Phone, policy.OTPPurpose)
		if err != nil {
			_ = s.pending.Remove(ctx, op.Token)
			return nil, fmt.Errorf("issue otp: %w", err)
		}
		if s.echoOTP {
			quote.OTPCode = code
		}
	}

	log.Info().
		Str("token", op.Token).
		Str("kind", string(policy.Kind)).
		Str("source", src.ContractID).
		Int64("amount", snap.Amount).
		Int64("fee", snap.Fee).
		Msg("operation simulated")

	return quote, nil
}

// Confirm consumes the pending operation and, after OTP verification, commits
// the frozen snapshot. The operation is discarded whatever the outcome.
func (s *Service) Confirm(ctx context.Context, token, code string) (r *Receipt, err error) {
	kindLabel := "unknown"
	start := time.Now()
	defer func() {
		metrics.ObserveOperation(kindLabel, "confirm", time.Since(start), err)
	}()

	op, err := s.pending.Take(ctx, token)
	if err != nil {
		return nil, err
	}
	kindLabel = op.Kind

	policy, ok := s.policies[Kind(op.Kind)]
	if !ok {
		return nil, ErrUnknownKind
	}
	snap := op.Snapshot

	if snap.RequiresOTP() {
		if code == "" {
			return nil, ErrInvalidCode
		}
		if _, err := s.otps.Consume(ctx, snap.Source.Phone, otp.Purpose(snap.OTPPurpose), code); err != nil {
			log.Warn().Err(err).Str("token", token).Str("kind", op.Kind).Msg("operation discarded: otp rejected")
			return nil, err
		}
	}

	receipt, err := s.execute(ctx, policy, snap)
	if err != nil {
		log.Warn().Err(err).Str("token", token).Str("kind", op.Kind).Msg("operation discarded: commit failed")
		return nil, err
	}

	log.Info().
		Str("token", token).
		Str("kind", op.Kind).
		Str("reference_id", receipt.ReferenceID).
		Int64("amount", snap.Amount).
		Int64("new_balance", receipt.NewBalance).
		Msg("operation confirmed")

	return receipt, nil
}

// Deposit credits any active wallet directly, without the two-phase protocol.
// Used for seeding and back-office funding.
func (s *Service) Deposit(ctx context.Context, contractID string, amount int64, note string) (*Receipt, error) {
	if !money.InRange(amount) {
		return nil, ErrInvalidAmount
	}
	w, err := s.accounts.GetWalletByContractID(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("source wallet: %w", err)
	}
	policy := s.policies[KindCashIn]
	policy.SourceType = w.Type
	src, err := s.resolveSource(ctx, policy, contractID, "")
	if err != nil {
		return nil, err
	}
	return s.execute(ctx, policy, s.snapshot(policy, src, nil, amount, 0, note, ""))
}

// DirectDebit debits a customer wallet directly. Used for BNPL installments.
func (s *Service) DirectDebit(ctx context.Context, req DirectDebitRequest) (*Receipt, error) {
	if !money.InRange(req.Amount) {
		return nil, ErrInvalidAmount
	}
	policy := s.policies[KindBNPL]
	src, err := s.resolveSource(ctx, policy, req.ContractID, "")
	if err != nil {
		return nil, err
	}
	return s.execute(ctx, policy, s.snapshot(policy, src, nil, req.Amount, 0, req.Note, req.Category))
}

// Refund credits a customer wallet directly with a journaled RF record.
func (s *Service) Refund(ctx context.Context, req RefundRequest) (*Receipt, error) {
	if !money.InRange(req.Amount) {
		return nil, ErrInvalidAmount
	}
	policy := s.policies[KindRefund]
	src, err := s.resolveSource(ctx, policy, req.ContractID, "")
	if err != nil {
		return nil, err
	}
	return s.execute(ctx, policy, s.snapshot(policy, src, nil, req.Amount, 0, req.Note, req.Category))
}

// Transfer moves money between two customers without fee or OTP. Used for accepted loans.
func (s *Service) Transfer(ctx context.Context, req TransferRequest) (*Receipt, error) {
	if !money.InRange(req.Amount) {
		return nil, ErrInvalidAmount
	}
	policy := s.policies[KindLoan]
	src, err := s.resolveSource(ctx, policy, "", req.SourcePhone)
	if err != nil {
		return nil, err
	}
	dest, err := s.resolveDestination(ctx, policy, src, req.DestinationPhone)
	if err != nil {
		return nil, err
	}
	return s.execute(ctx, policy, s.snapshot(policy, src, dest, req.Amount, 0, req.Note, req.Category))
}

// Purchase debits a customer wallet for a categorized store payment. The store
// is named on the record but holds no wallet.
func (s *Service) Purchase(ctx context.Context, req PurchaseRequest) (*Receipt, error) {
	if !money.InRange(req.Amount) {
		return nil, ErrInvalidAmount
	}
	policy := s.policies[KindPurchase]
	src, err := s.resolveSource(ctx, policy, req.ContractID, "")
	if err != nil {
		return nil, err
	}

	store := req.MerchantName
	if store == "" {
		store = "Store"
	}
	note := req.Note
	if note == "" {
		note = "Purchase at " + store
	}

	snap := s.snapshot(policy, src, nil, req.Amount, 0, note, req.Category)
	snap.Destination = &pending.Party{Name: store}
	return s.execute(ctx, policy, snap)
}

func (s *Service) GetBalance(ctx context.Context, contractID string) (int64, error) {
	w, err := s.accounts.GetWalletByContractID(ctx, contractID)
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

// ListTransactions returns up to TransactionListLimit records for contractID, newest first.
func (s *Service) ListTransactions(ctx context.Context, contractID string) ([]Transaction, error) {
	if _, err := s.accounts.GetWalletByContractID(ctx, contractID); err != nil {
		return nil, err
	}
	return s.journal.ListByContract(ctx, contractID, TransactionListLimit)
}

func (s *Service) CountTransactions(ctx context.Context, contractID string) (int, error) {
	return s.journal.CountByContract(ctx, contractID)
}

func (s *Service) resolveSource(ctx context.Context, policy Policy, contractID, phone string) (*account.Wallet, error) {
	var (
		w   *account.Wallet
		err error
	)
	switch {
	case contractID != "":
		w, err = s.accounts.GetWalletByContractID(ctx, contractID)
	case phone != "":
		w, err = s.accounts.GetWalletByPhone(ctx, phone, policy.SourceType)
	default:
		return nil, ErrMissingCounterparty
	}
	if err != nil {
		return nil, fmt.Errorf("source wallet: %w", err)
	}
	if w.Type != policy.SourceType {
		return nil, ErrWrongWalletType
	}
	if w.Status != account.WalletStatusActive {
		return nil, ErrNotActive
	}
	return w, nil
}

func (s *Service) resolveDestination(ctx context.Context, policy Policy, src *account.Wallet, phone string) (*account.Wallet, error) {
	if !policy.HasDestination() {
		return nil, nil
	}
	if phone == "" {
		return nil, ErrMissingCounterparty
	}
	w, err := s.accounts.GetWalletByPhone(ctx, phone, policy.DestinationType)
	if err != nil {
		return nil, fmt.Errorf("destination wallet: %w", err)
	}
	if w.ContractID == src.ContractID {
		return nil, ErrSameAccount
	}
	if w.Status != account.WalletStatusActive {
		return nil, ErrNotActive
	}
	return w, nil
}

func (s *Service) snapshot(policy Policy, src, dest *account.Wallet, amount, fee int64, note, category string) pending.Snapshot {
	if category == "" {
		category = policy.Category
	}
	snap := pending.Snapshot{
		Reference: ids.NewULID(),
		Amount:    amount,
		Fee:       fee,
		Source: pending.Party{
			ContractID: src.ContractID,
			Phone:      src.Phone,
			Name:       src.DisplayName(),
		},
		Note:       note,
		Category:   category,
		Currency:   s.currency,
		OTPPurpose: string(policy.OTPPurpose),
	}
	if dest != nil {
		snap.Destination = &pending.Party{
			ContractID: dest.ContractID,
			Phone:      dest.Phone,
			Name:       dest.DisplayName(),
		}
	}
	return snap
}

func postingsFor(policy Policy, snap pending.Snapshot) []account.Posting {
	if policy.CreditsSource {
		return []account.Posting{{ContractID: snap.Source.ContractID, Delta: snap.Amount}}
	}
	postings := []account.Posting{{ContractID: snap.Source.ContractID, Delta: -snap.Total()}}
	if snap.Destination != nil && snap.Destination.ContractID != "" {
		postings = append(postings, account.Posting{ContractID: snap.Destination.ContractID, Delta: snap.Amount})
	}
	return postings
}

func (s *Service) execute(ctx context.Context, policy Policy, snap pending.Snapshot) (*Receipt, error) {
	tx := &Transaction{
		ID:               ids.NewULID(),
		ReferenceID:      snap.Reference,
		Type:             policy.Kind,
		Amount:           snap.Amount,
		Fees:             snap.Fee,
		SourceContractID: snap.Source.ContractID,
		Category:         snap.Category,
		Note:             snap.Note,
		Status:           StatusSuccess,
		Currency:         snap.Currency,
	}
	if snap.Destination != nil {
		tx.DestinationContractID = snap.Destination.ContractID
		tx.DestinationPhone = snap.Destination.Phone
		tx.DestinationName = snap.Destination.Name
	}

	balances, err := s.commit(ctx, postingsFor(policy, snap), tx)
	if err != nil {
		return nil, err
	}

	return &Receipt{
		NewBalance:  balances[0],
		ReferenceID: tx.ReferenceID,
		Status:      StatusSuccess,
		Transaction: *tx,
	}, nil
}

// commit applies postings and appends tx as one unit. If the journal rejects
// the record the postings are reversed.
func (s *Service) commit(ctx context.Context, postings []account.Posting, tx *Transaction) ([]int64, error) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	balances, err := s.accounts.ApplyPostings(ctx, postings)
	if err != nil {
		return nil, err
	}

	tx.CreatedAt = s.now()
	if err := s.journal.Append(ctx, tx); err != nil {
		reversal := make([]account.Posting, len(postings))
		for i, p := range postings {
			reversal[i] = account.Posting{ContractID: p.ContractID, Delta: -p.Delta}
		}
		if _, rerr := s.accounts.ApplyPostings(context.WithoutCancel(ctx), reversal); rerr != nil {
			log.Error().Err(rerr).Str("reference_id", tx.ReferenceID).Msg("failed to reverse postings after journal error")
			return nil, errors.Join(err, rerr)
		}
		return nil, fmt.Errorf("append transaction: %w", err)
	}

	return balances, nil
}
