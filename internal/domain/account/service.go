package account

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cihwallet/wallet-api/internal/domain/otp"
	"github.com/cihwallet/wallet-api/internal/pkg/ids"
)

const (
	customerContractPrefix = "LAN"
	merchantContractPrefix = "MER"
	customerTokenPrefix    = "TR"
	merchantTokenPrefix    = "ME"
	ribPrefix              = "8537802417"
	defaultLevel           = "000"
)

// OTPRegistry is the part of the OTP registry used by wallet activation.
type OTPRegistry interface {
	IssueForToken(ctx context.Context, token, phone string, purpose otp.Purpose) (string, error)
	Consume(ctx context.Context, key string, purpose otp.Purpose, code string) (*otp.Record, error)
}

type Service struct {
	store Repository
	otps  OTPRegistry
	now   func() time.Time

	mu       sync.Mutex
	drafts   map[string]draft
	draftTTL time.Duration
}

// draft holds a precreated profile until its activation code is consumed.
type draft struct {
	customer  *CustomerProfile
	merchant  *MerchantProfile
	expiresAt time.Time
}

func (d draft) expired(now time.Time) bool {
	return !d.expiresAt.IsZero() && !now.Before(d.expiresAt)
}

func NewService(store Repository, otps OTPRegistry) *Service {
	return &Service{
		store:  store,
		otps:   otps,
		now:    time.Now,
		drafts: make(map[string]draft),
	}
}

// WithDraftTTL drops precreated profiles that are not activated within ttl.
// It should match the activation code TTL. Zero keeps drafts until activation.
func (s *Service) WithDraftTTL(ttl time.Duration) *Service {
	s.draftTTL = ttl
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type CustomerProfile struct {
	Phone     string
	Operator  string
	FirstName string
	LastName  string
	Email     string
	LegalType string
	LegalID   string
}

type MerchantProfile struct {
	Phone       string
	CompanyName string
	FirstName   string
	LastName    string
	MCC         string
}

// Precreation is the result of the first activation step.
type Precreation struct {
	Token string
	Phone string
	Code  string
}

// Register starts customer onboarding: it issues a wallet_create code bound to a fresh token.
func (s *Service) Register(ctx context.Context, p CustomerProfile) (*Precreation, error) {
	if _, err := s.store.GetUserByPhone(ctx, p.Phone); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	token, err := ids.WithPrefix(customerTokenPrefix, 13)
	if err != nil {
		return nil, err
	}
	code, err := s.otps.IssueForToken(ctx, token, p.Phone, otp.PurposeWalletCreate)
	if err != nil {
		return nil, fmt.Errorf("issue activation code: %w", err)
	}

	s.putDraft(token, draft{customer: &p})

	log.Info().Str("phone", p.Phone).Str("token", token).Msg("wallet precreated")
	return &Precreation{Token: token, Phone: p.Phone, Code: code}, nil
}

// Activate consumes the activation code and opens the customer wallet with a zero balance.
func (s *Service) Activate(ctx context.Context, token, code string) (*Wallet, error) {
	rec, err := s.otps.Consume(ctx, token, otp.PurposeWalletCreate, code)
	if err != nil {
		return nil, err
	}

	profile := CustomerProfile{Phone: rec.Phone}
	if d, ok := s.takeDraft(token); ok && d.customer != nil {
		profile = *d.customer
	}

	_, wallet, err := s.CreateCustomer(ctx, profile, token)
	if err != nil {
		return nil, err
	}

	log.Info().Str("phone", wallet.Phone).Str("contract_id", wallet.ContractID).Msg("wallet activated")
	return wallet, nil
}

// CreateMerchant starts merchant onboarding with a merchant_create code.
func (s *Service) CreateMerchant(ctx context.Context, p MerchantProfile) (*Precreation, error) {
	if _, err := s.store.GetWalletByPhone(ctx, p.Phone, WalletTypeMerchant); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	token, err := ids.WithPrefix(merchantTokenPrefix, 13)
	if err != nil {
		return nil, err
	}
	code, err := s.otps.IssueForToken(ctx, token, p.Phone, otp.PurposeMerchantCreate)
	if err != nil {
		return nil, fmt.Errorf("issue activation code: %w", err)
	}

	s.putDraft(token, draft{merchant: &p})

	return &Precreation{Token: token, Phone: p.Phone, Code: code}, nil
}

func (s *Service) ActivateMerchant(ctx context.Context, token, code string) (*Wallet, error) {
	rec, err := s.otps.Consume(ctx, token, otp.PurposeMerchantCreate, code)
	if err != nil {
		return nil, err
	}

	profile := MerchantProfile{Phone: rec.Phone}
	if d, ok := s.takeDraft(token); ok && d.merchant != nil {
		profile = *d.merchant
	}

	wallet, err := s.CreateMerchantWallet(ctx, profile)
	if err != nil {
		return nil, err
	}

	log.Info().Str("phone", wallet.Phone).Str("contract_id", wallet.ContractID).Msg("merchant activated")
	return wallet, nil
}

// putDraft stores d under token and prunes expired drafts.
func (s *Service) putDraft(token string, d draft) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for t, old := range s.drafts {
		if old.expired(now) {
			delete(s.drafts, t)
		}
	}
	if s.draftTTL > 0 {
		d.expiresAt = now.Add(s.draftTTL)
	}
	s.drafts[token] = d
}

func (s *Service) takeDraft(token string) (draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[token]
	delete(s.drafts, token)
	if ok && d.expired(s.now()) {
		return draft{}, false
	}
	return d, ok
}

func (s *Service) draftCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}

// CreateCustomer creates a user and its customer wallet with a zero balance.
func (s *Service) CreateCustomer(ctx context.Context, p CustomerProfile, tierID string) (*User, *Wallet, error) {
	now := s.now()
	user := &User{
		ID:        uuid.New(),
		Phone:     p.Phone,
		Operator:  p.Operator,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		LegalType: p.LegalType,
		LegalID:   p.LegalID,
		TierID:    tierID,
		CreatedAt: now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, nil, err
	}

	contractID, err := ids.WithPrefix(customerContractPrefix, 10)
	if err != nil {
		return nil, nil, err
	}
	rib, err := ids.WithPrefix(ribPrefix, 14)
	if err != nil {
		return nil, nil, err
	}

	wallet := &Wallet{
		ContractID: contractID,
		UserID:     &user.ID,
		Type:       WalletTypeCustomer,
		Phone:      p.Phone,
		RIB:        rib,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Level:      defaultLevel,
		Status:     WalletStatusActive,
		CreatedAt:  now,
	}
	if err := s.store.CreateWallet(ctx, wallet); err != nil {
		return nil, nil, err
	}

	return user, wallet, nil
}

// CreateMerchantWallet creates a merchant wallet with a zero balance.
func (s *Service) CreateMerchantWallet(ctx context.Context, p MerchantProfile) (*Wallet, error) {
	contractID, err := ids.WithPrefix(merchantContractPrefix, 10)
	if err != nil {
		return nil, err
	}

	wallet := &Wallet{
		ContractID:  contractID,
		Type:        WalletTypeMerchant,
		Phone:       p.Phone,
		CompanyName: p.CompanyName,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Level:       defaultLevel,
		Status:      WalletStatusActive,
		MCC:         p.MCC,
		CreatedAt:   s.now(),
	}
	if err := s.store.CreateWallet(ctx, wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

type ClientInfo struct {
	User         *User
	Wallets      []*Wallet
	TotalBalance int64
}

func (s *Service) ClientInfo(ctx context.Context, phone string) (*ClientInfo, error) {
	user, err := s.store.GetUserByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	wallets, err := s.store.ListWalletsByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	info := &ClientInfo{User: user, Wallets: wallets}
	for _, w := range wallets {
		info.TotalBalance += w.Balance
	}
	return info, nil
}

func (s *Service) GetWallet(ctx context.Context, contractID string) (*Wallet, error) {
	return s.store.GetWalletByContractID(ctx, contractID)
}
