package account

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cihwallet/wallet-api/internal/domain/otp"
	"github.com/cihwallet/wallet-api/internal/pkg/codehash"
)

func newTestService() (*Service, *MemoryRepository) {
	store := NewMemoryRepository()
	registry := otp.NewRegistry(otp.NewMemoryRepository(), codehash.New(bcrypt.MinCost), nil, otp.Config{})
	return NewService(store, registry), store
}

func TestRegisterAndActivate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.Register(ctx, CustomerProfile{Phone: "212600000010", FirstName: "Nadia", LastName: "Alaoui"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !strings.HasPrefix(p.Token, "TR") {
		t.Fatalf("token = %s", p.Token)
	}

	wallet, err := svc.Activate(ctx, p.Token, p.Code)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if !strings.HasPrefix(wallet.ContractID, "LAN") || wallet.Balance != 0 {
		t.Fatalf("unexpected wallet: %+v", wallet)
	}
	if wallet.DisplayName() != "Nadia Alaoui" {
		t.Fatalf("name = %q", wallet.DisplayName())
	}

	info, err := svc.ClientInfo(ctx, "212600000010")
	if err != nil {
		t.Fatalf("ClientInfo: %v", err)
	}
	if len(info.Wallets) != 1 || info.User.TierID != p.Token {
		t.Fatalf("unexpected client info: %+v", info)
	}
}

func TestActivateTwiceFails(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, _ := svc.Register(ctx, CustomerProfile{Phone: "212600000011"})
	if _, err := svc.Activate(ctx, p.Token, p.Code); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if _, err := svc.Activate(ctx, p.Token, p.Code); !errors.Is(err, otp.ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
}

func TestActivateWithWrongCode(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	p, _ := svc.Register(ctx, CustomerProfile{Phone: "212600000012"})
	wrong := "000000"
	if p.Code == wrong {
		wrong = "999999"
	}
	if _, err := svc.Activate(ctx, p.Token, wrong); !errors.Is(err, otp.ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
	if _, err := store.GetUserByPhone(ctx, "212600000012"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("user created despite wrong code: %v", err)
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.CreateCustomer(ctx, CustomerProfile{Phone: "212600000013"}, ""); err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	if _, err := svc.Register(ctx, CustomerProfile{Phone: "212600000013"}); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestMerchantOnboarding(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	p, err := svc.CreateMerchant(ctx, MerchantProfile{Phone: "212700000010", CompanyName: "Librairie Nour", MCC: "5942"})
	if err != nil {
		t.Fatalf("CreateMerchant: %v", err)
	}
	if !strings.HasPrefix(p.Token, "ME") {
		t.Fatalf("token = %s", p.Token)
	}

	m, err := svc.ActivateMerchant(ctx, p.Token, p.Code)
	if err != nil {
		t.Fatalf("ActivateMerchant: %v", err)
	}
	if !strings.HasPrefix(m.ContractID, "MER") || m.Type != WalletTypeMerchant || m.UserID != nil {
		t.Fatalf("unexpected merchant: %+v", m)
	}

	got, err := store.GetWalletByPhone(ctx, "212700000010", WalletTypeMerchant)
	if err != nil || got.DisplayName() != "Librairie Nour" {
		t.Fatalf("merchant lookup: %v %+v", err, got)
	}

	if _, err := svc.CreateMerchant(ctx, MerchantProfile{Phone: "212700000010", CompanyName: "Dup"}); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestClientInfoUnknownPhone(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.ClientInfo(context.Background(), "212600009999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAbandonedDraftsArePruned(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	svc, _ := newTestService()
	svc.WithDraftTTL(5 * time.Minute).WithClock(clock)
	ctx := context.Background()

	first, err := svc.Register(ctx, CustomerProfile{Phone: "212600000020", FirstName: "Old"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.CreateMerchant(ctx, MerchantProfile{Phone: "212700000020", CompanyName: "Old Shop"}); err != nil {
		t.Fatalf("CreateMerchant: %v", err)
	}
	if n := svc.draftCount(); n != 2 {
		t.Fatalf("drafts = %d, want 2", n)
	}

	now = now.Add(5 * time.Minute)
	if _, err := svc.Register(ctx, CustomerProfile{Phone: "212600000021", FirstName: "New"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if n := svc.draftCount(); n != 1 {
		t.Fatalf("drafts = %d after expiry, want 1", n)
	}

	// The registry in this harness never expires codes, so the stale token
	// still activates, but with only the phone the code was bound to.
	wallet, err := svc.Activate(ctx, first.Token, first.Code)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if wallet.Phone != "212600000020" || wallet.FirstName != "" {
		t.Fatalf("expired draft leaked into wallet: %+v", wallet)
	}
}
