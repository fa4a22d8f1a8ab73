package ledger

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/cihwallet/wallet-api/internal/domain/account"
	"github.com/cihwallet/wallet-api/internal/pkg/money"
)

func TestMerchantToWalletFlow(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.wallet(t, "MERA", "212700000001", account.WalletTypeMerchant, 50000)
	h.wallet(t, "LANA", "212600000001", account.WalletTypeCustomer, 0)

	q, err := h.svc.Simulate(ctx, SimulateRequest{
		Kind:             KindMerchantToWallet,
		SourcePhone:      "212700000001",
		DestinationPhone: "212600000001",
		Amount:           12000,
	})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if q.Fee != 0 || !q.RequiresOTP || q.Source.ContractID != "MERA" {
		t.Fatalf("unexpected quote: %+v", q)
	}

	r, err := h.svc.Confirm(ctx, q.Token, q.OTPCode)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if r.NewBalance != 38000 || h.balance(t, "LANA") != 12000 {
		t.Fatalf("merchant = %d, customer = %d", r.NewBalance, h.balance(t, "LANA"))
	}
	if r.Transaction.Type != KindMerchantToWallet || r.Transaction.Category != CategoryBusiness {
		t.Fatalf("unexpected record: %+v", r.Transaction)
	}

	_, err = h.svc.Simulate(ctx, SimulateRequest{
		Kind:             KindMerchantToWallet,
		SourceContractID: "LANA",
		DestinationPhone: "212600000001",
		Amount:           100,
	})
	if !errors.Is(err, ErrWrongWalletType) {
		t.Fatalf("customer source: expected ErrWrongWalletType, got %v", err)
	}
}

func TestPurchaseDebitsWithoutCounterparty(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.wallet(t, "LANA", "212600000001", account.WalletTypeCustomer, 10000)

	r, err := h.svc.Purchase(ctx, PurchaseRequest{ContractID: "LANA", Amount: 2500})
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	tx := r.Transaction
	if r.NewBalance != 7500 || tx.Type != KindPurchase || tx.Fees != 0 {
		t.Fatalf("unexpected receipt: %+v", r)
	}
	if tx.DestinationContractID != "" || tx.DestinationName != "Store" || tx.Note != "Purchase at Store" || tx.Category != CategoryShopping {
		t.Fatalf("unexpected record: %+v", tx)
	}
	if tx.EffectOn("LANA") != -2500 {
		t.Fatalf("effect = %d", tx.EffectOn("LANA"))
	}

	if _, err := h.svc.Purchase(ctx, PurchaseRequest{ContractID: "LANA", Amount: 7501}); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if h.balance(t, "LANA") != 7500 {
		t.Fatal("failed purchase moved money")
	}

	report, err := h.svc.SpendingByCategory(ctx, "LANA")
	if err != nil {
		t.Fatalf("SpendingByCategory: %v", err)
	}
	if report.TotalSpent != 2500 || report.Categories[0].Category != CategoryShopping {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestPurchaseIsDirectOnly(t *testing.T) {
	h := newHarness(t, nil)
	h.wallet(t, "LANA", "212600000001", account.WalletTypeCustomer, 10000)

	_, err := h.svc.Simulate(context.Background(), SimulateRequest{Kind: KindPurchase, SourceContractID: "LANA", Amount: 100})
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestAmountsAboveLimitAreRejected(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.wallet(t, "LANA", "212600000001", account.WalletTypeCustomer, 100000)
	h.wallet(t, "LANB", "212600000002", account.WalletTypeCustomer, 0)

	for _, amount := range []int64{money.MaxMinor + 1, math.MaxInt64 - 100, math.MaxInt64} {
		_, err := h.svc.Simulate(ctx, SimulateRequest{
			Kind:             KindWalletToWallet,
			SourceContractID: "LANA",
			DestinationPhone: "212600000002",
			Amount:           amount,
		})
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Simulate(%d): expected ErrInvalidAmount, got %v", amount, err)
		}
		if _, err := h.svc.Deposit(ctx, "LANA", amount, ""); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Deposit(%d): expected ErrInvalidAmount, got %v", amount, err)
		}
		if _, err := h.svc.DirectDebit(ctx, DirectDebitRequest{ContractID: "LANA", Amount: amount}); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("DirectDebit(%d): expected ErrInvalidAmount, got %v", amount, err)
		}
		if _, err := h.svc.Transfer(ctx, TransferRequest{SourcePhone: "212600000001", DestinationPhone: "212600000002", Amount: amount}); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Transfer(%d): expected ErrInvalidAmount, got %v", amount, err)
		}
		if _, err := h.svc.Purchase(ctx, PurchaseRequest{ContractID: "LANA", Amount: amount}); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Purchase(%d): expected ErrInvalidAmount, got %v", amount, err)
		}
	}

	if ops := h.ops.Len(); ops != 0 {
		t.Fatalf("%d operations stored for rejected amounts", ops)
	}
	if h.balance(t, "LANA") != 100000 {
		t.Fatal("balance changed")
	}
}

func TestRefundCreditsAndIsJournaled(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.wallet(t, "LANA", "212600000001", account.WalletTypeCustomer, 10000)

	if _, err := h.svc.DirectDebit(ctx, DirectDebitRequest{ContractID: "LANA", Amount: 4000, Category: CategoryShopping}); err != nil {
		t.Fatalf("DirectDebit: %v", err)
	}
	r, err := h.svc.Refund(ctx, RefundRequest{ContractID: "LANA", Amount: 4000, Note: "reversal"})
	if err != nil {
		t.Fatalf("Refund: %v", err)
	}
	if r.NewBalance != 10000 || r.Transaction.Type != KindRefund {
		t.Fatalf("unexpected receipt: %+v", r)
	}
	if r.Transaction.EffectOn("LANA") != 4000 {
		t.Fatalf("refund effect = %d", r.Transaction.EffectOn("LANA"))
	}

	var effect int64
	for _, tx := range h.journal.All() {
		effect += tx.EffectOn("LANA")
	}
	if effect != 10000 {
		t.Fatalf("journal effect %d != balance 10000", effect)
	}

	report, _ := h.svc.SpendingByCategory(ctx, "LANA")
	if report.TotalSpent != 4000 {
		t.Fatalf("refund counted as spending: %+v", report)
	}
}
