package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/cihwallet/wallet-api/internal/domain/account"
	"github.com/cihwallet/wallet-api/internal/domain/ledger"
)

type Customer struct {
	Profile account.CustomerProfile
	Balance int64
}

type Merchant struct {
	Profile account.MerchantProfile
	Balance int64
}

// DemoCustomers are the demo users with opening balances in minor units.
var DemoCustomers = []Customer{
	{account.CustomerProfile{Phone: "212600000001", Operator: "IAM", FirstName: "Ahmed", LastName: "Benali", Email: "ahmed.benali@email.ma", LegalType: "CIN", LegalID: "BK123456"}, 500000},
	{account.CustomerProfile{Phone: "212600000002", Operator: "INWI", FirstName: "Fatima", LastName: "Zahra", Email: "fatima.zahra@email.ma", LegalType: "CIN", LegalID: "BE789012"}, 1250000},
	{account.CustomerProfile{Phone: "212600000003", Operator: "ORANGE", FirstName: "Youssef", LastName: "Amrani", Email: "youssef.amrani@email.ma", LegalType: "CIN", LegalID: "BH345678"}, 875000},
	{account.CustomerProfile{Phone: "212600000004", Operator: "IAM", FirstName: "Sara", LastName: "Idrissi", Email: "sara.idrissi@email.ma", LegalType: "CIN", LegalID: "BJ901234"}, 320000},
	{account.CustomerProfile{Phone: "212600000005", Operator: "INWI", FirstName: "Karim", LastName: "Tazi", Email: "karim.tazi@email.ma", LegalType: "CIN", LegalID: "BK567890"}, 1500000},
}

var DemoMerchants = []Merchant{
	{account.MerchantProfile{Phone: "212700000001", CompanyName: "Café Atlas", FirstName: "Mohamed", LastName: "Alaoui", MCC: "5812"}, 2500000},
	{account.MerchantProfile{Phone: "212700000002", CompanyName: "Pharmacie Centrale", FirstName: "Leila", LastName: "Bennani", MCC: "5912"}, 4500000},
	{account.MerchantProfile{Phone: "212700000003", CompanyName: "Tech Store", FirstName: "Omar", LastName: "Fassi", MCC: "5732"}, 7800000},
}

type Accounts interface {
	CreateCustomer(ctx context.Context, p account.CustomerProfile, tierID string) (*account.User, *account.Wallet, error)
	CreateMerchantWallet(ctx context.Context, p account.MerchantProfile) (*account.Wallet, error)
}

type Funder interface {
	Deposit(ctx context.Context, contractID string, amount int64, note string) (*ledger.Receipt, error)
}

type Result struct {
	Customers []*account.Wallet
	Merchants []*account.Wallet
	Skipped   int
}

// Run creates the demo wallets and funds them with cash-in records, so every
// opening balance is backed by the journal. Phones that already exist are skipped.
func Run(ctx context.Context, accounts Accounts, funder Funder) (*Result, error) {
	res := &Result{}

	for i, c := range DemoCustomers {
		tierID := fmt.Sprintf("TR24%014d", i+1)
		_, w, err := accounts.CreateCustomer(ctx, c.Profile, tierID)
		if errors.Is(err, account.ErrAlreadyExists) {
			res.Skipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("seed customer %s: %w", c.Profile.Phone, err)
		}
		if err := fund(ctx, funder, w, c.Balance); err != nil {
			return res, err
		}
		res.Customers = append(res.Customers, w)
	}

	for _, m := range DemoMerchants {
		w, err := accounts.CreateMerchantWallet(ctx, m.Profile)
		if errors.Is(err, account.ErrAlreadyExists) {
			res.Skipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("seed merchant %s: %w", m.Profile.Phone, err)
		}
		if err := fund(ctx, funder, w, m.Balance); err != nil {
			return res, err
		}
		res.Merchants = append(res.Merchants, w)
	}

	log.Info().
		Int("customers", len(res.Customers)).
		Int("merchants", len(res.Merchants)).
		Int("skipped", res.Skipped).
		Msg("Demo data seeded")

	return res, nil
}

func fund(ctx context.Context, funder Funder, w *account.Wallet, amount int64) error {
	if amount <= 0 {
		return nil
	}
	receipt, err := funder.Deposit(ctx, w.ContractID, amount, "Opening balance")
	if err != nil {
		return fmt.Errorf("fund %s: %w", w.ContractID, err)
	}
	w.Balance = receipt.NewBalance

	log.Debug().
		Str("contract_id", w.ContractID).
		Str("phone", w.Phone).
		Int64("balance", w.Balance).
		Msg("demo wallet funded")
	return nil
}
