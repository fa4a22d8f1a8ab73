package ledger

import (
	"strings"

	"github.com/cihwallet/wallet-api/internal/domain/account"
	"github.com/cihwallet/wallet-api/internal/domain/otp"
	"github.com/cihwallet/wallet-api/internal/pkg/money"
)

type Kind string

const (
	KindCashIn             Kind = "CI"
	KindCashOut            Kind = "CO"
	KindWalletToWallet     Kind = "W2W"
	KindWalletToMerchant   Kind = "W2M"
	KindMerchantToMerchant Kind = "M2M"
	KindMerchantToWallet   Kind = "M2W"
	KindATM                Kind = "ATM"
	KindBNPL               Kind = "BNPL"
	KindLoan               Kind = "LOAN"
	KindPurchase           Kind = "TM"
	KindRefund             Kind = "RF"
)

// ParseKind accepts a kind code in any case.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := defaultPolicies[k]
	return k, ok
}

// Credits reports whether records of kind credit their source wallet.
func (k Kind) Credits() bool {
	return defaultPolicies[k].CreditsSource
}

// FeeRule is a flat fee plus an optional proportional part.
type FeeRule struct {
	Flat        int64
	BasisPoints int64
}

func (f FeeRule) Compute(amount int64) int64 {
	fee := f.Flat
	if f.BasisPoints > 0 {
		fee += money.ApplyBasisPoints(amount, f.BasisPoints)
	}
	return fee
}

// Policy describes how one kind moves money.
type Policy struct {
	Kind Kind
	Fee  FeeRule

	SourceType      account.WalletType
	DestinationType account.WalletType // empty when the kind has no counterparty
	CreditsSource   bool               // cash-in credits instead of debits

	OTPPurpose otp.Purpose // empty when no code is required
	Category   string

	// Direct kinds are committed immediately and cannot be simulated.
	Direct bool
}

func (p Policy) HasDestination() bool {
	return p.DestinationType != ""
}

func (p Policy) DebitsSource() bool {
	return !p.CreditsSource
}

var defaultPolicies = map[Kind]Policy{
	KindCashIn: {
		Kind:          KindCashIn,
		SourceType:    account.WalletTypeCustomer,
		CreditsSource: true,
		Category:      CategoryCash,
	},
	KindCashOut: {
		Kind:       KindCashOut,
		SourceType: account.WalletTypeCustomer,
		OTPPurpose: otp.PurposeCashOut,
		Category:   CategoryCash,
	},
	KindWalletToWallet: {
		Kind:            KindWalletToWallet,
		Fee:             FeeRule{Flat: 600},
		SourceType:      account.WalletTypeCustomer,
		DestinationType: account.WalletTypeCustomer,
		OTPPurpose:      otp.PurposeW2W,
		Category:        CategoryOther,
	},
	KindWalletToMerchant: {
		Kind:            KindWalletToMerchant,
		SourceType:      account.WalletTypeCustomer,
		DestinationType: account.WalletTypeMerchant,
		OTPPurpose:      otp.PurposeW2M,
		Category:        CategoryShopping,
	},
	KindMerchantToMerchant: {
		Kind:            KindMerchantToMerchant,
		Fee:             FeeRule{BasisPoints: 400},
		SourceType:      account.WalletTypeMerchant,
		DestinationType: account.WalletTypeMerchant,
		OTPPurpose:      otp.PurposeM2M,
		Category:        CategoryBusiness,
	},
	KindMerchantToWallet: {
		Kind:            KindMerchantToWallet,
		SourceType:      account.WalletTypeMerchant,
		DestinationType: account.WalletTypeCustomer,
		OTPPurpose:      otp.PurposeM2W,
		Category:        CategoryBusiness,
	},
	KindATM: {
		Kind:       KindATM,
		Fee:        FeeRule{Flat: 300},
		SourceType: account.WalletTypeCustomer,
		OTPPurpose: otp.PurposeATM,
		Category:   CategoryCash,
	},
	KindBNPL: {
		Kind:       KindBNPL,
		SourceType: account.WalletTypeCustomer,
		Category:   CategoryShopping,
		Direct:     true,
	},
	KindLoan: {
		Kind:            KindLoan,
		SourceType:      account.WalletTypeCustomer,
		DestinationType: account.WalletTypeCustomer,
		Category:        CategoryOther,
		Direct:          true,
	},
	KindPurchase: {
		Kind:       KindPurchase,
		SourceType: account.WalletTypeCustomer,
		Category:   CategoryShopping,
		Direct:     true,
	},
	KindRefund: {
		Kind:          KindRefund,
		SourceType:    account.WalletTypeCustomer,
		CreditsSource: true,
		Category:      CategoryShopping,
		Direct:        true,
	},
}

// DefaultPolicies returns a copy of the built-in policy table.
func DefaultPolicies() map[Kind]Policy {
	out := make(map[Kind]Policy, len(defaultPolicies))
	for k, p := range defaultPolicies {
		out[k] = p
	}
	return out
}

// Fee breakdown shares, in percent of the total fee.
const (
	commissionShare = 83
	vatShare        = 17
)

type FeeLine struct {
	Name  string
	Value int64
}

// FeeBreakdown splits a fee into commission and VAT. The lines sum to fee.
func FeeBreakdown(fee int64) []FeeLine {
	com, tva := money.Split(fee, commissionShare, commissionShare+vatShare)
	return []FeeLine{
		{Name: "COM", Value: com},
		{Name: "TVA", Value: tva},
	}
}
