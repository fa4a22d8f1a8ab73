package otp

import "time"

type Purpose string

const (
	PurposeWalletCreate   Purpose = "wallet_create"
	PurposeMerchantCreate Purpose = "merchant_create"
	PurposeCashOut        Purpose = "cash_out"
	PurposeW2W            Purpose = "w2w"
	PurposeW2M            Purpose = "w2m"
	PurposeM2M            Purpose = "m2m"
	PurposeM2W            Purpose = "m2w"
	PurposeATM            Purpose = "atm"
)

func (p Purpose) Valid() bool {
	switch p {
	case PurposeWalletCreate, PurposeMerchantCreate, PurposeCashOut,
		PurposeW2W, PurposeW2M, PurposeM2M, PurposeM2W, PurposeATM:
		return true
	}
	return false
}

// Record is one issued code. Key is the phone number, or the activation token
// when the code is bound to a precreate flow.
type Record struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Phone     string    `json:"phone"`
	Purpose   Purpose   `json:"purpose"`
	CodeHash  string    `json:"code_hash"`
	Token     string    `json:"token,omitempty"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the record is past its expiry. A zero ExpiresAt never expires.
func (r *Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}
