package pending

import (
	"time"

	"github.com/cihwallet/wallet-api/internal/pkg/ids"
)

// Party is a frozen view of one side of an operation at simulate time.
type Party struct {
	ContractID string `json:"contract_id"`
	Phone      string `json:"phone"`
	Name       string `json:"name"`
}

// Snapshot holds everything confirm needs. It is never recomputed.
type Snapshot struct {
	Reference   string `json:"reference"`
	Amount      int64  `json:"amount"`
	Fee         int64  `json:"fee"`
	Source      Party  `json:"source"`
	Destination *Party `json:"destination,omitempty"`
	Note        string `json:"note,omitempty"`
	Category    string `json:"category,omitempty"`
	Currency    string `json:"currency"`
	OTPPurpose  string `json:"otp_purpose,omitempty"`
}

func (s Snapshot) RequiresOTP() bool {
	return s.OTPPurpose != ""
}

// Total is what the source pays for a debiting operation.
func (s Snapshot) Total() int64 {
	return s.Amount + s.Fee
}

type Operation struct {
	Token     string    `json:"token"`
	Kind      string    `json:"kind"`
	Snapshot  Snapshot  `json:"snapshot"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the operation is past its expiry. A zero ExpiresAt never expires.
func (o *Operation) Expired(now time.Time) bool {
	return !o.ExpiresAt.IsZero() && !now.Before(o.ExpiresAt)
}

// NewToken returns a fresh operation token.
func NewToken() string {
	return ids.NewToken()
}
