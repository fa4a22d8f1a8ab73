package ledger

import (
	"time"

	"github.com/cihwallet/wallet-api/internal/domain/pending"
)

// StatusSuccess marks a committed transaction.
const StatusSuccess = "000"

const (
	CategoryFood          = "Food & Dining"
	CategoryShopping      = "Shopping"
	CategoryTransport     = "Transport"
	CategoryHealthcare    = "Healthcare"
	CategoryEntertainment = "Entertainment"
	CategoryBills         = "Bills"
	CategoryCash          = "Cash"
	CategoryBusiness      = "Business"
	CategoryOther         = "Other"
)

// Categories lists the spending categories known to analytics.
var Categories = []string{
	CategoryFood, CategoryShopping, CategoryTransport, CategoryHealthcare,
	CategoryEntertainment, CategoryBills, CategoryCash, CategoryBusiness, CategoryOther,
}

// Transaction is an immutable journal record of a committed operation.
type Transaction struct {
	ID                    string    `db:"id" json:"id"`
	ReferenceID           string    `db:"reference_id" json:"reference_id"`
	Type                  Kind      `db:"type" json:"type"`
	Amount                int64     `db:"amount" json:"amount"`
	Fees                  int64     `db:"fees" json:"fees"`
	SourceContractID      string    `db:"source_contract_id" json:"source_contract_id"`
	DestinationContractID string    `db:"destination_contract_id" json:"destination_contract_id,omitempty"`
	DestinationPhone      string    `db:"destination_phone" json:"destination_phone,omitempty"`
	DestinationName       string    `db:"destination_name" json:"destination_name,omitempty"`
	Category              string    `db:"category" json:"category"`
	Note                  string    `db:"note" json:"note,omitempty"`
	Status                string    `db:"status" json:"status"`
	Currency              string    `db:"currency" json:"currency"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
}

// EffectOn returns the signed balance change the transaction made to contractID.
func (t Transaction) EffectOn(contractID string) int64 {
	var delta int64
	if t.SourceContractID == contractID {
		if t.Type.Credits() {
			delta += t.Amount
		} else {
			delta -= t.Amount + t.Fees
		}
	}
	if t.DestinationContractID != "" && t.DestinationContractID == contractID {
		delta += t.Amount
	}
	return delta
}

// Touches reports whether the transaction involves contractID.
func (t Transaction) Touches(contractID string) bool {
	return t.SourceContractID == contractID || (t.DestinationContractID != "" && t.DestinationContractID == contractID)
}

type SimulateRequest struct {
	Kind             Kind
	SourceContractID string
	SourcePhone      string
	DestinationPhone string
	Amount           int64
	Note             string
	Category         string
}

// Quote is the result of a simulation.
type Quote struct {
	Token       string
	Kind        Kind
	ReferenceID string
	Amount      int64
	Fee         int64
	Total       int64
	Currency    string
	Source      pending.Party
	Destination *pending.Party
	FeeLines    []FeeLine
	RequiresOTP bool
	ExpiresAt   time.Time

	// OTPCode is only set when the service echoes codes (demo mode).
	OTPCode string
}

// Receipt is the result of a committed operation.
type Receipt struct {
	NewBalance  int64
	ReferenceID string
	Status      string
	Transaction Transaction
}

type DirectDebitRequest struct {
	ContractID string
	Amount     int64
	Note       string
	Category   string
}

type PurchaseRequest struct {
	ContractID   string
	Amount       int64
	MerchantName string
	Category     string
	Note         string
}

// RefundRequest credits a customer wallet back, for example when a debit it
// paid for could not be recorded.
type RefundRequest struct {
	ContractID string
	Amount     int64
	Note       string
	Category   string
}

type TransferRequest struct {
	SourcePhone      string
	DestinationPhone string
	Amount           int64
	Note             string
	Category         string
}
