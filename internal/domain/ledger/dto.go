package ledger

import (
	"time"

	"github.com/cihwallet/wallet-api/internal/pkg/money"
)

type SimulateRequestDTO struct {
	SourceContractID string `json:"source_contract_id" validate:"required_without=SourcePhone"`
	SourcePhone      string `json:"source_phone" validate:"omitempty,phone"`
	DestinationPhone string `json:"destination_phone" validate:"omitempty,phone"`
	Amount           string `json:"amount" validate:"required,amount"`
	Note             string `json:"note" validate:"max=255"`
	Category         string `json:"category" validate:"max=50"`
}

type ConfirmRequestDTO struct {
	Token string `json:"token" validate:"required"`
	Code  string `json:"otp" validate:"omitempty,otp"`
}

type PartyResponse struct {
	ContractID string `json:"contract_id"`
	Phone      string `json:"phone_number"`
	Name       string `json:"name"`
}

type FeeLineResponse struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type QuoteResponse struct {
	Token       string            `json:"token"`
	Kind        string            `json:"type"`
	ReferenceID string            `json:"reference_id"`
	Amount      string            `json:"amount"`
	Fee         string            `json:"total_fee"`
	Total       string            `json:"total_amount"`
	Currency    string            `json:"currency"`
	Source      PartyResponse     `json:"source"`
	Destination *PartyResponse    `json:"destination,omitempty"`
	Fees        []FeeLineResponse `json:"fees"`
	RequiresOTP bool              `json:"requires_otp"`
	ExpiresAt   *time.Time        `json:"expires_at,omitempty"`
	OTPCode     string            `json:"otp,omitempty"`
}

func QuoteResponseFrom(q *Quote) QuoteResponse {
	resp := QuoteResponse{
		Token:       q.Token,
		Kind:        string(q.Kind),
		ReferenceID: q.ReferenceID,
		Amount:      money.Format(q.Amount),
		Fee:         money.Format(q.Fee),
		Total:       money.Format(q.Total),
		Currency:    q.Currency,
		Source:      PartyResponse(q.Source),
		RequiresOTP: q.RequiresOTP,
		OTPCode:     q.OTPCode,
		Fees:        make([]FeeLineResponse, 0, len(q.FeeLines)),
	}
	if q.Destination != nil {
		d := PartyResponse(*q.Destination)
		resp.Destination = &d
	}
	if !q.ExpiresAt.IsZero() {
		exp := q.ExpiresAt
		resp.ExpiresAt = &exp
	}
	for _, f := range q.FeeLines {
		resp.Fees = append(resp.Fees, FeeLineResponse{Name: f.Name, Value: money.Format(f.Value), Currency: q.Currency})
	}
	return resp
}

type TransactionResponse struct {
	ID                    string    `json:"id"`
	ReferenceID           string    `json:"reference_id"`
	Type                  string    `json:"type"`
	Amount                string    `json:"amount"`
	Fees                  string    `json:"fees"`
	Effect                string    `json:"effect,omitempty"`
	SourceContractID      string    `json:"source_contract_id"`
	DestinationContractID string    `json:"destination_contract_id,omitempty"`
	DestinationPhone      string    `json:"destination_phone,omitempty"`
	DestinationName       string    `json:"destination_name,omitempty"`
	Category              string    `json:"category"`
	Note                  string    `json:"note,omitempty"`
	Status                string    `json:"status"`
	Currency              string    `json:"currency"`
	CreatedAt             time.Time `json:"created_at"`
}

// TransactionResponseFrom renders tx; with a non-empty viewer the signed effect
// on that wallet is included.
func TransactionResponseFrom(tx Transaction, viewer string) TransactionResponse {
	resp := TransactionResponse{
		ID:                    tx.ID,
		ReferenceID:           tx.ReferenceID,
		Type:                  string(tx.Type),
		Amount:                money.Format(tx.Amount),
		Fees:                  money.Format(tx.Fees),
		SourceContractID:      tx.SourceContractID,
		DestinationContractID: tx.DestinationContractID,
		DestinationPhone:      tx.DestinationPhone,
		DestinationName:       tx.DestinationName,
		Category:              tx.Category,
		Note:                  tx.Note,
		Status:                tx.Status,
		Currency:              tx.Currency,
		CreatedAt:             tx.CreatedAt,
	}
	if viewer != "" {
		resp.Effect = money.Format(tx.EffectOn(viewer))
	}
	return resp
}

type ReceiptResponse struct {
	Status      string              `json:"status"`
	ReferenceID string              `json:"reference_id"`
	NewBalance  string              `json:"new_balance"`
	Transaction TransactionResponse `json:"transaction"`
}

func ReceiptResponseFrom(r *Receipt) ReceiptResponse {
	return ReceiptResponse{
		Status:      r.Status,
		ReferenceID: r.ReferenceID,
		NewBalance:  money.Format(r.NewBalance),
		Transaction: TransactionResponseFrom(r.Transaction, ""),
	}
}

type BalanceResponse struct {
	ContractID string `json:"contract_id"`
	Balance    string `json:"balance"`
	Currency   string `json:"currency"`
}

type CategorySpendResponse struct {
	Category string  `json:"category"`
	Amount   string  `json:"amount"`
	Count    int     `json:"count"`
	Percent  float64 `json:"percent"`
}

type SpendingResponse struct {
	ContractID string                  `json:"contract_id"`
	TotalSpent string                  `json:"total_spent"`
	Categories []CategorySpendResponse `json:"categories"`
}

func SpendingResponseFrom(r *SpendingReport) SpendingResponse {
	resp := SpendingResponse{
		ContractID: r.ContractID,
		TotalSpent: money.Format(r.TotalSpent),
		Categories: make([]CategorySpendResponse, 0, len(r.Categories)),
	}
	for _, c := range r.Categories {
		resp.Categories = append(resp.Categories, CategorySpendResponse{
			Category: c.Category,
			Amount:   money.Format(c.Amount),
			Count:    c.Count,
			Percent:  c.Percent,
		})
	}
	return resp
}

type CategoryTotalResponse struct {
	Category string `json:"name"`
	Amount   string `json:"total_amount"`
	Count    int    `json:"transaction_count"`
}

type TransactionSummaryResponse struct {
	ContractID    string                  `json:"contract_id"`
	TotalSpent    string                  `json:"total_spent"`
	TotalReceived string                  `json:"total_received"`
	Categories    []CategoryTotalResponse `json:"categories"`
	Transactions  []TransactionResponse   `json:"transactions"`
}

func TransactionSummaryResponseFrom(s *TransactionSummary) TransactionSummaryResponse {
	resp := TransactionSummaryResponse{
		ContractID:    s.ContractID,
		TotalSpent:    money.Format(s.TotalSpent),
		TotalReceived: money.Format(s.TotalReceived),
		Categories:    make([]CategoryTotalResponse, 0, len(s.Categories)),
		Transactions:  make([]TransactionResponse, 0, len(s.Recent)),
	}
	for _, c := range s.Categories {
		resp.Categories = append(resp.Categories, CategoryTotalResponse{
			Category: c.Category,
			Amount:   money.Format(c.Amount),
			Count:    c.Count,
		})
	}
	for _, tx := range s.Recent {
		resp.Transactions = append(resp.Transactions, TransactionResponseFrom(tx, s.ContractID))
	}
	return resp
}

type PurchaseRequestDTO struct {
	ContractID   string `json:"contract_id" validate:"required"`
	Amount       string `json:"amount" validate:"required,amount"`
	MerchantName string `json:"merchant_name" validate:"max=100"`
	Category     string `json:"category" validate:"max=50"`
	Note         string `json:"note" validate:"max=255"`
}
