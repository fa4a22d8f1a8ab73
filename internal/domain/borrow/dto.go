package borrow

import (
	"time"

	"github.com/cihwallet/wallet-api/internal/pkg/money"
)

type CreateRequest struct {
	FromPhone string `json:"from_phone" validate:"required,phone"`
	FromName  string `json:"from_name" validate:"max=200"`
	ToPhone   string `json:"to_phone" validate:"required,phone"`
	Amount    string `json:"amount" validate:"required,amount"`
	Note      string `json:"note" validate:"max=255"`
}

type RespondRequest struct {
	Action         string `json:"action" validate:"required,oneof=accept decline"`
	ResponderPhone string `json:"responder_phone" validate:"omitempty,phone"`
}

type RequestResponse struct {
	ID        string    `json:"id"`
	FromPhone string    `json:"from_phone"`
	FromName  string    `json:"from_name"`
	ToPhone   string    `json:"to_phone"`
	ToName    string    `json:"to_name"`
	Amount    string    `json:"amount"`
	Note      string    `json:"note"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func RequestResponseFrom(r *Request) RequestResponse {
	return RequestResponse{
		ID:        r.ID,
		FromPhone: r.FromPhone,
		FromName:  r.FromName,
		ToPhone:   r.ToPhone,
		ToName:    r.ToName,
		Amount:    money.Format(r.Amount),
		Note:      r.Note,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
	}
}

type PendingResponse struct {
	Count    int               `json:"count"`
	Requests []RequestResponse `json:"requests"`
}

type RespondResponse struct {
	Request    RequestResponse `json:"request"`
	NewBalance string          `json:"new_balance,omitempty"`
}

type DebtResponse struct {
	ID     string    `json:"id"`
	User   string    `json:"user"`
	Phone  string    `json:"phone"`
	Amount string    `json:"amount"`
	Date   time.Time `json:"date"`
	Type   string    `json:"type"`
}

type DebtsResponse struct {
	OwedToMe      []DebtResponse `json:"owed_to_me"`
	IOwe          []DebtResponse `json:"i_owe"`
	TotalOwedToMe string         `json:"total_owed_to_me"`
	TotalIOwe     string         `json:"total_i_owe"`
}

func debtResponses(debts []Debt, kind string) []DebtResponse {
	out := make([]DebtResponse, 0, len(debts))
	for _, d := range debts {
		out = append(out, DebtResponse{
			ID:     d.RequestID,
			User:   d.Counterparty,
			Phone:  d.Phone,
			Amount: money.Format(d.Amount),
			Date:   d.Date,
			Type:   kind,
		})
	}
	return out
}

func DebtsResponseFrom(d *Debts) DebtsResponse {
	return DebtsResponse{
		OwedToMe:      debtResponses(d.OwedToMe, "owed_to_me"),
		IOwe:          debtResponses(d.IOwe, "i_owe"),
		TotalOwedToMe: money.Format(d.TotalOwedToMe),
		TotalIOwe:     money.Format(d.TotalIOwe),
	}
}
