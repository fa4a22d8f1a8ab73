package bnpl

import (
	"time"

	"github.com/cihwallet/wallet-api/internal/pkg/money"
)

type CreatePlanRequest struct {
	UserID      string `json:"user_id" validate:"required,uuid"`
	StoreID     int64  `json:"store_id" validate:"required,gt=0"`
	TotalAmount string `json:"total_amount" validate:"required,amount"`
}

type PlanResponse struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	StoreID           int64      `json:"store_id"`
	TotalAmount       string     `json:"total_amount"`
	PaidAmount        string     `json:"paid_amount"`
	Remaining         string     `json:"remaining_amount"`
	NextInstallment   string     `json:"next_installment,omitempty"`
	TotalInstallments int        `json:"total_installments"`
	InstallmentsPaid  int        `json:"installments_paid"`
	Status            string     `json:"status"`
	NextPaymentDate   *time.Time `json:"next_payment_date"`
	CreatedAt         time.Time  `json:"created_at"`
}

func PlanResponseFrom(p *Plan) PlanResponse {
	resp := PlanResponse{
		ID:                p.ID,
		UserID:            p.UserID.String(),
		StoreID:           p.StoreID,
		TotalAmount:       money.Format(p.TotalAmount),
		PaidAmount:        money.Format(p.PaidAmount),
		Remaining:         money.Format(p.Remaining()),
		TotalInstallments: p.TotalInstallments,
		InstallmentsPaid:  p.InstallmentsPaid,
		Status:            string(p.Status),
		NextPaymentDate:   p.NextPaymentDate,
		CreatedAt:         p.CreatedAt,
	}
	if p.Status == StatusActive {
		resp.NextInstallment = money.Format(p.NextInstallment())
	}
	return resp
}
