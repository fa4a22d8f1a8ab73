package bnpl

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

const (
	DefaultInstallments = 4
	PaymentInterval     = 30 * 24 * time.Hour
)

// Plan is a buy-now-pay-later purchase split into equal installments.
type Plan struct {
	ID                string     `db:"id" json:"id"`
	UserID            uuid.UUID  `db:"user_id" json:"user_id"`
	StoreID           int64      `db:"store_id" json:"store_id"`
	TotalAmount       int64      `db:"total_amount" json:"total_amount"`
	PaidAmount        int64      `db:"paid_amount" json:"paid_amount"`
	TotalInstallments int        `db:"total_installments" json:"total_installments"`
	InstallmentsPaid  int        `db:"installments_paid" json:"installments_paid"`
	Status            Status     `db:"status" json:"status"`
	NextPaymentDate   *time.Time `db:"next_payment_date" json:"next_payment_date,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// paidAfter is the cumulative amount paid once n installments are settled.
// Rounding is floored, so the last installment absorbs the remainder.
func (p *Plan) paidAfter(n int) int64 {
	if n >= p.TotalInstallments {
		return p.TotalAmount
	}
	return p.TotalAmount * int64(n) / int64(p.TotalInstallments)
}

// NextInstallment returns the amount due for the next payment, zero once completed.
func (p *Plan) NextInstallment() int64 {
	if p.Status != StatusActive {
		return 0
	}
	return p.paidAfter(p.InstallmentsPaid+1) - p.PaidAmount
}

func (p *Plan) Remaining() int64 {
	return p.TotalAmount - p.PaidAmount
}

// settle records one paid installment at now.
func (p *Plan) settle(now time.Time) {
	p.InstallmentsPaid++
	p.PaidAmount = p.paidAfter(p.InstallmentsPaid)
	p.UpdatedAt = now

	if p.InstallmentsPaid >= p.TotalInstallments {
		p.Status = StatusCompleted
		p.NextPaymentDate = nil
		return
	}

	base := now
	if p.NextPaymentDate != nil {
		base = *p.NextPaymentDate
	}
	next := base.Add(PaymentInterval)
	p.NextPaymentDate = &next
}
