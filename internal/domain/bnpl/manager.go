package bnpl

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cihwallet/wallet-api/internal/pkg/ids"
	"github.com/cihwallet/wallet-api/internal/pkg/metrics"
)

// Charger debits an installment from the user's wallet. Refund gives back an
// installment whose plan change could not be persisted.
type Charger interface {
	Charge(ctx context.Context, userID uuid.UUID, amount int64, planID string) error
	Refund(ctx context.Context, userID uuid.UUID, amount int64, planID string) error
}

// Manager creates plans and collects installments. When a charger is set every
// installment is debited inside the plan lock; a failed charge leaves the plan
// unchanged and a failed plan write refunds the charge.
type Manager struct {
	store   Repository
	charger Charger
	now     func() time.Time
}

func NewManager(store Repository, charger Charger) *Manager {
	return &Manager{store: store, charger: charger, now: time.Now}
}

// WithClock replaces the manager clock.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// CreatePlan opens a plan with the first installment already paid.
func (m *Manager) CreatePlan(ctx context.Context, userID uuid.UUID, storeID int64, totalAmount int64) (*Plan, error) {
	if totalAmount <= 0 {
		return nil, ErrInvalidAmount
	}

	now := m.now()
	plan := &Plan{
		ID:                ids.NewULID(),
		UserID:            userID,
		StoreID:           storeID,
		TotalAmount:       totalAmount,
		TotalInstallments: DefaultInstallments,
		Status:            StatusActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	var charged *installment
	err := m.store.Create(ctx, plan, func(p *Plan) error {
		in, err := m.charge(ctx, p)
		if err != nil {
			return err
		}
		charged = in
		p.settle(now)
		return nil
	})
	if err != nil {
		err = m.reverse(ctx, charged, err)
		metrics.BNPLInstallments.WithLabelValues(metrics.StatusError).Inc()
		return nil, err
	}
	metrics.BNPLInstallments.WithLabelValues(metrics.StatusOK).Inc()

	log.Info().
		Str("plan_id", plan.ID).
		Str("user_id", userID.String()).
		Int64("store_id", storeID).
		Int64("total_amount", totalAmount).
		Msg("BNPL plan created")

	return plan, nil
}

// PayInstallment settles the next installment. Completed plans fail with ErrNotActive.
func (m *Manager) PayInstallment(ctx context.Context, planID string) (*Plan, error) {
	var charged *installment
	plan, err := m.store.Update(ctx, planID, func(p *Plan) error {
		if p.Status != StatusActive {
			return ErrNotActive
		}
		in, err := m.charge(ctx, p)
		if err != nil {
			return err
		}
		charged = in
		p.settle(m.now())
		return nil
	})
	if err != nil {
		err = m.reverse(ctx, charged, err)
		metrics.BNPLInstallments.WithLabelValues(metrics.StatusError).Inc()
		return nil, err
	}
	metrics.BNPLInstallments.WithLabelValues(metrics.StatusOK).Inc()

	log.Info().
		Str("plan_id", plan.ID).
		Int("installments_paid", plan.InstallmentsPaid).
		Str("status", string(plan.Status)).
		Msg("BNPL installment paid")

	return plan, nil
}

type installment struct {
	userID uuid.UUID
	amount int64
	planID string
}

// charge debits the next installment of p. The charge is the last step that
// can fail inside a plan write, so a non-nil result with a write error means
// the store rejected an already charged change.
func (m *Manager) charge(ctx context.Context, p *Plan) (*installment, error) {
	if m.charger == nil {
		return nil, nil
	}
	in := &installment{userID: p.UserID, amount: p.NextInstallment(), planID: p.ID}
	if err := m.charger.Charge(ctx, in.userID, in.amount, in.planID); err != nil {
		return nil, err
	}
	return in, nil
}

func (m *Manager) reverse(ctx context.Context, in *installment, cause error) error {
	if in == nil {
		return cause
	}
	if err := m.charger.Refund(context.WithoutCancel(ctx), in.userID, in.amount, in.planID); err != nil {
		log.Error().Err(err).
			Str("plan_id", in.planID).
			Int64("amount", in.amount).
			Msg("failed to refund BNPL installment after plan write error")
		return errors.Join(cause, err)
	}
	log.Warn().Err(cause).
		Str("plan_id", in.planID).
		Int64("amount", in.amount).
		Msg("BNPL installment refunded after plan write error")
	return cause
}

func (m *Manager) GetPlan(ctx context.Context, planID string) (*Plan, error) {
	return m.store.GetByID(ctx, planID)
}

func (m *Manager) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Plan, error) {
	return m.store.ListByUser(ctx, userID)
}

// CountCompletedByUser returns how many of the user's plans are fully paid.
func (m *Manager) CountCompletedByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	plans, err := m.store.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range plans {
		if p.Status == StatusCompleted {
			n++
		}
	}
	return n, nil
}

// CountByUser returns the number of plans the user has opened.
func (m *Manager) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	plans, err := m.store.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(plans), nil
}
