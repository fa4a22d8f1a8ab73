package bnpl

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const planColumns = `id, user_id, store_id, total_amount, paid_amount, total_installments,
	installments_paid, status, next_payment_date, created_at, updated_at`

func (s *PostgresRepository) Create(ctx context.Context, plan *Plan, fn func(*Plan) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	cp := *plan
	if fn != nil {
		if err := fn(&cp); err != nil {
			return err
		}
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO bnpl_plans (`+planColumns+`)
		VALUES (:id, :user_id, :store_id, :total_amount, :paid_amount, :total_installments,
			:installments_paid, :status, :next_payment_date, :created_at, :updated_at)
	`, &cp)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	*plan = cp
	return nil
}

func (s *PostgresRepository) Update(ctx context.Context, id string, fn func(*Plan) error) (*Plan, error) {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var p Plan
	err = tx.GetContext(ctx, &p, `SELECT `+planColumns+` FROM bnpl_plans WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := fn(&p); err != nil {
		return nil, err
	}

	_, err = tx.NamedExecContext(ctx, `
		UPDATE bnpl_plans SET paid_amount = :paid_amount, installments_paid = :installments_paid,
			status = :status, next_payment_date = :next_payment_date, updated_at = :updated_at
		WHERE id = :id
	`, &p)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresRepository) GetByID(ctx context.Context, id string) (*Plan, error) {
	var p Plan
	err := s.db.GetContext(ctx, &p, `SELECT `+planColumns+` FROM bnpl_plans WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Plan, error) {
	plans := make([]*Plan, 0)
	err := s.db.SelectContext(ctx, &plans, `
		SELECT `+planColumns+` FROM bnpl_plans
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return plans, nil
}
