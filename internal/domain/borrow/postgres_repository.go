package borrow

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const requestColumns = `id, from_phone, from_name, to_phone, to_name, amount, note, status, created_at, updated_at`

func (s *PostgresRepository) Insert(ctx context.Context, req *Request) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO borrow_requests (`+requestColumns+`)
		VALUES (:id, :from_phone, :from_name, :to_phone, :to_name, :amount, :note, :status, :created_at, :updated_at)
	`, req)
	return err
}

func (s *PostgresRepository) GetByID(ctx context.Context, id string) (*Request, error) {
	var req Request
	err := s.db.GetContext(ctx, &req, `SELECT `+requestColumns+` FROM borrow_requests WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *PostgresRepository) Update(ctx context.Context, id string, fn func(*Request) error) (*Request, error) {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var req Request
	err = tx.GetContext(ctx, &req, `SELECT `+requestColumns+` FROM borrow_requests WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := fn(&req); err != nil {
		return nil, err
	}

	_, err = tx.NamedExecContext(ctx, `
		UPDATE borrow_requests SET status = :status, updated_at = :updated_at
		WHERE id = :id
	`, &req)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByPhone returns requests where phone is either party, newest first.
func (s *PostgresRepository) ListByPhone(ctx context.Context, phone string) ([]*Request, error) {
	out := make([]*Request, 0)
	err := s.db.SelectContext(ctx, &out, `
		SELECT `+requestColumns+` FROM borrow_requests
		WHERE from_phone = $1 OR to_phone = $1
		ORDER BY created_at DESC, id DESC
	`, phone)
	if err != nil {
		return nil, err
	}
	return out, nil
}
