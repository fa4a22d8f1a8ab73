package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type walletRow struct {
	ContractID  string        `db:"contract_id"`
	UserID      uuid.NullUUID `db:"user_id"`
	Type        string        `db:"type"`
	Phone       string        `db:"phone"`
	RIB         string        `db:"rib"`
	CompanyName string        `db:"company_name"`
	FirstName   string        `db:"first_name"`
	LastName    string        `db:"last_name"`
	Balance     int64         `db:"balance"`
	Level       string        `db:"level"`
	Status      string        `db:"status"`
	MCC         string        `db:"mcc"`
	CreatedAt   time.Time     `db:"created_at"`
}

func (r walletRow) toWallet() *Wallet {
	w := &Wallet{
		ContractID:  r.ContractID,
		Type:        WalletType(r.Type),
		Phone:       r.Phone,
		RIB:         r.RIB,
		CompanyName: r.CompanyName,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Balance:     r.Balance,
		Level:       r.Level,
		Status:      WalletStatus(r.Status),
		MCC:         r.MCC,
		CreatedAt:   r.CreatedAt,
	}
	if r.UserID.Valid {
		id := r.UserID.UUID
		w.UserID = &id
	}
	return w
}

const walletColumns = `contract_id, user_id, type, phone, rib, company_name, first_name, last_name,
	balance, level, status, mcc, created_at`

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (s *PostgresRepository) CreateUser(ctx context.Context, u *User) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO users (id, phone, operator, first_name, last_name, email, legal_type, legal_id, tier_id, created_at)
		VALUES (:id, :phone, :operator, :first_name, :last_name, :email, :legal_type, :legal_id, :tier_id, :created_at)
	`, u)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return err
}

func (s *PostgresRepository) getUser(ctx context.Context, where string, arg interface{}) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, `SELECT id, phone, operator, first_name, last_name, email, legal_type, legal_id, tier_id, created_at FROM users WHERE `+where, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.getUser(ctx, "id = $1", id)
}

func (s *PostgresRepository) GetUserByPhone(ctx context.Context, phone string) (*User, error) {
	return s.getUser(ctx, "phone = $1", phone)
}

func (s *PostgresRepository) CreateWallet(ctx context.Context, w *Wallet) error {
	if w.Balance < 0 {
		return ErrInvalidWallet
	}

	var userID uuid.NullUUID
	if w.UserID != nil {
		userID = uuid.NullUUID{UUID: *w.UserID, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO wallets (contract_id, user_id, type, phone, rib, company_name, first_name, last_name,
			balance, level, status, mcc, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, w.ContractID, userID, string(w.Type), w.Phone, w.RIB, w.CompanyName, w.FirstName, w.LastName,
		w.Balance, w.Level, string(w.Status), w.MCC, w.CreatedAt)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return fmt.Errorf("wallet owner: %w", ErrNotFound)
	}
	return err
}

func (s *PostgresRepository) getWallet(ctx context.Context, where string, args ...interface{}) (*Wallet, error) {
	var row walletRow
	err := s.db.GetContext(ctx, &row, `SELECT `+walletColumns+` FROM wallets WHERE `+where, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toWallet(), nil
}

func (s *PostgresRepository) GetWalletByContractID(ctx context.Context, contractID string) (*Wallet, error) {
	return s.getWallet(ctx, "contract_id = $1", contractID)
}

func (s *PostgresRepository) GetWalletByPhone(ctx context.Context, phone string, walletType WalletType) (*Wallet, error) {
	return s.getWallet(ctx, "phone = $1 AND type = $2", phone, string(walletType))
}

func (s *PostgresRepository) ListWalletsByUser(ctx context.Context, userID uuid.UUID) ([]*Wallet, error) {
	return s.listWallets(ctx, "user_id = $1", userID)
}

func (s *PostgresRepository) ListWalletsByType(ctx context.Context, walletType WalletType) ([]*Wallet, error) {
	return s.listWallets(ctx, "type = $1", string(walletType))
}

func (s *PostgresRepository) listWallets(ctx context.Context, where string, args ...interface{}) ([]*Wallet, error) {
	var rows []walletRow
	err := s.db.SelectContext(ctx, &rows, `SELECT `+walletColumns+` FROM wallets WHERE `+where+` ORDER BY created_at, contract_id`, args...)
	if err != nil {
		return nil, err
	}
	out := make([]*Wallet, len(rows))
	for i, r := range rows {
		out[i] = r.toWallet()
	}
	return out, nil
}

// ApplyPostings locks every touched wallet in contract order, so concurrent
// multi-leg updates cannot deadlock, then writes all balances in one transaction.
func (s *PostgresRepository) ApplyPostings(ctx context.Context, postings []Posting) ([]int64, error) {
	if len(postings) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ids := make([]string, 0, len(postings))
	seen := make(map[string]bool, len(postings))
	for _, p := range postings {
		if !seen[p.ContractID] {
			seen[p.ContractID] = true
			ids = append(ids, p.ContractID)
		}
	}
	sort.Strings(ids)

	next := make(map[string]int64, len(ids))
	for _, id := range ids {
		var balance int64
		err := tx.GetContext(ctx, &balance, `SELECT balance FROM wallets WHERE contract_id = $1 FOR UPDATE`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if err != nil {
			return nil, err
		}
		next[id] = balance
	}

	for _, p := range postings {
		bal, err := addDelta(next[p.ContractID], p.Delta)
		if err != nil {
			return nil, err
		}
		next[p.ContractID] = bal
	}

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `UPDATE wallets SET balance = $1, updated_at = now() WHERE contract_id = $2`, next[id], id); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	out := make([]int64, len(postings))
	for i, p := range postings {
		out[i] = next[p.ContractID]
	}
	return out, nil
}

func (s *PostgresRepository) AdjustBalance(ctx context.Context, contractID string, delta int64) (int64, error) {
	return adjustViaPostings(ctx, s, contractID, delta)
}
