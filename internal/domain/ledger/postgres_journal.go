package ledger

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PostgresJournal struct {
	db *sqlx.DB
}

func NewPostgresJournal(db *sqlx.DB) *PostgresJournal {
	return &PostgresJournal{db: db}
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (j *PostgresJournal) Append(ctx context.Context, tx *Transaction) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO ledger_transactions (id, reference_id, type, amount, fees, source_contract_id,
			destination_contract_id, destination_phone, destination_name, category, note, status, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, tx.ID, tx.ReferenceID, string(tx.Type), tx.Amount, tx.Fees, tx.SourceContractID,
		nullIfEmpty(tx.DestinationContractID), nullIfEmpty(tx.DestinationPhone), nullIfEmpty(tx.DestinationName),
		tx.Category, tx.Note, tx.Status, tx.Currency, tx.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateTransaction
		}
		return err
	}
	return nil
}

const transactionColumns = `id, reference_id, type, amount, fees, source_contract_id,
	COALESCE(destination_contract_id, '') AS destination_contract_id,
	COALESCE(destination_phone, '') AS destination_phone,
	COALESCE(destination_name, '') AS destination_name,
	category, note, status, currency, created_at`

func (j *PostgresJournal) ListByContract(ctx context.Context, contractID string, limit int) ([]Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM ledger_transactions
		WHERE source_contract_id = $1 OR destination_contract_id = $1
		ORDER BY created_at DESC, id DESC`
	args := []interface{}{contractID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	txs := make([]Transaction, 0)
	if err := j.db.SelectContext(ctx, &txs, query, args...); err != nil {
		return nil, err
	}
	return txs, nil
}

func (j *PostgresJournal) CountByContract(ctx context.Context, contractID string) (int, error) {
	var n int
	err := j.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM ledger_transactions
		WHERE source_contract_id = $1 OR destination_contract_id = $1
	`, contractID)
	return n, err
}
