package ledger

import (
	"context"
	"errors"
	"sync"
)

var ErrDuplicateTransaction = errors.New("transaction already recorded")

// Journal is the append-only transaction log.
type Journal interface {
	Append(ctx context.Context, tx *Transaction) error
	// ListByContract returns transactions touching contractID, newest first.
	// A limit of zero or less returns all of them.
	ListByContract(ctx context.Context, contractID string, limit int) ([]Transaction, error)
	CountByContract(ctx context.Context, contractID string) (int, error)
}

type MemoryJournal struct {
	mu   sync.RWMutex
	txs  []Transaction
	seen map[string]bool
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{seen: make(map[string]bool)}
}

func (j *MemoryJournal) Append(_ context.Context, tx *Transaction) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.seen[tx.ID] || j.seen["ref:"+tx.ReferenceID] {
		return ErrDuplicateTransaction
	}
	j.seen[tx.ID] = true
	j.seen["ref:"+tx.ReferenceID] = true
	j.txs = append(j.txs, *tx)
	return nil
}

func (j *MemoryJournal) ListByContract(_ context.Context, contractID string, limit int) ([]Transaction, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]Transaction, 0)
	for i := len(j.txs) - 1; i >= 0; i-- {
		if !j.txs[i].Touches(contractID) {
			continue
		}
		out = append(out, j.txs[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (j *MemoryJournal) CountByContract(_ context.Context, contractID string) (int, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	n := 0
	for _, tx := range j.txs {
		if tx.Touches(contractID) {
			n++
		}
	}
	return n, nil
}

// All returns every recorded transaction in append order.
func (j *MemoryJournal) All() []Transaction {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]Transaction, len(j.txs))
	copy(out, j.txs)
	return out
}
