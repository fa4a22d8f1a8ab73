package otp

import (
	"context"
	"sync"
)

// Repository persists issued codes.
type Repository interface {
	Insert(ctx context.Context, rec *Record) error
	// Latest returns the newest record for key and purpose, or ErrNotFound
	// when there is none or the newest one is used.
	Latest(ctx context.Context, key string, purpose Purpose) (*Record, error)
	// MarkUsed flips rec to used if it is still the newest unused record,
	// otherwise ErrAlreadyUsed.
	MarkUsed(ctx context.Context, rec *Record) error
}

// MemoryRepository keeps every record, used ones included.
type MemoryRepository struct {
	mu      sync.Mutex
	records map[string][]*Record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string][]*Record)}
}

func storeKey(key string, purpose Purpose) string {
	return string(purpose) + ":" + key
}

func (s *MemoryRepository) Insert(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *rec
	k := storeKey(rec.Key, rec.Purpose)
	s.records[k] = append(s.records[k], &cp)
	return nil
}

func (s *MemoryRepository) Latest(_ context.Context, key string, purpose Purpose) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.records[storeKey(key, purpose)]
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	newest := list[len(list)-1]
	if newest.Used {
		return nil, ErrNotFound
	}
	cp := *newest
	return &cp, nil
}

func (s *MemoryRepository) MarkUsed(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.records[storeKey(rec.Key, rec.Purpose)]
	if len(list) == 0 {
		return ErrNotFound
	}
	newest := list[len(list)-1]
	if newest.ID != rec.ID || newest.Used {
		return ErrAlreadyUsed
	}
	newest.Used = true
	return nil
}

// History returns every record issued for key and purpose, oldest first.
func (s *MemoryRepository) History(key string, purpose Purpose) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.records[storeKey(key, purpose)]
	out := make([]Record, len(list))
	for i, r := range list {
		out[i] = *r
	}
	return out
}
