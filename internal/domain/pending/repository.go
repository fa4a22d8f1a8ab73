package pending

import (
	"context"
	"sync"
	"time"
)

// Repository holds simulated operations until they are confirmed or expire.
type Repository interface {
	Put(ctx context.Context, op *Operation) error
	Get(ctx context.Context, token string) (*Operation, error)
	// Take returns and removes the operation in one step, so a token can be
	// confirmed at most once.
	Take(ctx context.Context, token string) (*Operation, error)
	Remove(ctx context.Context, token string) error
	// Sweep drops operations expired at now and returns how many were dropped.
	Sweep(ctx context.Context, now time.Time) (int, error)
}

const tombstoneRetention = 15 * time.Minute

type MemoryRepository struct {
	mu       sync.Mutex
	ops      map[string]*Operation
	consumed map[string]time.Time
	now      func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		ops:      make(map[string]*Operation),
		consumed: make(map[string]time.Time),
		now:      time.Now,
	}
}

// WithClock replaces the clock used to evaluate expiry.
func (s *MemoryRepository) WithClock(now func() time.Time) *MemoryRepository {
	s.now = now
	return s
}

func (s *MemoryRepository) Put(_ context.Context, op *Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ops[op.Token]; ok {
		return ErrDuplicateToken
	}
	if _, ok := s.consumed[op.Token]; ok {
		return ErrDuplicateToken
	}
	cp := *op
	s.ops[op.Token] = &cp
	return nil
}

func (s *MemoryRepository) lookup(token string) (*Operation, error) {
	op, ok := s.ops[token]
	if !ok {
		if _, used := s.consumed[token]; used {
			return nil, ErrAlreadyConsumed
		}
		return nil, ErrNotFound
	}
	if op.Expired(s.now()) {
		delete(s.ops, token)
		return nil, ErrNotFound
	}
	return op, nil
}

func (s *MemoryRepository) Get(_ context.Context, token string) (*Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	op, err := s.lookup(token)
	if err != nil {
		return nil, err
	}
	cp := *op
	return &cp, nil
}

func (s *MemoryRepository) Take(_ context.Context, token string) (*Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	op, err := s.lookup(token)
	if err != nil {
		return nil, err
	}
	delete(s.ops, token)
	s.consumed[token] = s.now().Add(tombstoneRetention)
	return op, nil
}

func (s *MemoryRepository) Remove(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ops[token]; !ok {
		return ErrNotFound
	}
	delete(s.ops, token)
	return nil
}

func (s *MemoryRepository) Sweep(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for token, op := range s.ops {
		if op.Expired(now) {
			delete(s.ops, token)
			n++
		}
	}
	for token, until := range s.consumed {
		if !now.Before(until) {
			delete(s.consumed, token)
		}
	}
	return n, nil
}

// Len returns the number of live operations.
func (s *MemoryRepository) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ops)
}
