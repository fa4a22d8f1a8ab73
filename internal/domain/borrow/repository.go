package borrow

import (
	"context"
	"sort"
	"sync"
)

type Repository interface {
	Insert(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id string) (*Request, error)
	// Update runs fn on the locked request and keeps the result only if fn succeeds.
	Update(ctx context.Context, id string, fn func(*Request) error) (*Request, error)
	ListByPhone(ctx context.Context, phone string) ([]*Request, error)
}

type MemoryRepository struct {
	mu       sync.Mutex
	requests map[string]*Request
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{requests: make(map[string]*Request)}
}

func (s *MemoryRepository) Insert(_ context.Context, req *Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *req
	s.requests[req.ID] = &cp
	return nil
}

func (s *MemoryRepository) GetByID(_ context.Context, id string) (*Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *req
	return &cp, nil
}

func (s *MemoryRepository) Update(_ context.Context, id string, fn func(*Request) error) (*Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *req
	if err := fn(&cp); err != nil {
		return nil, err
	}
	s.requests[id] = &cp
	out := cp
	return &out, nil
}

// ListByPhone returns requests where phone is either party, newest first.
func (s *MemoryRepository) ListByPhone(_ context.Context, phone string) ([]*Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Request, 0)
	for _, req := range s.requests {
		if req.FromPhone == phone || req.ToPhone == phone {
			cp := *req
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
