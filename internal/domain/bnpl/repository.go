package bnpl

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Repository persists plans. Create and Update run fn while the plan is locked and
// persist nothing if fn fails.
type Repository interface {
	Create(ctx context.Context, plan *Plan, fn func(*Plan) error) error
	Update(ctx context.Context, id string, fn func(*Plan) error) (*Plan, error)
	GetByID(ctx context.Context, id string) (*Plan, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Plan, error)
}

type MemoryRepository struct {
	mu    sync.Mutex
	plans map[string]*Plan
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{plans: make(map[string]*Plan)}
}

func (s *MemoryRepository) Create(_ context.Context, plan *Plan, fn func(*Plan) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *plan
	if fn != nil {
		if err := fn(&cp); err != nil {
			return err
		}
	}
	s.plans[cp.ID] = &cp
	*plan = cp
	return nil
}

func (s *MemoryRepository) Update(_ context.Context, id string, fn func(*Plan) error) (*Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plans[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	if err := fn(&cp); err != nil {
		return nil, err
	}
	s.plans[id] = &cp
	out := cp
	return &out, nil
}

func (s *MemoryRepository) GetByID(_ context.Context, id string) (*Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plans[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// ListByUser returns the user's plans, newest first.
func (s *MemoryRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]*Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Plan, 0)
	for _, p := range s.plans {
		if p.UserID == userID {
			cp := *p
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
