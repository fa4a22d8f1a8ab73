package account

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu          sync.RWMutex
	users       map[uuid.UUID]*User
	usersByTel  map[string]uuid.UUID
	wallets     map[string]*Wallet
	walletByTel map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:       make(map[uuid.UUID]*User),
		usersByTel:  make(map[string]uuid.UUID),
		wallets:     make(map[string]*Wallet),
		walletByTel: make(map[string]string),
	}
}

func phoneKey(phone string, t WalletType) string {
	return string(t) + ":" + phone
}

func (s *MemoryRepository) CreateUser(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usersByTel[u.Phone]; ok {
		return ErrAlreadyExists
	}
	if _, ok := s.users[u.ID]; ok {
		return ErrAlreadyExists
	}
	cp := *u
	s.users[u.ID] = &cp
	s.usersByTel[u.Phone] = u.ID
	return nil
}

func (s *MemoryRepository) GetUserByID(_ context.Context, id uuid.UUID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryRepository) GetUserByPhone(_ context.Context, phone string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByTel[phone]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s.users[id]
	return &cp, nil
}

func (s *MemoryRepository) CreateWallet(_ context.Context, w *Wallet) error {
	if w.Balance < 0 {
		return ErrInvalidWallet
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.wallets[w.ContractID]; ok {
		return ErrAlreadyExists
	}
	key := phoneKey(w.Phone, w.Type)
	if _, ok := s.walletByTel[key]; ok {
		return ErrAlreadyExists
	}
	if w.UserID != nil {
		if _, ok := s.users[*w.UserID]; !ok {
			return fmt.Errorf("wallet owner: %w", ErrNotFound)
		}
	}

	cp := *w
	s.wallets[w.ContractID] = &cp
	s.walletByTel[key] = w.ContractID
	return nil
}

func (s *MemoryRepository) GetWalletByContractID(_ context.Context, contractID string) (*Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.wallets[contractID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (s *MemoryRepository) GetWalletByPhone(_ context.Context, phone string, walletType WalletType) (*Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cid, ok := s.walletByTel[phoneKey(phone, walletType)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s.wallets[cid]
	return &cp, nil
}

func (s *MemoryRepository) ListWalletsByUser(_ context.Context, userID uuid.UUID) ([]*Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(w *Wallet) bool {
		return w.UserID != nil && *w.UserID == userID
	}), nil
}

func (s *MemoryRepository) ListWalletsByType(_ context.Context, walletType WalletType) ([]*Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(w *Wallet) bool { return w.Type == walletType }), nil
}

// collect copies matching wallets in creation order. Callers hold s.mu.
func (s *MemoryRepository) collect(match func(*Wallet) bool) []*Wallet {
	out := []*Wallet{}
	for _, w := range s.wallets {
		if match(w) {
			cp := *w
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ContractID < out[j].ContractID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *MemoryRepository) ApplyPostings(_ context.Context, postings []Posting) ([]int64, error) {
	if len(postings) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]int64, len(postings))
	for _, p := range postings {
		bal, seen := next[p.ContractID]
		if !seen {
			w, ok := s.wallets[p.ContractID]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, p.ContractID)
			}
			bal = w.Balance
		}
		bal, err := addDelta(bal, p.Delta)
		if err != nil {
			return nil, err
		}
		next[p.ContractID] = bal
	}

	for cid, bal := range next {
		s.wallets[cid].Balance = bal
	}

	out := make([]int64, len(postings))
	for i, p := range postings {
		out[i] = next[p.ContractID]
	}
	return out, nil
}

func (s *MemoryRepository) AdjustBalance(ctx context.Context, contractID string, delta int64) (int64, error) {
	return adjustViaPostings(ctx, s, contractID, delta)
}
