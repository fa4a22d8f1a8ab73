package codehash

import (
	"golang.org/x/crypto/bcrypt"
)

const DefaultCost = 10

// Hasher hashes short-lived secrets such as one-time codes with bcrypt.
type Hasher struct {
	cost int
}

func New(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash hashes code using bcrypt
func (h *Hasher) Hash(code string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(code), h.cost)
	return string(bytes), err
}

// Verify compares code with hash
func (h *Hasher) Verify(code, hash string) bool {
	if code == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
