package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cihwallet/wallet-api/internal/pkg/ids"
)

const codeLength = 6

// Hasher hashes codes before they are stored.
type Hasher interface {
	Hash(code string) (string, error)
	Verify(code, hash string) bool
}

type Config struct {
	TTL time.Duration // zero means codes never expire
	Now func() time.Time
}

// Registry issues and consumes one-time codes. For a given key and purpose only
// the newest unused code is valid.
type Registry struct {
	store    Repository
	hasher   Hasher
	notifier Notifier
	ttl      time.Duration
	now      func() time.Time
}

func NewRegistry(store Repository, hasher Hasher, notifier Notifier, cfg Config) *Registry {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Registry{
		store:    store,
		hasher:   hasher,
		notifier: notifier,
		ttl:      cfg.TTL,
		now:      now,
	}
}

// Issue creates a code bound to phone.
func (r *Registry) Issue(ctx context.Context, phone string, purpose Purpose) (string, error) {
	return r.issue(ctx, phone, phone, "", purpose)
}

// IssueForToken creates a code bound to an activation token, delivered to phone.
func (r *Registry) IssueForToken(ctx context.Context, token, phone string, purpose Purpose) (string, error) {
	return r.issue(ctx, token, phone, token, purpose)
}

func (r *Registry) issue(ctx context.Context, key, phone, token string, purpose Purpose) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}
	if !purpose.Valid() {
		return "", ErrInvalidPurpose
	}

	code, err := ids.NewDigits(codeLength)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	hash, err := r.hasher.Hash(code)
	if err != nil {
		return "", fmt.Errorf("hash code: %w", err)
	}

	now := r.now()
	rec := &Record{
		ID:        ids.NewULID(),
		Key:       key,
		Phone:     phone,
		Purpose:   purpose,
		CodeHash:  hash,
		Token:     token,
		CreatedAt: now,
	}
	if r.ttl > 0 {
		rec.ExpiresAt = now.Add(r.ttl)
	}

	if err := r.store.Insert(ctx, rec); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}

	if r.notifier != nil {
		if err := r.notifier.Deliver(ctx, phone, purpose, code); err != nil {
			log.Warn().Err(err).Str("phone", phone).Str("purpose", string(purpose)).Msg("otp delivery failed")
		}
	}

	return code, nil
}

// Consume validates code against the newest unused record for key and purpose
// and marks it used. Every failure is reported as ErrInvalidCode.
func (r *Registry) Consume(ctx context.Context, key string, purpose Purpose, code string) (*Record, error) {
	rec, err := r.store.Latest(ctx, key, purpose)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCode
	}
	if err != nil {
		return nil, err
	}

	if rec.Expired(r.now()) || !r.hasher.Verify(code, rec.CodeHash) {
		return nil, ErrInvalidCode
	}

	if err := r.store.MarkUsed(ctx, rec); err != nil {
		if errors.Is(err, ErrAlreadyUsed) || errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, err
	}

	rec.Used = true
	return rec, nil
}
