package otp

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Notifier delivers a freshly issued code to the phone owner.
type Notifier interface {
	Deliver(ctx context.Context, phone string, purpose Purpose, code string) error
}

// LogNotifier stands in for an SMS gateway.
type LogNotifier struct {
	RevealCode bool
}

func (n LogNotifier) Deliver(_ context.Context, phone string, purpose Purpose, code string) error {
	event := log.Info().Str("phone", phone).Str("purpose", string(purpose))
	if n.RevealCode {
		event = event.Str("code", code)
	}
	event.Msg("otp delivered")
	return nil
}
