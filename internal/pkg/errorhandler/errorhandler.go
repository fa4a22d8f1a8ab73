package errorhandler

import (
	"context"
	"errors"
	"net/http"

	"github.com/cihwallet/wallet-api/internal/pkg/logger"
	"github.com/cihwallet/wallet-api/internal/pkg/response"
)

// Rule maps a sentinel error to an HTTP status and envelope code.
type Rule struct {
	Err    error
	Status int
	Code   string
}

// HandleError logs the failure and writes the error envelope.
func HandleError(ctx context.Context, w http.ResponseWriter, status int, code, message string, err error) {
	event := logger.FromContext(ctx).Error()
	if status < http.StatusInternalServerError {
		event = logger.FromContext(ctx).Warn()
	}
	event.
		Str("error_code", code).
		Int("status_code", status).
		Err(err).
		Msg(message)

	response.Error(w, status, code, message)
}

// HandleDomainError writes the first matching rule for err, or a 500.
func HandleDomainError(ctx context.Context, w http.ResponseWriter, err error, rules []Rule) {
	for _, rule := range rules {
		if errors.Is(err, rule.Err) {
			HandleError(ctx, w, rule.Status, rule.Code, rule.Err.Error(), err)
			return
		}
	}

	logger.FromContext(ctx).Error().Err(err).Msg("unhandled error")
	response.InternalError(w)
}

// HandlePanic logs a recovered panic and writes a 500.
func HandlePanic(ctx context.Context, w http.ResponseWriter, recovered interface{}, stack string) {
	logger.FromContext(ctx).Error().
		Interface("panic", recovered).
		Str("stack", stack).
		Msg("request panic")

	response.InternalError(w)
}

// LogValidationError logs validation errors with details
func LogValidationError(ctx context.Context, fieldErrors map[string]string) {
	logger.FromContext(ctx).Warn().
		Interface("validation_errors", fieldErrors).
		Msg("validation error")
}
