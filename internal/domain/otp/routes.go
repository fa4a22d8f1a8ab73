package otp

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Issue)
	return r
}
