package borrow

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/requests", h.Create)
	r.Post("/requests/{id}/respond", h.Respond)
	r.Get("/pending", h.Pending)
	return r
}
