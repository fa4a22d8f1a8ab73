package bnpl

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the plan router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/plans", h.CreatePlan)
	r.Get("/plans/{planID}", h.GetPlan)
	r.Post("/plans/{planID}/pay", h.PayInstallment)
	r.Get("/users/{userID}/plans", h.ListByUser)
	return r
}
