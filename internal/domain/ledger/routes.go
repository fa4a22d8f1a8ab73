package ledger

import (
	"github.com/go-chi/chi/v5"
)

// OperationRoutes returns the simulate/confirm router.
func (h *Handler) OperationRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/{kind}/simulate", h.Simulate)
	r.Post("/confirm", h.Confirm)
	return r
}
