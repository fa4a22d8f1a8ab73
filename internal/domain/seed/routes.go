package seed

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the demo router. purchase serves POST /purchase.
func (h *Handler) Routes(purchase http.HandlerFunc) chi.Router {
	r := chi.NewRouter()
	r.Get("/users", h.Users)
	r.Get("/merchants", h.Merchants)
	r.Post("/purchase", purchase)
	return r
}
