package account

import (
	"github.com/go-chi/chi/v5"
)

// MerchantRoutes returns the merchant onboarding router.
func (h *Handler) MerchantRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateMerchant)
	r.Post("/activate", h.ActivateMerchant)
	return r
}
