package bnpl

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cihwallet/wallet-api/internal/domain/account"
	"github.com/cihwallet/wallet-api/internal/pkg/errorhandler"
	"github.com/cihwallet/wallet-api/internal/pkg/money"
	"github.com/cihwallet/wallet-api/internal/pkg/response"
	"github.com/cihwallet/wallet-api/internal/pkg/validator"
)

type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

var errorRules = []errorhandler.Rule{
	{Err: ErrNotFound, Status: http.StatusNotFound, Code: response.CodeNotFound},
	{Err: ErrNotActive, Status: http.StatusConflict, Code: response.CodeNotActive},
	{Err: ErrInvalidAmount, Status: http.StatusBadRequest, Code: response.CodeInvalidAmount},
	{Err: account.ErrInsufficientFunds, Status: http.StatusConflict, Code: response.CodeInsufficientFunds},
	{Err: account.ErrNotFound, Status: http.StatusNotFound, Code: response.CodeNotFound},
}

// CreatePlan handles POST /bnpl/plans
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req CreatePlanRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.BadRequest(w, "invalid user id")
		return
	}
	amount, err := money.ParsePositive(req.TotalAmount)
	if err != nil {
		response.Error(w, http.StatusBadRequest, response.CodeInvalidAmount, err.Error())
		return
	}

	plan, err := h.manager.CreatePlan(r.Context(), userID, req.StoreID, amount)
	if err != nil {
		errorhandler.HandleDomainError(r.Context(), w, err, errorRules)
		return
	}

	response.Created(w, PlanResponseFrom(plan))
}

// ListByUser handles GET /bnpl/users/{userID}/plans
func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		response.BadRequest(w, "invalid user id")
		return
	}

	plans, err := h.manager.ListByUser(r.Context(), userID)
	if err != nil {
		errorhandler.HandleDomainError(r.Context(), w, err, errorRules)
		return
	}

	items := make([]PlanResponse, 0, len(plans))
	for _, p := range plans {
		items = append(items, PlanResponseFrom(p))
	}
	response.OK(w, items)
}

// GetPlan handles GET /bnpl/plans/{planID}
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.manager.GetPlan(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		errorhandler.HandleDomainError(r.Context(), w, err, errorRules)
		return
	}
	response.OK(w, PlanResponseFrom(plan))
}

// PayInstallment handles POST /bnpl/plans/{planID}/pay
func (h *Handler) PayInstallment(w http.ResponseWriter, r *http.Request) {
	plan, err := h.manager.PayInstallment(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		errorhandler.HandleDomainError(r.Context(), w, err, errorRules)
		return
	}
	response.OK(w, PlanResponseFrom(plan))
}
