package borrow

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cihwallet/wallet-api/internal/domain/ledger"
	"github.com/cihwallet/wallet-api/internal/pkg/errorhandler"
	"github.com/cihwallet/wallet-api/internal/pkg/money"
	"github.com/cihwallet/wallet-api/internal/pkg/response"
	"github.com/cihwallet/wallet-api/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

var errorRules = append([]errorhandler.Rule{
	{Err: ErrNotFound, Status: http.StatusNotFound, Code: response.CodeNotFound},
	{Err: ErrNotPending, Status: http.StatusConflict, Code: response.CodeConflict},
	{Err: ErrNotRecipient, Status: http.StatusForbidden, Code: response.CodeForbidden},
	{Err: ErrInvalidAmount, Status: http.StatusBadRequest, Code: response.CodeInvalidAmount},
	{Err: ErrSameParty, Status: http.StatusBadRequest, Code: response.CodeBadRequest},
}, ledger.ErrorRules...)

// Create handles POST /borrow/requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	amount, err := money.ParsePositive(req.Amount)
	if err != nil {
		response.Error(w, http.StatusBadRequest, response.CodeInvalidAmount, err.Error())
		return
	}

	created, err := h.svc.Request(r.Context(), NewRequest{
		FromPhone: req.FromPhone,
		FromName:  req.FromName,
		ToPhone:   req.ToPhone,
		Amount:    amount,
		Note:      req.Note,
	})
	if err != nil {
		errorhandler.HandleDomainError(r.Context(), w, err, errorRules)
		return
	}

	response.Created(w, RequestResponseFrom(created))
}

// Pending handles GET /borrow/pending?phone=
func (h *Handler) Pending(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		response.BadRequest(w, "phone is required")
		return
	}

	reqs, err := h.svc.Pending(r.Context(), phone)
	if err != nil {
		errorhandler.HandleDomainError(r.Context(), w, err, errorRules)
		return
	}

	resp := PendingResponse{Count: len(reqs), Requests: make([]RequestResponse, 0, len(reqs))}
	for _, req := range reqs {
		resp.Requests = append(resp.Requests, RequestResponseFrom(req))
	}
	response.OK(w, resp)
}

// Respond handles POST /borrow/requests/{id}/respond
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	var req RespondRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	answered, receipt, err := h.svc.Respond(r.Context(), chi.URLParam(r, "id"), req.Action == "accept", req.ResponderPhone)
	if err != nil {
		errorhandler.HandleDomainError(r.Context(), w, err, errorRules)
		return
	}

	resp := RespondResponse{Request: RequestResponseFrom(answered)}
	if receipt != nil {
		resp.NewBalance = money.Format(receipt.NewBalance)
	}
	response.OK(w, resp)
}

// Debts handles GET /debts?phone=
func (h *Handler) Debts(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		response.BadRequest(w, "phone is required")
		return
	}

	debts, err := h.svc.Debts(r.Context(), phone)
	if err != nil {
		errorhandler.HandleDomainError(r.Context(), w, err, errorRules)
		return
	}
	response.OK(w, DebtsResponseFrom(debts))
}
