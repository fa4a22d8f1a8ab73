package ledger

import (
	"net/http"

	"github.com/go-chi/chi/v5"

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

// ErrorRules maps ledger errors to HTTP responses. Order matters: an already
// consumed token also matches the operation not-found error.
var ErrorRules = []errorhandler.Rule{
	{Err: ErrAlreadyConsumed, Status: http.StatusConflict, Code: response.CodeAlreadyConsumed},
	{Err: ErrOperationNotFound, Status: http.StatusNotFound, Code: response.CodeNotFound},
	{Err: ErrNotFound, Status: http.StatusNotFound, Code: response.CodeNotFound},
	{Err: ErrInsufficientFunds, Status: http.StatusConflict, Code: response.CodeInsufficientFunds},
	{Err: ErrInvalidCode, Status: http.StatusBadRequest, Code: response.CodeInvalidCode},
	{Err: ErrInvalidAmount, Status: http.StatusBadRequest, Code: response.CodeInvalidAmount},
	{Err: ErrBalanceOverflow, Status: http.StatusBadRequest, Code: response.CodeInvalidAmount},
	{Err: ErrNotActive, Status: http.StatusConflict, Code: response.CodeNotActive},
	{Err: ErrUnknownKind, Status: http.StatusBadRequest, Code: response.CodeBadRequest},
	{Err: ErrMissingCounterparty, Status: http.StatusBadRequest, Code: response.CodeBadRequest},
	{Err: ErrSameAccount, Status: http.StatusBadRequest, Code: response.CodeBadRequest},
	{Err: ErrWrongWalletType, Status: http.StatusBadRequest, Code: response.CodeBadRequest},
}

// Simulate handles POST /operations/{kind}/simulate
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	kind, ok := ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		response.BadRequest(w, "unknown operation kind")
		return
	}

	var req SimulateRequestDTO
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

	quote, err := h.svc.Simulate(r.Context(), SimulateRequest{
		Kind:             kind,
		SourceContractID: req.SourceContractID,
		SourcePhone:      req.SourcePhone,
		DestinationPhone: req.DestinationPhone,
		Amount:           amount,
		Note:             req.Note,
		Category:         req.Category,
	})
	if err != nil {
		errorhandler.HandleDomainError(r.Context(), w, err, ErrorRules)
		return
	}

	response.OK(w, QuoteResponseFrom(quote))
}

// Confirm handles POST /operations/confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequestDTO
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	receipt, err := h.svc.Confirm(r.Context(), req.Token, req.Code)
	if err != nil {
		errorhandler.HandleDomainError(r.Context(), w, err, ErrorRules)
		return
	}

	response.OK(w, ReceiptResponseFrom(receipt))
}

// Balance handles GET /wallets/{contractID}/balance
func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	contractID := chi.URLParam(r, "contractID")

	balance, err := h.svc.GetBalance(r.Context(), contractID)
	if err != nil {
		errorhandler.HandleDomainError(r.Context(), w, err, ErrorRules)
		return
	}

	response.OK(w, BalanceResponse{
		ContractID: contractID,
		Balance:    money.Format(balance),
		Currency:   h.svc.currency,
	})
}

// Transactions handles GET /wallets/{contractID}/transactions
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	contractID := chi.URLParam(r, "contractID")

	txs, err := h.svc.ListTransactions(r.Context(), contractID)
	if err != nil {
		errorhandler.HandleDomainError(r.Context(), w, err, ErrorRules)
		return
	}

	items := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		items = append(items, TransactionResponseFrom(tx, contractID))
	}
	response.OK(w, items)
}

// Spending handles GET /analytics/{contractID}/spending
func (h *Handler) Spending(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.SpendingByCategory(r.Context(), chi.URLParam(r, "contractID"))
	if err != nil {
		errorhandler.HandleDomainError(r.Context(), w, err, ErrorRules)
		return
	}
	response.OK(w, SpendingResponseFrom(report))
}

// TransactionSummary handles GET /analytics/{contractID}/transactions
func (h *Handler) TransactionSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.CategorySummary(r.Context(), chi.URLParam(r, "contractID"))
	if err != nil {
		errorhandler.HandleDomainError(r.Context(), w, err, ErrorRules)
		return
	}
	response.OK(w, TransactionSummaryResponseFrom(summary))
}

// Purchase handles POST /demo/purchase
func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req PurchaseRequestDTO
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

	receipt, err := h.svc.Purchase(r.Context(), PurchaseRequest{
		ContractID:   req.ContractID,
		Amount:       amount,
		MerchantName: req.MerchantName,
		Category:     req.Category,
		Note:         req.Note,
	})
	if err != nil {
		errorhandler.HandleDomainError(r.Context(), w, err, ErrorRules)
		return
	}

	response.OK(w, ReceiptResponseFrom(receipt))
}
