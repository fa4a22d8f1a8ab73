package account

import (
	"net/http"

	"github.com/cihwallet/wallet-api/internal/domain/otp"
	"github.com/cihwallet/wallet-api/internal/pkg/errorhandler"
	"github.com/cihwallet/wallet-api/internal/pkg/response"
	"github.com/cihwallet/wallet-api/internal/pkg/validator"
)

type Handler struct {
	svc      *Service
	echoCode bool
}

func NewHandler(svc *Service, echoCode bool) *Handler {
	return &Handler{svc: svc, echoCode: echoCode}
}

var errorRules = []errorhandler.Rule{
	{Err: ErrNotFound, Status: http.StatusNotFound, Code: response.CodeNotFound},
	{Err: ErrAlreadyExists, Status: http.StatusConflict, Code: response.CodeConflict},
	{Err: ErrInvalidWallet, Status: http.StatusBadRequest, Code: response.CodeBadRequest},
	{Err: otp.ErrInvalidCode, Status: http.StatusBadRequest, Code: response.CodeInvalidCode},
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := response.DecodeJSON(r.Body, dst); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return false
	}
	if errs := validator.Validate(dst); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return false
	}
	return true
}

func (h *Handler) precreateResponse(p *Precreation) PrecreateResponse {
	resp := PrecreateResponse{Token: p.Token, Phone: p.Phone}
	if h.echoCode {
		resp.Code = p.Code
	}
	return resp
}

// Precreate handles POST /wallets/precreate
func (h *Handler) Precreate(w http.ResponseWriter, r *http.Request) {
	var req PrecreateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p, err := h.svc.Register(r.Context(), CustomerProfile{
		Phone:     req.Phone,
		Operator:  req.Operator,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		LegalType: req.LegalType,
		LegalID:   req.LegalID,
	})
	if err != nil {
		errorhandler.HandleDomainError(r.Context(), w, err, errorRules)
		return
	}

	response.Created(w, h.precreateResponse(p))
}

// Activate handles POST /wallets/activate
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	var req ActivateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	wallet, err := h.svc.Activate(r.Context(), req.Token, req.Code)
	if err != nil {
		errorhandler.HandleDomainError(r.Context(), w, err, errorRules)
		return
	}

	response.Created(w, WalletResponseFrom(wallet))
}

// ClientInfo handles POST /wallets/clientinfo
func (h *Handler) ClientInfo(w http.ResponseWriter, r *http.Request) {
	var req ClientInfoRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	info, err := h.svc.ClientInfo(r.Context(), req.Phone)
	if err != nil {
		errorhandler.HandleDomainError(r.Context(), w, err, errorRules)
		return
	}

	response.OK(w, ClientInfoResponseFrom(info))
}

// CreateMerchant handles POST /merchants
func (h *Handler) CreateMerchant(w http.ResponseWriter, r *http.Request) {
	var req CreateMerchantRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p, err := h.svc.CreateMerchant(r.Context(), MerchantProfile{
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		MCC:         req.MCC,
	})
	if err != nil {
		errorhandler.HandleDomainError(r.Context(), w, err, errorRules)
		return
	}

	response.Created(w, h.precreateResponse(p))
}

// ActivateMerchant handles POST /merchants/activate
func (h *Handler) ActivateMerchant(w http.ResponseWriter, r *http.Request) {
	var req ActivateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	wallet, err := h.svc.ActivateMerchant(r.Context(), req.Token, req.Code)
	if err != nil {
		errorhandler.HandleDomainError(r.Context(), w, err, errorRules)
		return
	}

	response.Created(w, WalletResponseFrom(wallet))
}
