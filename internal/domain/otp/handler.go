package otp

import (
	"net/http"

	"github.com/cihwallet/wallet-api/internal/pkg/errorhandler"
	"github.com/cihwallet/wallet-api/internal/pkg/response"
	"github.com/cihwallet/wallet-api/internal/pkg/validator"
)

type Handler struct {
	registry *Registry
	echo     bool
}

// NewHandler builds the OTP handler. With echo set the code is returned in the
// response body, for demo deployments without an SMS gateway.
func NewHandler(registry *Registry, echo bool) *Handler {
	return &Handler{registry: registry, echo: echo}
}

type IssueRequest struct {
	Phone   string `json:"phone" validate:"required,phone"`
	Purpose string `json:"purpose" validate:"required"`
}

type IssueResponse struct {
	Phone   string `json:"phone"`
	Purpose string `json:"purpose"`
	Code    string `json:"otp,omitempty"`
}

func (h *Handler) Issue(w http.ResponseWriter, r *http.Request) {
	var req IssueRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	code, err := h.registry.Issue(r.Context(), req.Phone, Purpose(req.Purpose))
	if err != nil {
		errorhandler.HandleDomainError(r.Context(), w, err, []errorhandler.Rule{
			{Err: ErrInvalidPurpose, Status: http.StatusBadRequest, Code: response.CodeBadRequest},
			{Err: ErrInvalidKey, Status: http.StatusBadRequest, Code: response.CodeBadRequest},
		})
		return
	}

	resp := IssueResponse{Phone: req.Phone, Purpose: req.Purpose}
	if h.echo {
		resp.Code = code
	}
	response.Created(w, resp)
}
