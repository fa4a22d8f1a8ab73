package creditscore

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cihwallet/wallet-api/internal/domain/account"
	"github.com/cihwallet/wallet-api/internal/pkg/errorhandler"
	"github.com/cihwallet/wallet-api/internal/pkg/money"
	"github.com/cihwallet/wallet-api/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type EligibilityResponse struct {
	CreditCard   bool   `json:"credit_card"`
	PersonalLoan bool   `json:"personal_loan"`
	BNPLLimit    string `json:"bnpl_limit"`
}

type ScoreResponse struct {
	Phone       string              `json:"phone_number"`
	Score       int                 `json:"score"`
	Grade       string              `json:"grade"`
	Factors     Factors             `json:"factors"`
	Insights    []string            `json:"insights"`
	Eligibility EligibilityResponse `json:"eligible"`
}

var errorRules = []errorhandler.Rule{
	{Err: account.ErrNotFound, Status: http.StatusNotFound, Code: response.CodeNotFound},
}

// GetCreditScore handles GET /credit-score/{phone}
func (h *Handler) GetCreditScore(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.GetCreditScore(r.Context(), chi.URLParam(r, "phone"))
	if err != nil {
		errorhandler.HandleDomainError(r.Context(), w, err, errorRules)
		return
	}

	response.OK(w, ScoreResponse{
		Phone:    report.Phone,
		Score:    report.Score,
		Grade:    report.Grade,
		Factors:  report.Factors,
		Insights: report.Insights,
		Eligibility: EligibilityResponse{
			CreditCard:   report.Eligibility.CreditCard,
			PersonalLoan: report.Eligibility.PersonalLoan,
			BNPLLimit:    money.Format(report.Eligibility.BNPLLimit),
		},
	})
}
