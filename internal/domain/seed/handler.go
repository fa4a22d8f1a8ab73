package seed

import (
	"context"
	"net/http"

	"github.com/cihwallet/wallet-api/internal/domain/account"
	"github.com/cihwallet/wallet-api/internal/pkg/errorhandler"
	"github.com/cihwallet/wallet-api/internal/pkg/money"
	"github.com/cihwallet/wallet-api/internal/pkg/response"
)

// Directory lists wallets for the demo endpoints.
type Directory interface {
	ListWalletsByType(ctx context.Context, walletType account.WalletType) ([]*account.Wallet, error)
}

type Handler struct {
	wallets Directory
}

func NewHandler(wallets Directory) *Handler {
	return &Handler{wallets: wallets}
}

type WalletResponse struct {
	ContractID string `json:"contract_id"`
	Phone      string `json:"phone_number"`
	Name       string `json:"name"`
	Balance    string `json:"balance"`
	Status     string `json:"status"`
	MCC        string `json:"mcc,omitempty"`
}

func WalletResponseFrom(w *account.Wallet) WalletResponse {
	return WalletResponse{
		ContractID: w.ContractID,
		Phone:      w.Phone,
		Name:       w.DisplayName(),
		Balance:    money.Format(w.Balance),
		Status:     string(w.Status),
		MCC:        w.MCC,
	}
}

// Users handles GET /demo/users
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, account.WalletTypeCustomer, "users")
}

// Merchants handles GET /demo/merchants
func (h *Handler) Merchants(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, account.WalletTypeMerchant, "merchants")
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, walletType account.WalletType, key string) {
	wallets, err := h.wallets.ListWalletsByType(r.Context(), walletType)
	if err != nil {
		errorhandler.HandleDomainError(r.Context(), w, err, nil)
		return
	}

	items := make([]WalletResponse, 0, len(wallets))
	for _, wl := range wallets {
		items = append(items, WalletResponseFrom(wl))
	}
	response.OK(w, map[string]interface{}{key: items})
}
