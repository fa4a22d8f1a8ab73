package account

import (
	"time"

	"github.com/cihwallet/wallet-api/internal/pkg/money"
)

type PrecreateRequest struct {
	Phone     string `json:"phone_number" validate:"required,phone"`
	Operator  string `json:"phone_operator" validate:"max=50"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Email     string `json:"email" validate:"omitempty,email"`
	LegalType string `json:"legal_type" validate:"max=20"`
	LegalID   string `json:"legal_id" validate:"max=50"`
}

type ActivateRequest struct {
	Token string `json:"token" validate:"required"`
	Code  string `json:"otp" validate:"required,otp"`
}

type CreateMerchantRequest struct {
	Phone       string `json:"phone_number" validate:"required,phone"`
	CompanyName string `json:"company_name" validate:"required,max=200"`
	FirstName   string `json:"first_name" validate:"max=100"`
	LastName    string `json:"last_name" validate:"max=100"`
	MCC         string `json:"mcc" validate:"max=10"`
}

type ClientInfoRequest struct {
	Phone string `json:"phone_number" validate:"required,phone"`
}

type PrecreateResponse struct {
	Token string `json:"token"`
	Phone string `json:"phone_number"`
	Code  string `json:"otp,omitempty"`
}

type WalletResponse struct {
	ContractID string    `json:"contract_id"`
	Type       string    `json:"type"`
	Phone      string    `json:"phone_number"`
	Name       string    `json:"name"`
	RIB        string    `json:"rib,omitempty"`
	Level      string    `json:"level"`
	Status     string    `json:"status"`
	Balance    string    `json:"balance"`
	CreatedAt  time.Time `json:"created_at"`
}

func WalletResponseFrom(w *Wallet) WalletResponse {
	return WalletResponse{
		ContractID: w.ContractID,
		Type:       string(w.Type),
		Phone:      w.Phone,
		Name:       w.DisplayName(),
		RIB:        w.RIB,
		Level:      w.Level,
		Status:     string(w.Status),
		Balance:    money.Format(w.Balance),
		CreatedAt:  w.CreatedAt,
	}
}

type ClientInfoResponse struct {
	UserID       string           `json:"user_id"`
	Phone        string           `json:"phone_number"`
	FirstName    string           `json:"first_name"`
	LastName     string           `json:"last_name"`
	Email        string           `json:"email,omitempty"`
	TierID       string           `json:"tier_id,omitempty"`
	TotalBalance string           `json:"total_balance"`
	Wallets      []WalletResponse `json:"wallets"`
}

func ClientInfoResponseFrom(info *ClientInfo) ClientInfoResponse {
	resp := ClientInfoResponse{
		UserID:       info.User.ID.String(),
		Phone:        info.User.Phone,
		FirstName:    info.User.FirstName,
		LastName:     info.User.LastName,
		Email:        info.User.Email,
		TierID:       info.User.TierID,
		TotalBalance: money.Format(info.TotalBalance),
		Wallets:      make([]WalletResponse, 0, len(info.Wallets)),
	}
	for _, w := range info.Wallets {
		resp.Wallets = append(resp.Wallets, WalletResponseFrom(w))
	}
	return resp
}
