package account

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type WalletType string

const (
	WalletTypeCustomer WalletType = "customer"
	WalletTypeMerchant WalletType = "merchant"
)

type WalletStatus string

const (
	WalletStatusActive            WalletStatus = "active"
	WalletStatusPendingActivation WalletStatus = "pending_activation"
)

type User struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Phone     string    `db:"phone" json:"phone"`
	Operator  string    `db:"operator" json:"operator,omitempty"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     string    `db:"email" json:"email,omitempty"`
	LegalType string    `db:"legal_type" json:"legal_type,omitempty"`
	LegalID   string    `db:"legal_id" json:"legal_id,omitempty"`
	TierID    string    `db:"tier_id" json:"tier_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Wallet is a balance-holding account. Merchants are wallets of type merchant
// with no owning user.
type Wallet struct {
	ContractID  string       `json:"contract_id"`
	UserID      *uuid.UUID   `json:"user_id,omitempty"`
	Type        WalletType   `json:"type"`
	Phone       string       `json:"phone"`
	RIB         string       `json:"rib,omitempty"`
	CompanyName string       `json:"company_name,omitempty"`
	FirstName   string       `json:"first_name,omitempty"`
	LastName    string       `json:"last_name,omitempty"`
	Balance     int64        `json:"balance"`
	Level       string       `json:"level,omitempty"`
	Status      WalletStatus `json:"status"`
	MCC         string       `json:"mcc,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

func (w *Wallet) DisplayName() string {
	if w.CompanyName != "" {
		return w.CompanyName
	}
	return strings.TrimSpace(w.FirstName + " " + w.LastName)
}

// Posting is one balance leg of an atomic multi-wallet update.
type Posting struct {
	ContractID string
	Delta      int64
}
