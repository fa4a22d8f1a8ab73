package borrow

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

// Request asks ToPhone to lend Amount to FromPhone.
type Request struct {
	ID        string    `db:"id"`
	FromPhone string    `db:"from_phone"`
	FromName  string    `db:"from_name"`
	ToPhone   string    `db:"to_phone"`
	ToName    string    `db:"to_name"`
	Amount    int64     `db:"amount"`
	Note      string    `db:"note"`
	Status    Status    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Debt is an accepted request seen from one side.
type Debt struct {
	RequestID    string
	Counterparty string
	Phone        string
	Amount       int64
	Date         time.Time
}

type Debts struct {
	OwedToMe      []Debt
	IOwe          []Debt
	TotalOwedToMe int64
	TotalIOwe     int64
}
