package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

type Account struct {
	ID        string    `db:"id" json:"id"`
	Currency  string    `db:"currency" json:"currency"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Balance is the mutable money state for exactly one account. It is only
// ever changed through Debit and Credit; durability is the caller's
// transaction's problem.
type Balance struct {
	ID        string          `db:"id" json:"id"`
	AccountID string          `db:"account_id" json:"account_id"`
	Available decimal.Decimal `db:"available" json:"available"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// Debit subtracts amount from the available balance. The balance is left
// untouched when funds are insufficient.
func (b *Balance) Debit(amount decimal.Decimal) error {
	if b.Available.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	b.Available = b.Available.Sub(amount)
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// Credit adds amount to the available balance. Amounts are validated
// positive before they reach this point, so there is no failure mode.
func (b *Balance) Credit(amount decimal.Decimal) {
	b.Available = b.Available.Add(amount)
	b.UpdatedAt = time.Now().UTC()
}

type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferCompleted TransferStatus = "completed"
	TransferFailed    TransferStatus = "failed"
	TransferCancelled TransferStatus = "cancelled"
)

type Transfer struct {
	ID             string          `db:"id" json:"id"`
	FromAccountID  string          `db:"from_account_id" json:"from_account_id"`
	ToAccountID    string          `db:"to_account_id" json:"to_account_id"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	Currency       string          `db:"currency" json:"currency"`
	Status         TransferStatus  `db:"status" json:"status"`
	IdempotencyKey string          `db:"idempotency_key" json:"idempotency_key"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}
