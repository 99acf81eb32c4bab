package models

import (
	"time"

	"github.com/google/uuid"
)

// Wallet holds a user's balance. One wallet per user, never deleted. The
// balance is mutated only by the ledger services while the row is held
// under an exclusive lock.
type Wallet struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	WalletNumber string    `json:"wallet_number"` // 10 digits, globally unique
	Balance      int64     `json:"balance"`       // kobo
	CreatedAt    time.Time `json:"created_at"`
}

// Transaction is one immutable row of the ledger's audit trail. The
// reference is globally unique; a transfer produces two rows sharing a
// reference prefix with distinct _DEBIT/_CREDIT suffixes.
type Transaction struct {
	ID        uuid.UUID         `json:"id"`
	WalletID  uuid.UUID         `json:"wallet_id"`
	Type      string            `json:"type"`   // DEPOSIT, TRANSFER, WITHDRAWAL
	Amount    int64             `json:"amount"` // kobo, always positive
	Status    string            `json:"status"` // PENDING, SUCCESS, FAILED
	Reference string            `json:"reference"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Page is one page of a wallet's transaction history, newest first.
type Page struct {
	Items    []Transaction `json:"items"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Total    int64         `json:"total"`
}
