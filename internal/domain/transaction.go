package domain

import (
	"time" // Timestamps

	"github.com/google/uuid"        // UUID primary keys
	"github.com/shopspring/decimal" // Exact money arithmetic
)

// SystemSender labels money entering or leaving the system itself
const SystemSender = "Trusty Wallet"

// TransactionType is the direction of money for the owner
type TransactionType string

const (
	TransactionDeposit    TransactionType = "DEPOSIT"
	TransactionWithdrawal TransactionType = "WITHDRAWAL"
)

// TransactionStatus is the outcome of a balance-affecting operation
type TransactionStatus string

const (
	TransactionSucceeded TransactionStatus = "SUCCEEDED"
	TransactionFailed    TransactionStatus = "FAILED"
)

// TransactionTypeStatus separates the initiator's entry from the counter-party's mirror entry
type TransactionTypeStatus string

const (
	TransactionMain      TransactionTypeStatus = "MAIN"
	TransactionSecondary TransactionTypeStatus = "SECONDARY"
)

// Transaction Model, append-only
type Transaction struct {
	ID            uuid.UUID             `gorm:"type:char(36);primaryKey" json:"id"`              // Primary key
	OwnerID       uuid.UUID             `gorm:"type:char(36);index;not null" json:"owner_id"`    // User the entry belongs to
	WalletID      *uuid.UUID            `gorm:"type:char(36);index" json:"wallet_id"`            // Wallet whose balance is recorded
	Sender        string                `gorm:"not null" json:"sender"`                          // Sender label
	Receiver      string                `gorm:"not null" json:"receiver"`                        // Receiver label
	Amount        decimal.Decimal       `gorm:"type:decimal(19,2);not null" json:"amount"`       // Requested amount
	BalanceLeft   decimal.Decimal       `gorm:"type:decimal(19,2);not null" json:"balance_left"` // Wallet balance after the operation
	Type          TransactionType       `gorm:"type:varchar(16);not null" json:"type"`           // DEPOSIT or WITHDRAWAL
	Status        TransactionStatus     `gorm:"type:varchar(16);not null" json:"status"`         // SUCCEEDED or FAILED
	TypeStatus    TransactionTypeStatus `gorm:"type:varchar(16);not null" json:"type_status"`    // MAIN or SECONDARY
	Description   string                `gorm:"not null" json:"description"`                     // Human readable summary
	FailureReason string                `gorm:"not null;default:''" json:"failure_reason"`       // Empty unless FAILED
	CreatedAt     time.Time             `gorm:"index;not null" json:"created_at"`                // Creation time
}

// Succeeded reports whether the transaction changed a balance
func (t *Transaction) Succeeded() bool {
	return t.Status == TransactionSucceeded
}
