package domain

import (
	"time" // Timestamps

	"github.com/google/uuid"        // UUID primary keys
	"github.com/shopspring/decimal" // Exact money arithmetic
)

// WalletType distinguishes the wallets provisioned for every user
type WalletType string

const (
	WalletDefault WalletType = "DEFAULT"
	WalletSaving  WalletType = "SAVING"
	WalletPayable WalletType = "PAYABLE"
)

// WalletStatus tells whether a wallet can be charged or debited
type WalletStatus string

const (
	WalletActive   WalletStatus = "ACTIVE"
	WalletInactive WalletStatus = "INACTIVE"
)

// Wallet Model
type Wallet struct {
	ID        uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`           // Primary key
	OwnerID   uuid.UUID       `gorm:"type:char(36);index;not null" json:"owner_id"` // Foreign key to User
	Balance   decimal.Decimal `gorm:"type:decimal(19,2);not null" json:"balance"`   // Never negative
	Type      WalletType      `gorm:"type:varchar(16);not null" json:"type"`        // DEFAULT, SAVING or PAYABLE
	Status    WalletStatus    `gorm:"type:varchar(16);not null" json:"status"`      // ACTIVE or INACTIVE
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`                   // Creation time
	UpdatedAt time.Time       `gorm:"not null" json:"updated_at"`                   // Last balance or status change
}

// MoneyScale is the number of decimal places stored for money columns
const MoneyScale = 2

// ValidAmount reports whether amount is positive and needs no more than
// MoneyScale decimal places
func ValidAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.Equal(amount.Truncate(MoneyScale))
}

// WalletSeed describes one wallet provisioned at registration
type WalletSeed struct {
	Type    WalletType
	Balance decimal.Decimal
	Status  WalletStatus
}

// DefaultWalletSeeds is the wallet set every new user receives
var DefaultWalletSeeds = []WalletSeed{
	{Type: WalletDefault, Balance: decimal.NewFromInt(10), Status: WalletActive},
	{Type: WalletSaving, Balance: decimal.Zero, Status: WalletInactive},
	{Type: WalletPayable, Balance: decimal.Zero, Status: WalletInactive},
}

// NewWallet builds a wallet for owner from a seed
func NewWallet(ownerID uuid.UUID, seed WalletSeed, now time.Time) Wallet {
	return Wallet{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Balance:   seed.Balance,
		Type:      seed.Type,
		Status:    seed.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsActive reports whether the wallet accepts balance changes
func (w *Wallet) IsActive() bool {
	return w.Status == WalletActive
}

// CanDebit reports whether amount can be taken from the wallet
func (w *Wallet) CanDebit(amount decimal.Decimal) bool {
	return w.IsActive() && w.Balance.GreaterThanOrEqual(amount)
}

// ToggleStatus flips ACTIVE and INACTIVE
func (w *Wallet) ToggleStatus(now time.Time) {
	if w.Status == WalletActive {
		w.Status = WalletInactive
	} else {
		w.Status = WalletActive
	}
	w.UpdatedAt = now
}
