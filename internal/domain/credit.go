package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditStatus is the settlement state of a user's credit
type CreditStatus string

const (
	CreditPayed  CreditStatus = "PAYED"
	CreditUnpaid CreditStatus = "UNPAID"
)

// Credit Model
type Credit struct {
	ID            uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	OwnerID       uuid.UUID       `gorm:"type:char(36);uniqueIndex;not null" json:"owner_id"`
	Status        CreditStatus    `gorm:"type:varchar(16);not null" json:"status"`
	Amount        decimal.Decimal `gorm:"type:decimal(19,2);not null" json:"amount"`
	PaidOn        *time.Time      `json:"paid_on,omitempty"`
	NextPaymentOn *time.Time      `gorm:"type:date" json:"next_payment_on,omitempty"`
}

// NewCredit creates a settled, empty credit due on the first day of next month
func NewCredit(ownerID uuid.UUID, now time.Time) *Credit {
	next := FirstDayOfNextMonth(now)
	return &Credit{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Status:        CreditPayed,
		Amount:        decimal.Zero,
		NextPaymentOn: &next,
	}
}

// IsDue reports whether the payment date has been reached for the cycle that starts at cycleStart
func (c *Credit) IsDue(cycleStart time.Time) bool {
	return c.NextPaymentOn != nil && !c.NextPaymentOn.After(cycleStart)
}

// FirstDayOfMonth returns midnight of the first day of t's month
func FirstDayOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// FirstDayOfNextMonth returns midnight of the first day of the month after t
func FirstDayOfNextMonth(t time.Time) time.Time {
	return FirstDayOfMonth(t).AddDate(0, 1, 0)
}
