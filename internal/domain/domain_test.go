package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalendarHelpers(t *testing.T) {
	tests := []struct {
		in        time.Time
		first     string
		nextFirst string
	}{
		{time.Date(2024, 1, 15, 12, 30, 0, 0, time.UTC), "2024-01-01", "2024-02-01"},
		{time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), "2024-12-01", "2025-01-01"},
		{time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "2024-02-01", "2024-03-01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.first, FirstDayOfMonth(tt.in).Format(time.DateOnly))
		assert.Equal(t, tt.nextFirst, FirstDayOfNextMonth(tt.in).Format(time.DateOnly))
	}
}

func TestNewCredit(t *testing.T) {
	owner := uuid.New()
	c := NewCredit(owner, time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, owner, c.OwnerID)
	assert.Equal(t, CreditPayed, c.Status)
	assert.True(t, c.Amount.IsZero())
	assert.Nil(t, c.PaidOn)
	assert.Equal(t, "2024-06-01", c.NextPaymentOn.Format(time.DateOnly))
}

func TestCreditIsDue(t *testing.T) {
	c := NewCredit(uuid.New(), time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC))

	assert.False(t, c.IsDue(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, c.IsDue(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, c.IsDue(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)))

	c.NextPaymentOn = nil
	assert.False(t, c.IsDue(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)))
}

func TestWalletDebitRules(t *testing.T) {
	w := NewWallet(uuid.New(), DefaultWalletSeeds[0], time.Now())

	assert.True(t, w.CanDebit(decimal.NewFromInt(10)))
	assert.False(t, w.CanDebit(decimal.RequireFromString("10.01")))

	w.ToggleStatus(time.Now())
	assert.Equal(t, WalletInactive, w.Status)
	assert.False(t, w.CanDebit(decimal.NewFromInt(1)))
	w.ToggleStatus(time.Now())
	assert.True(t, w.IsActive())
}

func TestValidAmount(t *testing.T) {
	for _, tt := range []struct {
		amount string
		valid  bool
	}{
		{"0.01", true},
		{"10", true},
		{"2.50", true},
		{"1.500", true},
		{"0", false},
		{"-1", false},
		{"0.005", false},
		{"1.001", false},
	} {
		assert.Equal(t, tt.valid, ValidAmount(decimal.RequireFromString(tt.amount)), tt.amount)
	}
}

func TestDefaultWalletSeeds(t *testing.T) {
	assert.Len(t, DefaultWalletSeeds, 3)
	assert.Equal(t, WalletDefault, DefaultWalletSeeds[0].Type)
	assert.True(t, DefaultWalletSeeds[0].Balance.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, WalletInactive, DefaultWalletSeeds[1].Status)
	assert.Equal(t, WalletInactive, DefaultWalletSeeds[2].Status)
}

func TestNewUser(t *testing.T) {
	u := NewUser("alice", "alice@example.com", "hash", time.Now())

	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, RoleUser, u.Role)
	assert.True(t, u.Active)
	assert.False(t, u.IsAdmin())
}
