package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UsersReport aggregates user counts
type UsersReport struct {
	TotalUsers    int       `json:"total_users"`
	ActiveUsers   int       `json:"active_users"`
	InactiveUsers int       `json:"inactive_users"`
	Admins        int       `json:"admins"`
	NonAdmins     int       `json:"non_admins"`
	CreatedAt     time.Time `json:"created_at"`
}

// WalletsReport aggregates wallet counts and balances
type WalletsReport struct {
	TotalWallets    int             `json:"total_wallets"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ActiveWallets   int             `json:"active_wallets"`
	InactiveWallets int             `json:"inactive_wallets"`
	CreatedAt       time.Time       `json:"created_at"`
}

// TransactionsReport aggregates the ledger; totals only count MAIN entries
type TransactionsReport struct {
	TotalTransactions        int             `json:"total_transactions"`
	TotalAmount              decimal.Decimal `json:"total_amount"`
	SuccessfulTransactions   int             `json:"successful_transactions"`
	UnsuccessfulTransactions int             `json:"unsuccessful_transactions"`
	CreatedAt                time.Time       `json:"created_at"`
}
