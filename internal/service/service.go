// Package service holds the wallet business logic. Every operation that
// touches more than one row runs in a single repository.Store unit of work.
package service

import (
	"context" // Request scoped cancellation
	"time"    // Clock and cache TTL

	"github.com/google/uuid"        // Identifiers
	"github.com/shopspring/decimal" // Exact money arithmetic

	"trusty_wallet/internal/domain"     // Importing domain models
	"trusty_wallet/internal/metrics"    // Prometheus collectors
	"trusty_wallet/internal/repository" // Storage abstraction
	"trusty_wallet/internal/utils"      // Cache interface
)

// UsersCacheKey holds the cached user list
const UsersCacheKey = "users:all"

// Clock returns the current time
type Clock func() time.Time

// entry is the data for one ledger record
type entry struct {
	owner      uuid.UUID
	wallet     *uuid.UUID
	sender     string
	receiver   string
	amount     decimal.Decimal
	balance    decimal.Decimal
	kind       domain.TransactionType
	status     domain.TransactionStatus
	typeStatus domain.TransactionTypeStatus
	desc       string
	reason     string
}

// record appends e to the ledger of st
func record(ctx context.Context, st repository.Store, e entry, now time.Time) (*domain.Transaction, error) {
	tx := &domain.Transaction{
		ID:            uuid.New(),
		OwnerID:       e.owner,
		WalletID:      e.wallet,
		Sender:        e.sender,
		Receiver:      e.receiver,
		Amount:        e.amount,
		BalanceLeft:   e.balance,
		Type:          e.kind,
		Status:        e.status,
		TypeStatus:    e.typeStatus,
		Description:   e.desc,
		FailureReason: e.reason,
		CreatedAt:     now,
	}
	if err := st.Transactions().Create(ctx, tx); err != nil {
		return nil, err
	}
	metrics.TransactionsTotal.WithLabelValues(string(tx.Type), string(tx.Status)).Inc()
	return tx, nil
}

func walletRef(id uuid.UUID) *uuid.UUID {
	return &id
}

// Services are the business services sharing one store
type Services struct {
	Users        *UserService
	Wallets      *WalletService
	Credits      *CreditService
	Transactions *TransactionService
}

// Options tune New; zero values fall back to defaults
type Options struct {
	Cache    utils.Cache         // User list cache, nil disables caching
	CacheTTL time.Duration       // User list cache lifetime
	Notifier Notifier            // Notification service client, optional
	Seeds    []domain.WalletSeed // Wallets provisioned at registration
	Now      Clock               // Time source
}

// New wires every service on store
func New(store repository.Store, opts Options) *Services {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Cache == nil {
		opts.Cache = utils.NopCache{}
	}
	credits := NewCreditService(store, opts.Cache, opts.Now)
	wallets := NewWalletService(store, credits, opts.Seeds, opts.Now)
	return &Services{
		Credits:      credits,
		Wallets:      wallets,
		Transactions: NewTransactionService(store, opts.Now),
		Users: NewUserService(UserServiceDeps{
			Store:    store,
			Wallets:  wallets,
			Credits:  credits,
			Cache:    opts.Cache,
			CacheTTL: opts.CacheTTL,
			Notifier: opts.Notifier,
			Now:      opts.Now,
		}),
	}
}
