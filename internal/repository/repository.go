// Package repository defines persistence contracts for the wallet domain and
// their gorm implementation.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"trusty_wallet/internal/domain"
)

// UserRepository persists users. Reads preload wallets and credit.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns all users ordered by creation time.
	List(ctx context.Context) ([]domain.User, error)
	// ListDueForPayment returns active users whose credit is due on or before cycleStart.
	ListDueForPayment(ctx context.Context, cycleStart time.Time) ([]domain.User, error)
	// Save updates scalar columns only; associations are left untouched.
	Save(ctx context.Context, user *domain.User) error
}

// WalletRepository persists wallets. Inside WithinTx, single-wallet reads
// and ListByOwnerUsername lock the returned rows.
type WalletRepository interface {
	CreateAll(ctx context.Context, wallets []domain.Wallet) error
	GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Wallet, error)
	ListByOwnerUsername(ctx context.Context, username string) ([]domain.Wallet, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Wallet, error)
	List(ctx context.Context) ([]domain.Wallet, error)
	Save(ctx context.Context, wallet *domain.Wallet) error
}

// CreditRepository persists the one credit each user owns.
type CreditRepository interface {
	Create(ctx context.Context, credit *domain.Credit) error
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Credit, error)
	Save(ctx context.Context, credit *domain.Credit) error
}

// TransactionRepository is the append-only ledger.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Transaction, error)
	// ListByOwner returns the owner's transactions newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Transaction, error)
	// LastByWallet returns up to limit of the wallet's most recent transactions.
	LastByWallet(ctx context.Context, walletID uuid.UUID, limit int) ([]domain.Transaction, error)
	List(ctx context.Context) ([]domain.Transaction, error)
}

// Store groups the repositories and scopes them to a unit of work.
type Store interface {
	Users() UserRepository
	Wallets() WalletRepository
	Credits() CreditRepository
	Transactions() TransactionRepository
	// WithinTx runs fn against a transactional Store. A non-nil error from fn
	// rolls every write back. Calling WithinTx on the transactional Store
	// joins the running transaction.
	WithinTx(ctx context.Context, fn func(Store) error) error
}

// WalletOrder is the canonical wallet ordering used by every Store.
const WalletOrder = "created_at ASC, type ASC"
