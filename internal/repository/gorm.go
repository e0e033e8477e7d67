package repository

import (
	"context" // Request scoped cancellation
	"errors"  // Error comparison
	"time"    // Due date comparison

	"github.com/google/uuid" // Identifiers
	"gorm.io/gorm"           // GORM ORM library
	"gorm.io/gorm/clause"    // Locking and association clauses

	"trusty_wallet/internal/domain" // Importing domain models
)

// GormStore implements Store on a gorm connection
type GormStore struct {
	db   *gorm.DB // Connection or running transaction
	inTx bool     // Lock rows read for update
}

// NewGormStore wraps an open gorm connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Users() UserRepository               { return gormUsers{s} }
func (s *GormStore) Wallets() WalletRepository           { return gormWallets{s} }
func (s *GormStore) Credits() CreditRepository           { return gormCredits{s} }
func (s *GormStore) Transactions() TransactionRepository { return gormTransactions{s} }

// WithinTx runs fn inside a database transaction
func (s *GormStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	if s.inTx {
		return fn(s) // Join the running transaction
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, inTx: true})
	})
}

func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// forUpdate adds SELECT ... FOR UPDATE when running inside a transaction
func (s *GormStore) forUpdate(ctx context.Context) *gorm.DB {
	q := s.conn(ctx)
	if s.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// notFound maps gorm.ErrRecordNotFound to the given domain error
func notFound(err error, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}

type gormUsers struct{ s *GormStore }

// withAssociations preloads wallets in canonical order and the credit
func withAssociations(q *gorm.DB) *gorm.DB {
	return q.Preload("Wallets", func(db *gorm.DB) *gorm.DB {
		return db.Order(WalletOrder)
	}).Preload("Credit")
}

func (r gormUsers) Create(ctx context.Context, user *domain.User) error {
	return r.s.conn(ctx).Omit(clause.Associations).Create(user).Error
}

func (r gormUsers) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := withAssociations(r.s.conn(ctx)).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return &user, nil
}

func (r gormUsers) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := withAssociations(r.s.conn(ctx)).First(&user, "username = ?", username).Error; err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return &user, nil
}

func (r gormUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := withAssociations(r.s.conn(ctx)).First(&user, "email = ?", email).Error; err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return &user, nil
}

func (r gormUsers) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := withAssociations(r.s.conn(ctx)).Order("created_at ASC").Find(&users).Error
	return users, err
}

func (r gormUsers) ListDueForPayment(ctx context.Context, cycleStart time.Time) ([]domain.User, error) {
	var users []domain.User
	err := withAssociations(r.s.conn(ctx)).
		Joins("JOIN credits ON credits.owner_id = users.id").
		Where("users.active = ? AND credits.next_payment_on <= ?", true, cycleStart).
		Order("users.created_at ASC").
		Find(&users).Error
	return users, err
}

func (r gormUsers) Save(ctx context.Context, user *domain.User) error {
	return r.s.conn(ctx).Omit(clause.Associations).Save(user).Error
}

type gormWallets struct{ s *GormStore }

func (r gormWallets) CreateAll(ctx context.Context, wallets []domain.Wallet) error {
	if len(wallets) == 0 {
		return nil
	}
	return r.s.conn(ctx).Create(&wallets).Error
}

func (r gormWallets) GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Wallet, error) {
	var wallet domain.Wallet
	err := r.s.forUpdate(ctx).First(&wallet, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		return nil, notFound(err, domain.ErrWalletNotFound)
	}
	return &wallet, nil
}

func (r gormWallets) ListByOwnerUsername(ctx context.Context, username string) ([]domain.Wallet, error) {
	var owner domain.User
	if err := r.s.conn(ctx).Select("id").First(&owner, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Unknown receivers have no wallets
		}
		return nil, err
	}
	var wallets []domain.Wallet
	err := r.s.forUpdate(ctx).Where("owner_id = ?", owner.ID).Order(WalletOrder).Find(&wallets).Error
	return wallets, err
}

func (r gormWallets) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Wallet, error) {
	var wallets []domain.Wallet
	err := r.s.conn(ctx).Where("owner_id = ?", ownerID).Order(WalletOrder).Find(&wallets).Error
	return wallets, err
}

func (r gormWallets) List(ctx context.Context) ([]domain.Wallet, error) {
	var wallets []domain.Wallet
	err := r.s.conn(ctx).Order(WalletOrder).Find(&wallets).Error
	return wallets, err
}

func (r gormWallets) Save(ctx context.Context, wallet *domain.Wallet) error {
	return r.s.conn(ctx).Save(wallet).Error
}

type gormCredits struct{ s *GormStore }

func (r gormCredits) Create(ctx context.Context, credit *domain.Credit) error {
	return r.s.conn(ctx).Create(credit).Error
}

func (r gormCredits) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Credit, error) {
	var credit domain.Credit
	if err := r.s.forUpdate(ctx).First(&credit, "owner_id = ?", ownerID).Error; err != nil {
		return nil, notFound(err, domain.ErrCreditNotFound)
	}
	return &credit, nil
}

func (r gormCredits) Save(ctx context.Context, credit *domain.Credit) error {
	return r.s.conn(ctx).Save(credit).Error
}

type gormTransactions struct{ s *GormStore }

func (r gormTransactions) Create(ctx context.Context, tx *domain.Transaction) error {
	return r.s.conn(ctx).Create(tx).Error
}

func (r gormTransactions) GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Transaction, error) {
	var tx domain.Transaction
	if err := r.s.conn(ctx).First(&tx, "id = ? AND owner_id = ?", id, ownerID).Error; err != nil {
		return nil, notFound(err, domain.ErrTransactionNotFound)
	}
	return &tx, nil
}

func (r gormTransactions) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	err := r.s.conn(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&txs).Error
	return txs, err
}

func (r gormTransactions) LastByWallet(ctx context.Context, walletID uuid.UUID, limit int) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	err := r.s.conn(ctx).Where("wallet_id = ?", walletID).Order("created_at DESC").Limit(limit).Find(&txs).Error
	return txs, err
}

func (r gormTransactions) List(ctx context.Context) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	err := r.s.conn(ctx).Order("created_at ASC").Find(&txs).Error
	return txs, err
}
