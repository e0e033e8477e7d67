package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trusty_wallet/internal/domain"
	"trusty_wallet/internal/repository"
)

func seedUser(t *testing.T, s *Store, username string, now time.Time) *domain.User {
	t.Helper()
	ctx := context.Background()
	u := domain.NewUser(username, username+"@example.com", "hash", now)
	require.NoError(t, s.Users().Create(ctx, u))
	var ws []domain.Wallet
	for _, seed := range domain.DefaultWalletSeeds {
		ws = append(ws, domain.NewWallet(u.ID, seed, now))
	}
	require.NoError(t, s.Wallets().CreateAll(ctx, ws))
	require.NoError(t, s.Credits().Create(ctx, domain.NewCredit(u.ID, now)))
	return u
}

func TestUserReadsAreHydrated(t *testing.T) {
	s := New()
	u := seedUser(t, s, "alice", time.Now())

	got, err := s.Users().GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	require.Len(t, got.Wallets, 3)
	assert.Equal(t, domain.WalletDefault, got.Wallets[0].Type)
	require.NotNil(t, got.Credit)
	assert.Equal(t, domain.CreditPayed, got.Credit.Status)
}

func TestDuplicateUser(t *testing.T) {
	s := New()
	seedUser(t, s, "alice", time.Now())
	ctx := context.Background()

	err := s.Users().Create(ctx, domain.NewUser("alice", "other@example.com", "h", time.Now()))
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	err = s.Users().Create(ctx, domain.NewUser("bob", "alice@example.com", "h", time.Now()))
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestReturnedValuesAreCopies(t *testing.T) {
	s := New()
	u := seedUser(t, s, "alice", time.Now())
	ctx := context.Background()

	ws, err := s.Wallets().ListByOwner(ctx, u.ID)
	require.NoError(t, err)
	ws[0].Balance = decimal.NewFromInt(999)

	again, err := s.Wallets().GetByIDAndOwner(ctx, ws[0].ID, u.ID)
	require.NoError(t, err)
	assert.True(t, again.Balance.Equal(decimal.NewFromInt(10)))
}

func TestWithinTxRollsBack(t *testing.T) {
	s := New()
	u := seedUser(t, s, "alice", time.Now())
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(tx repository.Store) error {
		ws, err := tx.Wallets().ListByOwner(ctx, u.ID)
		require.NoError(t, err)
		ws[0].Balance = decimal.Zero
		require.NoError(t, tx.Wallets().Save(ctx, &ws[0]))
		require.NoError(t, tx.Transactions().Create(ctx, &domain.Transaction{ID: uuid.New(), OwnerID: u.ID}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	ws, err := s.Wallets().ListByOwner(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ws[0].Balance.Equal(decimal.NewFromInt(10)))
	txs, err := s.Transactions().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestNestedWithinTxJoins(t *testing.T) {
	s := New()
	ctx := context.Background()

	calls := 0
	err := s.WithinTx(ctx, func(tx repository.Store) error {
		return tx.WithinTx(ctx, func(repository.Store) error {
			calls++
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestTransactionsNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()
	owner, wallet := uuid.New(), uuid.New()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		require.NoError(t, s.Transactions().Create(ctx, &domain.Transaction{
			ID:        uuid.New(),
			OwnerID:   owner,
			WalletID:  &wallet,
			Amount:    decimal.NewFromInt(int64(i)),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	all, err := s.Transactions().ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.True(t, all[0].Amount.Equal(decimal.NewFromInt(5)))

	last, err := s.Transactions().LastByWallet(ctx, wallet, 4)
	require.NoError(t, err)
	require.Len(t, last, 4)
	assert.True(t, last[3].Amount.Equal(decimal.NewFromInt(2)))

	_, err = s.Transactions().GetByIDAndOwner(ctx, all[0].ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestListDueForPayment(t *testing.T) {
	s := New()
	ctx := context.Background()
	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	due := seedUser(t, s, "due", jan)
	later := seedUser(t, s, "later", jan.AddDate(0, 1, 0))
	inactive := seedUser(t, s, "inactive", jan)
	inactive.Active = false
	require.NoError(t, s.Users().Save(ctx, inactive))

	users, err := s.Users().ListDueForPayment(ctx, domain.FirstDayOfMonth(jan.AddDate(0, 1, 0)))
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, due.ID, users[0].ID)
	assert.NotEqual(t, later.ID, users[0].ID)
}
