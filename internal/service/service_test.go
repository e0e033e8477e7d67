package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"trusty_wallet/internal/domain"
	"trusty_wallet/internal/repository/memstore"
)

// mapCache stores JSON like Redis does
type mapCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	gets    int
	deletes int
}

func newMapCache() *mapCache { return &mapCache{data: make(map[string][]byte)} }

func (c *mapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
		c.deletes++
	}
	return nil
}

func (c *mapCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type savedPreference struct {
	userID  uuid.UUID
	enabled bool
	email   string
}

type fakeNotifier struct {
	saved []savedPreference
}

func (n *fakeNotifier) SavePreference(_ context.Context, userID uuid.UUID, enabled bool, email string) {
	n.saved = append(n.saved, savedPreference{userID, enabled, email})
}

// clock is a settable time source
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Millisecond) // strictly increasing
	return c.t
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type fixture struct {
	ctx      context.Context
	store    *memstore.Store
	cache    *mapCache
	notifier *fakeNotifier
	clock    *clock
	svc      *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:      context.Background(),
		store:    memstore.New(),
		cache:    newMapCache(),
		notifier: &fakeNotifier{},
		clock:    &clock{t: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)},
	}
	f.svc = New(f.store, Options{
		Cache:    f.cache,
		CacheTTL: time.Minute,
		Notifier: f.notifier,
		Now:      f.clock.Now,
	})
	return f
}

func (f *fixture) register(t *testing.T, username string) *domain.User {
	t.Helper()
	u, err := f.svc.Users.Register(f.ctx, RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	return u
}

// defaultWallet returns the user's DEFAULT wallet as stored
func (f *fixture) defaultWallet(t *testing.T, owner uuid.UUID) domain.Wallet {
	t.Helper()
	return f.wallet(t, owner, domain.WalletDefault)
}

func (f *fixture) wallet(t *testing.T, owner uuid.UUID, kind domain.WalletType) domain.Wallet {
	t.Helper()
	ws, err := f.svc.Wallets.ListByOwner(f.ctx, owner)
	require.NoError(t, err)
	for _, w := range ws {
		if w.Type == kind {
			return w
		}
	}
	t.Fatalf("no %s wallet for %s", kind, owner)
	return domain.Wallet{}
}

func (f *fixture) credit(t *testing.T, owner uuid.UUID) *domain.Credit {
	t.Helper()
	c, err := f.svc.Credits.Get(f.ctx, owner)
	require.NoError(t, err)
	return c
}

func (f *fixture) ledger(t *testing.T) []domain.Transaction {
	t.Helper()
	txs, err := f.store.Transactions().List(f.ctx)
	require.NoError(t, err)
	return txs
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}
