// Package memstore is an in-memory repository.Store used by tests and by the
// "memory" database driver.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"trusty_wallet/internal/domain"
	"trusty_wallet/internal/repository"
)

type state struct {
	mu      sync.RWMutex
	txMu    sync.Mutex
	users   map[uuid.UUID]domain.User
	wallets map[uuid.UUID]domain.Wallet
	credits map[uuid.UUID]domain.Credit // keyed by owner
	ledger  []domain.Transaction        // insertion order
}

// Store implements repository.Store over maps. Values are copied in and out
// so callers never share memory with the store.
type Store struct {
	*state
	inTx bool
}

var _ repository.Store = (*Store)(nil)

// New returns an empty store
func New() *Store {
	return &Store{state: &state{
		users:   make(map[uuid.UUID]domain.User),
		wallets: make(map[uuid.UUID]domain.Wallet),
		credits: make(map[uuid.UUID]domain.Credit),
	}}
}

func (s *Store) Users() repository.UserRepository               { return users{s.state} }
func (s *Store) Wallets() repository.WalletRepository           { return wallets{s.state} }
func (s *Store) Credits() repository.CreditRepository           { return credits{s.state} }
func (s *Store) Transactions() repository.TransactionRepository { return transactions{s.state} }

// WithinTx serializes units of work and restores a snapshot when fn fails.
func (s *Store) WithinTx(_ context.Context, fn func(repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(&Store{state: s.state, inTx: true}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	users   map[uuid.UUID]domain.User
	wallets map[uuid.UUID]domain.Wallet
	credits map[uuid.UUID]domain.Credit
	ledger  int
}

func (s *state) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		users:   make(map[uuid.UUID]domain.User, len(s.users)),
		wallets: make(map[uuid.UUID]domain.Wallet, len(s.wallets)),
		credits: make(map[uuid.UUID]domain.Credit, len(s.credits)),
		ledger:  len(s.ledger),
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	for k, v := range s.wallets {
		snap.wallets[k] = v
	}
	for k, v := range s.credits {
		snap.credits[k] = copyCredit(v)
	}
	return snap
}

func (s *state) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.wallets = snap.wallets
	s.credits = snap.credits
	s.ledger = s.ledger[:snap.ledger]
}

func copyCredit(c domain.Credit) domain.Credit {
	if c.PaidOn != nil {
		t := *c.PaidOn
		c.PaidOn = &t
	}
	if c.NextPaymentOn != nil {
		t := *c.NextPaymentOn
		c.NextPaymentOn = &t
	}
	return c
}

func copyTransaction(t domain.Transaction) domain.Transaction {
	if t.WalletID != nil {
		id := *t.WalletID
		t.WalletID = &id
	}
	return t
}

func sortWallets(ws []domain.Wallet) {
	sort.Slice(ws, func(i, j int) bool {
		if !ws[i].CreatedAt.Equal(ws[j].CreatedAt) {
			return ws[i].CreatedAt.Before(ws[j].CreatedAt)
		}
		return ws[i].Type < ws[j].Type
	})
}

// hydrate attaches wallets and credit the way a preloading query would; caller holds mu
func (s *state) hydrate(u domain.User) domain.User {
	u.Wallets = s.walletsOf(u.ID)
	u.Credit = nil
	if c, ok := s.credits[u.ID]; ok {
		cc := copyCredit(c)
		u.Credit = &cc
	}
	return u
}

func (s *state) walletsOf(owner uuid.UUID) []domain.Wallet {
	var out []domain.Wallet
	for _, w := range s.wallets {
		if w.OwnerID == owner {
			out = append(out, w)
		}
	}
	sortWallets(out)
	return out
}

type users struct{ s *state }

func (r users) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == user.Username {
			return domain.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	stored := *user
	stored.Wallets, stored.Credit = nil, nil
	r.s.users[user.ID] = stored
	return nil
}

func (r users) find(match func(domain.User) bool) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if match(u) {
			out := r.s.hydrate(u)
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r users) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ID == id })
}

func (r users) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r users) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r users) list(match func(domain.User) bool) []domain.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		if match(u) {
			out = append(out, r.s.hydrate(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r users) List(context.Context) ([]domain.User, error) {
	return r.list(func(domain.User) bool { return true }), nil
}

func (r users) ListDueForPayment(_ context.Context, cycleStart time.Time) ([]domain.User, error) {
	return r.list(func(u domain.User) bool {
		c, ok := r.s.credits[u.ID]
		return u.Active && ok && c.IsDue(cycleStart)
	}), nil
}

func (r users) Save(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	stored := *user
	stored.Wallets, stored.Credit = nil, nil
	r.s.users[user.ID] = stored
	return nil
}

type wallets struct{ s *state }

func (r wallets) CreateAll(_ context.Context, ws []domain.Wallet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, w := range ws {
		r.s.wallets[w.ID] = w
	}
	return nil
}

func (r wallets) GetByIDAndOwner(_ context.Context, id, ownerID uuid.UUID) (*domain.Wallet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.wallets[id]
	if !ok || w.OwnerID != ownerID {
		return nil, domain.ErrWalletNotFound
	}
	return &w, nil
}

func (r wallets) ListByOwnerUsername(_ context.Context, username string) ([]domain.Wallet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return r.s.walletsOf(u.ID), nil
		}
	}
	return nil, nil
}

func (r wallets) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]domain.Wallet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.walletsOf(ownerID), nil
}

func (r wallets) List(context.Context) ([]domain.Wallet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Wallet, 0, len(r.s.wallets))
	for _, w := range r.s.wallets {
		out = append(out, w)
	}
	sortWallets(out)
	return out, nil
}

func (r wallets) Save(_ context.Context, wallet *domain.Wallet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.wallets[wallet.ID]; !ok {
		return domain.ErrWalletNotFound
	}
	r.s.wallets[wallet.ID] = *wallet
	return nil
}

type credits struct{ s *state }

func (r credits) Create(_ context.Context, credit *domain.Credit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.credits[credit.OwnerID] = copyCredit(*credit)
	return nil
}

func (r credits) GetByOwner(_ context.Context, ownerID uuid.UUID) (*domain.Credit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.credits[ownerID]
	if !ok {
		return nil, domain.ErrCreditNotFound
	}
	out := copyCredit(c)
	return &out, nil
}

func (r credits) Save(_ context.Context, credit *domain.Credit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.credits[credit.OwnerID]; !ok {
		return domain.ErrCreditNotFound
	}
	r.s.credits[credit.OwnerID] = copyCredit(*credit)
	return nil
}

type transactions struct{ s *state }

func (r transactions) Create(_ context.Context, tx *domain.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.ledger = append(r.s.ledger, copyTransaction(*tx))
	return nil
}

func (r transactions) GetByIDAndOwner(_ context.Context, id, ownerID uuid.UUID) (*domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.ledger {
		if t.ID == id && t.OwnerID == ownerID {
			out := copyTransaction(t)
			return &out, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

// newestFirst walks the ledger backwards so equal timestamps keep reverse insertion order
func (r transactions) newestFirst(match func(domain.Transaction) bool, limit int) []domain.Transaction {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Transaction
	for i := len(r.s.ledger) - 1; i >= 0; i-- {
		if match(r.s.ledger[i]) {
			out = append(out, copyTransaction(r.s.ledger[i]))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r transactions) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]domain.Transaction, error) {
	return r.newestFirst(func(t domain.Transaction) bool { return t.OwnerID == ownerID }, 0), nil
}

func (r transactions) LastByWallet(_ context.Context, walletID uuid.UUID, limit int) ([]domain.Transaction, error) {
	return r.newestFirst(func(t domain.Transaction) bool {
		return t.WalletID != nil && *t.WalletID == walletID
	}, limit), nil
}

func (r transactions) List(context.Context) ([]domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Transaction, len(r.s.ledger))
	for i, t := range r.s.ledger {
		out[i] = copyTransaction(t)
	}
	return out, nil
}
