package service

import (
	"context" // Request scoped cancellation
	"errors"  // Sentinel errors
	"fmt"     // Error wrapping and formatting
	"time"    // Due dates

	"github.com/google/uuid"        // Identifiers
	"github.com/shopspring/decimal" // Exact money arithmetic
	"github.com/sirupsen/logrus"    // Logging library

	"trusty_wallet/internal/domain"     // Importing domain models
	"trusty_wallet/internal/metrics"    // Prometheus collectors
	"trusty_wallet/internal/repository" // Storage abstraction
	"trusty_wallet/internal/utils"      // Cache interface
)

// CreditService manages the monthly revolving credit of each user
type CreditService struct {
	store repository.Store // Credits and users
	cache utils.Cache      // User list cache
	now   Clock            // Time source
}

// NewCreditService creates a CreditService; cache is evicted when the sweep deactivates users
func NewCreditService(store repository.Store, cache utils.Cache, now Clock) *CreditService {
	return &CreditService{store: store, cache: cache, now: now}
}

// Get returns the owner's credit
func (s *CreditService) Get(ctx context.Context, ownerID uuid.UUID) (*domain.Credit, error) {
	credit, err := s.store.Credits().GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get credit: %w", err)
	}
	return credit, nil
}

func (s *CreditService) create(ctx context.Context, st repository.Store, ownerID uuid.UUID) (*domain.Credit, error) {
	credit := domain.NewCredit(ownerID, s.now())
	if err := st.Credits().Create(ctx, credit); err != nil {
		return nil, fmt.Errorf("create credit: %w", err)
	}
	return credit, nil
}

func (s *CreditService) accrue(ctx context.Context, st repository.Store, ownerID uuid.UUID, amount decimal.Decimal) error {
	credit, err := st.Credits().GetByOwner(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("accrue credit: %w", err)
	}
	credit.Amount = credit.Amount.Add(amount) // Every charge is owed back
	return st.Credits().Save(ctx, credit)
}

// settle marks the credit paid and schedules the next payment
func (s *CreditService) settle(ctx context.Context, st repository.Store, credit *domain.Credit) error {
	now := s.now()
	next := domain.FirstDayOfNextMonth(now)
	credit.Amount = decimal.Zero
	credit.Status = domain.CreditPayed
	credit.PaidOn = &now
	credit.NextPaymentOn = &next
	return st.Credits().Save(ctx, credit)
}

// SweepResult counts the outcome of one Sweep
type SweepResult struct {
	Checked     int // Users whose credit was due
	Deactivated int // Users deactivated for an outstanding amount
	RolledOver  int // Zero credits moved to the next cycle
	Failed      int // Users skipped because of an error
}

type sweepOutcome int

const (
	sweepDeactivated sweepOutcome = iota
	sweepRolledOver
)

// Sweep deactivates every active user whose credit is due with a non-zero amount
// and flips that credit to UNPAID. Due credits with nothing owed roll forward to
// the next month. A failure for one user is logged and the sweep moves on.
func (s *CreditService) Sweep(ctx context.Context) (SweepResult, error) {
	var result SweepResult
	now := s.now()
	users, err := s.store.Users().ListDueForPayment(ctx, domain.FirstDayOfMonth(now))
	if err != nil {
		return result, fmt.Errorf("list users with due credit: %w", err)
	}
	result.Checked = len(users)

	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return result, err // Cancelled or timed out
		}
		outcome, err := s.sweepUser(ctx, u.ID, now)
		if err != nil {
			result.Failed++
			logrus.WithFields(logrus.Fields{
				"user_id": u.ID,
				"error":   err.Error(),
			}).Error("Credit sweep failed for user")
			continue
		}
		switch outcome {
		case sweepDeactivated:
			result.Deactivated++
			metrics.CreditSweepDeactivations.Inc()
			logrus.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("User deactivated for unpaid credit")
		case sweepRolledOver:
			result.RolledOver++
		}
	}

	if result.Deactivated > 0 {
		if err := s.cache.Delete(ctx, UsersCacheKey); err != nil {
			logrus.WithError(err).Warn("Failed to evict users cache")
		}
	}
	return result, nil
}

func (s *CreditService) sweepUser(ctx context.Context, userID uuid.UUID, now time.Time) (sweepOutcome, error) {
	var outcome sweepOutcome
	err := s.store.WithinTx(ctx, func(st repository.Store) error {
		credit, err := st.Credits().GetByOwner(ctx, userID)
		if err != nil {
			return err
		}
		if credit.Amount.IsZero() {
			next := domain.FirstDayOfNextMonth(now) // Nothing owed, move to the next cycle
			credit.NextPaymentOn = &next
			outcome = sweepRolledOver
			return st.Credits().Save(ctx, credit)
		}
		user, err := st.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if !user.Active {
			return errors.New("user already inactive")
		}
		user.Active = false
		user.UpdatedAt = now
		if err := st.Users().Save(ctx, user); err != nil {
			return err
		}
		credit.Status = domain.CreditUnpaid
		outcome = sweepDeactivated
		return st.Credits().Save(ctx, credit)
	})
	return outcome, err
}
