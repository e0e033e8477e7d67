// Package scheduler runs the monthly credit sweep on a cron schedule.
package scheduler

import (
	"context" // Request scoped cancellation
	"fmt"     // Error wrapping and formatting
	"sync"    // Mutex for non-overlapping runs
	"time"    // Run timeout

	"github.com/robfig/cron/v3"  // Cron scheduler
	"github.com/sirupsen/logrus" // Logging library

	"trusty_wallet/internal/service" // Sweep result type
)

// DefaultSchedule fires at midnight on the first day of every month
const DefaultSchedule = "0 0 0 1 * *"

// Sweeper runs one credit sweep
type Sweeper interface {
	Sweep(ctx context.Context) (service.SweepResult, error)
}

// CreditChecker triggers the credit sweep; runs never overlap
type CreditChecker struct {
	sweeper Sweeper       // Usually *service.CreditService
	timeout time.Duration // Per-run bound, zero means none
	mu      sync.Mutex    // Held while a run is in flight
}

// NewCreditChecker creates a checker; timeout bounds a single run, zero means none
func NewCreditChecker(sweeper Sweeper, timeout time.Duration) *CreditChecker {
	return &CreditChecker{sweeper: sweeper, timeout: timeout}
}

// Run performs one sweep and logs its outcome
func (c *CreditChecker) Run(ctx context.Context) {
	if !c.mu.TryLock() { // A previous run is still going
		logrus.Warn("Credit sweep already running, skipping")
		return
	}
	defer c.mu.Unlock()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	start := time.Now()
	result, err := c.sweeper.Sweep(ctx)
	fields := logrus.Fields{
		"checked":     result.Checked,
		"deactivated": result.Deactivated,
		"rolled_over": result.RolledOver,
		"failed":      result.Failed,
		"duration":    time.Since(start).String(),
	}
	if err != nil {
		logrus.WithFields(fields).WithError(err).Error("Credit sweep aborted")
		return
	}
	logrus.WithFields(fields).Info("Credit sweep completed")
}

// Start schedules Run on spec (cron with a seconds field) until ctx is done.
// The returned cron is already running; Stop it to wait for an in-flight run.
func Start(ctx context.Context, checker *CreditChecker, spec string) (*cron.Cron, error) {
	if spec == "" {
		spec = DefaultSchedule
	}
	c := cron.New(cron.WithSeconds()) // Six-field specs
	if _, err := c.AddFunc(spec, func() { checker.Run(ctx) }); err != nil {
		return nil, fmt.Errorf("schedule credit sweep %q: %w", spec, err)
	}
	c.Start()
	go func() {
		<-ctx.Done()
		<-c.Stop().Done() // Wait for the in-flight run
	}()
	return c, nil
}
