package service

import (
	"context" // Request scoped cancellation
	"fmt"     // Error wrapping and formatting

	"github.com/google/uuid"        // Identifiers
	"github.com/shopspring/decimal" // Exact money arithmetic

	"trusty_wallet/internal/domain"     // Importing domain models
	"trusty_wallet/internal/repository" // Storage abstraction
)

// TransactionService reads the ledger
type TransactionService struct {
	store repository.Store
	now   Clock
}

// NewTransactionService creates a TransactionService
func NewTransactionService(store repository.Store, now Clock) *TransactionService {
	return &TransactionService{store: store, now: now}
}

// ListByOwner returns the owner's transactions newest first
func (s *TransactionService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Transaction, error) {
	txs, err := s.store.Transactions().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Get returns one of the owner's transactions
func (s *TransactionService) Get(ctx context.Context, id, ownerID uuid.UUID) (*domain.Transaction, error) {
	tx, err := s.store.Transactions().GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return tx, nil
}

// Report aggregates the whole ledger. Totals count MAIN entries only;
// the success and failure counts span every entry.
func (s *TransactionService) Report(ctx context.Context) (*domain.TransactionsReport, error) {
	txs, err := s.store.Transactions().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("transactions report: %w", err)
	}
	report := &domain.TransactionsReport{TotalAmount: decimal.Zero, CreatedAt: s.now()}
	for _, tx := range txs {
		if tx.TypeStatus == domain.TransactionMain {
			report.TotalTransactions++
			if tx.Succeeded() {
				report.TotalAmount = report.TotalAmount.Add(tx.Amount)
			}
		}
		switch tx.Status {
		case domain.TransactionSucceeded:
			report.SuccessfulTransactions++
		case domain.TransactionFailed:
			report.UnsuccessfulTransactions++
		}
	}
	return report, nil
}
