package service

import (
	"context" // Request scoped cancellation
	"fmt"     // Error wrapping and formatting

	"github.com/google/uuid"        // Identifiers
	"github.com/shopspring/decimal" // Exact money arithmetic
	"github.com/sirupsen/logrus"    // Logging library

	"trusty_wallet/internal/domain"     // Importing domain models
	"trusty_wallet/internal/repository" // Storage abstraction
)

// LastTransactionsPerWallet is how many recent entries LastTransactions returns per wallet
const LastTransactionsPerWallet = 4

const (
	reasonInvalidTransfer = "Invalid criteria for transaction"
	reasonWalletInactive  = "Wallet is inactive"
	reasonNoCredit        = "No outstanding credit"
	reasonInsufficient    = "Insufficient funds"
)

// WalletService moves money between wallets and records every attempt
type WalletService struct {
	store   repository.Store    // Wallets, credits and ledger
	credits *CreditService      // Accrues charges, settles payments
	seeds   []domain.WalletSeed // Wallets provisioned at registration
	now     Clock               // Time source
}

// NewWalletService creates a WalletService; nil seeds means domain.DefaultWalletSeeds
func NewWalletService(store repository.Store, credits *CreditService, seeds []domain.WalletSeed, now Clock) *WalletService {
	if seeds == nil {
		seeds = domain.DefaultWalletSeeds
	}
	return &WalletService{store: store, credits: credits, seeds: seeds, now: now}
}

// TransferInput is a request to move Amount from one of the caller's wallets to a user
type TransferInput struct {
	From     uuid.UUID
	Receiver string
	Amount   decimal.Decimal
}

func (s *WalletService) provision(ctx context.Context, st repository.Store, ownerID uuid.UUID) ([]domain.Wallet, error) {
	now := s.now()
	wallets := make([]domain.Wallet, 0, len(s.seeds))
	for _, seed := range s.seeds {
		wallets = append(wallets, domain.NewWallet(ownerID, seed, now))
	}
	if err := st.Wallets().CreateAll(ctx, wallets); err != nil {
		return nil, fmt.Errorf("create wallets: %w", err)
	}
	return wallets, nil
}

// ListByOwner returns the owner's wallets
func (s *WalletService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Wallet, error) {
	wallets, err := s.store.Wallets().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	return wallets, nil
}

// ChangeStatus toggles one of the owner's wallets between ACTIVE and INACTIVE
func (s *WalletService) ChangeStatus(ctx context.Context, ownerID, walletID uuid.UUID) (*domain.Wallet, error) {
	var wallet *domain.Wallet
	err := s.store.WithinTx(ctx, func(st repository.Store) error {
		w, err := st.Wallets().GetByIDAndOwner(ctx, walletID, ownerID)
		if err != nil {
			return err
		}
		w.ToggleStatus(s.now())
		wallet = w
		return st.Wallets().Save(ctx, w)
	})
	if err != nil {
		return nil, fmt.Errorf("change wallet status: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":   ownerID,
		"wallet_id": walletID,
		"status":    wallet.Status,
	}).Info("Wallet status changed")
	return wallet, nil
}

// ChargeUp adds amount to one of the owner's wallets and accrues it to the
// owner's credit. An inactive wallet yields a FAILED transaction and no change;
// an inactive owner gets domain.ErrUserInactive.
func (s *WalletService) ChargeUp(ctx context.Context, ownerID, walletID uuid.UUID, amount decimal.Decimal) (*domain.Transaction, error) {
	if !domain.ValidAmount(amount) {
		return nil, domain.ErrInvalidAmount
	}
	var result *domain.Transaction
	err := s.store.WithinTx(ctx, func(st repository.Store) error {
		wallet, err := st.Wallets().GetByIDAndOwner(ctx, walletID, ownerID)
		if err != nil {
			return err
		}
		owner, err := st.Users().GetByID(ctx, ownerID)
		if err != nil {
			return err
		}
		if !owner.Active {
			return domain.ErrUserInactive // Deactivated after the token was issued
		}
		now := s.now()
		e := entry{
			owner:      ownerID,
			wallet:     walletRef(wallet.ID),
			sender:     domain.SystemSender,
			receiver:   owner.Username,
			amount:     amount,
			kind:       domain.TransactionDeposit,
			typeStatus: domain.TransactionMain,
			desc:       fmt.Sprintf("Charging wallet - %s EUR.", amount.StringFixed(2)),
		}
		if !wallet.IsActive() {
			e.balance = wallet.Balance
			e.status = domain.TransactionFailed
			e.reason = reasonWalletInactive
			result, err = record(ctx, st, e, now)
			return err
		}

		wallet.Balance = wallet.Balance.Add(amount)
		wallet.UpdatedAt = now
		if err := st.Wallets().Save(ctx, wallet); err != nil {
			return err
		}
		if err := s.credits.accrue(ctx, st, ownerID, amount); err != nil {
			return err
		}
		e.balance = wallet.Balance
		e.status = domain.TransactionSucceeded
		result, err = record(ctx, st, e, now)
		return err
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id":   ownerID,
			"wallet_id": walletID,
			"amount":    amount.String(),
			"error":     err.Error(),
		}).Error("Charge failed")
		return nil, fmt.Errorf("charge wallet: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":   ownerID,
		"wallet_id": walletID,
		"amount":    amount.String(),
		"status":    result.Status,
	}).Info("Charge transaction")
	return result, nil
}

// Transfer moves in.Amount from the caller's wallet in.From to the first
// active wallet of in.Receiver. When no receiver wallet exists or the sender
// wallet cannot cover the amount, a FAILED MAIN entry is recorded and no
// balance changes. On success the receiver gets a SECONDARY deposit and the
// sender's MAIN withdrawal is returned.
func (s *WalletService) Transfer(ctx context.Context, ownerID uuid.UUID, in TransferInput) (*domain.Transaction, error) {
	if !domain.ValidAmount(in.Amount) {
		return nil, domain.ErrInvalidAmount
	}
	var result *domain.Transaction
	err := s.store.WithinTx(ctx, func(st repository.Store) error {
		sender, err := st.Wallets().GetByIDAndOwner(ctx, in.From, ownerID)
		if err != nil {
			return err
		}
		owner, err := st.Users().GetByID(ctx, ownerID)
		if err != nil {
			return err
		}
		if !owner.Active {
			return domain.ErrUserInactive
		}
		candidates, err := st.Wallets().ListByOwnerUsername(ctx, in.Receiver)
		if err != nil {
			return err
		}
		var receiver *domain.Wallet
		for i := range candidates {
			if candidates[i].IsActive() && candidates[i].ID != sender.ID {
				receiver = &candidates[i]
				break
			}
		}

		now := s.now()
		desc := fmt.Sprintf("Transferring currency from [%s] to [%s]", owner.Username, in.Receiver)
		if receiver == nil || !sender.CanDebit(in.Amount) {
			result, err = record(ctx, st, entry{
				owner:      ownerID,
				wallet:     walletRef(sender.ID),
				sender:     owner.Username,
				receiver:   in.Receiver,
				amount:     in.Amount,
				balance:    sender.Balance,
				kind:       domain.TransactionWithdrawal,
				status:     domain.TransactionFailed,
				typeStatus: domain.TransactionMain,
				desc:       desc,
				reason:     reasonInvalidTransfer,
			}, now)
			return err
		}

		receiver.Balance = receiver.Balance.Add(in.Amount) // Credit receiver
		receiver.UpdatedAt = now
		if err := st.Wallets().Save(ctx, receiver); err != nil {
			return err
		}
		if _, err := record(ctx, st, entry{
			owner:      receiver.OwnerID,
			wallet:     walletRef(receiver.ID),
			sender:     owner.Username,
			receiver:   in.Receiver,
			amount:     in.Amount,
			balance:    receiver.Balance,
			kind:       domain.TransactionDeposit,
			status:     domain.TransactionSucceeded,
			typeStatus: domain.TransactionSecondary,
			desc:       desc,
		}, now); err != nil {
			return err
		}

		sender.Balance = sender.Balance.Sub(in.Amount) // Debit sender
		sender.UpdatedAt = now
		if err := st.Wallets().Save(ctx, sender); err != nil {
			return err
		}
		result, err = record(ctx, st, entry{
			owner:      ownerID,
			wallet:     walletRef(sender.ID),
			sender:     owner.Username,
			receiver:   in.Receiver,
			amount:     in.Amount,
			balance:    sender.Balance,
			kind:       domain.TransactionWithdrawal,
			status:     domain.TransactionSucceeded,
			typeStatus: domain.TransactionMain,
			desc:       desc,
		}, now)
		return err
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id":   ownerID,
			"wallet_id": in.From,
			"receiver":  in.Receiver,
			"amount":    in.Amount.String(),
			"error":     err.Error(),
		}).Error("Transfer failed")
		return nil, fmt.Errorf("transfer: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":   ownerID,
		"wallet_id": in.From,
		"receiver":  in.Receiver,
		"amount":    in.Amount.String(),
		"status":    result.Status,
	}).Info("Transfer transaction")
	return result, nil
}

// PayCredit pays the owner's whole outstanding credit from walletID. Nothing
// owed, an inactive wallet or a short balance yields a FAILED withdrawal.
// Inactive owners may still pay.
func (s *WalletService) PayCredit(ctx context.Context, ownerID, walletID uuid.UUID) (*domain.Transaction, error) {
	var result *domain.Transaction
	err := s.store.WithinTx(ctx, func(st repository.Store) error {
		wallet, err := st.Wallets().GetByIDAndOwner(ctx, walletID, ownerID)
		if err != nil {
			return err
		}
		owner, err := st.Users().GetByID(ctx, ownerID)
		if err != nil {
			return err
		}
		credit, err := st.Credits().GetByOwner(ctx, ownerID)
		if err != nil {
			return err
		}

		now := s.now()
		amount := credit.Amount
		e := entry{
			owner:      ownerID,
			wallet:     walletRef(wallet.ID),
			sender:     owner.Username,
			receiver:   domain.SystemSender,
			amount:     amount,
			kind:       domain.TransactionWithdrawal,
			typeStatus: domain.TransactionMain,
			desc:       fmt.Sprintf("Paying credit - %s EUR.", amount.StringFixed(2)),
		}
		switch {
		case !amount.IsPositive():
			e.reason = reasonNoCredit
		case !wallet.IsActive():
			e.reason = reasonWalletInactive
		case wallet.Balance.LessThan(amount):
			e.reason = reasonInsufficient
		}
		if e.reason != "" {
			e.balance = wallet.Balance
			e.status = domain.TransactionFailed
			result, err = record(ctx, st, e, now)
			return err
		}

		wallet.Balance = wallet.Balance.Sub(amount)
		wallet.UpdatedAt = now
		if err := st.Wallets().Save(ctx, wallet); err != nil {
			return err
		}
		if err := s.credits.settle(ctx, st, credit); err != nil {
			return err
		}
		e.balance = wallet.Balance
		e.status = domain.TransactionSucceeded
		result, err = record(ctx, st, e, now)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("pay credit: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":   ownerID,
		"wallet_id": walletID,
		"amount":    result.Amount.String(),
		"status":    result.Status,
	}).Info("Credit payment")
	return result, nil
}

// LastTransactions returns the most recent entries of each wallet keyed by wallet id
func (s *WalletService) LastTransactions(ctx context.Context, wallets []domain.Wallet) (map[uuid.UUID][]domain.Transaction, error) {
	out := make(map[uuid.UUID][]domain.Transaction, len(wallets))
	for _, w := range wallets {
		txs, err := s.store.Transactions().LastByWallet(ctx, w.ID, LastTransactionsPerWallet)
		if err != nil {
			return nil, fmt.Errorf("last transactions of wallet %s: %w", w.ID, err)
		}
		out[w.ID] = txs
	}
	return out, nil
}

// Report aggregates every wallet
func (s *WalletService) Report(ctx context.Context) (*domain.WalletsReport, error) {
	wallets, err := s.store.Wallets().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("wallets report: %w", err)
	}
	report := &domain.WalletsReport{TotalWallets: len(wallets), TotalAmount: decimal.Zero, CreatedAt: s.now()}
	for _, w := range wallets {
		report.TotalAmount = report.TotalAmount.Add(w.Balance)
		if w.IsActive() {
			report.ActiveWallets++
		} else {
			report.InactiveWallets++
		}
	}
	return report, nil
}
