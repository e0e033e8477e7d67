package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trusty_wallet/internal/domain"
)

func TestChargeUpTwice(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "alice")
	w := f.defaultWallet(t, u.ID)

	tx, err := f.svc.Wallets.ChargeUp(f.ctx, u.ID, w.ID, dec("10"))
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionSucceeded, tx.Status)
	assert.Equal(t, domain.TransactionDeposit, tx.Type)
	assert.Equal(t, domain.TransactionMain, tx.TypeStatus)
	assert.Equal(t, domain.SystemSender, tx.Sender)
	assert.Equal(t, "alice", tx.Receiver)
	assert.Equal(t, "Charging wallet - 10.00 EUR.", tx.Description)
	requireDecimal(t, "20", tx.BalanceLeft)

	_, err = f.svc.Wallets.ChargeUp(f.ctx, u.ID, w.ID, dec("15"))
	require.NoError(t, err)

	requireDecimal(t, "35", f.defaultWallet(t, u.ID).Balance)
	requireDecimal(t, "25", f.credit(t, u.ID).Amount)
}

func TestChargeUpInactiveWallet(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "alice")
	saving := f.wallet(t, u.ID, domain.WalletSaving)

	tx, err := f.svc.Wallets.ChargeUp(f.ctx, u.ID, saving.ID, dec("5"))
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionFailed, tx.Status)
	assert.NotEmpty(t, tx.FailureReason)
	requireDecimal(t, "0", tx.BalanceLeft)

	requireDecimal(t, "0", f.wallet(t, u.ID, domain.WalletSaving).Balance)
	requireDecimal(t, "0", f.credit(t, u.ID).Amount)
}

func TestChargeUpRejectsNonPositive(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "alice")
	w := f.defaultWallet(t, u.ID)

	for _, amount := range []string{"0", "-1"} {
		_, err := f.svc.Wallets.ChargeUp(f.ctx, u.ID, w.ID, dec(amount))
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	}
	assert.Empty(t, f.ledger(t))
}

func TestChargeUpRejectsSubCentAmounts(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "alice")
	w := f.defaultWallet(t, u.ID)

	for _, amount := range []string{"0.001", "1.005"} {
		_, err := f.svc.Wallets.ChargeUp(f.ctx, u.ID, w.ID, dec(amount))
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, amount)
	}
	assert.Empty(t, f.ledger(t))
	requireDecimal(t, "10", f.defaultWallet(t, u.ID).Balance)

	tx, err := f.svc.Wallets.ChargeUp(f.ctx, u.ID, w.ID, dec("1.500"))
	require.NoError(t, err)
	requireDecimal(t, "11.5", tx.BalanceLeft)
}

func TestChargeUpInactiveOwner(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "alice")
	w := f.defaultWallet(t, u.ID)
	_, err := f.svc.Users.ChangeStatus(f.ctx, u.ID)
	require.NoError(t, err)

	_, err = f.svc.Wallets.ChargeUp(f.ctx, u.ID, w.ID, dec("5"))
	assert.ErrorIs(t, err, domain.ErrUserInactive)
	assert.Empty(t, f.ledger(t))
	requireDecimal(t, "10", f.defaultWallet(t, u.ID).Balance)
	requireDecimal(t, "0", f.credit(t, u.ID).Amount)
}

func TestChargeUpForeignWallet(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	_, err := f.svc.Wallets.ChargeUp(f.ctx, alice.ID, f.defaultWallet(t, bob.ID).ID, dec("5"))
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func TestTransferMovesExactAmount(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	from := f.defaultWallet(t, alice.ID)

	tx, err := f.svc.Wallets.Transfer(f.ctx, alice.ID, TransferInput{From: from.ID, Receiver: "bob", Amount: dec("4.25")})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionSucceeded, tx.Status)
	assert.Equal(t, domain.TransactionWithdrawal, tx.Type)
	assert.Equal(t, domain.TransactionMain, tx.TypeStatus)
	assert.Equal(t, alice.ID, tx.OwnerID)
	assert.Equal(t, "Transferring currency from [alice] to [bob]", tx.Description)
	requireDecimal(t, "5.75", tx.BalanceLeft)

	requireDecimal(t, "5.75", f.defaultWallet(t, alice.ID).Balance)
	requireDecimal(t, "14.25", f.defaultWallet(t, bob.ID).Balance)

	ledger := f.ledger(t)
	require.Len(t, ledger, 2)
	mirror := ledger[0]
	assert.Equal(t, bob.ID, mirror.OwnerID)
	assert.Equal(t, domain.TransactionSecondary, mirror.TypeStatus)
	assert.Equal(t, domain.TransactionDeposit, mirror.Type)
	requireDecimal(t, "14.25", mirror.BalanceLeft)
}

func TestTransferFailures(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		receiver string
		prepare  func(t *testing.T, f *fixture, alice, bob *domain.User)
	}{
		{name: "insufficient funds", amount: "10.01", receiver: "bob"},
		{name: "unknown receiver", amount: "1", receiver: "nobody"},
		{
			name: "inactive sender", amount: "1", receiver: "bob",
			prepare: func(t *testing.T, f *fixture, alice, _ *domain.User) {
				_, err := f.svc.Wallets.ChangeStatus(f.ctx, alice.ID, f.defaultWallet(t, alice.ID).ID)
				require.NoError(t, err)
			},
		},
		{
			name: "receiver without active wallet", amount: "1", receiver: "bob",
			prepare: func(t *testing.T, f *fixture, _, bob *domain.User) {
				_, err := f.svc.Wallets.ChangeStatus(f.ctx, bob.ID, f.defaultWallet(t, bob.ID).ID)
				require.NoError(t, err)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			alice := f.register(t, "alice")
			bob := f.register(t, "bob")
			if tt.prepare != nil {
				tt.prepare(t, f, alice, bob)
			}
			from := f.defaultWallet(t, alice.ID)

			tx, err := f.svc.Wallets.Transfer(f.ctx, alice.ID, TransferInput{From: from.ID, Receiver: tt.receiver, Amount: dec(tt.amount)})
			require.NoError(t, err)
			assert.Equal(t, domain.TransactionFailed, tx.Status)
			assert.Equal(t, domain.TransactionMain, tx.TypeStatus)
			assert.Equal(t, "Invalid criteria for transaction", tx.FailureReason)
			requireDecimal(t, "10", tx.BalanceLeft)

			requireDecimal(t, "10", f.defaultWallet(t, alice.ID).Balance)
			requireDecimal(t, "10", f.defaultWallet(t, bob.ID).Balance)
			require.Len(t, f.ledger(t), 1)
		})
	}
}

func TestTransferToSelfUsesAnotherWallet(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	from := f.defaultWallet(t, alice.ID)

	tx, err := f.svc.Wallets.Transfer(f.ctx, alice.ID, TransferInput{From: from.ID, Receiver: "alice", Amount: dec("1")})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionFailed, tx.Status)

	saving := f.wallet(t, alice.ID, domain.WalletSaving)
	_, err = f.svc.Wallets.ChangeStatus(f.ctx, alice.ID, saving.ID)
	require.NoError(t, err)

	tx, err = f.svc.Wallets.Transfer(f.ctx, alice.ID, TransferInput{From: from.ID, Receiver: "alice", Amount: dec("3")})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionSucceeded, tx.Status)
	requireDecimal(t, "7", f.defaultWallet(t, alice.ID).Balance)
	requireDecimal(t, "3", f.wallet(t, alice.ID, domain.WalletSaving).Balance)
}

func TestTransferValidation(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	f.register(t, "bob")

	_, err := f.svc.Wallets.Transfer(f.ctx, alice.ID, TransferInput{From: f.defaultWallet(t, alice.ID).ID, Receiver: "bob", Amount: dec("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = f.svc.Wallets.Transfer(f.ctx, alice.ID, TransferInput{From: uuid.New(), Receiver: "bob", Amount: dec("1")})
	assert.True(t, errors.Is(err, domain.ErrWalletNotFound))
	assert.Empty(t, f.ledger(t))
}

func TestTransferRejectsSubCentAmounts(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	from := f.defaultWallet(t, alice.ID)

	_, err := f.svc.Wallets.Transfer(f.ctx, alice.ID, TransferInput{From: from.ID, Receiver: "bob", Amount: dec("0.005")})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	assert.Empty(t, f.ledger(t))
	requireDecimal(t, "10", f.defaultWallet(t, alice.ID).Balance)
	requireDecimal(t, "10", f.defaultWallet(t, bob.ID).Balance)
}

func TestTransferInactiveOwner(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	from := f.defaultWallet(t, alice.ID)
	_, err := f.svc.Users.ChangeStatus(f.ctx, alice.ID)
	require.NoError(t, err)

	_, err = f.svc.Wallets.Transfer(f.ctx, alice.ID, TransferInput{From: from.ID, Receiver: "bob", Amount: dec("1")})
	assert.ErrorIs(t, err, domain.ErrUserInactive)
	assert.Empty(t, f.ledger(t))
	requireDecimal(t, "10", f.defaultWallet(t, alice.ID).Balance)
	requireDecimal(t, "10", f.defaultWallet(t, bob.ID).Balance)
}

func TestChangeStatusToggles(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "alice")
	w := f.defaultWallet(t, u.ID)

	got, err := f.svc.Wallets.ChangeStatus(f.ctx, u.ID, w.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WalletInactive, got.Status)

	got, err = f.svc.Wallets.ChangeStatus(f.ctx, u.ID, w.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WalletActive, got.Status)

	_, err = f.svc.Wallets.ChangeStatus(f.ctx, uuid.New(), w.ID)
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func TestPayCredit(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "alice")
	w := f.defaultWallet(t, u.ID)
	_, err := f.svc.Wallets.ChargeUp(f.ctx, u.ID, w.ID, dec("7.5"))
	require.NoError(t, err)

	tx, err := f.svc.Wallets.PayCredit(f.ctx, u.ID, w.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionSucceeded, tx.Status)
	assert.Equal(t, domain.TransactionWithdrawal, tx.Type)
	assert.Equal(t, domain.SystemSender, tx.Receiver)
	requireDecimal(t, "7.5", tx.Amount)
	requireDecimal(t, "10", tx.BalanceLeft)

	credit := f.credit(t, u.ID)
	requireDecimal(t, "0", credit.Amount)
	assert.Equal(t, domain.CreditPayed, credit.Status)
	require.NotNil(t, credit.PaidOn)
	require.NotNil(t, credit.NextPaymentOn)
	assert.Equal(t, "2024-02-01", credit.NextPaymentOn.Format("2006-01-02"))
}

func TestPayCreditFailures(t *testing.T) {
	t.Run("nothing owed", func(t *testing.T) {
		f := newFixture(t)
		u := f.register(t, "alice")

		tx, err := f.svc.Wallets.PayCredit(f.ctx, u.ID, f.defaultWallet(t, u.ID).ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TransactionFailed, tx.Status)
		requireDecimal(t, "10", f.defaultWallet(t, u.ID).Balance)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		f := newFixture(t)
		alice := f.register(t, "alice")
		f.register(t, "bob")
		w := f.defaultWallet(t, alice.ID)
		_, err := f.svc.Wallets.ChargeUp(f.ctx, alice.ID, w.ID, dec("5"))
		require.NoError(t, err)
		_, err = f.svc.Wallets.Transfer(f.ctx, alice.ID, TransferInput{From: w.ID, Receiver: "bob", Amount: dec("12")})
		require.NoError(t, err)

		tx, err := f.svc.Wallets.PayCredit(f.ctx, alice.ID, w.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TransactionFailed, tx.Status)
		requireDecimal(t, "3", tx.BalanceLeft)
		requireDecimal(t, "5", f.credit(t, alice.ID).Amount)
	})
}

func TestLastTransactions(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "alice")
	w := f.defaultWallet(t, u.ID)
	for _, amount := range []string{"1", "2", "3", "4", "5", "6"} {
		_, err := f.svc.Wallets.ChargeUp(f.ctx, u.ID, w.ID, dec(amount))
		require.NoError(t, err)
	}
	ws, err := f.svc.Wallets.ListByOwner(f.ctx, u.ID)
	require.NoError(t, err)

	last, err := f.svc.Wallets.LastTransactions(f.ctx, ws)
	require.NoError(t, err)
	require.Len(t, last[w.ID], LastTransactionsPerWallet)
	requireDecimal(t, "6", last[w.ID][0].Amount)
	assert.Empty(t, last[f.wallet(t, u.ID, domain.WalletSaving).ID])
}

func TestWalletsReport(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")
	f.register(t, "bob")

	report, err := f.svc.Wallets.Report(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, report.TotalWallets)
	assert.Equal(t, 2, report.ActiveWallets)
	assert.Equal(t, 4, report.InactiveWallets)
	requireDecimal(t, "20", report.TotalAmount)
}

func TestCustomWalletSeeds(t *testing.T) {
	f := newFixture(t)
	f.svc = New(f.store, Options{
		Now: f.clock.Now,
		Seeds: []domain.WalletSeed{
			{Type: domain.WalletDefault, Balance: dec("100"), Status: domain.WalletActive},
		},
	})

	u := f.register(t, "alice")
	require.Len(t, u.Wallets, 1)
	requireDecimal(t, "100", u.Wallets[0].Balance)
}
