package service

import (
	"testing"
	"time"

	"fintrack/internal/repository"
	"fintrack/pkg/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIncomeValidation(t *testing.T) {
	f := newFixture(t)
	f.wallet(t, "A")
	var verr *ValidationError

	_, err := f.ledger.CreateIncome(f.ctx, EntryInput{Source: "Salary"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "amount", verr.Field)

	_, err = f.ledger.CreateIncome(f.ctx, EntryInput{Source: "Salary", LedgerInput: LedgerInput{Amount: amt(-1)}})
	require.ErrorAs(t, err, &verr)

	_, err = f.ledger.CreateIncome(f.ctx, EntryInput{LedgerInput: LedgerInput{Amount: amt(1)}})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "source", verr.Field)

	_, err = f.ledger.CreateIncome(f.ctx, EntryInput{Source: "Salary", LedgerInput: LedgerInput{Amount: amt(1), Date: "yesterday"}})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "date", verr.Field)

	_, err = f.ledger.CreateIncome(f.ctx, EntryInput{Source: "Salary", LedgerInput: LedgerInput{Amount: amt(1), WalletID: ptr(uint(77))}})
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestLocalDateUsesLedgerZone(t *testing.T) {
	f := newFixture(t)
	a := f.wallet(t, "A")

	inc, err := f.ledger.CreateIncome(f.ctx, EntryInput{
		Source:      "Late shift",
		LedgerInput: LedgerInput{Amount: amt(1), Date: "2025-03-01T20:00:00Z", WalletID: &a.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-02", inc.LocalDate)
	assert.True(t, inc.Date.Equal(time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)))

	upd, err := f.ledger.UpdateIncome(f.ctx, inc.ID, EntryPatch{LedgerPatch: LedgerPatch{Date: ptr("2025-04-10")}})
	require.NoError(t, err)
	assert.Equal(t, "2025-04-10", upd.LocalDate)
}

func TestListFiltersByWalletAndRange(t *testing.T) {
	f := newFixture(t)
	a := f.wallet(t, "A")
	b := f.wallet(t, "B")
	for _, in := range []struct {
		wallet uint
		date   string
	}{
		{a.ID, "2025-01-05"},
		{a.ID, "2025-02-05"},
		{b.ID, "2025-02-06"},
	} {
		w := in.wallet
		_, err := f.ledger.CreateExpense(f.ctx, EntryInput{Source: "x", LedgerInput: LedgerInput{Amount: amt(1), Date: in.date, WalletID: &w}})
		require.NoError(t, err)
	}

	all, err := f.ledger.ListExpenses(f.ctx, repository.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2025-02-06", all[0].LocalDate, "newest first")

	onA, err := f.ledger.ListExpenses(f.ctx, repository.EntryFilter{WalletID: &a.ID})
	require.NoError(t, err)
	assert.Len(t, onA, 2)

	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	feb, err := f.ledger.ListExpenses(f.ctx, repository.EntryFilter{Range: repository.Range{From: &from}})
	require.NoError(t, err)
	assert.Len(t, feb, 2)
}

func TestDeleteTipUpdatesBalance(t *testing.T) {
	f := newFixture(t)
	a := f.wallet(t, "A")
	tip, err := f.ledger.CreateTip(f.ctx, TipInput{Received: true, LedgerInput: LedgerInput{Amount: amt(800)}})
	require.NoError(t, err)
	require.Equal(t, a.ID, *tip.WalletID)
	require.Equal(t, money.Amount(800), f.cached(t, a.ID))

	require.NoError(t, f.ledger.DeleteTip(f.ctx, tip.ID))
	assert.Equal(t, money.Amount(0), f.cached(t, a.ID))
	assert.ErrorIs(t, f.ledger.DeleteTip(f.ctx, tip.ID), repository.ErrNotFound)
}

func TestAmountsAreCapped(t *testing.T) {
	f := newFixture(t)
	a := f.wallet(t, "A")
	b := f.wallet(t, "B")
	over := int64(money.MaxAmount) + 1

	inc := f.income(t, &a.ID, int64(money.MaxAmount))
	assert.Equal(t, money.MaxAmount, f.cached(t, a.ID))

	_, err := f.ledger.CreateIncome(f.ctx, EntryInput{Source: "Pay", LedgerInput: LedgerInput{Amount: amt(over), WalletID: &a.ID}})
	assert.ErrorIs(t, err, money.ErrOverflow)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "amount", verr.Field)

	_, err = f.ledger.UpdateIncome(f.ctx, inc.ID, EntryPatch{LedgerPatch: LedgerPatch{Amount: amt(over)}})
	assert.ErrorIs(t, err, money.ErrOverflow)

	_, err = f.wallets.Transfer(f.ctx, TransferInput{FromWalletID: a.ID, ToWalletID: b.ID, Amount: amt(over)})
	assert.ErrorIs(t, err, money.ErrOverflow)

	_, err = f.goals.Create(f.ctx, GoalInput{Name: "Moon", TargetAmount: amt(over)})
	assert.ErrorIs(t, err, money.ErrOverflow)
	goal, err := f.goals.Create(f.ctx, GoalInput{Name: "Moon", TargetAmount: amt(int64(money.MaxAmount))})
	require.NoError(t, err)
	_, err = f.goals.CreateContribution(f.ctx, goal.ID, ContributionInput{Amount: amt(-over), WalletID: &a.ID})
	assert.ErrorIs(t, err, money.ErrOverflow)

	_, err = f.debts.Create(f.ctx, DebtInput{Title: "Loan", Amount: amt(over)})
	assert.ErrorIs(t, err, money.ErrOverflow)
	debt, err := f.debts.Create(f.ctx, DebtInput{Title: "Loan", Amount: amt(10)})
	require.NoError(t, err)
	_, err = f.debts.AddContribution(f.ctx, debt.ID, DebtContributionInput{Amount: amt(over)})
	assert.ErrorIs(t, err, money.ErrOverflow)

	assert.Equal(t, money.MaxAmount, f.cached(t, a.ID))
	f.requireConsistent(t)
}
