package service

import (
	"testing"

	"fintrack/internal/repository"
	"fintrack/pkg/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalContributionsMoveWalletBalance(t *testing.T) {
	f := newFixture(t)
	a := f.wallet(t, "A")
	b := f.wallet(t, "B")
	f.income(t, &a.ID, 100000)

	goal, err := f.goals.Create(f.ctx, GoalInput{Name: "Laptop", TargetAmount: amt(500000)})
	require.NoError(t, err)

	c, err := f.goals.CreateContribution(f.ctx, goal.ID, ContributionInput{Amount: amt(30000)})
	require.NoError(t, err)
	assert.Equal(t, a.ID, c.WalletID, "defaults to the default wallet")
	assert.Equal(t, money.Amount(70000), f.cached(t, a.ID))

	_, err = f.goals.CreateContribution(f.ctx, goal.ID, ContributionInput{Amount: amt(-10000), WalletID: &a.ID})
	require.NoError(t, err)
	assert.Equal(t, money.Amount(80000), f.cached(t, a.ID))

	got, err := f.goals.Get(f.ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, money.Amount(20000), got.SavedAmount)

	_, err = f.goals.UpdateContribution(f.ctx, goal.ID, c.ID, ContributionPatch{WalletID: &b.ID})
	require.NoError(t, err)
	assert.Equal(t, money.Amount(110000), f.cached(t, a.ID))
	assert.Equal(t, money.Amount(-30000), f.cached(t, b.ID))

	require.NoError(t, f.goals.Delete(f.ctx, goal.ID))
	assert.Equal(t, money.Amount(100000), f.cached(t, a.ID))
	assert.Equal(t, money.Amount(0), f.cached(t, b.ID))
	f.requireConsistent(t)
}

func TestGoalValidation(t *testing.T) {
	f := newFixture(t)
	var verr *ValidationError

	_, err := f.goals.Create(f.ctx, GoalInput{Name: "Trip", TargetAmount: amt(0)})
	require.ErrorAs(t, err, &verr)

	goal, err := f.goals.Create(f.ctx, GoalInput{Name: "Trip", TargetAmount: amt(100)})
	require.NoError(t, err)

	_, err = f.goals.CreateContribution(f.ctx, goal.ID, ContributionInput{Amount: amt(10)})
	assert.ErrorIs(t, err, ErrWalletNotFound, "a contribution needs a wallet")

	a := f.wallet(t, "A")
	_, err = f.goals.CreateContribution(f.ctx, goal.ID, ContributionInput{Amount: amt(0), WalletID: &a.ID})
	require.ErrorAs(t, err, &verr)

	_, err = f.goals.CreateContribution(f.ctx, 999, ContributionInput{Amount: amt(5), WalletID: &a.ID})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, f.goals.DeleteContribution(f.ctx, goal.ID, 12345), repository.ErrNotFound)
}

func TestDebtDoneFollowsPayments(t *testing.T) {
	f := newFixture(t)
	d, err := f.debts.Create(f.ctx, DebtInput{Title: "Loan from Minh", Amount: amt(1000), DueDate: "2025-06-30"})
	require.NoError(t, err)
	require.NotNil(t, d.DueDate)
	assert.Equal(t, money.Amount(1000), d.Remaining)

	_, err = f.debts.AddContribution(f.ctx, d.ID, DebtContributionInput{Amount: amt(400)})
	require.NoError(t, err)
	got, err := f.debts.Get(f.ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, got.Done)
	assert.Equal(t, money.Amount(400), got.PaidAmount)
	assert.Equal(t, money.Amount(600), got.Remaining)

	last, err := f.debts.AddContribution(f.ctx, d.ID, DebtContributionInput{Amount: amt(600)})
	require.NoError(t, err)
	got, err = f.debts.Get(f.ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, got.Done)
	assert.Equal(t, money.Amount(0), got.Remaining)

	require.NoError(t, f.debts.DeleteContribution(f.ctx, d.ID, last.ID))
	got, err = f.debts.Get(f.ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, got.Done, "reopened once payments no longer cover it")

	done := false
	open, err := f.debts.List(f.ctx, repository.DebtFilter{Done: &done, Query: "minh"})
	require.NoError(t, err)
	assert.Len(t, open, 1)

	require.NoError(t, f.debts.Delete(f.ctx, d.ID))
	_, err = f.debts.Get(f.ctx, d.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDebtsNeverTouchWallets(t *testing.T) {
	f := newFixture(t)
	a := f.wallet(t, "A")
	f.income(t, &a.ID, 500)
	d, err := f.debts.Create(f.ctx, DebtInput{Title: "Rent", Amount: amt(300)})
	require.NoError(t, err)
	_, err = f.debts.AddContribution(f.ctx, d.ID, DebtContributionInput{Amount: amt(300)})
	require.NoError(t, err)
	assert.Equal(t, money.Amount(500), f.cached(t, a.ID))
}
