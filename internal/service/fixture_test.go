package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/internal/testutil/testdb"
	"fintrack/pkg/money"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events [][]models.Wallet
}

func (p *recordingPublisher) PublishBalances(wallets []models.Wallet) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, wallets)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type fixture struct {
	ctx        context.Context
	db         *gorm.DB
	pub        *recordingPublisher
	balances   *BalanceService
	wallets    *WalletService
	ledger     *LedgerService
	goals      *GoalService
	debts      *DebtService
	stats      *StatsService
	walletRepo *repository.WalletRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.New(t)
	loc := time.FixedZone("ICT", 7*3600)

	walletRepo := repository.NewWalletRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	incomeRepo := repository.NewIncomeRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	tipRepo := repository.NewTipRepository(db)
	transferRepo := repository.NewTransferRepository(db)

	pub := &recordingPublisher{}
	balances := NewBalanceService(db, ledgerRepo, walletRepo, pub)
	return &fixture{
		ctx:        context.Background(),
		db:         db,
		pub:        pub,
		balances:   balances,
		wallets:    NewWalletService(balances, walletRepo, ledgerRepo, incomeRepo, expenseRepo, transferRepo, "VND", loc),
		ledger:     NewLedgerService(balances, walletRepo, incomeRepo, expenseRepo, tipRepo, loc),
		goals:      NewGoalService(balances, walletRepo, repository.NewGoalRepository(db), loc),
		debts:      NewDebtService(db, repository.NewDebtRepository(db), loc),
		stats:      NewStatsService(balances, ledgerRepo, walletRepo),
		walletRepo: walletRepo,
	}
}

func amt(v int64) *money.Amount {
	a := money.Amount(v)
	return &a
}

func ptr[T any](v T) *T { return &v }

func (f *fixture) wallet(t *testing.T, name string) *models.Wallet {
	t.Helper()
	w, err := f.wallets.Create(f.ctx, WalletInput{Name: name})
	require.NoError(t, err)
	return w
}

// cached reads the stored balance, bypassing any recompute.
func (f *fixture) cached(t *testing.T, id uint) money.Amount {
	t.Helper()
	w, err := f.walletRepo.GetByID(id)
	require.NoError(t, err)
	return w.Balance
}

func (f *fixture) income(t *testing.T, walletID *uint, amount int64) *models.Income {
	t.Helper()
	inc, err := f.ledger.CreateIncome(f.ctx, EntryInput{
		Source:      "Salary",
		LedgerInput: LedgerInput{Amount: amt(amount), WalletID: walletID},
	})
	require.NoError(t, err)
	return inc
}

// requireConsistent checks that every wallet's cache equals the ledger sum.
func (f *fixture) requireConsistent(t *testing.T) {
	t.Helper()
	list, err := f.walletRepo.List(true)
	require.NoError(t, err)
	for _, w := range list {
		bal, err := f.balances.Recompute(f.db, w.ID)
		require.NoError(t, err)
		require.Equal(t, bal, w.Balance, "wallet %d (%s) cache drifted", w.ID, w.Name)
	}
}
