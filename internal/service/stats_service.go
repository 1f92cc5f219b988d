package service

import (
	"context"

	"fintrack/internal/repository"
	"fintrack/pkg/money"
)

// KPI is the dashboard summary.
type KPI struct {
	repository.Totals
	// TotalBalance applies the wallet balance formula to every row in range.
	TotalBalance money.Amount `json:"totalBalance"`
	// SumWallets adds up the cached balances of active wallets. Without a
	// range it matches TotalBalance unless rows sit on archived wallets or
	// have no wallet at all.
	SumWallets money.Amount `json:"sumWallets"`
}

type StatsService struct {
	balances *BalanceService
	ledger   *repository.LedgerRepository
	wallets  *repository.WalletRepository
}

func NewStatsService(balances *BalanceService, ledger *repository.LedgerRepository, wallets *repository.WalletRepository) *StatsService {
	return &StatsService{balances: balances, ledger: ledger, wallets: wallets}
}

func (s *StatsService) KPI(ctx context.Context, rg repository.Range) (*KPI, error) {
	db := s.balances.db.WithContext(ctx)
	totals, err := s.ledger.WithTx(db).ReportTotals(rg)
	if err != nil {
		return nil, err
	}
	wallets, err := s.wallets.WithTx(db).List(false)
	if err != nil {
		return nil, err
	}
	k := &KPI{Totals: totals}
	if k.TotalBalance, err = Balance(totals); err != nil {
		return nil, err
	}
	for _, w := range wallets {
		if k.SumWallets, err = money.Add(k.SumWallets, w.Balance); err != nil {
			return nil, err
		}
	}
	return k, nil
}
