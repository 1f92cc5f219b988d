package service

import (
	"context"
	"database/sql"
	"log"
	"sort"

	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/pkg/money"

	"gorm.io/gorm"
)

// BalancePublisher is told about wallet balances after a commit.
type BalancePublisher interface {
	PublishBalances(wallets []models.Wallet)
}

// BalanceService owns the balance formula and the transaction wrapper that
// every ledger mutation goes through.
type BalanceService struct {
	db        *gorm.DB
	ledger    *repository.LedgerRepository
	wallets   *repository.WalletRepository
	publisher BalancePublisher
}

func NewBalanceService(db *gorm.DB, ledger *repository.LedgerRepository, wallets *repository.WalletRepository, publisher BalancePublisher) *BalanceService {
	return &BalanceService{db: db, ledger: ledger, wallets: wallets, publisher: publisher}
}

// Balance is income plus received tips minus expenses minus goal contributions.
// It fails with money.ErrOverflow instead of wrapping.
func Balance(t repository.Totals) (money.Amount, error) {
	bal, err := money.Add(t.Income, t.Tips)
	if err != nil {
		return 0, err
	}
	if bal, err = money.Sub(bal, t.Expense); err != nil {
		return 0, err
	}
	return money.Sub(bal, t.Contributions)
}

// Recompute derives walletID's balance from the ledger. It only reads.
func (s *BalanceService) Recompute(tx *gorm.DB, walletID uint) (money.Amount, error) {
	t, err := s.ledger.WithTx(tx).WalletTotals(walletID)
	if err != nil {
		return 0, err
	}
	return Balance(t)
}

// Store recomputes each wallet in ids and writes the result into its cached
// balance. The wallet rows are locked before the ledger is summed, so a
// concurrent mutation of the same wallet is either fully counted or waits.
// A missing wallet aborts with ErrWalletNotFound.
func (s *BalanceService) Store(tx *gorm.DB, ids ...uint) ([]models.Wallet, error) {
	wallets := s.wallets.WithTx(tx)
	ids = uniqueIDs(ids)
	locked, err := wallets.LockByIDs(ids...)
	if err != nil {
		return nil, err
	}
	out := make([]models.Wallet, 0, len(ids))
	for _, id := range ids {
		w, ok := locked[id]
		if !ok {
			return nil, ErrWalletNotFound
		}
		bal, err := s.Recompute(tx, id)
		if err != nil {
			return nil, err
		}
		if bal != w.Balance {
			if err := wallets.UpdateBalance(id, bal); err != nil {
				return nil, err
			}
			w.Balance = bal
		}
		out = append(out, *w)
	}
	return out, nil
}

// Mutate runs fn in a transaction, then recomputes and stores every wallet id
// fn reports as affected, in the same transaction. Either everything commits
// or nothing does. Subscribers hear about the new balances after commit.
func (s *BalanceService) Mutate(ctx context.Context, fn func(tx *gorm.DB) ([]uint, error)) error {
	var updated []models.Wallet
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := fn(tx)
		if err != nil {
			return err
		}
		updated, err = s.Store(tx, affected...)
		return err
	}, txOptions(s.db.Dialector.Name())...)
	if err != nil {
		return err
	}
	s.publish(updated)
	return nil
}

// RecomputeAll rewrites every wallet's cached balance, archived ones included.
func (s *BalanceService) RecomputeAll(ctx context.Context) (int, error) {
	var n int
	err := s.Mutate(ctx, func(tx *gorm.DB) ([]uint, error) {
		list, err := s.wallets.WithTx(tx).List(true)
		if err != nil {
			return nil, err
		}
		ids := make([]uint, len(list))
		for i, w := range list {
			ids[i] = w.ID
		}
		n = len(ids)
		return ids, nil
	})
	if err != nil {
		return 0, err
	}
	log.Printf("[Balance] recomputed %d wallets", n)
	return n, nil
}

// txOptions runs MySQL transactions at READ COMMITTED. Under the default
// REPEATABLE READ a sum taken after waiting on a wallet lock would still miss
// the rows the lock holder committed. SQLite serializes writers and needs none.
func txOptions(dialect string) []*sql.TxOptions {
	if dialect == "mysql" {
		return []*sql.TxOptions{{Isolation: sql.LevelReadCommitted}}
	}
	return nil
}

func (s *BalanceService) publish(wallets []models.Wallet) {
	if s.publisher == nil || len(wallets) == 0 {
		return
	}
	s.publisher.PublishBalances(wallets)
}

// affected collects the non-nil wallet ids a mutation touched.
func affected(ids ...*uint) []uint {
	var out []uint
	for _, id := range ids {
		if id != nil && *id != 0 {
			out = append(out, *id)
		}
	}
	return out
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
