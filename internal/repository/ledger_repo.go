package repository

import (
	"time"

	"fintrack/internal/models"
	"fintrack/pkg/money"

	"gorm.io/gorm"
)

// Totals are the per-kind aggregates that make up a balance.
type Totals struct {
	Income        money.Amount `json:"totalIncome"`
	Tips          money.Amount `json:"totalTip"`
	Expense       money.Amount `json:"totalExpense"`
	Contributions money.Amount `json:"totalGoalContributions"`
}

// LedgerRepository runs the cross-collection queries over incomes, expenses,
// tips and goal contributions.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) WithTx(tx *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: tx}
}

const walletTotalsSQL = `SELECT
	(SELECT SUM(amount) FROM incomes WHERE wallet_id = ?),
	(SELECT SUM(amount) FROM tips WHERE wallet_id = ? AND received = ?),
	(SELECT SUM(amount) FROM expenses WHERE wallet_id = ?),
	(SELECT SUM(amount) FROM goal_contributions WHERE wallet_id = ?)`

// WalletTotals aggregates every ledger row that references walletID. The four
// sums are independent sub-queries evaluated in one round trip.
func (r *LedgerRepository) WalletTotals(walletID uint) (Totals, error) {
	var inc, tip, exp, contrib money.Sum
	row := r.db.Raw(walletTotalsSQL, walletID, walletID, true, walletID, walletID).Row()
	if err := row.Scan(&inc, &tip, &exp, &contrib); err != nil {
		return Totals{}, err
	}
	var t Totals
	for _, f := range []struct {
		dst *money.Amount
		src money.Sum
	}{{&t.Income, inc}, {&t.Tips, tip}, {&t.Expense, exp}, {&t.Contributions, contrib}} {
		v, err := f.src.Amount()
		if err != nil {
			return Totals{}, err
		}
		*f.dst = v
	}
	return t, nil
}

// Range bounds aggregate and list queries by date; nil ends are open.
type Range struct {
	From *time.Time
	To   *time.Time
}

func (rg Range) apply(q *gorm.DB, col string) *gorm.DB {
	if rg.From != nil {
		q = q.Where(col+" >= ?", *rg.From)
	}
	if rg.To != nil {
		q = q.Where(col+" <= ?", *rg.To)
	}
	return q
}

// ReportTotals aggregates all rows in rg. Transfer legs are left out of the
// income and expense totals because they only move money between wallets.
func (r *LedgerRepository) ReportTotals(rg Range) (Totals, error) {
	var t Totals
	sum := func(model interface{}, scope func(*gorm.DB) *gorm.DB) (money.Amount, error) {
		var s money.Sum
		q := rg.apply(r.db.Model(model), "date")
		if scope != nil {
			q = scope(q)
		}
		if err := q.Select("SUM(amount)").Row().Scan(&s); err != nil {
			return 0, err
		}
		return s.Amount()
	}
	noTransfer := func(q *gorm.DB) *gorm.DB { return q.Where("transfer_id IS NULL") }
	var err error
	if t.Income, err = sum(&models.Income{}, noTransfer); err != nil {
		return t, err
	}
	if t.Expense, err = sum(&models.Expense{}, noTransfer); err != nil {
		return t, err
	}
	if t.Tips, err = sum(&models.Tip{}, func(q *gorm.DB) *gorm.DB { return q.Where("received = ?", true) }); err != nil {
		return t, err
	}
	if t.Contributions, err = sum(&models.GoalContribution{}, nil); err != nil {
		return t, err
	}
	return t, nil
}

// WalletIDsInUse returns the distinct wallets referenced by incomes, expenses
// and tips.
func (r *LedgerRepository) WalletIDsInUse() ([]uint, error) {
	seen := make(map[uint]struct{})
	var out []uint
	for _, table := range []string{"incomes", "expenses", "tips"} {
		var ids []uint
		if err := r.db.Table(table).Where("wallet_id IS NOT NULL").Distinct().Pluck("wallet_id", &ids).Error; err != nil {
			return nil, err
		}
		for _, id := range ids {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}
	return out, nil
}

// AssignAll points every income, expense and tip at walletID.
func (r *LedgerRepository) AssignAll(walletID uint) error {
	for _, model := range []interface{}{&models.Income{}, &models.Expense{}, &models.Tip{}} {
		if err := r.db.Model(model).Where("1 = 1").Update("wallet_id", walletID).Error; err != nil {
			return err
		}
	}
	return nil
}

// AssignOrphans points walletless incomes, expenses and tips at walletID.
func (r *LedgerRepository) AssignOrphans(walletID uint) (int64, error) {
	var n int64
	for _, model := range []interface{}{&models.Income{}, &models.Expense{}, &models.Tip{}} {
		res := r.db.Model(model).Where("wallet_id IS NULL").Update("wallet_id", walletID)
		if res.Error != nil {
			return n, res.Error
		}
		n += res.RowsAffected
	}
	return n, nil
}
