package repository

import (
	"strings"

	"fintrack/internal/models"
	"fintrack/pkg/money"

	"gorm.io/gorm"
)

type DebtFilter struct {
	Range // on due_date
	Done  *bool
	Query string
}

type DebtRepository struct {
	db *gorm.DB
}

func NewDebtRepository(db *gorm.DB) *DebtRepository {
	return &DebtRepository{db: db}
}

func (r *DebtRepository) WithTx(tx *gorm.DB) *DebtRepository {
	return &DebtRepository{db: tx}
}

func (r *DebtRepository) Create(d *models.Debt) error {
	return r.db.Create(d).Error
}

func (r *DebtRepository) GetByID(id uint) (*models.Debt, error) {
	var d models.Debt
	if err := r.db.First(&d, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (r *DebtRepository) Save(d *models.Debt) error {
	return r.db.Save(d).Error
}

func (r *DebtRepository) Delete(id uint) error {
	if err := r.db.Where("debt_id = ?", id).Delete(&models.DebtContribution{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Debt{}, id).Error
}

func (r *DebtRepository) List(f DebtFilter) ([]models.Debt, error) {
	var list []models.Debt
	q := f.Range.apply(r.db, "due_date")
	if f.Done != nil {
		q = q.Where("done = ?", *f.Done)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(note) LIKE ?", like, like)
	}
	err := q.Order("done ASC").Order("due_date ASC").Order("created_at DESC").Find(&list).Error
	return list, err
}

// PaidAmounts sums contributions per debt.
func (r *DebtRepository) PaidAmounts(debtIDs []uint) (map[uint]money.Amount, error) {
	out := make(map[uint]money.Amount, len(debtIDs))
	if len(debtIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Model(&models.DebtContribution{}).
		Select("debt_id, SUM(amount)").
		Where("debt_id IN ?", debtIDs).
		Group("debt_id").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id uint
		var s money.Sum
		if err := rows.Scan(&id, &s); err != nil {
			return nil, err
		}
		if out[id], err = s.Amount(); err != nil {
			return nil, err
		}
	}
	return out, rows.Err()
}

func (r *DebtRepository) CreateContribution(c *models.DebtContribution) error {
	return r.db.Create(c).Error
}

func (r *DebtRepository) GetContribution(debtID, id uint) (*models.DebtContribution, error) {
	var c models.DebtContribution
	if err := r.db.Where("debt_id = ?", debtID).First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *DebtRepository) DeleteContribution(id uint) error {
	return r.db.Delete(&models.DebtContribution{}, id).Error
}

func (r *DebtRepository) ListContributions(debtID uint) ([]models.DebtContribution, error) {
	var list []models.DebtContribution
	err := r.db.Where("debt_id = ?", debtID).
		Order("date DESC").Order("created_at DESC").Order("id DESC").
		Find(&list).Error
	return list, err
}
