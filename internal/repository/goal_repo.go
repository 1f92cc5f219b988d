package repository

import (
	"fintrack/internal/models"
	"fintrack/pkg/money"

	"gorm.io/gorm"
)

type GoalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

func (r *GoalRepository) WithTx(tx *gorm.DB) *GoalRepository {
	return &GoalRepository{db: tx}
}

func (r *GoalRepository) Create(g *models.Goal) error {
	return r.db.Create(g).Error
}

func (r *GoalRepository) GetByID(id uint) (*models.Goal, error) {
	var g models.Goal
	if err := r.db.First(&g, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &g, nil
}

func (r *GoalRepository) Save(g *models.Goal) error {
	return r.db.Save(g).Error
}

func (r *GoalRepository) Delete(id uint) error {
	return r.db.Delete(&models.Goal{}, id).Error
}

func (r *GoalRepository) List() ([]models.Goal, error) {
	var list []models.Goal
	err := r.db.Order("created_at DESC").Order("id DESC").Find(&list).Error
	return list, err
}

// SavedAmounts sums contributions per goal.
func (r *GoalRepository) SavedAmounts(goalIDs []uint) (map[uint]money.Amount, error) {
	out := make(map[uint]money.Amount, len(goalIDs))
	if len(goalIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Model(&models.GoalContribution{}).
		Select("goal_id, SUM(amount)").
		Where("goal_id IN ?", goalIDs).
		Group("goal_id").Rows()
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

func (r *GoalRepository) CreateContribution(c *models.GoalContribution) error {
	return r.db.Create(c).Error
}

// GetContribution returns contribution id if it belongs to goalID.
func (r *GoalRepository) GetContribution(goalID, id uint) (*models.GoalContribution, error) {
	var c models.GoalContribution
	if err := r.db.Where("goal_id = ?", goalID).First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *GoalRepository) SaveContribution(c *models.GoalContribution) error {
	return r.db.Save(c).Error
}

func (r *GoalRepository) DeleteContribution(id uint) error {
	return r.db.Delete(&models.GoalContribution{}, id).Error
}

func (r *GoalRepository) ListContributions(goalID uint) ([]models.GoalContribution, error) {
	var list []models.GoalContribution
	err := r.db.Where("goal_id = ?", goalID).
		Order("date DESC").Order("created_at DESC").Order("id DESC").
		Find(&list).Error
	return list, err
}

// DeleteContributions removes all of a goal's contributions and returns the
// wallets they referenced.
func (r *GoalRepository) DeleteContributions(goalID uint) ([]uint, error) {
	var walletIDs []uint
	if err := r.db.Model(&models.GoalContribution{}).Where("goal_id = ?", goalID).
		Distinct().Pluck("wallet_id", &walletIDs).Error; err != nil {
		return nil, err
	}
	if err := r.db.Where("goal_id = ?", goalID).Delete(&models.GoalContribution{}).Error; err != nil {
		return nil, err
	}
	return walletIDs, nil
}
