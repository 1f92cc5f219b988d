package repository

import (
	"fintrack/internal/models"

	"gorm.io/gorm"
)

// EntryFilter narrows ledger listings.
type EntryFilter struct {
	Range
	WalletID *uint
}

func (f EntryFilter) apply(q *gorm.DB) *gorm.DB {
	q = f.Range.apply(q, "date")
	if f.WalletID != nil {
		q = q.Where("wallet_id = ?", *f.WalletID)
	}
	return q.Order("date DESC").Order("created_at DESC").Order("id DESC")
}

type IncomeRepository struct {
	db *gorm.DB
}

func NewIncomeRepository(db *gorm.DB) *IncomeRepository {
	return &IncomeRepository{db: db}
}

func (r *IncomeRepository) WithTx(tx *gorm.DB) *IncomeRepository {
	return &IncomeRepository{db: tx}
}

func (r *IncomeRepository) Create(i *models.Income) error {
	return r.db.Create(i).Error
}

func (r *IncomeRepository) GetByID(id uint) (*models.Income, error) {
	var i models.Income
	if err := r.db.First(&i, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &i, nil
}

func (r *IncomeRepository) Save(i *models.Income) error {
	return r.db.Save(i).Error
}

func (r *IncomeRepository) Delete(id uint) error {
	return r.db.Delete(&models.Income{}, id).Error
}

func (r *IncomeRepository) DeleteByTransfer(transferID uint) error {
	return r.db.Where("transfer_id = ?", transferID).Delete(&models.Income{}).Error
}

func (r *IncomeRepository) List(f EntryFilter) ([]models.Income, error) {
	var list []models.Income
	err := f.apply(r.db).Find(&list).Error
	return list, err
}
