package repository

import (
	"fintrack/internal/models"

	"gorm.io/gorm"
)

type TipRepository struct {
	db *gorm.DB
}

func NewTipRepository(db *gorm.DB) *TipRepository {
	return &TipRepository{db: db}
}

func (r *TipRepository) WithTx(tx *gorm.DB) *TipRepository {
	return &TipRepository{db: tx}
}

func (r *TipRepository) Create(t *models.Tip) error {
	return r.db.Create(t).Error
}

func (r *TipRepository) GetByID(id uint) (*models.Tip, error) {
	var t models.Tip
	if err := r.db.First(&t, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *TipRepository) Save(t *models.Tip) error {
	return r.db.Save(t).Error
}

func (r *TipRepository) Delete(id uint) error {
	return r.db.Delete(&models.Tip{}, id).Error
}

func (r *TipRepository) List(f EntryFilter) ([]models.Tip, error) {
	var list []models.Tip
	err := f.apply(r.db).Find(&list).Error
	return list, err
}
