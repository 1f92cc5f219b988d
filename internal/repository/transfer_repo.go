package repository

import (
	"fintrack/internal/models"

	"gorm.io/gorm"
)

type TransferRepository struct {
	db *gorm.DB
}

func NewTransferRepository(db *gorm.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

func (r *TransferRepository) WithTx(tx *gorm.DB) *TransferRepository {
	return &TransferRepository{db: tx}
}

func (r *TransferRepository) Create(t *models.Transfer) error {
	return r.db.Create(t).Error
}

func (r *TransferRepository) GetByID(id uint) (*models.Transfer, error) {
	var t models.Transfer
	if err := r.db.First(&t, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *TransferRepository) Delete(id uint) error {
	return r.db.Delete(&models.Transfer{}, id).Error
}

// List returns transfers touching walletID (either side), newest first.
func (r *TransferRepository) List(walletID *uint, limit, offset int) ([]models.Transfer, error) {
	var list []models.Transfer
	q := r.db.Order("date DESC").Order("id DESC")
	if walletID != nil {
		q = q.Where("from_wallet_id = ? OR to_wallet_id = ?", *walletID, *walletID)
	}
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	err := q.Find(&list).Error
	return list, err
}
