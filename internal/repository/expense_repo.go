package repository

import (
	"fintrack/internal/models"

	"gorm.io/gorm"
)

type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) WithTx(tx *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: tx}
}

func (r *ExpenseRepository) Create(e *models.Expense) error {
	return r.db.Create(e).Error
}

func (r *ExpenseRepository) GetByID(id uint) (*models.Expense, error) {
	var e models.Expense
	if err := r.db.First(&e, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (r *ExpenseRepository) Save(e *models.Expense) error {
	return r.db.Save(e).Error
}

func (r *ExpenseRepository) Delete(id uint) error {
	return r.db.Delete(&models.Expense{}, id).Error
}

func (r *ExpenseRepository) DeleteByTransfer(transferID uint) error {
	return r.db.Where("transfer_id = ?", transferID).Delete(&models.Expense{}).Error
}

func (r *ExpenseRepository) List(f EntryFilter) ([]models.Expense, error) {
	var list []models.Expense
	err := f.apply(r.db).Find(&list).Error
	return list, err
}
