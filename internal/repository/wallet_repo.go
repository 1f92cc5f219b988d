package repository

import (
	"fintrack/internal/models"
	"fintrack/pkg/money"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *WalletRepository) WithTx(tx *gorm.DB) *WalletRepository {
	return &WalletRepository{db: tx}
}

func (r *WalletRepository) GetByID(id uint) (*models.Wallet, error) {
	var w models.Wallet
	if err := r.db.First(&w, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &w, nil
}

// LockByIDs reads the wallets in ids and holds their rows until the
// transaction ends. Rows are locked in id order. Missing ids are absent from
// the result.
func (r *WalletRepository) LockByIDs(ids ...uint) (map[uint]*models.Wallet, error) {
	out := make(map[uint]*models.Wallet, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var list []models.Wallet
	if err := lockedWallets(r.db, ids).Find(&list).Error; err != nil {
		return nil, err
	}
	for i := range list {
		out[list[i].ID] = &list[i]
	}
	return out, nil
}

func lockedWallets(db *gorm.DB, ids []uint) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id IN ?", ids).Order("id ASC")
}

// List returns wallets with the default first, then by creation order.
func (r *WalletRepository) List(includeArchived bool) ([]models.Wallet, error) {
	var list []models.Wallet
	q := r.db.Order("is_default DESC").Order("created_at ASC").Order("id ASC")
	if !includeArchived {
		q = q.Where("archived = ?", false)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *WalletRepository) CountActive() (int64, error) {
	var n int64
	err := r.db.Model(&models.Wallet{}).Where("archived = ?", false).Count(&n).Error
	return n, err
}

// GetDefault returns the active default wallet.
func (r *WalletRepository) GetDefault() (*models.Wallet, error) {
	var w models.Wallet
	err := r.db.Where("archived = ? AND is_default = ?", false, true).First(&w).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &w, nil
}

func (r *WalletRepository) Create(w *models.Wallet) error {
	return r.db.Create(w).Error
}

func (r *WalletRepository) Save(w *models.Wallet) error {
	return r.db.Save(w).Error
}

func (r *WalletRepository) UpdateBalance(id uint, balance money.Amount) error {
	return r.db.Model(&models.Wallet{}).Where("id = ?", id).Update("balance", balance).Error
}

// ClearDefaults unsets is_default on every active wallet except exceptID.
func (r *WalletRepository) ClearDefaults(exceptID uint) error {
	return r.db.Model(&models.Wallet{}).
		Where("id <> ? AND archived = ? AND is_default = ?", exceptID, false, true).
		Update("is_default", false).Error
}

// Credit adds amount to the cached balance.
func (r *WalletRepository) Credit(w *models.Wallet, amount money.Amount) error {
	bal, err := money.Add(w.Balance, amount)
	if err != nil {
		return err
	}
	w.Balance = bal
	return r.db.Model(w).Update("balance", w.Balance).Error
}

// Debit removes amount from the cached balance, refusing to go below zero.
func (r *WalletRepository) Debit(w *models.Wallet, amount money.Amount) error {
	if w.Balance < amount {
		return ErrInsufficientBalance
	}
	w.Balance -= amount
	return r.db.Model(w).Update("balance", w.Balance).Error
}
