package models

import (
	"time"

	"fintrack/pkg/money"
)

type Income struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	Source     string       `gorm:"size:200;not null" json:"source"`
	Amount     money.Amount `gorm:"not null" json:"amount"`
	Date       time.Time    `gorm:"not null;index" json:"date"`
	LocalDate  string       `gorm:"size:10;not null;index:idx_incomes_wallet_local,priority:2" json:"localDate"`
	Note       string       `gorm:"size:1000" json:"note"`
	WalletID   *uint        `gorm:"index:idx_incomes_wallet_local,priority:1" json:"walletId"`
	TransferID *uint        `gorm:"index" json:"transferId,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

func (Income) TableName() string {
	return "incomes"
}
