package models

import (
	"time"

	"fintrack/pkg/money"
)

// Transfer moves money between two wallets. It is materialized as an Expense
// leg on the source wallet and an Income leg on the destination wallet, both
// carrying TransferID.
type Transfer struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	FromWalletID uint         `gorm:"not null;index" json:"fromWalletId"`
	ToWalletID   uint         `gorm:"not null;index" json:"toWalletId"`
	Amount       money.Amount `gorm:"not null" json:"amount"`
	Date         time.Time    `gorm:"not null" json:"date"`
	Note         string       `gorm:"size:500" json:"note"`
	CreatedAt    time.Time    `json:"createdAt"`
}

func (Transfer) TableName() string {
	return "transfers"
}
