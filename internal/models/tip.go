package models

import (
	"time"

	"fintrack/pkg/money"
)

// Tip counts toward its wallet only once Received is set.
type Tip struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Customer  string       `gorm:"size:200" json:"customer"`
	Amount    money.Amount `gorm:"not null" json:"amount"`
	Date      time.Time    `gorm:"not null;index" json:"date"`
	LocalDate string       `gorm:"size:10;not null;index:idx_tips_wallet_local,priority:2" json:"localDate"`
	Note      string       `gorm:"size:1000" json:"note"`
	WalletID  *uint        `gorm:"index:idx_tips_wallet_local,priority:1" json:"walletId"`
	Received  bool         `gorm:"not null;default:false" json:"received"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func (Tip) TableName() string {
	return "tips"
}
