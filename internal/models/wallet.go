package models

import (
	"time"

	"fintrack/pkg/money"
)

// Wallet is an account-like container. Balance caches the sum of the ledger
// rows that reference the wallet and is rewritten on every mutation.
type Wallet struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"size:100;not null" json:"name"`
	Type      string       `gorm:"size:20;not null;default:'cash'" json:"type"`
	Currency  string       `gorm:"size:3;not null;default:'VND'" json:"currency"`
	Balance   money.Amount `gorm:"not null;default:0" json:"balance"`
	IsDefault bool         `gorm:"not null;default:false;index" json:"isDefault"`
	Archived  bool         `gorm:"not null;default:false;index" json:"archived"`
	Note      string       `gorm:"size:500" json:"note"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func (Wallet) TableName() string {
	return "wallets"
}
