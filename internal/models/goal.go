package models

import (
	"time"

	"fintrack/pkg/money"
)

type Goal struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"size:200;not null" json:"name"`
	TargetAmount money.Amount `gorm:"not null" json:"targetAmount"`
	Note         string       `gorm:"size:1000" json:"note"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`

	// SavedAmount is the sum of the goal's contributions; never stored.
	SavedAmount money.Amount `gorm:"-" json:"savedAmount"`
}

func (Goal) TableName() string {
	return "goals"
}

// GoalContribution moves money from a wallet into a goal. Negative amounts
// are withdrawals back into the wallet.
type GoalContribution struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	GoalID    uint         `gorm:"not null;index" json:"goalId"`
	WalletID  uint         `gorm:"not null;index" json:"walletId"`
	Amount    money.Amount `gorm:"not null" json:"amount"`
	Date      time.Time    `gorm:"not null" json:"date"`
	Note      string       `gorm:"size:1000" json:"note"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func (GoalContribution) TableName() string {
	return "goal_contributions"
}
