package models

import (
	"time"

	"fintrack/pkg/money"
)

// Debt is a payable tracked independently of wallet balances.
type Debt struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Title     string       `gorm:"size:200;not null" json:"title"`
	Amount    money.Amount `gorm:"not null" json:"amount"`
	DueDate   *time.Time   `gorm:"index" json:"dueDate"`
	Done      bool         `gorm:"not null;default:false;index" json:"done"`
	Note      string       `gorm:"size:1000" json:"note"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`

	PaidAmount money.Amount `gorm:"-" json:"paidAmount"`
	Remaining  money.Amount `gorm:"-" json:"remaining"`
}

func (Debt) TableName() string {
	return "debts"
}

type DebtContribution struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	DebtID    uint         `gorm:"not null;index" json:"debtId"`
	Amount    money.Amount `gorm:"not null" json:"amount"`
	Date      time.Time    `gorm:"not null" json:"date"`
	Note      string       `gorm:"size:1000" json:"note"`
	CreatedAt time.Time    `json:"createdAt"`
}

func (DebtContribution) TableName() string {
	return "debt_contributions"
}
