package models

import (
	"time"

	"fintrack/pkg/money"
)

// Preset is a quick-entry template for the income and expense forms.
type Preset struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Type      string       `gorm:"size:10;not null;index" json:"type"` // income, expense
	Source    string       `gorm:"size:200;not null" json:"source"`
	Amount    money.Amount `gorm:"not null;default:0" json:"amount"`
	Note      string       `gorm:"size:500" json:"note"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func (Preset) TableName() string {
	return "presets"
}
