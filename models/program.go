package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Program is a budget-holding unit that orders draw against. The budget
// column is only ever mutated by the budget service's conditional
// debit/credit updates, or by an explicit admin override.
type Program struct {
	ID            uint            `gorm:"primaryKey" json:"program_id"`
	ProgramTitle  string          `gorm:"type:varchar(255);not null" json:"program_title"`
	ProgramBudget decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0.00" json:"program_budget"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
