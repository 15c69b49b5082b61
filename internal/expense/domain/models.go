// Package domain contains persistence models for business expenses.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Category classifies an expense for reporting.
type Category string

const (
	CategorySoftware  Category = "SOFTWARE"
	CategoryHardware  Category = "HARDWARE"
	CategoryTravel    Category = "TRAVEL"
	CategoryOffice    Category = "OFFICE"
	CategoryMarketing Category = "MARKETING"
	CategoryServices  Category = "SERVICES"
	CategoryOther     Category = "OTHER"
)

// Valid reports whether the category is known.
func (c Category) Valid() bool {
	switch c {
	case CategorySoftware, CategoryHardware, CategoryTravel, CategoryOffice, CategoryMarketing, CategoryServices, CategoryOther:
		return true
	default:
		return false
	}
}

// Expense is money a tenant spent, counted against revenue on the dashboard.
type Expense struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	TenantID    snowflake.ID    `gorm:"not null;index" json:"tenant_id"`
	ProjectID   *snowflake.ID   `gorm:"index" json:"project_id,omitempty"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Category    Category        `gorm:"type:text;not null" json:"category"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	ExpenseDate time.Time       `gorm:"not null;index" json:"expense_date"`
	Notes       string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Expense) TableName() string { return "expenses" }
