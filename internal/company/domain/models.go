// Package domain contains persistence models for issuing companies.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Company is the legal entity issuing invoices on behalf of a tenant.
type Company struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID `gorm:"not null;index" json:"tenant_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Email     string       `gorm:"type:text" json:"email"`
	Address   string       `gorm:"type:text" json:"address"`
	TaxNumber string       `gorm:"type:text" json:"tax_number"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Company) TableName() string { return "companies" }
