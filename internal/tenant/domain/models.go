// Package domain contains persistence models for tenant accounts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Tenant is an isolated customer account. All business data hangs off a
// tenant ID; invoices for a tenant are served from <slug>.<root domain>.
type Tenant struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Slug      string       `gorm:"type:text;not null;uniqueIndex" json:"slug"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Tenant) TableName() string { return "tenants" }
