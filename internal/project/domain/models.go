// Package domain contains persistence models for client projects.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Project groups invoices under an engagement with a client.
type Project struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID `gorm:"not null;index" json:"tenant_id"`
	ClientID  snowflake.ID `gorm:"not null;index" json:"client_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Project) TableName() string { return "projects" }
