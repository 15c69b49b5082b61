// Package domain contains persistence models for user accounts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Role represents a user's role within a tenant.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleMember Role = "MEMBER"
)

// User is a tenant member able to sign in to the dashboard.
type User struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID     snowflake.ID `gorm:"not null;index" json:"tenant_id"`
	Email        string       `gorm:"type:text;not null;uniqueIndex" json:"email"`
	DisplayName  string       `gorm:"type:text;not null" json:"display_name"`
	PasswordHash string       `gorm:"type:text;not null" json:"-"`
	Role         Role         `gorm:"type:text;not null;default:'MEMBER'" json:"role"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
