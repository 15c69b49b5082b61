// Package repository persists audit log rows.
package repository

import (
	"context"

	auditdomain "github.com/cchamangwana/platforms/internal/audit/domain"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

// Provide constructs the repository for fx.
func Provide(db *gorm.DB) auditdomain.Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, record *auditdomain.AuditLog) error {
	return r.db.WithContext(ctx).Create(record).Error
}
