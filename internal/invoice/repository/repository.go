// Package repository implements the invoice locking and sequence queries.
package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/cchamangwana/platforms/internal/invoice/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct{}

// Provide constructs the repository for fx.
func Provide() invoicedomain.Repository {
	return Repository{}
}

func (Repository) FindForUpdate(ctx context.Context, tx *gorm.DB, tenantID, invoiceID snowflake.ID) (*invoicedomain.Invoice, error) {
	query := tx.WithContext(ctx)
	// sqlite serializes writers inside a transaction; the explicit row
	// lock only exists on postgres.
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var invoice invoicedomain.Invoice
	err := query.
		Where("tenant_id = ? AND id = ?", tenantID, invoiceID).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

func (Repository) UpdateSettlement(ctx context.Context, tx *gorm.DB, inv *invoicedomain.Invoice) error {
	return tx.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("tenant_id = ? AND id = ?", inv.TenantID, inv.ID).
		Updates(map[string]any{
			"amount_paid": inv.AmountPaid,
			"status":      inv.Status,
			"paid_at":     inv.PaidAt,
			"updated_at":  inv.UpdatedAt,
		}).Error
}

func (Repository) NextNumber(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID) (int64, error) {
	if err := tx.WithContext(ctx).Exec(
		`INSERT INTO invoice_sequences (tenant_id, next_number)
		 VALUES (?, 0)
		 ON CONFLICT (tenant_id) DO NOTHING`,
		tenantID,
	).Error; err != nil {
		return 0, err
	}

	var next int64
	if err := tx.WithContext(ctx).Raw(
		`UPDATE invoice_sequences
		 SET next_number = next_number + 1
		 WHERE tenant_id = ?
		 RETURNING next_number`,
		tenantID,
	).Scan(&next).Error; err != nil {
		return 0, err
	}
	return next, nil
}
