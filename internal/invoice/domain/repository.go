package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository provides the locking reads and sequence updates that must run
// inside a caller-owned transaction.
type Repository interface {
	// FindForUpdate loads an invoice holding a row lock for the rest of
	// the transaction, or nil when absent.
	FindForUpdate(ctx context.Context, tx *gorm.DB, tenantID, invoiceID snowflake.ID) (*Invoice, error)
	// UpdateSettlement persists the paid amount, status, and paid-at of a
	// previously locked invoice.
	UpdateSettlement(ctx context.Context, tx *gorm.DB, inv *Invoice) error
	// NextNumber increments and returns the tenant's invoice counter.
	NextNumber(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID) (int64, error)
}
