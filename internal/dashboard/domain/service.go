package domain

import (
	"context"
	"errors"
	"time"
)

// RangeRequest bounds a dashboard query by issue date, inclusive. Zero
// values are open ended.
type RangeRequest struct {
	From time.Time
	To   time.Time
}

// Service exposes tenant-scoped dashboard aggregates. All figures are
// derived at read time from invoices, payments, and expenses; nothing here
// writes.
type Service interface {
	GetSummary(ctx context.Context, req RangeRequest) (Summary, error)
	GetRevenueByClient(ctx context.Context, req RangeRequest) (RevenueResponse, error)
	GetOverdueInvoices(ctx context.Context) (OverdueResponse, error)
	GetExpensesByCategory(ctx context.Context, req RangeRequest) (ExpenseResponse, error)
}

var ErrInvalidRange = errors.New("invalid_range")
