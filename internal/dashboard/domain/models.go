// Package domain contains the read models served on the dashboard.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// StatusBucket aggregates invoices sharing a status.
type StatusBucket struct {
	Status string          `json:"status"`
	Count  int64           `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// Summary is the headline view: invoiced, collected, outstanding, and spent
// totals plus a per-status breakdown.
type Summary struct {
	TotalInvoiced    decimal.Decimal `json:"total_invoiced"`
	TotalCollected   decimal.Decimal `json:"total_collected"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	TotalOverdue     decimal.Decimal `json:"total_overdue"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	InvoiceCount     int64           `json:"invoice_count"`
	OverdueCount     int64           `json:"overdue_count"`
	ByStatus         []StatusBucket  `json:"by_status"`
}

// ClientRevenue is collected and outstanding money for one client.
type ClientRevenue struct {
	ClientID    snowflake.ID    `json:"client_id"`
	ClientName  string          `json:"client_name"`
	Invoiced    decimal.Decimal `json:"invoiced"`
	Collected   decimal.Decimal `json:"collected"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// RevenueResponse is the per-client revenue breakdown.
type RevenueResponse struct {
	Clients []ClientRevenue `json:"clients"`
}

// OverdueInvoice is one unpaid invoice past its due date.
type OverdueInvoice struct {
	InvoiceID  snowflake.ID    `json:"invoice_id"`
	Number     string          `json:"number"`
	ClientID   snowflake.ID    `json:"client_id"`
	ClientName string          `json:"client_name"`
	Remaining  decimal.Decimal `json:"remaining"`
	DueDate    time.Time       `json:"due_date"`
	DaysLate   int             `json:"days_late"`
}

// OverdueResponse lists overdue invoices, most late first.
type OverdueResponse struct {
	Invoices []OverdueInvoice `json:"invoices"`
}

// CategoryExpense aggregates expenses sharing a category.
type CategoryExpense struct {
	Category string          `json:"category"`
	Count    int64           `json:"count"`
	Total    decimal.Decimal `json:"total"`
}

// ExpenseResponse is the per-category expense breakdown.
type ExpenseResponse struct {
	Categories []CategoryExpense `json:"categories"`
	Total      decimal.Decimal   `json:"total"`
}
