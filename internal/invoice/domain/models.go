// Package domain contains persistence models and status rules for invoices.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Status represents invoice lifecycle states.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSent      Status = "SENT"
	StatusViewed    Status = "VIEWED"
	StatusPartial   Status = "PARTIAL"
	StatusPaid      Status = "PAID"
	StatusOverdue   Status = "OVERDUE"
	StatusCancelled Status = "CANCELLED"
)

// Valid reports whether the status is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusViewed, StatusPartial, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	default:
		return false
	}
}

// Invoice is a billing document owed by a client. Monetary fields are
// decimals mapped to numeric columns; float arithmetic never touches them.
type Invoice struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID  `gorm:"not null;index" json:"tenant_id"`
	ClientID  snowflake.ID  `gorm:"not null;index" json:"client_id"`
	CompanyID snowflake.ID  `gorm:"not null;index" json:"company_id"`
	ProjectID *snowflake.ID `gorm:"index" json:"project_id,omitempty"`

	Number string `gorm:"type:text;not null;uniqueIndex:ux_invoices_tenant_number,priority:2" json:"number"`
	Status Status `gorm:"type:text;not null;default:'DRAFT'" json:"status"`

	Subtotal   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	TaxRate    decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"tax_rate"`
	TaxAmount  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"tax_amount"`
	Discount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"discount"`
	Total      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	AmountPaid decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount_paid"`

	IssueDate time.Time  `gorm:"not null" json:"issue_date"`
	DueDate   time.Time  `gorm:"not null" json:"due_date"`
	PaidAt    *time.Time `gorm:"" json:"paid_at,omitempty"`

	Notes    string            `gorm:"type:text" json:"notes,omitempty"`
	Metadata datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`

	LineItems []LineItem `gorm:"foreignKey:InvoiceID" json:"line_items,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// Remaining returns the outstanding balance.
func (i *Invoice) Remaining() decimal.Decimal {
	return i.Total.Sub(i.AmountPaid)
}

// ApplyPayment adds amount to the paid total and recomputes the payment
// status. Paid iff amountPaid >= total; Partial iff 0 < amountPaid < total;
// otherwise the status is left alone.
func (i *Invoice) ApplyPayment(amount decimal.Decimal, now time.Time) {
	i.AmountPaid = i.AmountPaid.Add(amount)
	switch {
	case i.AmountPaid.GreaterThanOrEqual(i.Total):
		i.Status = StatusPaid
		if i.PaidAt == nil {
			paidAt := now
			i.PaidAt = &paidAt
		}
	case i.AmountPaid.IsPositive():
		i.Status = StatusPartial
	}
	i.UpdatedAt = now
}

// IsOverdue reports whether the invoice is unpaid past its due date.
// Derived at read time; the stored status is not rewritten in the background.
func (i *Invoice) IsOverdue(now time.Time) bool {
	switch i.Status {
	case StatusPaid, StatusCancelled:
		return false
	}
	return now.After(i.DueDate)
}

// LineItem is one billable entry within an invoice. Amounts are fixed at
// creation time and never recomputed.
type LineItem struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	TenantID    snowflake.ID    `gorm:"not null;index" json:"tenant_id"`
	InvoiceID   snowflake.ID    `gorm:"not null;index" json:"invoice_id"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Position    int             `gorm:"not null;default:0" json:"position"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (LineItem) TableName() string { return "invoice_line_items" }

// Sequence holds the per-tenant invoice number counter. Incremented under a
// row lock so concurrent creations never share a number.
type Sequence struct {
	TenantID   snowflake.ID `gorm:"primaryKey"`
	NextNumber int64        `gorm:"not null;default:0"`
}

// TableName sets the database table name.
func (Sequence) TableName() string { return "invoice_sequences" }

// Totals computes invoice totals from line items. Negative line amounts are
// permitted; they represent ad hoc discounts.
func Totals(items []LineItem, taxRate, discount decimal.Decimal) (subtotal, taxAmount, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount)
	}
	taxAmount = subtotal.Mul(taxRate).Div(decimal.NewFromInt(100)).Round(2)
	total = subtotal.Add(taxAmount).Sub(discount)
	return subtotal, taxAmount, total
}
