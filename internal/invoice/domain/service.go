package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cchamangwana/platforms/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

// LineItemInput is one requested invoice line.
type LineItemInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// CreateInvoiceRequest carries inputs for invoice creation.
type CreateInvoiceRequest struct {
	ClientID  snowflake.ID
	CompanyID snowflake.ID
	ProjectID *snowflake.ID

	// Number is optional; when empty a sequential tenant-scoped number is
	// assigned.
	Number string
	// Status may be Draft or Sent at creation; anything else is rejected.
	Status Status

	TaxRate  decimal.Decimal
	Discount decimal.Decimal

	IssueDate time.Time
	DueDate   time.Time
	Notes     string

	LineItems []LineItemInput
}

type ListInvoiceRequest struct {
	pagination.Pagination
	Status   Status
	ClientID snowflake.ID
	// OverdueOnly limits to unpaid invoices past their due date.
	OverdueOnly bool
}

type ListInvoiceResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

// Service is the tenant-scoped invoice surface.
type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error)
	GetByID(ctx context.Context, id snowflake.ID) (*Invoice, error)
	List(ctx context.Context, req ListInvoiceRequest) (ListInvoiceResponse, error)
	// UpdateStatus applies an explicit status edit. Paid and Partial are
	// reserved for the payment path; Cancelled is terminal.
	UpdateStatus(ctx context.Context, id snowflake.ID, status Status) (*Invoice, error)
	// Delete removes the invoice; line items and payments cascade with it.
	Delete(ctx context.Context, id snowflake.ID) error
}

var (
	ErrInvoiceNotFound      = errors.New("invoice_not_found")
	ErrClientNotFound       = errors.New("client_not_found")
	ErrCompanyNotFound      = errors.New("company_not_found")
	ErrProjectNotFound      = errors.New("project_not_found")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrInvalidTransition    = errors.New("invalid_status_transition")
	ErrMissingLineItems     = errors.New("missing_line_items")
	ErrInvalidLineItem      = errors.New("invalid_line_item")
	ErrInvalidDates         = errors.New("invalid_dates")
	ErrNumberAlreadyUsed    = errors.New("invoice_number_already_used")
	ErrInvalidTaxRate       = errors.New("invalid_tax_rate")
	ErrInvalidDiscount      = errors.New("invalid_discount")
	ErrDiscountExceedsTotal = errors.New("discount_exceeds_total")
)
