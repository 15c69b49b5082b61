// Package render produces a printable HTML view of an invoice.
package render

import (
	"time"

	"github.com/shopspring/decimal"
)

// RenderInput is the deterministic input used for invoice rendering.
type RenderInput struct {
	Company CompanyView
	Client  ClientView
	Invoice InvoiceView
	Items   []LineItemView
}

type CompanyView struct {
	Name      string
	Email     string
	Address   string
	TaxNumber string
}

type ClientView struct {
	Name    string
	Email   string
	Address string
}

type InvoiceView struct {
	Number     string
	Status     string
	IssueDate  time.Time
	DueDate    time.Time
	Subtotal   decimal.Decimal
	TaxRate    decimal.Decimal
	TaxAmount  decimal.Decimal
	Discount   decimal.Decimal
	Total      decimal.Decimal
	AmountPaid decimal.Decimal
	Notes      string
}

type LineItemView struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

type Renderer interface {
	RenderHTML(input RenderInput) (string, error)
}
