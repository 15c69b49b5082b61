package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/cchamangwana/platforms/internal/invoice/domain"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest carries inputs for recording a payment.
type RecordPaymentRequest struct {
	InvoiceID   snowflake.ID
	Amount      decimal.Decimal
	PaymentDate time.Time
	Method      Method
	Reference   string
	Notes       string
}

// RecordPaymentResponse is the combined result of a booking: the created
// payment and the invoice after settlement.
type RecordPaymentResponse struct {
	Payment *Payment               `json:"payment"`
	Invoice *invoicedomain.Invoice `json:"invoice"`
}

// Service records and lists payments. Record is atomic per invoice: the
// read-validate-write sequence runs under a row lock so concurrent bookings
// against one invoice cannot jointly overpay it.
type Service interface {
	Record(ctx context.Context, req RecordPaymentRequest) (RecordPaymentResponse, error)
	ListByInvoice(ctx context.Context, invoiceID snowflake.ID) ([]Payment, error)
}

var (
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrInvalidMethod        = errors.New("invalid_method")
	ErrInvalidPaymentDate   = errors.New("invalid_payment_date")
	ErrAmountExceedsBalance = errors.New("amount_exceeds_balance")
)
