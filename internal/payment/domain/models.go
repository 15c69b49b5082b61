// Package domain contains persistence models for invoice payments.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Method represents how a payment was made.
type Method string

const (
	MethodBankTransfer Method = "BANK_TRANSFER"
	MethodCreditCard   Method = "CREDIT_CARD"
	MethodCash         Method = "CASH"
	MethodCheck        Method = "CHECK"
	MethodOther        Method = "OTHER"
)

// Valid reports whether the method is known.
func (m Method) Valid() bool {
	switch m {
	case MethodBankTransfer, MethodCreditCard, MethodCash, MethodCheck, MethodOther:
		return true
	default:
		return false
	}
}

// Payment is an immutable record reducing an invoice's outstanding balance.
// There is no update path; corrections are new bookings.
type Payment struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	TenantID    snowflake.ID    `gorm:"not null;index" json:"tenant_id"`
	InvoiceID   snowflake.ID    `gorm:"not null;index" json:"invoice_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	PaymentDate time.Time       `gorm:"not null" json:"payment_date"`
	Method      Method          `gorm:"type:text;not null" json:"method"`
	Reference   string          `gorm:"type:text" json:"reference,omitempty"`
	Notes       string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }
