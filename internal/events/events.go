// Package events names the billing actions recorded in the audit log.
package events

const (
	EventInvoiceCreated       = "invoice.created"
	EventInvoiceStatusChanged = "invoice.status_changed"
	EventInvoiceDeleted       = "invoice.deleted"
	EventPaymentRecorded      = "payment.recorded"
	EventPaymentRejected      = "payment.rejected"
	EventClientCreated        = "client.created"
	EventExpenseCreated       = "expense.created"
)

// PaymentPayload captures the minimal data recorded for payment events.
type PaymentPayload struct {
	PaymentID string `json:"payment_id,omitempty"`
	InvoiceID string `json:"invoice_id"`
	Amount    string `json:"amount"`
	Method    string `json:"method,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// ToMap converts the payload into audit-friendly metadata.
func (p PaymentPayload) ToMap() map[string]any {
	payload := map[string]any{
		"invoice_id": p.InvoiceID,
		"amount":     p.Amount,
	}
	if p.PaymentID != "" {
		payload["payment_id"] = p.PaymentID
	}
	if p.Method != "" {
		payload["method"] = p.Method
	}
	if p.Reason != "" {
		payload["reason"] = p.Reason
	}
	return payload
}
