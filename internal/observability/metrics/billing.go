package metrics

import "github.com/prometheus/client_golang/prometheus"

// BillingMetrics counts billing-domain outcomes.
type BillingMetrics struct {
	invoicesCreated  *prometheus.CounterVec
	paymentsRecorded *prometheus.CounterVec
	paymentsRejected *prometheus.CounterVec
}

// NewBillingMetrics registers billing instruments on the given registry.
func NewBillingMetrics(reg prometheus.Registerer, serviceName string) *BillingMetrics {
	constLabels := prometheus.Labels{"service": normalizeService(serviceName)}

	invoicesCreated := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "billing_invoices_created_total",
			Help:        "Invoices created, by initial status.",
			ConstLabels: constLabels,
		},
		[]string{"status"},
	)
	paymentsRecorded := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "billing_payments_recorded_total",
			Help:        "Payments recorded, by resulting invoice status.",
			ConstLabels: constLabels,
		},
		[]string{"invoice_status"},
	)
	paymentsRejected := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "billing_payments_rejected_total",
			Help:        "Payments rejected, by reason.",
			ConstLabels: constLabels,
		},
		[]string{"reason"},
	)

	reg.MustRegister(invoicesCreated, paymentsRecorded, paymentsRejected)
	return &BillingMetrics{
		invoicesCreated:  invoicesCreated,
		paymentsRecorded: paymentsRecorded,
		paymentsRejected: paymentsRejected,
	}
}

// IncInvoiceCreated counts an invoice creation.
func (m *BillingMetrics) IncInvoiceCreated(status string) {
	if m == nil {
		return
	}
	m.invoicesCreated.WithLabelValues(status).Inc()
}

// IncPaymentRecorded counts a successful payment.
func (m *BillingMetrics) IncPaymentRecorded(invoiceStatus string) {
	if m == nil {
		return
	}
	m.paymentsRecorded.WithLabelValues(invoiceStatus).Inc()
}

// IncPaymentRejected counts a rejected payment.
func (m *BillingMetrics) IncPaymentRejected(reason string) {
	if m == nil {
		return
	}
	m.paymentsRejected.WithLabelValues(reason).Inc()
}
