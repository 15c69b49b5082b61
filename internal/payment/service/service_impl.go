package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/cchamangwana/platforms/internal/audit/domain"
	"github.com/cchamangwana/platforms/internal/clock"
	"github.com/cchamangwana/platforms/internal/events"
	invoicedomain "github.com/cchamangwana/platforms/internal/invoice/domain"
	"github.com/cchamangwana/platforms/internal/observability/metrics"
	paymentdomain "github.com/cchamangwana/platforms/internal/payment/domain"
	"github.com/cchamangwana/platforms/internal/tenantcontext"
	"github.com/cchamangwana/platforms/pkg/db/option"
	"github.com/cchamangwana/platforms/pkg/db/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	InvoiceRepo invoicedomain.Repository
	AuditSvc    auditdomain.Service
	Metrics     *metrics.BillingMetrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	invoiceRepo invoicedomain.Repository
	auditSvc    auditdomain.Service
	metrics     *metrics.BillingMetrics
}

func NewService(p Params) paymentdomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("payment.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		invoiceRepo: p.InvoiceRepo,
		auditSvc:    p.AuditSvc,
		metrics:     p.Metrics,
	}
}

// Record books a payment against an invoice. The invoice row is locked for
// the duration of the transaction, so the balance check and the settlement
// update observe the same state even under concurrent bookings.
func (s *Service) Record(ctx context.Context, req paymentdomain.RecordPaymentRequest) (paymentdomain.RecordPaymentResponse, error) {
	tenantID, err := tenantcontext.TenantID(ctx)
	if err != nil {
		return paymentdomain.RecordPaymentResponse{}, err
	}

	if !req.Amount.IsPositive() {
		return paymentdomain.RecordPaymentResponse{}, paymentdomain.ErrInvalidAmount
	}
	method := req.Method
	if method == "" {
		method = paymentdomain.MethodOther
	}
	if !method.Valid() {
		return paymentdomain.RecordPaymentResponse{}, paymentdomain.ErrInvalidMethod
	}

	now := s.clock.Now()
	paymentDate := req.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = now
	}
	if paymentDate.After(now.AddDate(0, 0, 1)) {
		return paymentdomain.RecordPaymentResponse{}, paymentdomain.ErrInvalidPaymentDate
	}

	payment := paymentdomain.Payment{
		ID:          s.genID.Generate(),
		TenantID:    tenantID,
		InvoiceID:   req.InvoiceID,
		Amount:      req.Amount.Round(2),
		PaymentDate: paymentDate,
		Method:      method,
		Reference:   req.Reference,
		Notes:       req.Notes,
		CreatedAt:   now,
	}

	var invoice *invoicedomain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := s.invoiceRepo.FindForUpdate(ctx, tx, tenantID, req.InvoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return invoicedomain.ErrInvoiceNotFound
		}
		if inv.Status == invoicedomain.StatusCancelled {
			return invoicedomain.ErrInvalidTransition
		}
		if payment.Amount.GreaterThan(inv.Remaining()) {
			return paymentdomain.ErrAmountExceedsBalance
		}

		if err := tx.WithContext(ctx).Create(&payment).Error; err != nil {
			return err
		}

		inv.ApplyPayment(payment.Amount, now)
		if err := s.invoiceRepo.UpdateSettlement(ctx, tx, inv); err != nil {
			return err
		}
		invoice = inv
		return nil
	})
	if err != nil {
		s.reject(ctx, tenantID, req, err)
		return paymentdomain.RecordPaymentResponse{}, err
	}

	s.metrics.IncPaymentRecorded(string(invoice.Status))
	s.audit(ctx, tenantID, events.EventPaymentRecorded, payment.InvoiceID, events.PaymentPayload{
		PaymentID: payment.ID.String(),
		InvoiceID: payment.InvoiceID.String(),
		Amount:    payment.Amount.String(),
		Method:    string(payment.Method),
	})
	s.log.Info("payment recorded",
		zap.String("invoice_id", payment.InvoiceID.String()),
		zap.String("amount", payment.Amount.String()),
		zap.String("invoice_status", string(invoice.Status)),
	)
	return paymentdomain.RecordPaymentResponse{Payment: &payment, Invoice: invoice}, nil
}

func (s *Service) ListByInvoice(ctx context.Context, invoiceID snowflake.ID) ([]paymentdomain.Payment, error) {
	tenantID, err := tenantcontext.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	invoices := repository.ForTenant[invoicedomain.Invoice](s.db, tenantID)
	invoice, err := invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, invoicedomain.ErrInvoiceNotFound
	}

	store := repository.ForTenant[paymentdomain.Payment](s.db, tenantID)
	return store.List(ctx,
		option.Where("invoice_id = ?", invoiceID),
		option.Order("payment_date ASC, id ASC"),
	)
}

// reject records rejection telemetry for business rule failures. Infra
// errors are left to the caller's error path.
func (s *Service) reject(ctx context.Context, tenantID snowflake.ID, req paymentdomain.RecordPaymentRequest, cause error) {
	var reason string
	switch {
	case errors.Is(cause, paymentdomain.ErrAmountExceedsBalance):
		reason = "amount_exceeds_balance"
	case errors.Is(cause, invoicedomain.ErrInvoiceNotFound):
		reason = "invoice_not_found"
	case errors.Is(cause, invoicedomain.ErrInvalidTransition):
		reason = "invoice_cancelled"
	default:
		return
	}
	s.metrics.IncPaymentRejected(reason)
	s.audit(ctx, tenantID, events.EventPaymentRejected, req.InvoiceID, events.PaymentPayload{
		InvoiceID: req.InvoiceID.String(),
		Amount:    req.Amount.String(),
		Reason:    reason,
	})
}

func (s *Service) audit(ctx context.Context, tenantID snowflake.ID, action string, invoiceID snowflake.ID, payload events.PaymentPayload) {
	if s.auditSvc == nil {
		return
	}
	targetID := invoiceID.String()
	if err := s.auditSvc.AuditLog(ctx, tenantID, action, "invoice", &targetID, payload.ToMap()); err != nil {
		s.log.Warn("audit log write failed", zap.String("action", action), zap.Error(err))
	}
}
