package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/cchamangwana/platforms/internal/audit/domain"
	clientdomain "github.com/cchamangwana/platforms/internal/client/domain"
	"github.com/cchamangwana/platforms/internal/clock"
	companydomain "github.com/cchamangwana/platforms/internal/company/domain"
	"github.com/cchamangwana/platforms/internal/events"
	invoicedomain "github.com/cchamangwana/platforms/internal/invoice/domain"
	"github.com/cchamangwana/platforms/internal/observability/metrics"
	projectdomain "github.com/cchamangwana/platforms/internal/project/domain"
	"github.com/cchamangwana/platforms/internal/tenantcontext"
	"github.com/cchamangwana/platforms/pkg/db/option"
	"github.com/cchamangwana/platforms/pkg/db/pagination"
	"github.com/cchamangwana/platforms/pkg/db/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var maxTaxRate = decimal.NewFromInt(100)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     invoicedomain.Repository
	AuditSvc auditdomain.Service
	Metrics  *metrics.BillingMetrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     invoicedomain.Repository
	auditSvc auditdomain.Service
	metrics  *metrics.BillingMetrics
}

func NewService(p Params) invoicedomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("invoice.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
		metrics:  p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (*invoicedomain.Invoice, error) {
	tenantID, err := tenantcontext.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = invoicedomain.StatusDraft
	}
	if status != invoicedomain.StatusDraft && status != invoicedomain.StatusSent {
		return nil, invoicedomain.ErrInvalidStatus
	}
	if len(req.LineItems) == 0 {
		return nil, invoicedomain.ErrMissingLineItems
	}
	if req.TaxRate.IsNegative() || req.TaxRate.GreaterThan(maxTaxRate) {
		return nil, invoicedomain.ErrInvalidTaxRate
	}
	if req.Discount.IsNegative() {
		return nil, invoicedomain.ErrInvalidDiscount
	}
	if req.IssueDate.IsZero() || req.DueDate.IsZero() || req.DueDate.Before(req.IssueDate) {
		return nil, invoicedomain.ErrInvalidDates
	}

	if err := s.checkReferences(ctx, tenantID, req); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	invoiceID := s.genID.Generate()

	items := make([]invoicedomain.LineItem, 0, len(req.LineItems))
	for position, input := range req.LineItems {
		description := strings.TrimSpace(input.Description)
		if description == "" {
			return nil, invoicedomain.ErrInvalidLineItem
		}
		items = append(items, invoicedomain.LineItem{
			ID:          s.genID.Generate(),
			TenantID:    tenantID,
			InvoiceID:   invoiceID,
			Description: description,
			Quantity:    input.Quantity,
			UnitPrice:   input.UnitPrice,
			Amount:      input.Quantity.Mul(input.UnitPrice).Round(2),
			Position:    position,
			CreatedAt:   now,
		})
	}

	subtotal, taxAmount, total := invoicedomain.Totals(items, req.TaxRate, req.Discount)
	// A discount larger than subtotal plus tax would leave a negative
	// balance that no payment sequence could settle.
	if total.IsNegative() {
		return nil, invoicedomain.ErrDiscountExceedsTotal
	}

	invoice := invoicedomain.Invoice{
		ID:         invoiceID,
		TenantID:   tenantID,
		ClientID:   req.ClientID,
		CompanyID:  req.CompanyID,
		ProjectID:  req.ProjectID,
		Number:     strings.TrimSpace(req.Number),
		Status:     status,
		Subtotal:   subtotal,
		TaxRate:    req.TaxRate,
		TaxAmount:  taxAmount,
		Discount:   req.Discount,
		Total:      total,
		AmountPaid: decimal.Zero,
		IssueDate:  req.IssueDate,
		DueDate:    req.DueDate,
		Notes:      strings.TrimSpace(req.Notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if invoice.Number == "" {
			next, err := s.repo.NextNumber(ctx, tx, tenantID)
			if err != nil {
				return err
			}
			invoice.Number = fmt.Sprintf("INV-%04d", next)
		} else if taken, err := s.numberTaken(ctx, tx, tenantID, invoice.Number); err != nil {
			return err
		} else if taken {
			return invoicedomain.ErrNumberAlreadyUsed
		}

		if err := tx.WithContext(ctx).Create(&invoice).Error; err != nil {
			return err
		}
		return tx.WithContext(ctx).Create(&items).Error
	})
	if err != nil {
		return nil, err
	}
	invoice.LineItems = items

	s.metrics.IncInvoiceCreated(string(invoice.Status))
	s.audit(ctx, tenantID, events.EventInvoiceCreated, &invoice, map[string]any{
		"number":   invoice.Number,
		"subtotal": invoice.Subtotal.String(),
		"total":    invoice.Total.String(),
		"status":   string(invoice.Status),
	})
	return &invoice, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*invoicedomain.Invoice, error) {
	tenantID, err := tenantcontext.TenantID(ctx)
	if err != nil {
		return nil, err
	}
	store := repository.ForTenant[invoicedomain.Invoice](s.db, tenantID)

	invoice, err := store.FindOne(ctx,
		option.Where("id = ?", id),
		option.Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}),
	)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, invoicedomain.ErrInvoiceNotFound
	}
	return invoice, nil
}

func (s *Service) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) (invoicedomain.ListInvoiceResponse, error) {
	tenantID, err := tenantcontext.TenantID(ctx)
	if err != nil {
		return invoicedomain.ListInvoiceResponse{}, err
	}
	store := repository.ForTenant[invoicedomain.Invoice](s.db, tenantID)

	var filters []option.Option
	if req.Status != "" {
		if !req.Status.Valid() {
			return invoicedomain.ListInvoiceResponse{}, invoicedomain.ErrInvalidStatus
		}
		filters = append(filters, option.Where("status = ?", req.Status))
	}
	if req.ClientID != 0 {
		filters = append(filters, option.Where("client_id = ?", req.ClientID))
	}
	if req.OverdueOnly {
		filters = append(filters, option.Where(
			"due_date < ? AND status NOT IN ?",
			s.clock.Now(),
			[]invoicedomain.Status{invoicedomain.StatusPaid, invoicedomain.StatusCancelled},
		))
	}

	total, err := store.Count(ctx, filters...)
	if err != nil {
		return invoicedomain.ListInvoiceResponse{}, err
	}

	pageSize := pagination.Normalize(req.PageSize)
	offset := pagination.DecodeToken(req.PageToken)
	opts := append(filters,
		option.Order("issue_date DESC, id DESC"),
		option.Offset(offset),
		option.Limit(pageSize),
	)
	invoices, err := store.List(ctx, opts...)
	if err != nil {
		return invoicedomain.ListInvoiceResponse{}, err
	}

	return invoicedomain.ListInvoiceResponse{
		PageInfo: pagination.PageInfo{
			NextPageToken: pagination.NextToken(offset, pageSize, total),
			TotalCount:    total,
		},
		Invoices: invoices,
	}, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id snowflake.ID, status invoicedomain.Status) (*invoicedomain.Invoice, error) {
	tenantID, err := tenantcontext.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	if !status.Valid() {
		return nil, invoicedomain.ErrInvalidStatus
	}
	switch status {
	case invoicedomain.StatusSent, invoicedomain.StatusViewed, invoicedomain.StatusCancelled:
	default:
		// Paid, Partial, and Overdue are payment-derived states.
		return nil, invoicedomain.ErrInvalidTransition
	}

	store := repository.ForTenant[invoicedomain.Invoice](s.db, tenantID)
	invoice, err := store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, invoicedomain.ErrInvoiceNotFound
	}
	if invoice.Status == invoicedomain.StatusCancelled || invoice.Status == invoicedomain.StatusPaid {
		return nil, invoicedomain.ErrInvalidTransition
	}

	previous := invoice.Status
	invoice.Status = status
	invoice.UpdatedAt = s.clock.Now()
	if err := store.Updates(ctx, id, map[string]any{
		"status":     invoice.Status,
		"updated_at": invoice.UpdatedAt,
	}); err != nil {
		return nil, err
	}

	s.audit(ctx, tenantID, events.EventInvoiceStatusChanged, invoice, map[string]any{
		"from": string(previous),
		"to":   string(status),
	})
	return invoice, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	tenantID, err := tenantcontext.TenantID(ctx)
	if err != nil {
		return err
	}
	store := repository.ForTenant[invoicedomain.Invoice](s.db, tenantID)

	invoice, err := store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return invoicedomain.ErrInvoiceNotFound
	}

	// Line items and payments carry ON DELETE CASCADE in the schema; the
	// explicit deletes keep sqlite test databases honest.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).
			Where("tenant_id = ? AND invoice_id = ?", tenantID, id).
			Delete(&invoicedomain.LineItem{}).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).
			Exec(`DELETE FROM payments WHERE tenant_id = ? AND invoice_id = ?`, tenantID, id).Error; err != nil {
			return err
		}
		return tx.WithContext(ctx).
			Where("tenant_id = ? AND id = ?", tenantID, id).
			Delete(&invoicedomain.Invoice{}).Error
	})
	if err != nil {
		return err
	}

	s.audit(ctx, tenantID, events.EventInvoiceDeleted, invoice, map[string]any{
		"number": invoice.Number,
	})
	return nil
}

func (s *Service) checkReferences(ctx context.Context, tenantID snowflake.ID, req invoicedomain.CreateInvoiceRequest) error {
	clients := repository.ForTenant[clientdomain.Client](s.db, tenantID)
	if client, err := clients.FindByID(ctx, req.ClientID); err != nil {
		return err
	} else if client == nil {
		return invoicedomain.ErrClientNotFound
	}

	companies := repository.ForTenant[companydomain.Company](s.db, tenantID)
	if company, err := companies.FindByID(ctx, req.CompanyID); err != nil {
		return err
	} else if company == nil {
		return invoicedomain.ErrCompanyNotFound
	}

	if req.ProjectID != nil {
		projects := repository.ForTenant[projectdomain.Project](s.db, tenantID)
		if project, err := projects.FindByID(ctx, *req.ProjectID); err != nil {
			return err
		} else if project == nil {
			return invoicedomain.ErrProjectNotFound
		}
	}
	return nil
}

func (s *Service) numberTaken(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID, number string) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("tenant_id = ? AND number = ?", tenantID, number).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Service) audit(ctx context.Context, tenantID snowflake.ID, action string, invoice *invoicedomain.Invoice, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	targetID := invoice.ID.String()
	if err := s.auditSvc.AuditLog(ctx, tenantID, action, "invoice", &targetID, metadata); err != nil {
		s.log.Warn("audit log write failed", zap.String("action", action), zap.Error(err))
	}
}
