package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cchamangwana/platforms/internal/clock"
	dashboarddomain "github.com/cchamangwana/platforms/internal/dashboard/domain"
	invoicedomain "github.com/cchamangwana/platforms/internal/invoice/domain"
	"github.com/cchamangwana/platforms/internal/tenantcontext"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
}

func NewService(p Params) dashboarddomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("dashboard.service"),
		clock: p.Clock,
	}
}

func (s *Service) GetSummary(ctx context.Context, req dashboarddomain.RangeRequest) (dashboarddomain.Summary, error) {
	tenantID, err := tenantcontext.TenantID(ctx)
	if err != nil {
		return dashboarddomain.Summary{}, err
	}
	if err := validateRange(req); err != nil {
		return dashboarddomain.Summary{}, err
	}

	type statusRow struct {
		Status string
		Count  int64
		Total  decimal.Decimal
	}
	var rows []statusRow
	query := s.invoiceRange(ctx, tenantID, req).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Group("status").
		Order("status ASC")
	if err := query.Scan(&rows).Error; err != nil {
		return dashboarddomain.Summary{}, err
	}

	summary := dashboarddomain.Summary{
		TotalInvoiced:    decimal.Zero,
		TotalCollected:   decimal.Zero,
		TotalOutstanding: decimal.Zero,
		TotalOverdue:     decimal.Zero,
		TotalExpenses:    decimal.Zero,
		ByStatus:         make([]dashboarddomain.StatusBucket, 0, len(rows)),
	}
	for _, row := range rows {
		summary.ByStatus = append(summary.ByStatus, dashboarddomain.StatusBucket{
			Status: row.Status,
			Count:  row.Count,
			Total:  row.Total,
		})
		if row.Status == string(invoicedomain.StatusCancelled) {
			continue
		}
		summary.InvoiceCount += row.Count
		summary.TotalInvoiced = summary.TotalInvoiced.Add(row.Total)
	}

	type moneyRow struct {
		Collected decimal.Decimal
	}
	var collected moneyRow
	err = s.invoiceRange(ctx, tenantID, req).
		Where("status != ?", invoicedomain.StatusCancelled).
		Select("COALESCE(SUM(amount_paid), 0) AS collected").
		Scan(&collected).Error
	if err != nil {
		return dashboarddomain.Summary{}, err
	}
	summary.TotalCollected = collected.Collected
	summary.TotalOutstanding = summary.TotalInvoiced.Sub(summary.TotalCollected)

	type overdueRow struct {
		Count int64
		Total decimal.Decimal
	}
	var overdue overdueRow
	err = s.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("tenant_id = ?", tenantID).
		Where("due_date < ? AND status NOT IN ?", s.clock.Now(), []invoicedomain.Status{
			invoicedomain.StatusPaid, invoicedomain.StatusCancelled,
		}).
		Select("COUNT(*) AS count, COALESCE(SUM(total - amount_paid), 0) AS total").
		Scan(&overdue).Error
	if err != nil {
		return dashboarddomain.Summary{}, err
	}
	summary.OverdueCount = overdue.Count
	summary.TotalOverdue = overdue.Total

	type expenseRow struct {
		Total decimal.Decimal
	}
	var expenses expenseRow
	expenseQuery := s.db.WithContext(ctx).
		Table("expenses").
		Where("tenant_id = ?", tenantID).
		Select("COALESCE(SUM(amount), 0) AS total")
	if !req.From.IsZero() {
		expenseQuery = expenseQuery.Where("expense_date >= ?", req.From)
	}
	if !req.To.IsZero() {
		expenseQuery = expenseQuery.Where("expense_date <= ?", req.To)
	}
	if err := expenseQuery.Scan(&expenses).Error; err != nil {
		return dashboarddomain.Summary{}, err
	}
	summary.TotalExpenses = expenses.Total

	return summary, nil
}

func (s *Service) GetRevenueByClient(ctx context.Context, req dashboarddomain.RangeRequest) (dashboarddomain.RevenueResponse, error) {
	tenantID, err := tenantcontext.TenantID(ctx)
	if err != nil {
		return dashboarddomain.RevenueResponse{}, err
	}
	if err := validateRange(req); err != nil {
		return dashboarddomain.RevenueResponse{}, err
	}

	type revenueRow struct {
		ClientID   snowflake.ID
		ClientName string
		Invoiced   decimal.Decimal
		Collected  decimal.Decimal
	}
	var rows []revenueRow
	query := s.invoiceRange(ctx, tenantID, req).
		Joins("JOIN clients ON clients.id = invoices.client_id").
		Where("invoices.status != ?", invoicedomain.StatusCancelled).
		Select(`invoices.client_id AS client_id,
			clients.name AS client_name,
			COALESCE(SUM(invoices.total), 0) AS invoiced,
			COALESCE(SUM(invoices.amount_paid), 0) AS collected`).
		Group("invoices.client_id, clients.name").
		Order("collected DESC")
	if err := query.Scan(&rows).Error; err != nil {
		return dashboarddomain.RevenueResponse{}, err
	}

	resp := dashboarddomain.RevenueResponse{Clients: make([]dashboarddomain.ClientRevenue, 0, len(rows))}
	for _, row := range rows {
		resp.Clients = append(resp.Clients, dashboarddomain.ClientRevenue{
			ClientID:    row.ClientID,
			ClientName:  row.ClientName,
			Invoiced:    row.Invoiced,
			Collected:   row.Collected,
			Outstanding: row.Invoiced.Sub(row.Collected),
		})
	}
	return resp, nil
}

func (s *Service) GetOverdueInvoices(ctx context.Context) (dashboarddomain.OverdueResponse, error) {
	tenantID, err := tenantcontext.TenantID(ctx)
	if err != nil {
		return dashboarddomain.OverdueResponse{}, err
	}

	now := s.clock.Now()
	type overdueRow struct {
		InvoiceID  snowflake.ID
		Number     string
		ClientID   snowflake.ID
		ClientName string
		Remaining  decimal.Decimal
		DueDate    time.Time
	}
	var rows []overdueRow
	err = s.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Joins("JOIN clients ON clients.id = invoices.client_id").
		Where("invoices.tenant_id = ?", tenantID).
		Where("invoices.due_date < ? AND invoices.status NOT IN ?", now, []invoicedomain.Status{
			invoicedomain.StatusPaid, invoicedomain.StatusCancelled,
		}).
		Select(`invoices.id AS invoice_id,
			invoices.number AS number,
			invoices.client_id AS client_id,
			clients.name AS client_name,
			invoices.total - invoices.amount_paid AS remaining,
			invoices.due_date AS due_date`).
		Order("invoices.due_date ASC").
		Scan(&rows).Error
	if err != nil {
		return dashboarddomain.OverdueResponse{}, err
	}

	resp := dashboarddomain.OverdueResponse{Invoices: make([]dashboarddomain.OverdueInvoice, 0, len(rows))}
	for _, row := range rows {
		resp.Invoices = append(resp.Invoices, dashboarddomain.OverdueInvoice{
			InvoiceID:  row.InvoiceID,
			Number:     row.Number,
			ClientID:   row.ClientID,
			ClientName: row.ClientName,
			Remaining:  row.Remaining,
			DueDate:    row.DueDate,
			DaysLate:   int(now.Sub(row.DueDate).Hours() / 24),
		})
	}
	return resp, nil
}

func (s *Service) GetExpensesByCategory(ctx context.Context, req dashboarddomain.RangeRequest) (dashboarddomain.ExpenseResponse, error) {
	tenantID, err := tenantcontext.TenantID(ctx)
	if err != nil {
		return dashboarddomain.ExpenseResponse{}, err
	}
	if err := validateRange(req); err != nil {
		return dashboarddomain.ExpenseResponse{}, err
	}

	type categoryRow struct {
		Category string
		Count    int64
		Total    decimal.Decimal
	}
	var rows []categoryRow
	query := s.db.WithContext(ctx).
		Table("expenses").
		Where("tenant_id = ?", tenantID).
		Select("category, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Group("category").
		Order("total DESC")
	if !req.From.IsZero() {
		query = query.Where("expense_date >= ?", req.From)
	}
	if !req.To.IsZero() {
		query = query.Where("expense_date <= ?", req.To)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return dashboarddomain.ExpenseResponse{}, err
	}

	resp := dashboarddomain.ExpenseResponse{
		Categories: make([]dashboarddomain.CategoryExpense, 0, len(rows)),
		Total:      decimal.Zero,
	}
	for _, row := range rows {
		resp.Categories = append(resp.Categories, dashboarddomain.CategoryExpense{
			Category: row.Category,
			Count:    row.Count,
			Total:    row.Total,
		})
		resp.Total = resp.Total.Add(row.Total)
	}
	return resp, nil
}

func (s *Service) invoiceRange(ctx context.Context, tenantID snowflake.ID, req dashboarddomain.RangeRequest) *gorm.DB {
	query := s.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("invoices.tenant_id = ?", tenantID)
	if !req.From.IsZero() {
		query = query.Where("invoices.issue_date >= ?", req.From)
	}
	if !req.To.IsZero() {
		query = query.Where("invoices.issue_date <= ?", req.To)
	}
	return query
}

func validateRange(req dashboarddomain.RangeRequest) error {
	if !req.From.IsZero() && !req.To.IsZero() && req.From.After(req.To) {
		return dashboarddomain.ErrInvalidRange
	}
	return nil
}
