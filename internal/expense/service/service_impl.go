package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/cchamangwana/platforms/internal/audit/domain"
	"github.com/cchamangwana/platforms/internal/clock"
	"github.com/cchamangwana/platforms/internal/events"
	expensedomain "github.com/cchamangwana/platforms/internal/expense/domain"
	"github.com/cchamangwana/platforms/internal/tenantcontext"
	"github.com/cchamangwana/platforms/pkg/db/option"
	"github.com/cchamangwana/platforms/pkg/db/pagination"
	"github.com/cchamangwana/platforms/pkg/db/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	AuditSvc auditdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	auditSvc auditdomain.Service
}

func NewService(p Params) expensedomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("expense.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) store(ctx context.Context) (repository.Store[expensedomain.Expense], error) {
	tenantID, err := tenantcontext.TenantID(ctx)
	if err != nil {
		return repository.Store[expensedomain.Expense]{}, err
	}
	return repository.ForTenant[expensedomain.Expense](s.db, tenantID), nil
}

func (s *Service) Create(ctx context.Context, req expensedomain.CreateExpenseRequest) (*expensedomain.Expense, error) {
	store, err := s.store(ctx)
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, expensedomain.ErrInvalidDescription
	}
	category := req.Category
	if category == "" {
		category = expensedomain.CategoryOther
	}
	if !category.Valid() {
		return nil, expensedomain.ErrInvalidCategory
	}
	if !req.Amount.IsPositive() {
		return nil, expensedomain.ErrInvalidAmount
	}

	now := s.clock.Now()
	expenseDate := req.ExpenseDate
	if expenseDate.IsZero() {
		expenseDate = now
	}

	expense := expensedomain.Expense{
		ID:          s.genID.Generate(),
		TenantID:    store.TenantID(),
		ProjectID:   req.ProjectID,
		Description: description,
		Category:    category,
		Amount:      req.Amount.Round(2),
		ExpenseDate: expenseDate,
		Notes:       strings.TrimSpace(req.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.Create(ctx, &expense); err != nil {
		return nil, err
	}

	if s.auditSvc != nil {
		targetID := expense.ID.String()
		err := s.auditSvc.AuditLog(ctx, store.TenantID(), events.EventExpenseCreated, "expense", &targetID, map[string]any{
			"category": string(expense.Category),
			"amount":   expense.Amount.String(),
		})
		if err != nil {
			s.log.Warn("audit log write failed", zap.Error(err))
		}
	}
	return &expense, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*expensedomain.Expense, error) {
	store, err := s.store(ctx)
	if err != nil {
		return nil, err
	}

	expense, err := store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, expensedomain.ErrExpenseNotFound
	}
	return expense, nil
}

func (s *Service) List(ctx context.Context, req expensedomain.ListExpenseRequest) (expensedomain.ListExpenseResponse, error) {
	store, err := s.store(ctx)
	if err != nil {
		return expensedomain.ListExpenseResponse{}, err
	}

	var filters []option.Option
	if req.Category != "" {
		if !req.Category.Valid() {
			return expensedomain.ListExpenseResponse{}, expensedomain.ErrInvalidCategory
		}
		filters = append(filters, option.Where("category = ?", req.Category))
	}
	if !req.From.IsZero() {
		filters = append(filters, option.Where("expense_date >= ?", req.From))
	}
	if !req.To.IsZero() {
		filters = append(filters, option.Where("expense_date <= ?", req.To))
	}

	total, err := store.Count(ctx, filters...)
	if err != nil {
		return expensedomain.ListExpenseResponse{}, err
	}

	pageSize := pagination.Normalize(req.PageSize)
	offset := pagination.DecodeToken(req.PageToken)
	opts := append(filters,
		option.Order("expense_date DESC, id DESC"),
		option.Offset(offset),
		option.Limit(pageSize),
	)
	expenses, err := store.List(ctx, opts...)
	if err != nil {
		return expensedomain.ListExpenseResponse{}, err
	}

	return expensedomain.ListExpenseResponse{
		PageInfo: pagination.PageInfo{
			NextPageToken: pagination.NextToken(offset, pageSize, total),
			TotalCount:    total,
		},
		Expenses: expenses,
	}, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	store, err := s.store(ctx)
	if err != nil {
		return err
	}

	expense, err := store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if expense == nil {
		return expensedomain.ErrExpenseNotFound
	}
	return store.Delete(ctx, id)
}
