package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cchamangwana/platforms/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

type CreateExpenseRequest struct {
	ProjectID   *snowflake.ID
	Description string
	Category    Category
	Amount      decimal.Decimal
	ExpenseDate time.Time
	Notes       string
}

type ListExpenseRequest struct {
	pagination.Pagination
	Category Category
	// From and To bound the expense date, inclusive. Zero values are open.
	From time.Time
	To   time.Time
}

type ListExpenseResponse struct {
	pagination.PageInfo
	Expenses []Expense `json:"expenses"`
}

// Service is the tenant-scoped expense surface.
type Service interface {
	Create(ctx context.Context, req CreateExpenseRequest) (*Expense, error)
	GetByID(ctx context.Context, id snowflake.ID) (*Expense, error)
	List(ctx context.Context, req ListExpenseRequest) (ListExpenseResponse, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

var (
	ErrExpenseNotFound    = errors.New("expense_not_found")
	ErrInvalidDescription = errors.New("invalid_description")
	ErrInvalidCategory    = errors.New("invalid_category")
	ErrInvalidAmount      = errors.New("invalid_amount")
)
