package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	expensedomain "github.com/cchamangwana/platforms/internal/expense/domain"
	"github.com/cchamangwana/platforms/pkg/db/pagination"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createExpenseRequest struct {
	ProjectID   *int64          `json:"project_id,string,omitempty"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate string          `json:"expense_date"`
	Notes       string          `json:"notes"`
}

func (s *Server) CreateExpense(c *gin.Context) {
	var req createExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	expenseDate, err := parseOptionalTime(req.ExpenseDate, false)
	if err != nil {
		AbortWithError(c, newValidationError("invalid_expense_date"))
		return
	}

	var projectID *snowflake.ID
	if req.ProjectID != nil {
		id := snowflake.ParseInt64(*req.ProjectID)
		projectID = &id
	}

	resp, err := s.expenseSvc.Create(c.Request.Context(), expensedomain.CreateExpenseRequest{
		ProjectID:   projectID,
		Description: req.Description,
		Category:    expensedomain.Category(strings.ToUpper(strings.TrimSpace(req.Category))),
		Amount:      req.Amount,
		ExpenseDate: timeOrZero(expenseDate),
		Notes:       req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListExpenses(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Category string `form:"category"`
		From     string `form:"from"`
		To       string `form:"to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	from, err := parseOptionalTime(query.From, false)
	if err != nil {
		AbortWithError(c, newValidationError("invalid_from"))
		return
	}
	to, err := parseOptionalTime(query.To, true)
	if err != nil {
		AbortWithError(c, newValidationError("invalid_to"))
		return
	}

	resp, err := s.expenseSvc.List(c.Request.Context(), expensedomain.ListExpenseRequest{
		Pagination: query.Pagination,
		Category:   expensedomain.Category(strings.ToUpper(strings.TrimSpace(query.Category))),
		From:       timeOrZero(from),
		To:         timeOrZero(to),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetExpenseByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.expenseSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteExpense(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.expenseSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
