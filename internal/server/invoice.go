package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/cchamangwana/platforms/internal/invoice/domain"
	"github.com/cchamangwana/platforms/pkg/db/pagination"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type lineItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type createInvoiceRequest struct {
	ClientID  int64             `json:"client_id,string"`
	CompanyID int64             `json:"company_id,string"`
	ProjectID *int64            `json:"project_id,string,omitempty"`
	Number    string            `json:"number"`
	Status    string            `json:"status"`
	TaxRate   decimal.Decimal   `json:"tax_rate"`
	Discount  decimal.Decimal   `json:"discount"`
	IssueDate string            `json:"issue_date"`
	DueDate   string            `json:"due_date"`
	Notes     string            `json:"notes"`
	LineItems []lineItemRequest `json:"line_items"`
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	issueDate, err := parseOptionalTime(req.IssueDate, false)
	if err != nil {
		AbortWithError(c, newValidationError("invalid_issue_date"))
		return
	}
	dueDate, err := parseOptionalTime(req.DueDate, true)
	if err != nil {
		AbortWithError(c, newValidationError("invalid_due_date"))
		return
	}

	var projectID *snowflake.ID
	if req.ProjectID != nil {
		id := snowflake.ParseInt64(*req.ProjectID)
		projectID = &id
	}

	items := make([]invoicedomain.LineItemInput, 0, len(req.LineItems))
	for _, item := range req.LineItems {
		items = append(items, invoicedomain.LineItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), invoicedomain.CreateInvoiceRequest{
		ClientID:  snowflake.ParseInt64(req.ClientID),
		CompanyID: snowflake.ParseInt64(req.CompanyID),
		ProjectID: projectID,
		Number:    req.Number,
		Status:    invoicedomain.Status(strings.ToUpper(strings.TrimSpace(req.Status))),
		TaxRate:   req.TaxRate,
		Discount:  req.Discount,
		IssueDate: timeOrZero(issueDate),
		DueDate:   timeOrZero(dueDate),
		Notes:     req.Notes,
		LineItems: items,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status   string `form:"status"`
		ClientID string `form:"client_id"`
		Overdue  bool   `form:"overdue"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var clientID snowflake.ID
	if raw := strings.TrimSpace(query.ClientID); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			AbortWithError(c, newValidationError("invalid_client_id"))
			return
		}
		clientID = snowflake.ParseInt64(value)
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListInvoiceRequest{
		Pagination:  query.Pagination,
		Status:      invoicedomain.Status(strings.ToUpper(strings.TrimSpace(query.Status))),
		ClientID:    clientID,
		OverdueOnly: query.Overdue,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.invoiceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateInvoiceStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateInvoiceStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.UpdateStatus(c.Request.Context(), id,
		invoicedomain.Status(strings.ToUpper(strings.TrimSpace(req.Status))))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.invoiceSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
