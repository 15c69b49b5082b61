package server

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	dashboarddomain "github.com/cchamangwana/platforms/internal/dashboard/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) GetDashboardSummary(c *gin.Context) {
	req, err := parseRangeRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.dashboardSvc.GetSummary(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if c.Query("format") == "csv" {
		writeCSV(c, "summary.csv", &resp)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetDashboardRevenue(c *gin.Context) {
	req, err := parseRangeRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.dashboardSvc.GetRevenueByClient(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if c.Query("format") == "csv" {
		writeCSV(c, "revenue.csv", &resp)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetDashboardOverdue(c *gin.Context) {
	resp, err := s.dashboardSvc.GetOverdueInvoices(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if c.Query("format") == "csv" {
		writeCSV(c, "overdue.csv", &resp)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetDashboardExpenses(c *gin.Context) {
	req, err := parseRangeRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.dashboardSvc.GetExpensesByCategory(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if c.Query("format") == "csv" {
		writeCSV(c, "expenses.csv", &resp)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func parseRangeRequest(c *gin.Context) (dashboarddomain.RangeRequest, error) {
	from, err := parseOptionalTime(c.Query("from"), false)
	if err != nil {
		return dashboarddomain.RangeRequest{}, newValidationError("invalid_from")
	}
	to, err := parseOptionalTime(c.Query("to"), true)
	if err != nil {
		return dashboarddomain.RangeRequest{}, newValidationError("invalid_to")
	}
	return dashboarddomain.RangeRequest{
		From: timeOrZero(from),
		To:   timeOrZero(to),
	}, nil
}

func writeCSV(c *gin.Context, filename string, data interface{}) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	switch v := data.(type) {
	case *dashboarddomain.Summary:
		_ = writer.Write([]string{"Metric", "Value"})
		_ = writer.Write([]string{"Total Invoiced", v.TotalInvoiced.String()})
		_ = writer.Write([]string{"Total Collected", v.TotalCollected.String()})
		_ = writer.Write([]string{"Total Outstanding", v.TotalOutstanding.String()})
		_ = writer.Write([]string{"Total Overdue", v.TotalOverdue.String()})
		_ = writer.Write([]string{"Total Expenses", v.TotalExpenses.String()})
		_ = writer.Write([]string{"Invoice Count", strconv.FormatInt(v.InvoiceCount, 10)})
		_ = writer.Write([]string{"Overdue Count", strconv.FormatInt(v.OverdueCount, 10)})
	case *dashboarddomain.RevenueResponse:
		_ = writer.Write([]string{"Client", "Invoiced", "Collected", "Outstanding"})
		for _, client := range v.Clients {
			_ = writer.Write([]string{
				client.ClientName,
				client.Invoiced.String(),
				client.Collected.String(),
				client.Outstanding.String(),
			})
		}
	case *dashboarddomain.OverdueResponse:
		_ = writer.Write([]string{"Number", "Client", "Remaining", "Due Date", "Days Late"})
		for _, invoice := range v.Invoices {
			_ = writer.Write([]string{
				invoice.Number,
				invoice.ClientName,
				invoice.Remaining.String(),
				invoice.DueDate.Format("2006-01-02"),
				strconv.Itoa(invoice.DaysLate),
			})
		}
	case *dashboarddomain.ExpenseResponse:
		_ = writer.Write([]string{"Category", "Count", "Total"})
		for _, category := range v.Categories {
			_ = writer.Write([]string{
				category.Category,
				strconv.FormatInt(category.Count, 10),
				category.Total.String(),
			})
		}
	}
}
