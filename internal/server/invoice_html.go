package server

import (
	"net/http"

	clientdomain "github.com/cchamangwana/platforms/internal/client/domain"
	companydomain "github.com/cchamangwana/platforms/internal/company/domain"
	"github.com/cchamangwana/platforms/internal/invoice/render"
	"github.com/cchamangwana/platforms/internal/tenantcontext"
	"github.com/cchamangwana/platforms/pkg/db/repository"
	"github.com/gin-gonic/gin"
)

// RenderInvoiceHTML serves a printable HTML view of an invoice.
func (s *Server) RenderInvoiceHTML(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	invoice, err := s.invoiceSvc.GetByID(ctx, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	tenantID, err := tenantcontext.TenantID(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	input := render.RenderInput{
		Invoice: render.InvoiceView{
			Number:     invoice.Number,
			Status:     string(invoice.Status),
			IssueDate:  invoice.IssueDate,
			DueDate:    invoice.DueDate,
			Subtotal:   invoice.Subtotal,
			TaxRate:    invoice.TaxRate,
			TaxAmount:  invoice.TaxAmount,
			Discount:   invoice.Discount,
			Total:      invoice.Total,
			AmountPaid: invoice.AmountPaid,
			Notes:      invoice.Notes,
		},
	}
	for _, item := range invoice.LineItems {
		input.Items = append(input.Items, render.LineItemView{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		})
	}

	clients := repository.ForTenant[clientdomain.Client](s.db, tenantID)
	if client, err := clients.FindByID(ctx, invoice.ClientID); err == nil && client != nil {
		input.Client = render.ClientView{
			Name:    client.Name,
			Email:   client.Email,
			Address: client.Address,
		}
	}
	companies := repository.ForTenant[companydomain.Company](s.db, tenantID)
	if company, err := companies.FindByID(ctx, invoice.CompanyID); err == nil && company != nil {
		input.Company = render.CompanyView{
			Name:      company.Name,
			Email:     company.Email,
			Address:   company.Address,
			TaxNumber: company.TaxNumber,
		}
	}

	html, err := s.renderer.RenderHTML(input)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
