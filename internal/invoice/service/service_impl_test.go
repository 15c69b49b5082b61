package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/cchamangwana/platforms/internal/client/domain"
	"github.com/cchamangwana/platforms/internal/clock"
	companydomain "github.com/cchamangwana/platforms/internal/company/domain"
	invoicedomain "github.com/cchamangwana/platforms/internal/invoice/domain"
	invoicerepository "github.com/cchamangwana/platforms/internal/invoice/repository"
	paymentdomain "github.com/cchamangwana/platforms/internal/payment/domain"
	projectdomain "github.com/cchamangwana/platforms/internal/project/domain"
	"github.com/cchamangwana/platforms/internal/tenantcontext"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *Service
	db       *gorm.DB
	ctx      context.Context
	tenantID snowflake.ID
	client   *clientdomain.Client
	company  *companydomain.Company
}

func setupInvoiceTest(t *testing.T) fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(
		fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&clientdomain.Client{},
		&companydomain.Company{},
		&projectdomain.Project{},
		&invoicedomain.Invoice{},
		&invoicedomain.LineItem{},
		&invoicedomain.Sequence{},
		&paymentdomain.Payment{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	tenantID := node.Generate()
	client := &clientdomain.Client{ID: node.Generate(), TenantID: tenantID, Name: "Acme Ltd"}
	company := &companydomain.Company{ID: node.Generate(), TenantID: tenantID, Name: "Studio One"}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("insert client: %v", err)
	}
	if err := db.Create(company).Error; err != nil {
		t.Fatalf("insert company: %v", err)
	}

	svc := &Service{
		db:    db,
		log:   zap.NewNop(),
		genID: node,
		clock: clock.FixedClock{Instant: testNow},
		repo:  invoicerepository.Provide(),
	}
	return fixture{
		svc:      svc,
		db:       db,
		ctx:      tenantcontext.WithTenantID(context.Background(), tenantID),
		tenantID: tenantID,
		client:   client,
		company:  company,
	}
}

func createRequest(f fixture) invoicedomain.CreateInvoiceRequest {
	return invoicedomain.CreateInvoiceRequest{
		ClientID:  f.client.ID,
		CompanyID: f.company.ID,
		TaxRate:   decimal.RequireFromString("8.5"),
		Discount:  decimal.Zero,
		IssueDate: testNow,
		DueDate:   testNow.AddDate(0, 0, 30),
		LineItems: []invoicedomain.LineItemInput{
			{Description: "Design", Quantity: decimal.RequireFromString("80"), UnitPrice: decimal.RequireFromString("125")},
			{Description: "Development", Quantity: decimal.RequireFromString("50"), UnitPrice: decimal.RequireFromString("100")},
		},
	}
}

func TestCreateComputesTotals(t *testing.T) {
	f := setupInvoiceTest(t)

	invoice, err := f.svc.Create(f.ctx, createRequest(f))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !invoice.Subtotal.Equal(decimal.RequireFromString("15000")) {
		t.Errorf("expected subtotal 15000, got %s", invoice.Subtotal)
	}
	if !invoice.TaxAmount.Equal(decimal.RequireFromString("1275")) {
		t.Errorf("expected tax 1275, got %s", invoice.TaxAmount)
	}
	if !invoice.Total.Equal(decimal.RequireFromString("16275")) {
		t.Errorf("expected total 16275, got %s", invoice.Total)
	}
	if !invoice.AmountPaid.IsZero() {
		t.Errorf("expected amount_paid 0, got %s", invoice.AmountPaid)
	}
	if invoice.Status != invoicedomain.StatusDraft {
		t.Errorf("expected DRAFT, got %s", invoice.Status)
	}
	if len(invoice.LineItems) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(invoice.LineItems))
	}
	if !invoice.LineItems[0].Amount.Equal(decimal.RequireFromString("10000")) {
		t.Errorf("expected first line 10000, got %s", invoice.LineItems[0].Amount)
	}
}

func TestCreateAssignsSequentialNumbers(t *testing.T) {
	f := setupInvoiceTest(t)

	first, err := f.svc.Create(f.ctx, createRequest(f))
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := f.svc.Create(f.ctx, createRequest(f))
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if first.Number != "INV-0001" {
		t.Errorf("expected INV-0001, got %s", first.Number)
	}
	if second.Number != "INV-0002" {
		t.Errorf("expected INV-0002, got %s", second.Number)
	}
}

func TestCreateRejectsDuplicateNumber(t *testing.T) {
	f := setupInvoiceTest(t)

	req := createRequest(f)
	req.Number = "CUSTOM-7"
	if _, err := f.svc.Create(f.ctx, req); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := f.svc.Create(f.ctx, req)
	if !errors.Is(err, invoicedomain.ErrNumberAlreadyUsed) {
		t.Fatalf("expected invoice_number_already_used, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	f := setupInvoiceTest(t)

	cases := []struct {
		name   string
		mutate func(*invoicedomain.CreateInvoiceRequest)
		want   error
	}{
		{"no line items", func(r *invoicedomain.CreateInvoiceRequest) { r.LineItems = nil }, invoicedomain.ErrMissingLineItems},
		{"blank description", func(r *invoicedomain.CreateInvoiceRequest) { r.LineItems[0].Description = "  " }, invoicedomain.ErrInvalidLineItem},
		{"negative tax rate", func(r *invoicedomain.CreateInvoiceRequest) { r.TaxRate = decimal.RequireFromString("-1") }, invoicedomain.ErrInvalidTaxRate},
		{"tax rate above hundred", func(r *invoicedomain.CreateInvoiceRequest) { r.TaxRate = decimal.RequireFromString("101") }, invoicedomain.ErrInvalidTaxRate},
		{"negative discount", func(r *invoicedomain.CreateInvoiceRequest) { r.Discount = decimal.RequireFromString("-5") }, invoicedomain.ErrInvalidDiscount},
		{"discount exceeds total", func(r *invoicedomain.CreateInvoiceRequest) { r.Discount = decimal.RequireFromString("99999") }, invoicedomain.ErrDiscountExceedsTotal},
		{"due before issue", func(r *invoicedomain.CreateInvoiceRequest) { r.DueDate = r.IssueDate.AddDate(0, 0, -1) }, invoicedomain.ErrInvalidDates},
		{"paid at creation", func(r *invoicedomain.CreateInvoiceRequest) { r.Status = invoicedomain.StatusPaid }, invoicedomain.ErrInvalidStatus},
		{"unknown client", func(r *invoicedomain.CreateInvoiceRequest) { r.ClientID = 42 }, invoicedomain.ErrClientNotFound},
		{"unknown company", func(r *invoicedomain.CreateInvoiceRequest) { r.CompanyID = 42 }, invoicedomain.ErrCompanyNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := createRequest(f)
			tc.mutate(&req)
			_, err := f.svc.Create(f.ctx, req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateRejectsNegativeTotal(t *testing.T) {
	f := setupInvoiceTest(t)

	req := createRequest(f)
	req.TaxRate = decimal.Zero
	req.Discount = decimal.RequireFromString("15000.01")
	if _, err := f.svc.Create(f.ctx, req); !errors.Is(err, invoicedomain.ErrDiscountExceedsTotal) {
		t.Fatalf("expected discount_exceeds_total, got %v", err)
	}

	var count int64
	if err := f.db.Model(&invoicedomain.Invoice{}).Count(&count).Error; err != nil {
		t.Fatalf("count invoices: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no invoice persisted, got %d", count)
	}

	// A discount consuming the whole amount is still a valid invoice.
	req.Discount = decimal.RequireFromString("15000")
	invoice, err := f.svc.Create(f.ctx, req)
	if err != nil {
		t.Fatalf("create zero total: %v", err)
	}
	if !invoice.Total.IsZero() {
		t.Fatalf("expected total 0, got %s", invoice.Total)
	}
}

func TestGetByIDLoadsLineItems(t *testing.T) {
	f := setupInvoiceTest(t)

	created, err := f.svc.Create(f.ctx, createRequest(f))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	invoice, err := f.svc.GetByID(f.ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(invoice.LineItems) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(invoice.LineItems))
	}
	if invoice.LineItems[0].Description != "Design" {
		t.Errorf("expected first line Design, got %s", invoice.LineItems[0].Description)
	}

	otherCtx := tenantcontext.WithTenantID(context.Background(), f.tenantID+1)
	if _, err := f.svc.GetByID(otherCtx, created.ID); !errors.Is(err, invoicedomain.ErrInvoiceNotFound) {
		t.Fatalf("expected invoice_not_found for foreign tenant, got %v", err)
	}
}

func TestListFilters(t *testing.T) {
	f := setupInvoiceTest(t)

	draft, err := f.svc.Create(f.ctx, createRequest(f))
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}

	overdueReq := createRequest(f)
	overdueReq.Status = invoicedomain.StatusSent
	overdueReq.IssueDate = testNow.AddDate(0, -2, 0)
	overdueReq.DueDate = testNow.AddDate(0, -1, 0)
	overdue, err := f.svc.Create(f.ctx, overdueReq)
	if err != nil {
		t.Fatalf("create overdue: %v", err)
	}

	all, err := f.svc.List(f.ctx, invoicedomain.ListInvoiceRequest{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if all.TotalCount != 2 || len(all.Invoices) != 2 {
		t.Fatalf("expected 2 invoices, got count=%d len=%d", all.TotalCount, len(all.Invoices))
	}

	drafts, err := f.svc.List(f.ctx, invoicedomain.ListInvoiceRequest{Status: invoicedomain.StatusDraft})
	if err != nil {
		t.Fatalf("list drafts: %v", err)
	}
	if len(drafts.Invoices) != 1 || drafts.Invoices[0].ID != draft.ID {
		t.Fatalf("expected the draft invoice, got %+v", drafts.Invoices)
	}

	late, err := f.svc.List(f.ctx, invoicedomain.ListInvoiceRequest{OverdueOnly: true})
	if err != nil {
		t.Fatalf("list overdue: %v", err)
	}
	if len(late.Invoices) != 1 || late.Invoices[0].ID != overdue.ID {
		t.Fatalf("expected the overdue invoice, got %+v", late.Invoices)
	}

	if _, err := f.svc.List(f.ctx, invoicedomain.ListInvoiceRequest{Status: invoicedomain.Status("BOGUS")}); !errors.Is(err, invoicedomain.ErrInvalidStatus) {
		t.Fatalf("expected invalid_status, got %v", err)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := setupInvoiceTest(t)

	invoice, err := f.svc.Create(f.ctx, createRequest(f))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := f.svc.UpdateStatus(f.ctx, invoice.ID, invoicedomain.StatusSent)
	if err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	if updated.Status != invoicedomain.StatusSent {
		t.Fatalf("expected SENT, got %s", updated.Status)
	}

	// Payment-derived states cannot be set by hand.
	if _, err := f.svc.UpdateStatus(f.ctx, invoice.ID, invoicedomain.StatusPaid); !errors.Is(err, invoicedomain.ErrInvalidTransition) {
		t.Fatalf("expected invalid_status_transition, got %v", err)
	}

	if _, err := f.svc.UpdateStatus(f.ctx, invoice.ID, invoicedomain.StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	// Cancelled is terminal.
	if _, err := f.svc.UpdateStatus(f.ctx, invoice.ID, invoicedomain.StatusSent); !errors.Is(err, invoicedomain.ErrInvalidTransition) {
		t.Fatalf("expected invalid_status_transition, got %v", err)
	}
}

func TestDeleteCascades(t *testing.T) {
	f := setupInvoiceTest(t)

	invoice, err := f.svc.Create(f.ctx, createRequest(f))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.svc.Delete(f.ctx, invoice.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := f.svc.GetByID(f.ctx, invoice.ID); !errors.Is(err, invoicedomain.ErrInvoiceNotFound) {
		t.Fatalf("expected invoice_not_found, got %v", err)
	}
	var items int64
	if err := f.db.Model(&invoicedomain.LineItem{}).Where("invoice_id = ?", invoice.ID).Count(&items).Error; err != nil {
		t.Fatalf("count line items: %v", err)
	}
	if items != 0 {
		t.Fatalf("expected 0 line items, got %d", items)
	}

	if err := f.svc.Delete(f.ctx, invoice.ID); !errors.Is(err, invoicedomain.ErrInvoiceNotFound) {
		t.Fatalf("expected invoice_not_found on second delete, got %v", err)
	}
}
