package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cchamangwana/platforms/internal/clock"
	invoicedomain "github.com/cchamangwana/platforms/internal/invoice/domain"
	invoicerepository "github.com/cchamangwana/platforms/internal/invoice/repository"
	paymentdomain "github.com/cchamangwana/platforms/internal/payment/domain"
	"github.com/cchamangwana/platforms/internal/tenantcontext"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func setupPaymentTest(t *testing.T) (*Service, *gorm.DB, snowflake.ID) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(
		fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
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
	svc := &Service{
		db:          db,
		log:         zap.NewNop(),
		genID:       node,
		clock:       clock.FixedClock{Instant: testNow},
		invoiceRepo: invoicerepository.Provide(),
	}
	return svc, db, node.Generate()
}

func insertInvoice(t *testing.T, db *gorm.DB, tenantID snowflake.ID, total, paid string, status invoicedomain.Status) *invoicedomain.Invoice {
	t.Helper()
	node, err := snowflake.NewNode(2)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	invoice := &invoicedomain.Invoice{
		ID:         node.Generate(),
		TenantID:   tenantID,
		ClientID:   node.Generate(),
		CompanyID:  node.Generate(),
		Number:     fmt.Sprintf("INV-%d", node.Generate()),
		Status:     status,
		Subtotal:   decimal.RequireFromString(total),
		TaxRate:    decimal.Zero,
		TaxAmount:  decimal.Zero,
		Discount:   decimal.Zero,
		Total:      decimal.RequireFromString(total),
		AmountPaid: decimal.RequireFromString(paid),
		IssueDate:  testNow.AddDate(0, 0, -10),
		DueDate:    testNow.AddDate(0, 0, 20),
		CreatedAt:  testNow.AddDate(0, 0, -10),
		UpdatedAt:  testNow.AddDate(0, 0, -10),
	}
	if err := db.Create(invoice).Error; err != nil {
		t.Fatalf("insert invoice: %v", err)
	}
	return invoice
}

func TestRecordFullPaymentMarksPaid(t *testing.T) {
	svc, db, tenantID := setupPaymentTest(t)
	invoice := insertInvoice(t, db, tenantID, "16275.00", "0", invoicedomain.StatusSent)
	ctx := tenantcontext.WithTenantID(context.Background(), tenantID)

	resp, err := svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    decimal.RequireFromString("16275.00"),
		Method:    paymentdomain.MethodBankTransfer,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if resp.Invoice.Status != invoicedomain.StatusPaid {
		t.Fatalf("expected PAID, got %s", resp.Invoice.Status)
	}
	if !resp.Invoice.AmountPaid.Equal(decimal.RequireFromString("16275.00")) {
		t.Fatalf("expected amount_paid 16275.00, got %s", resp.Invoice.AmountPaid)
	}
	if resp.Invoice.PaidAt == nil || !resp.Invoice.PaidAt.Equal(testNow) {
		t.Fatalf("expected paid_at %s, got %v", testNow, resp.Invoice.PaidAt)
	}

	var stored invoicedomain.Invoice
	if err := db.First(&stored, "id = ?", invoice.ID).Error; err != nil {
		t.Fatalf("reload invoice: %v", err)
	}
	if stored.Status != invoicedomain.StatusPaid {
		t.Fatalf("expected stored PAID, got %s", stored.Status)
	}
	if stored.PaidAt == nil {
		t.Fatal("expected stored paid_at")
	}
}

func TestRecordRejectsAmountExceedingBalance(t *testing.T) {
	svc, db, tenantID := setupPaymentTest(t)
	invoice := insertInvoice(t, db, tenantID, "41400.00", "20000.00", invoicedomain.StatusPartial)
	ctx := tenantcontext.WithTenantID(context.Background(), tenantID)

	_, err := svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    decimal.RequireFromString("25000.00"),
		Method:    paymentdomain.MethodCash,
	})
	if !errors.Is(err, paymentdomain.ErrAmountExceedsBalance) {
		t.Fatalf("expected amount_exceeds_balance, got %v", err)
	}

	// The rejected booking leaves the invoice and the payments table alone.
	var stored invoicedomain.Invoice
	if err := db.First(&stored, "id = ?", invoice.ID).Error; err != nil {
		t.Fatalf("reload invoice: %v", err)
	}
	if !stored.AmountPaid.Equal(decimal.RequireFromString("20000.00")) {
		t.Fatalf("expected amount_paid 20000.00, got %s", stored.AmountPaid)
	}
	if stored.Status != invoicedomain.StatusPartial {
		t.Fatalf("expected PARTIAL, got %s", stored.Status)
	}
	var count int64
	if err := db.Model(&paymentdomain.Payment{}).Count(&count).Error; err != nil {
		t.Fatalf("count payments: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no payment rows, got %d", count)
	}
}

func TestRecordPartialPayment(t *testing.T) {
	svc, db, tenantID := setupPaymentTest(t)
	invoice := insertInvoice(t, db, tenantID, "27125.00", "0", invoicedomain.StatusSent)
	ctx := tenantcontext.WithTenantID(context.Background(), tenantID)

	resp, err := svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    decimal.RequireFromString("10000.00"),
		Method:    paymentdomain.MethodCheck,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if resp.Invoice.Status != invoicedomain.StatusPartial {
		t.Fatalf("expected PARTIAL, got %s", resp.Invoice.Status)
	}
	if resp.Invoice.PaidAt != nil {
		t.Fatalf("expected no paid_at, got %v", resp.Invoice.PaidAt)
	}
	if !resp.Invoice.Remaining().Equal(decimal.RequireFromString("17125.00")) {
		t.Fatalf("expected remaining 17125.00, got %s", resp.Invoice.Remaining())
	}
}

func TestRecordSettlesExactlyAcrossBookings(t *testing.T) {
	svc, db, tenantID := setupPaymentTest(t)
	invoice := insertInvoice(t, db, tenantID, "1000.00", "0", invoicedomain.StatusSent)
	ctx := tenantcontext.WithTenantID(context.Background(), tenantID)

	for _, amount := range []string{"400.00", "600.00"} {
		if _, err := svc.Record(ctx, paymentdomain.RecordPaymentRequest{
			InvoiceID: invoice.ID,
			Amount:    decimal.RequireFromString(amount),
			Method:    paymentdomain.MethodBankTransfer,
		}); err != nil {
			t.Fatalf("record %s: %v", amount, err)
		}
	}

	// Balance is now zero; any further booking is rejected.
	_, err := svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    decimal.RequireFromString("0.01"),
		Method:    paymentdomain.MethodBankTransfer,
	})
	if !errors.Is(err, paymentdomain.ErrAmountExceedsBalance) {
		t.Fatalf("expected amount_exceeds_balance, got %v", err)
	}

	var stored invoicedomain.Invoice
	if err := db.First(&stored, "id = ?", invoice.ID).Error; err != nil {
		t.Fatalf("reload invoice: %v", err)
	}
	if stored.Status != invoicedomain.StatusPaid {
		t.Fatalf("expected PAID, got %s", stored.Status)
	}
	if !stored.AmountPaid.Equal(decimal.RequireFromString("1000.00")) {
		t.Fatalf("expected amount_paid 1000.00, got %s", stored.AmountPaid)
	}
}

func TestRecordConcurrentBookingsNeverOverpay(t *testing.T) {
	svc, db, tenantID := setupPaymentTest(t)

	// One pooled connection makes the competing transactions queue the way
	// row locks do on postgres instead of tripping sqlite write locks.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	invoice := insertInvoice(t, db, tenantID, "1000.00", "0", invoicedomain.StatusSent)
	ctx := tenantcontext.WithTenantID(context.Background(), tenantID)

	const workers = 10
	results := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Record(ctx, paymentdomain.RecordPaymentRequest{
				InvoiceID: invoice.ID,
				Amount:    decimal.RequireFromString("300.00"),
				Method:    paymentdomain.MethodBankTransfer,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var recorded, rejected int
	for err := range results {
		switch {
		case err == nil:
			recorded++
		case errors.Is(err, paymentdomain.ErrAmountExceedsBalance):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	// 3 x 300.00 fit into 1000.00; the rest must bounce off the balance.
	if recorded != 3 || rejected != workers-3 {
		t.Fatalf("expected 3 recorded and %d rejected, got %d and %d", workers-3, recorded, rejected)
	}

	var stored invoicedomain.Invoice
	if err := db.First(&stored, "id = ?", invoice.ID).Error; err != nil {
		t.Fatalf("reload invoice: %v", err)
	}
	if stored.AmountPaid.GreaterThan(stored.Total) {
		t.Fatalf("amount_paid %s exceeds total %s", stored.AmountPaid, stored.Total)
	}
	if !stored.AmountPaid.Equal(decimal.RequireFromString("900.00")) {
		t.Fatalf("expected amount_paid 900.00, got %s", stored.AmountPaid)
	}
	if stored.Status != invoicedomain.StatusPartial {
		t.Fatalf("expected PARTIAL, got %s", stored.Status)
	}

	var count int64
	if err := db.Model(&paymentdomain.Payment{}).Where("invoice_id = ?", invoice.ID).Count(&count).Error; err != nil {
		t.Fatalf("count payments: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 payment rows, got %d", count)
	}
}

func TestRecordValidation(t *testing.T) {
	svc, db, tenantID := setupPaymentTest(t)
	invoice := insertInvoice(t, db, tenantID, "500.00", "0", invoicedomain.StatusSent)
	ctx := tenantcontext.WithTenantID(context.Background(), tenantID)

	if _, err := svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    decimal.Zero,
	}); !errors.Is(err, paymentdomain.ErrInvalidAmount) {
		t.Fatalf("expected invalid_amount, got %v", err)
	}

	if _, err := svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    decimal.RequireFromString("-5.00"),
	}); !errors.Is(err, paymentdomain.ErrInvalidAmount) {
		t.Fatalf("expected invalid_amount, got %v", err)
	}

	if _, err := svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    decimal.RequireFromString("10.00"),
		Method:    paymentdomain.Method("WIRE"),
	}); !errors.Is(err, paymentdomain.ErrInvalidMethod) {
		t.Fatalf("expected invalid_method, got %v", err)
	}

	if _, err := svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID:   invoice.ID,
		Amount:      decimal.RequireFromString("10.00"),
		PaymentDate: testNow.AddDate(0, 1, 0),
	}); !errors.Is(err, paymentdomain.ErrInvalidPaymentDate) {
		t.Fatalf("expected invalid_payment_date, got %v", err)
	}
}

func TestRecordRejectsCancelledInvoice(t *testing.T) {
	svc, db, tenantID := setupPaymentTest(t)
	invoice := insertInvoice(t, db, tenantID, "500.00", "0", invoicedomain.StatusCancelled)
	ctx := tenantcontext.WithTenantID(context.Background(), tenantID)

	_, err := svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    decimal.RequireFromString("100.00"),
	})
	if !errors.Is(err, invoicedomain.ErrInvalidTransition) {
		t.Fatalf("expected invalid_transition, got %v", err)
	}
}

func TestRecordUnknownInvoice(t *testing.T) {
	svc, _, tenantID := setupPaymentTest(t)
	ctx := tenantcontext.WithTenantID(context.Background(), tenantID)

	_, err := svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: 987654321,
		Amount:    decimal.RequireFromString("100.00"),
	})
	if !errors.Is(err, invoicedomain.ErrInvoiceNotFound) {
		t.Fatalf("expected invoice_not_found, got %v", err)
	}
}

func TestRecordScopedToTenant(t *testing.T) {
	svc, db, tenantID := setupPaymentTest(t)
	invoice := insertInvoice(t, db, tenantID, "500.00", "0", invoicedomain.StatusSent)

	otherTenant := tenantID + 1
	ctx := tenantcontext.WithTenantID(context.Background(), otherTenant)
	_, err := svc.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: invoice.ID,
		Amount:    decimal.RequireFromString("100.00"),
	})
	if !errors.Is(err, invoicedomain.ErrInvoiceNotFound) {
		t.Fatalf("expected invoice_not_found for foreign tenant, got %v", err)
	}
}

func TestListByInvoiceOrdersByDate(t *testing.T) {
	svc, db, tenantID := setupPaymentTest(t)
	invoice := insertInvoice(t, db, tenantID, "900.00", "0", invoicedomain.StatusSent)
	ctx := tenantcontext.WithTenantID(context.Background(), tenantID)

	dates := []time.Time{
		testNow.AddDate(0, 0, -1),
		testNow.AddDate(0, 0, -3),
		testNow.AddDate(0, 0, -2),
	}
	for _, date := range dates {
		if _, err := svc.Record(ctx, paymentdomain.RecordPaymentRequest{
			InvoiceID:   invoice.ID,
			Amount:      decimal.RequireFromString("100.00"),
			PaymentDate: date,
		}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	payments, err := svc.ListByInvoice(ctx, invoice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(payments) != 3 {
		t.Fatalf("expected 3 payments, got %d", len(payments))
	}
	for i := 1; i < len(payments); i++ {
		if payments[i].PaymentDate.Before(payments[i-1].PaymentDate) {
			t.Fatalf("payments out of order at %d", i)
		}
	}
}
