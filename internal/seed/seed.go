// Package seed bootstraps a default tenant and demo data for local setups.
package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/cchamangwana/platforms/internal/auth/domain"
	"github.com/cchamangwana/platforms/internal/auth/password"
	clientdomain "github.com/cchamangwana/platforms/internal/client/domain"
	companydomain "github.com/cchamangwana/platforms/internal/company/domain"
	"github.com/cchamangwana/platforms/internal/config"
	invoicedomain "github.com/cchamangwana/platforms/internal/invoice/domain"
	tenantdomain "github.com/cchamangwana/platforms/internal/tenant/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	defaultTenantSlug = "main"
	defaultTenantName = "Main"
)

// EnsureDefaultTenant seeds the default tenant and an owner account so a
// fresh database is usable immediately.
func EnsureDefaultTenant(db *gorm.DB, node *snowflake.Node, cfg config.Config) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tenant, err := ensureTenantTx(ctx, tx, node)
		if err != nil {
			return err
		}
		return ensureAdminTx(ctx, tx, node, tenant, cfg)
	})
}

// SeedDemoData inserts a demo client, company, and invoice for the default
// tenant. Intended for local development; guarded by config.
func SeedDemoData(db *gorm.DB, node *snowflake.Node) error {
	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tenant tenantdomain.Tenant
		if err := tx.WithContext(ctx).Where("slug = ?", defaultTenantSlug).First(&tenant).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.WithContext(ctx).
			Model(&invoicedomain.Invoice{}).
			Where("tenant_id = ?", tenant.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		client := clientdomain.Client{
			ID:        node.Generate(),
			TenantID:  tenant.ID,
			Name:      "Acme Corporation",
			Email:     "billing@acme.example",
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.WithContext(ctx).Create(&client).Error; err != nil {
			return err
		}

		company := companydomain.Company{
			ID:        node.Generate(),
			TenantID:  tenant.ID,
			Name:      "Main Studio",
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.WithContext(ctx).Create(&company).Error; err != nil {
			return err
		}

		invoiceID := node.Generate()
		item := invoicedomain.LineItem{
			ID:          node.Generate(),
			TenantID:    tenant.ID,
			InvoiceID:   invoiceID,
			Description: "Consulting",
			Quantity:    decimal.NewFromInt(10),
			UnitPrice:   decimal.NewFromInt(150),
			Amount:      decimal.NewFromInt(1500),
			CreatedAt:   now,
		}
		subtotal, taxAmount, total := invoicedomain.Totals([]invoicedomain.LineItem{item}, decimal.Zero, decimal.Zero)
		invoice := invoicedomain.Invoice{
			ID:         invoiceID,
			TenantID:   tenant.ID,
			ClientID:   client.ID,
			CompanyID:  company.ID,
			Number:     "INV-0001",
			Status:     invoicedomain.StatusSent,
			Subtotal:   subtotal,
			TaxRate:    decimal.Zero,
			TaxAmount:  taxAmount,
			Discount:   decimal.Zero,
			Total:      total,
			AmountPaid: decimal.Zero,
			IssueDate:  now,
			DueDate:    now.AddDate(0, 1, 0),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := tx.WithContext(ctx).Create(&invoice).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Create(&item).Error; err != nil {
			return err
		}
		return tx.WithContext(ctx).Create(&invoicedomain.Sequence{
			TenantID:   tenant.ID,
			NextNumber: 1,
		}).Error
	})
}

func ensureTenantTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (tenantdomain.Tenant, error) {
	var tenant tenantdomain.Tenant
	err := tx.WithContext(ctx).Where("slug = ?", defaultTenantSlug).First(&tenant).Error
	if err == nil {
		return tenant, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return tenant, err
	}

	now := time.Now().UTC()
	tenant = tenantdomain.Tenant{
		ID:        node.Generate(),
		Slug:      defaultTenantSlug,
		Name:      defaultTenantName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&tenant).Error; err != nil {
		return tenant, err
	}
	return tenant, nil
}

func ensureAdminTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, tenant tenantdomain.Tenant, cfg config.Config) error {
	email := strings.ToLower(strings.TrimSpace(cfg.Bootstrap.AdminEmail))

	var user authdomain.User
	err := tx.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := password.Hash(cfg.Bootstrap.AdminPassword)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	user = authdomain.User{
		ID:           node.Generate(),
		TenantID:     tenant.ID,
		Email:        email,
		DisplayName:  "Administrator",
		PasswordHash: hashed,
		Role:         authdomain.RoleOwner,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return tx.WithContext(ctx).Create(&user).Error
}
