package main

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/cchamangwana/platforms/internal/audit"
	"github.com/cchamangwana/platforms/internal/client"
	"github.com/cchamangwana/platforms/internal/clock"
	"github.com/cchamangwana/platforms/internal/config"
	"github.com/cchamangwana/platforms/internal/dashboard"
	"github.com/cchamangwana/platforms/internal/expense"
	"github.com/cchamangwana/platforms/internal/invoice"
	"github.com/cchamangwana/platforms/internal/migration"
	"github.com/cchamangwana/platforms/internal/observability"
	"github.com/cchamangwana/platforms/internal/payment"
	"github.com/cchamangwana/platforms/internal/seed"
	"github.com/cchamangwana/platforms/internal/server"
	"github.com/cchamangwana/platforms/internal/tenant"
	"github.com/cchamangwana/platforms/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		clock.Module,
		fx.Provide(func() (*snowflake.Node, error) {
			return snowflake.NewNode(1)
		}),
		db.Module,
		fx.Invoke(func(conn *gorm.DB, node *snowflake.Node, cfg config.Config, log *zap.Logger) error {
			ctx := context.Background()
			if err := migration.Apply(ctx, conn, log); err != nil {
				return err
			}
			if cfg.Bootstrap.EnsureDefaultTenant {
				if err := seed.EnsureDefaultTenant(conn, node, cfg); err != nil {
					return err
				}
			}
			if cfg.Bootstrap.SeedDemoData {
				return seed.SeedDemoData(conn, node)
			}
			return nil
		}),
		audit.Module,
		tenant.Module,
		client.Module,
		invoice.Module,
		payment.Module,
		expense.Module,
		dashboard.Module,
		server.Module,
	)
	app.Run()
}
