// Package server wires the HTTP surface: routing, middleware, and the
// handlers that translate between JSON and the domain services.
package server

import (
	"context"
	"net/http"
	"time"

	auditdomain "github.com/cchamangwana/platforms/internal/audit/domain"
	clientdomain "github.com/cchamangwana/platforms/internal/client/domain"
	"github.com/cchamangwana/platforms/internal/config"
	dashboarddomain "github.com/cchamangwana/platforms/internal/dashboard/domain"
	expensedomain "github.com/cchamangwana/platforms/internal/expense/domain"
	invoicedomain "github.com/cchamangwana/platforms/internal/invoice/domain"
	"github.com/cchamangwana/platforms/internal/invoice/render"
	"github.com/cchamangwana/platforms/internal/observability/logger"
	"github.com/cchamangwana/platforms/internal/observability/metrics"
	"github.com/cchamangwana/platforms/internal/observability/tracing"
	paymentdomain "github.com/cchamangwana/platforms/internal/payment/domain"
	tenantdomain "github.com/cchamangwana/platforms/internal/tenant/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Config       config.Config
	DB           *gorm.DB
	Log          *zap.Logger
	TenantSvc    tenantdomain.Service
	ClientSvc    clientdomain.Service
	InvoiceSvc   invoicedomain.Service
	PaymentSvc   paymentdomain.Service
	ExpenseSvc   expensedomain.Service
	DashboardSvc dashboarddomain.Service
	AuditSvc     auditdomain.Service  `optional:"true"`
	Registry     *prometheus.Registry `optional:"true"`
	HTTPMetrics  *metrics.HTTPMetrics `optional:"true"`
}

// Server holds the handler dependencies.
type Server struct {
	cfg config.Config
	db  *gorm.DB
	log *zap.Logger

	tenantSvc    tenantdomain.Service
	clientSvc    clientdomain.Service
	invoiceSvc   invoicedomain.Service
	paymentSvc   paymentdomain.Service
	expenseSvc   expensedomain.Service
	dashboardSvc dashboarddomain.Service
	auditSvc     auditdomain.Service

	registry    *prometheus.Registry
	httpMetrics *metrics.HTTPMetrics
	limiter     *rateLimiter
	renderer    render.Renderer
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:          p.Config,
		db:           p.DB,
		log:          p.Log.Named("server"),
		tenantSvc:    p.TenantSvc,
		clientSvc:    p.ClientSvc,
		invoiceSvc:   p.InvoiceSvc,
		paymentSvc:   p.PaymentSvc,
		expenseSvc:   p.ExpenseSvc,
		dashboardSvc: p.DashboardSvc,
		auditSvc:     p.AuditSvc,
		registry:     p.Registry,
		httpMetrics:  p.HTTPMetrics,
		limiter:      newRateLimiter(p.Config.HTTP.RateLimitPerMin, time.Minute),
		renderer:     render.NewRenderer(),
	}
}

// NewEngine assembles the gin engine with middleware and routes.
func NewEngine(s *Server) *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		Log:       s.log,
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	if s.cfg.Tracing.Enabled {
		engine.Use(tracing.GinMiddleware(s.cfg.ServiceName))
	}
	if s.httpMetrics != nil {
		engine.Use(metrics.GinMiddleware(s.httpMetrics))
	}
	engine.Use(s.RateLimit())

	engine.GET("/healthz", s.Health)
	if s.registry != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	}

	engine.POST("/v1/tenants", s.CreateTenant)

	v1 := engine.Group("/v1", s.TenantMiddleware())
	{
		v1.GET("/clients", s.ListClients)
		v1.POST("/clients", s.CreateClient)
		v1.GET("/clients/:id", s.GetClientByID)
		v1.PATCH("/clients/:id", s.UpdateClient)
		v1.DELETE("/clients/:id", s.DeleteClient)

		v1.GET("/invoices", s.ListInvoices)
		v1.POST("/invoices", s.CreateInvoice)
		v1.GET("/invoices/:id", s.GetInvoiceByID)
		v1.GET("/invoices/:id/html", s.RenderInvoiceHTML)
		v1.PATCH("/invoices/:id/status", s.UpdateInvoiceStatus)
		v1.DELETE("/invoices/:id", s.DeleteInvoice)

		v1.GET("/invoices/:id/payments", s.ListInvoicePayments)
		v1.POST("/invoices/:id/payments", s.RecordPayment)

		v1.GET("/expenses", s.ListExpenses)
		v1.POST("/expenses", s.CreateExpense)
		v1.GET("/expenses/:id", s.GetExpenseByID)
		v1.DELETE("/expenses/:id", s.DeleteExpense)

		v1.GET("/dashboard/summary", s.GetDashboardSummary)
		v1.GET("/dashboard/revenue", s.GetDashboardRevenue)
		v1.GET("/dashboard/overdue", s.GetDashboardOverdue)
		v1.GET("/dashboard/expenses", s.GetDashboardExpenses)
	}

	if !s.cfg.IsProduction() {
		engine.POST("/internal/test/cleanup", s.TestCleanup)
	}

	return engine
}

// RunHTTP starts the HTTP listener on the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, s *Server, engine *gin.Engine) {
	srv := &http.Server{
		Addr:    s.cfg.HTTP.Addr,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.log.Info("http server starting", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			timeout := time.Duration(s.cfg.HTTP.ShutdownTimeoutS) * time.Second
			shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
