// Package observability wires logging, tracing, and metrics providers.
package observability

import (
	"github.com/cchamangwana/platforms/internal/config"
	"github.com/cchamangwana/platforms/internal/observability/logger"
	"github.com/cchamangwana/platforms/internal/observability/metrics"
	"github.com/cchamangwana/platforms/internal/observability/tracing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the logger, tracer provider, and metric instruments.
var Module = fx.Module("observability",
	logger.Module,
	// Invoked, not provided: nothing consumes the provider value, and a
	// lazy constructor would leave the exporter and propagator unset.
	fx.Invoke(tracing.NewProvider),
	fx.Provide(NewRegistry),
	fx.Provide(NewHTTPMetrics),
	fx.Provide(NewBillingMetrics),
	fx.Invoke(func(log *zap.Logger) {
		zap.ReplaceGlobals(log)
	}),
)

// NewRegistry builds the prometheus registry with process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// NewHTTPMetrics builds the HTTP server instruments.
func NewHTTPMetrics(reg *prometheus.Registry, cfg config.Config) *metrics.HTTPMetrics {
	return metrics.NewHTTPMetrics(reg, cfg.ServiceName)
}

// NewBillingMetrics builds the billing domain instruments.
func NewBillingMetrics(reg *prometheus.Registry, cfg config.Config) *metrics.BillingMetrics {
	return metrics.NewBillingMetrics(reg, cfg.ServiceName)
}
