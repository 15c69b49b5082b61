package tracing

import (
	"testing"

	"github.com/cchamangwana/platforms/internal/config"
	"go.opentelemetry.io/otel"
)

func TestNewProviderDisabledInstallsPropagator(t *testing.T) {
	provider, err := NewProvider(nil, config.Config{}, nil)
	if err != nil {
		t.Fatalf("provider: %v", err)
	}
	if provider != nil {
		t.Fatal("expected nil provider with tracing disabled")
	}

	fields := otel.GetTextMapPropagator().Fields()
	found := false
	for _, field := range fields {
		if field == "traceparent" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected traceparent propagation, got %v", fields)
	}
}

func TestNewProviderRejectsUnknownProtocol(t *testing.T) {
	cfg := config.Config{}
	cfg.Tracing.Enabled = true
	cfg.Tracing.ExporterProtocol = "carrier-pigeon"
	if _, err := NewProvider(nil, cfg, nil); err == nil {
		t.Fatal("expected error for unknown exporter protocol")
	}
}

func TestClampRatio(t *testing.T) {
	cases := map[float64]float64{
		-1:  0.1,
		0:   0.1,
		0.5: 0.5,
		2:   1,
	}
	for in, want := range cases {
		if got := clampRatio(in); got != want {
			t.Errorf("clampRatio(%v): expected %v, got %v", in, want, got)
		}
	}
}
