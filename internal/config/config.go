// Package config loads environment-driven configuration at startup.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Module provides the loaded configuration.
var Module = fx.Module("config",
	fx.Provide(Load),
)

// Config is the process configuration.
type Config struct {
	Environment    string
	ServiceName    string
	ServiceVersion string

	HTTP      HTTPConfig
	Database  DatabaseConfig
	Tracing   TracingConfig
	Bootstrap BootstrapConfig

	// RootDomain is the apex domain tenants hang off of, e.g. invoices
	// for acme live at acme.<RootDomain>.
	RootDomain string
}

type HTTPConfig struct {
	Addr             string
	RateLimitPerMin  int
	ShutdownTimeoutS int
}

type DatabaseConfig struct {
	Driver                 string
	DSN                    string
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeMinutes int
}

type TracingConfig struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	SamplingRatio    float64
}

type BootstrapConfig struct {
	EnsureDefaultTenant bool
	SeedDemoData        bool
	AdminEmail          string
	AdminPassword       string
}

// Load reads configuration from the environment, honoring an optional .env.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:    getEnv("APP_ENV", "development"),
		ServiceName:    getEnv("SERVICE_NAME", "platforms"),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		RootDomain:     getEnv("ROOT_DOMAIN", "localhost"),
		HTTP: HTTPConfig{
			Addr:             getEnv("HTTP_ADDR", ":8080"),
			RateLimitPerMin:  getEnvInt("HTTP_RATE_LIMIT_PER_MIN", 600),
			ShutdownTimeoutS: getEnvInt("HTTP_SHUTDOWN_TIMEOUT_S", 15),
		},
		Database: DatabaseConfig{
			Driver:                 getEnv("DB_DRIVER", "postgres"),
			DSN:                    getEnv("DB_DSN", "host=localhost user=platforms dbname=platforms sslmode=disable"),
			MaxOpenConns:           getEnvInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:           getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeMinutes: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 30),
		},
		Tracing: TracingConfig{
			Enabled:          getEnvBool("TRACING_ENABLED", false),
			ExporterEndpoint: getEnv("OTLP_ENDPOINT", ""),
			ExporterProtocol: getEnv("OTLP_PROTOCOL", "grpc"),
			SamplingRatio:    getEnvFloat("TRACING_SAMPLING_RATIO", 0.1),
		},
		Bootstrap: BootstrapConfig{
			EnsureDefaultTenant: getEnvBool("BOOTSTRAP_DEFAULT_TENANT", true),
			SeedDemoData:        getEnvBool("BOOTSTRAP_SEED_DEMO_DATA", false),
			AdminEmail:          getEnv("BOOTSTRAP_ADMIN_EMAIL", "admin@platforms.local"),
			AdminPassword:       getEnv("BOOTSTRAP_ADMIN_PASSWORD", "admin"),
		},
	}
	return cfg, nil
}

// IsProduction reports whether the process runs in production mode.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}
