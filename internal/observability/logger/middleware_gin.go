package logger

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	obscontext "github.com/cchamangwana/platforms/internal/observability/context"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const headerRequestID = "X-Request-Id"

// MiddlewareConfig tunes the request-log middleware.
type MiddlewareConfig struct {
	Log *zap.Logger
	// SkipPaths are matched exactly and excluded from request logging.
	SkipPaths []string
}

// GinMiddleware assigns a request ID, propagates it through the request
// context, and emits one structured log line per request with sensitive
// headers masked.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, path := range cfg.SkipPaths {
		skip[path] = struct{}{}
	}

	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if requestID == "" {
			requestID = newRequestID()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set(headerRequestID, requestID)

		ctx := obscontext.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		if cfg.Log == nil {
			return
		}
		if _, ok := skip[c.FullPath()]; ok {
			return
		}

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.Any("headers", MaskHeaders(c.Request.Header)),
		}
		if tenant := obscontext.TenantIDFromContext(c.Request.Context()); tenant != "" {
			fields = append(fields, zap.String("tenant_id", tenant))
		}

		switch {
		case c.Writer.Status() >= 500:
			cfg.Log.Error("http request", fields...)
		case c.Writer.Status() >= 400:
			cfg.Log.Warn("http request", fields...)
		default:
			cfg.Log.Info("http request", fields...)
		}
	}
}

func newRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "req-unknown"
	}
	return hex.EncodeToString(buf)
}
