package server

import (
	"github.com/cchamangwana/platforms/internal/auditcontext"
	obscontext "github.com/cchamangwana/platforms/internal/observability/context"
	"github.com/cchamangwana/platforms/internal/tenantcontext"
	"github.com/gin-gonic/gin"
)

// TenantMiddleware resolves the request host to a tenant and stamps the
// tenant ID into the request context. Requests on unknown hosts never reach
// a handler, so tenant-scoped services can rely on the ID being present.
func (s *Server) TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, err := s.tenantSvc.ResolveHost(c.Request.Context(), c.Request.Host)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := tenantcontext.WithTenantID(c.Request.Context(), tenant.ID)
		ctx = obscontext.WithTenantID(ctx, tenant.ID.String())
		ctx = auditcontext.WithIPAddress(ctx, c.ClientIP())
		ctx = auditcontext.WithUserAgent(ctx, c.Request.UserAgent())
		if requestID := c.GetString("request_id"); requestID != "" {
			ctx = auditcontext.WithRequestID(ctx, requestID)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Set("tenant_slug", tenant.Slug)
		c.Next()
	}
}

// RateLimit applies a fixed per-client window across all routes.
func (s *Server) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + "|" + c.Request.Host
		if !s.limiter.Allow(key) {
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
