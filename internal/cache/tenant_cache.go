package cache

import (
	tenantdomain "github.com/cchamangwana/platforms/internal/tenant/domain"
)

// NewTenantResolverCache builds the slug-to-tenant cache used by the host
// resolver.
func NewTenantResolverCache() *TTLCache[string, tenantdomain.Tenant] {
	return NewTTLCache[string, tenantdomain.Tenant]()
}
