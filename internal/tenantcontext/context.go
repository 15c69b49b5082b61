// Package tenantcontext carries the resolved tenant through request contexts.
package tenantcontext

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// ErrNoTenant is returned when an operation runs without a resolved tenant.
var ErrNoTenant = errors.New("no_tenant_in_context")

type contextKey string

const tenantIDKey contextKey = "tenant_id"

// WithTenantID attaches a tenant ID to the context.
func WithTenantID(ctx context.Context, tenantID snowflake.ID) context.Context {
	if tenantID == 0 {
		return ctx
	}
	return context.WithValue(ctx, tenantIDKey, tenantID)
}

// TenantID returns the tenant ID from the context.
func TenantID(ctx context.Context) (snowflake.ID, error) {
	value, ok := ctx.Value(tenantIDKey).(snowflake.ID)
	if !ok || value == 0 {
		return 0, ErrNoTenant
	}
	return value, nil
}
