package domain

import (
	"context"
	"errors"
)

// CreateTenantRequest carries inputs for provisioning a tenant.
type CreateTenantRequest struct {
	Slug string
	Name string
}

// Service resolves and provisions tenants.
type Service interface {
	// ResolveHost maps a request host header to a tenant. Hosts on the
	// apex domain or with an unknown subdomain resolve to ErrTenantNotFound.
	ResolveHost(ctx context.Context, host string) (*Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
	Create(ctx context.Context, req CreateTenantRequest) (*Tenant, error)
}

var (
	ErrTenantNotFound  = errors.New("tenant_not_found")
	ErrInvalidSlug     = errors.New("invalid_slug")
	ErrInvalidName     = errors.New("invalid_name")
	ErrSlugAlreadyUsed = errors.New("slug_already_used")
)
