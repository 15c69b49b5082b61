package tenant

import (
	"github.com/cchamangwana/platforms/internal/cache"
	"github.com/cchamangwana/platforms/internal/tenant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tenant.service",
	fx.Provide(cache.NewTenantResolverCache),
	fx.Provide(service.NewService),
)
