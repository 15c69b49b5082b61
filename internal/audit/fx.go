package audit

import (
	"github.com/cchamangwana/platforms/internal/audit/repository"
	"github.com/cchamangwana/platforms/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
