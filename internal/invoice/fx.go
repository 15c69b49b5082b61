package invoice

import (
	"github.com/cchamangwana/platforms/internal/invoice/repository"
	"github.com/cchamangwana/platforms/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
