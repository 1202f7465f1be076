package invoice

import (
	"github.com/solobooks/solobooks/internal/invoice/repository"
	"github.com/solobooks/solobooks/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
