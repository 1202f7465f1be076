package customer

import (
	"github.com/solobooks/solobooks/internal/customer/repository"
	"github.com/solobooks/solobooks/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
