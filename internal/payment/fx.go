package payment

import (
	"github.com/solobooks/solobooks/internal/payment/repository"
	"github.com/solobooks/solobooks/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
