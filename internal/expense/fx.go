package expense

import (
	"github.com/solobooks/solobooks/internal/expense/repository"
	"github.com/solobooks/solobooks/internal/expense/service"
	"go.uber.org/fx"
)

var Module = fx.Module("expense.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
