package report

import (
	"github.com/solobooks/solobooks/internal/report/repository"
	"github.com/solobooks/solobooks/internal/report/service"
	"go.uber.org/fx"
)

var Module = fx.Module("report.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
