package project

import (
	"github.com/solobooks/solobooks/internal/project/repository"
	"github.com/solobooks/solobooks/internal/project/service"
	"go.uber.org/fx"
)

var Module = fx.Module("project.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
