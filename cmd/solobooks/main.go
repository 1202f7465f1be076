package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/solobooks/solobooks/internal/clock"
	"github.com/solobooks/solobooks/internal/config"
	"github.com/solobooks/solobooks/internal/logger"
	"github.com/solobooks/solobooks/internal/migration"
	"github.com/solobooks/solobooks/internal/server"
	"github.com/solobooks/solobooks/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
