package db

import (
	"context"
	"time"

	"github.com/solobooks/solobooks/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormprometheus "gorm.io/plugin/prometheus"
)

// New opens the gorm connection, applies pool settings and registers the
// prometheus plugin for pool statistics.
func New(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConn)
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConn)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTime) * time.Second)

	if err := conn.Use(gormprometheus.New(gormprometheus.Config{
		DBName:          cfg.DBName,
		RefreshInterval: 15,
	})); err != nil {
		log.Warn("failed to register gorm prometheus plugin", zap.Error(err))
	}

	return conn, nil
}

func registerHooks(lc fx.Lifecycle, conn *gorm.DB, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = ctx
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			log.Info("closing database connection")
			return sqlDB.Close()
		},
	})
}

// Module wires the database connection.
var Module = fx.Module("db",
	fx.Provide(New),
	fx.Invoke(registerHooks),
)
