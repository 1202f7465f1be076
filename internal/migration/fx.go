package migration

import (
	"github.com/solobooks/solobooks/internal/config"
	"github.com/solobooks/solobooks/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		if err := RunMigrations(sqlDB, cfg.DBType); err != nil {
			return err
		}

		// Seeding is auxiliary provisioning: a failure here is logged but
		// never blocks startup.
		if cfg.DefaultOwnerID != 0 {
			if err := seed.EnsureDefaultExpenseCategories(conn, cfg.DefaultOwnerID); err != nil {
				log.Warn("default expense category seed failed",
					zap.Int64("owner_id", cfg.DefaultOwnerID),
					zap.Error(err),
				)
			}
		}
		return nil
	}),
)
