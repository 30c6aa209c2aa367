package migration

import (
	analyticsdomain "github.com/approvly/approvly/internal/analytics/domain"
	clientdomain "github.com/approvly/approvly/internal/client/domain"
	"github.com/approvly/approvly/internal/config"
	postdomain "github.com/approvly/approvly/internal/post/domain"
	uploaddomain "github.com/approvly/approvly/internal/upload/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// The SQL migrations target postgres; other dialects (mysql, the
		// sqlite used in tests) fall back to schema sync.
		if cfg.DBType != "postgres" {
			return conn.AutoMigrate(
				&clientdomain.Client{},
				&uploaddomain.UploadBatch{},
				&analyticsdomain.DailyAnalytics{},
				&analyticsdomain.TweetAnalytics{},
				&analyticsdomain.FollowerAnalytics{},
				&postdomain.PostDraft{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
