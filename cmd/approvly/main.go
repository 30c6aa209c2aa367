package main

import (
	"github.com/approvly/approvly/internal/analytics"
	"github.com/approvly/approvly/internal/client"
	"github.com/approvly/approvly/internal/clock"
	"github.com/approvly/approvly/internal/config"
	"github.com/approvly/approvly/internal/ingest"
	"github.com/approvly/approvly/internal/logger"
	"github.com/approvly/approvly/internal/migration"
	"github.com/approvly/approvly/internal/observability/metrics"
	"github.com/approvly/approvly/internal/post"
	"github.com/approvly/approvly/internal/report"
	"github.com/approvly/approvly/internal/server"
	"github.com/approvly/approvly/internal/upload"
	uploaddomain "github.com/approvly/approvly/internal/upload/domain"
	"github.com/approvly/approvly/pkg/db"
	"github.com/approvly/approvly/pkg/repository"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		metrics.Module,
		migration.Module,

		// Functional domains
		client.Module,
		analytics.Module,
		upload.Module,
		fx.Provide(repository.ProvideStore[uploaddomain.UploadBatch]),
		post.Module,
		ingest.Module,
		report.Module,

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
