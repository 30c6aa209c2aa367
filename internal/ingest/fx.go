package ingest

import (
	"github.com/approvly/approvly/internal/ingest/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ingest",
	fx.Provide(service.New),
)
