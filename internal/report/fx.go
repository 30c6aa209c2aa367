package report

import (
	"github.com/approvly/approvly/internal/report/service"
	"go.uber.org/fx"
)

var Module = fx.Module("report",
	fx.Provide(service.New),
)
