package analytics

import (
	"github.com/approvly/approvly/internal/analytics/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("analytics",
	fx.Provide(repository.Provide),
)
