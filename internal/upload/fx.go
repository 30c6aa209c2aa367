package upload

import (
	"github.com/approvly/approvly/internal/upload/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("upload",
	fx.Provide(repository.Provide),
)
