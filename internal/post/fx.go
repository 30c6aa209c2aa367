package post

import (
	"github.com/approvly/approvly/internal/post/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("post",
	fx.Provide(repository.Provide),
)
