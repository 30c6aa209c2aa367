package client

import (
	"github.com/approvly/approvly/internal/client/repository"
	"github.com/approvly/approvly/internal/client/service"
	"go.uber.org/fx"
)

var Module = fx.Module("client.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
