package call

import (
	"github.com/opsdesk/salesdesk/internal/call/repository"
	"github.com/opsdesk/salesdesk/internal/call/service"
	"go.uber.org/fx"
)

var Module = fx.Module("call.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
