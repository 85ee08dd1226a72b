package lead

import (
	"github.com/opsdesk/salesdesk/internal/lead/repository"
	"github.com/opsdesk/salesdesk/internal/lead/service"
	"go.uber.org/fx"
)

var Module = fx.Module("lead.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
