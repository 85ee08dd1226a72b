package outcome

import (
	"github.com/opsdesk/salesdesk/internal/outcome/repository"
	"github.com/opsdesk/salesdesk/internal/outcome/service"
	"go.uber.org/fx"
)

var Module = fx.Module("outcome.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
