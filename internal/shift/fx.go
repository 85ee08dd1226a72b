package shift

import (
	"github.com/opsdesk/salesdesk/internal/shift/repository"
	"github.com/opsdesk/salesdesk/internal/shift/service"
	"go.uber.org/fx"
)

var Module = fx.Module("shift.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
