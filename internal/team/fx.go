package team

import (
	"github.com/opsdesk/salesdesk/internal/team/repository"
	"github.com/opsdesk/salesdesk/internal/team/service"
	"go.uber.org/fx"
)

var Module = fx.Module("team.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
