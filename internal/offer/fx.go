package offer

import (
	"github.com/opsdesk/salesdesk/internal/offer/repository"
	"github.com/opsdesk/salesdesk/internal/offer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("offer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
