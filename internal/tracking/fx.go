package tracking

import (
	"github.com/opsdesk/salesdesk/internal/tracking/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tracking.service",
	fx.Provide(service.New),
)
