package providers

import (
	"context"

	"github.com/opsdesk/salesdesk/internal/config"
	"github.com/opsdesk/salesdesk/internal/providers/calendly"
	"github.com/opsdesk/salesdesk/internal/providers/ganalytics"
	"github.com/opsdesk/salesdesk/internal/providers/kajabi"
	"github.com/opsdesk/salesdesk/internal/providers/manychat"
	"github.com/opsdesk/salesdesk/internal/providers/meta"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewRedis returns a nil client when no address is configured; callers
// treat nil as "cache disabled".
func NewRedis(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rdb.Ping(ctx).Err(); err != nil {
				log.Warn("redis unreachable, caching disabled at startup", zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return rdb.Close()
		},
	})
	return rdb
}

var Module = fx.Module("providers",
	fx.Provide(NewRedis),
	fx.Provide(manychat.New),
	fx.Provide(kajabi.New),
	fx.Provide(calendly.New),
	fx.Provide(meta.New),
	fx.Provide(ganalytics.New),
)
