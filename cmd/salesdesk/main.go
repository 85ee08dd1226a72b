package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/opsdesk/salesdesk/internal/clock"
	"github.com/opsdesk/salesdesk/internal/config"
	"github.com/opsdesk/salesdesk/internal/migration"
	"github.com/opsdesk/salesdesk/internal/observability"
	"github.com/opsdesk/salesdesk/internal/server"
	"github.com/opsdesk/salesdesk/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
