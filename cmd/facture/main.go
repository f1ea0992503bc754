package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallfirm/facture/internal/clock"
	"github.com/smallfirm/facture/internal/config"
	"github.com/smallfirm/facture/internal/logger"
	"github.com/smallfirm/facture/internal/migration"
	"github.com/smallfirm/facture/internal/server"
	"github.com/smallfirm/facture/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func newSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
