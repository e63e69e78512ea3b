// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/clipflow/clipflow/config"
	"github.com/clipflow/clipflow/internal/domain"
	"github.com/clipflow/clipflow/internal/infrastructure"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, telegram bot)
		infrastructure.Module,

		// Domain (inline download business logic)
		domain.Module,
	)
}
