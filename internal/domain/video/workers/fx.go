// Package workers contains background workers for the video domain
package workers

import (
	"context"

	"go.uber.org/fx"
)

// Module provides workers for fx dependency injection
var Module = fx.Module("video-workers",
	fx.Provide(NewSweeper),
	fx.Invoke(registerSweeperLifecycle),
)

// registerSweeperLifecycle registers sweeper lifecycle hooks
func registerSweeperLifecycle(lc fx.Lifecycle, sweeper *Sweeper) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			sweeper.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			return sweeper.Stop()
		},
	})
}
