// Package workers contains background workers for the video domain
package workers

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/clipflow/clipflow/internal/domain/video/throttle"
)

// Sweeper periodically drops expired entries from the rate limiter so the
// per-user timestamp map stays bounded.
type Sweeper struct {
	limiter  *throttle.Limiter
	interval time.Duration
	logger   zerolog.Logger
	done     chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewSweeper creates a rate limiter sweeper. The sweep interval equals the
// throttle window; entries cannot expire faster than that.
func NewSweeper(limiter *throttle.Limiter, logger zerolog.Logger) *Sweeper {
	ctx, cancel := context.WithCancel(context.Background())

	return &Sweeper{
		limiter:  limiter,
		interval: limiter.Window(),
		logger:   logger,
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the periodic sweep
func (s *Sweeper) Start() {
	s.logger.Info().Dur("interval", s.interval).Msg("Starting rate limiter sweeper...")

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				s.logger.Info().Msg("Rate limiter sweeper stopped by done signal")
				return
			case <-s.ctx.Done():
				s.logger.Info().Msg("Rate limiter sweeper stopped by context cancellation")
				return
			case now := <-ticker.C:
				if dropped := s.limiter.Sweep(now); dropped > 0 {
					s.logger.Debug().Int("dropped", dropped).Int("remaining", s.limiter.Len()).Msg("Swept expired throttle entries")
				}
			}
		}
	}()
}

// Stop stops the sweeper
func (s *Sweeper) Stop() error {
	s.logger.Info().Msg("Stopping rate limiter sweeper...")
	s.cancel()
	close(s.done)
	return nil
}
