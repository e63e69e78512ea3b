// Package video contains the video domain module
package video

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/clipflow/clipflow/config"
	telegramDelivery "github.com/clipflow/clipflow/internal/domain/video/delivery/telegram"
	"github.com/clipflow/clipflow/internal/domain/video/deps"
	"github.com/clipflow/clipflow/internal/domain/video/formats"
	ytdlpRepo "github.com/clipflow/clipflow/internal/domain/video/repository/ytdlp"
	"github.com/clipflow/clipflow/internal/domain/video/throttle"
	"github.com/clipflow/clipflow/internal/domain/video/usecase/business"
	"github.com/clipflow/clipflow/internal/domain/video/workers"
	"github.com/clipflow/clipflow/internal/infrastructure/telegram"
)

// Module provides video domain components for fx dependency injection
var Module = fx.Module("video",
	// Repository
	fx.Provide(provideExtractor),

	// Selection and throttling
	fx.Provide(provideSelector),
	fx.Provide(provideLimiter),

	// UseCase
	fx.Provide(provideUseCase),

	// Delivery - Telegram (needs raw bot from infrastructure)
	fx.Provide(provideTelegramHandlers),
	fx.Provide(provideRouter),

	// Workers
	workers.Module,

	// Wire cyclic dependency and register routes
	fx.Invoke(wireAndRegister),
)

// provideExtractor creates the extraction library adapter
func provideExtractor(cfg *config.ExtractorConfig, logger zerolog.Logger) deps.Extractor {
	return ytdlpRepo.NewClient(cfg, logger.With().Str("component", "extractor").Logger())
}

// provideSelector creates the format selector from the configured ceilings
func provideSelector(limits *config.LimitsConfig) *formats.Selector {
	return formats.NewSelector(limits.MaxVideoSize, limits.MaxAudioSize, limits.PreferredAudioLanguages)
}

// provideLimiter creates the per-user rate limiter
func provideLimiter(limits *config.LimitsConfig) *throttle.Limiter {
	return throttle.NewLimiter(limits.Window, limits.VIPUserID)
}

// provideUseCase creates the video delivery use case
func provideUseCase(
	extractor deps.Extractor,
	selector *formats.Selector,
	limiter *throttle.Limiter,
	cfg *config.Config,
	logger zerolog.Logger,
) *business.UseCase {
	return business.NewUseCase(extractor, selector, limiter, cfg, logger.With().Str("component", "video-usecase").Logger())
}

// provideTelegramHandlers creates Telegram handlers with raw bot
func provideTelegramHandlers(uc *business.UseCase, bot *telegram.Bot, cfg *config.Config, logger zerolog.Logger) *telegramDelivery.Handlers {
	return telegramDelivery.NewHandlers(uc, bot.Raw(), cfg, logger.With().Str("component", "telegram-handlers").Logger())
}

// provideRouter creates the Telegram router
func provideRouter(handlers *telegramDelivery.Handlers, logger zerolog.Logger) *telegramDelivery.Router {
	return telegramDelivery.NewRouter(handlers, logger.With().Str("component", "telegram-router").Logger())
}

// wireAndRegister resolves cyclic dependency and registers routes
func wireAndRegister(
	uc *business.UseCase,
	handlers *telegramDelivery.Handlers,
	router *telegramDelivery.Router,
	bot *telegram.Bot,
) {
	// Handlers implements deps.MediaSender interface
	// This resolves the cyclic dependency: UseCase -> MediaSender <- Handlers -> UseCase
	uc.SetSender(handlers)

	router.RegisterRoutes(bot.Raw())
}
