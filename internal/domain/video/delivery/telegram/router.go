// Package telegram contains Telegram delivery layer
package telegram

import (
	tgbot "github.com/go-telegram/bot"
	"github.com/rs/zerolog"
)

// Router registers Telegram bot handlers
type Router struct {
	handlers *Handlers
	logger   zerolog.Logger
}

// NewRouter creates new Telegram router
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// RegisterRoutes registers all update handlers on the bot
func (r *Router) RegisterRoutes(bot *tgbot.Bot) {
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypeExact, r.handlers.HandleStart)

	// Inline queries and chosen results have no text to match on
	bot.RegisterHandlerMatchFunc(r.handlers.MatchInlineQuery, r.handlers.HandleInlineQuery)
	bot.RegisterHandlerMatchFunc(r.handlers.MatchChosenInlineResult, r.handlers.HandleChosenInlineResult)

	r.logger.Info().Msg("All Telegram handlers registered successfully")
}
