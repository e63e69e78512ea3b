// Package telegram contains Telegram delivery handlers
package telegram

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clipflow/clipflow/config"
	"github.com/clipflow/clipflow/internal/domain/video/dto"
	"github.com/clipflow/clipflow/internal/domain/video/link"
	"github.com/clipflow/clipflow/internal/domain/video/usecase/business"
)

// Constants for Telegram API
const (
	RequestTimeout = 30 * time.Second
	UploadTimeout  = 120 * time.Second // Timeout for uploading the downloaded file
)

// Handlers contains Telegram update handlers for the inline flow.
// Implements deps.MediaSender interface
type Handlers struct {
	uc     *business.UseCase
	bot    *tgbot.Bot
	cfg    *config.Config
	logger zerolog.Logger
}

// NewHandlers creates new Telegram handlers
func NewHandlers(uc *business.UseCase, bot *tgbot.Bot, cfg *config.Config, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:     uc,
		bot:    bot,
		cfg:    cfg,
		logger: logger,
	}
}

// HandleStart handles /start command
func (h *Handlers) HandleStart(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.SendMessage(msgCtx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   "Hi! Paste a video link into any chat using an inline query: @<bot_name> <video_url>",
	})
	if err != nil {
		h.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("Failed to send /start reply")
	}
}

// MatchInlineQuery matches updates carrying an inline query
func (h *Handlers) MatchInlineQuery(update *models.Update) bool {
	return update.InlineQuery != nil
}

// HandleInlineQuery answers an inline query with a single placeholder result.
// The real content is produced later, when the user picks the result.
func (h *Handlers) HandleInlineQuery(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	query := update.InlineQuery
	userID := query.From.ID
	text := strings.TrimSpace(query.Query)

	log := h.logger.With().Int64("user_id", userID).Str("query", text).Logger()

	if text == "" {
		return
	}

	if !link.IsVideoURL(text) {
		log.Debug().Msg("Inline query is not a supported video URL")
		return
	}

	if !h.uc.AllowPreview(userID) {
		log.Info().Msg("Inline query suppressed by rate limiter")
		return
	}

	placeholder := h.cfg.Placeholder
	result := &models.InlineQueryResultVideo{
		ID:            uuid.NewString(),
		VideoURL:      placeholder.URL,
		MimeType:      "video/mp4",
		ThumbnailURL:  placeholder.ThumbnailURL,
		Title:         "Downloading video...",
		Caption:       "Downloading video, please wait... " + text,
		VideoWidth:    placeholder.Width,
		VideoHeight:   placeholder.Height,
		VideoDuration: placeholder.Duration,
		// The button makes Telegram deliver a chosen_inline_result update
		// with an inline_message_id the bot can edit later.
		ReplyMarkup: &models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{{
				{Text: "Please wait...", CallbackData: uuid.NewString()},
			}},
		},
	}

	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.AnswerInlineQuery(msgCtx, &tgbot.AnswerInlineQueryParams{
		InlineQueryID: query.ID,
		Results:       []models.InlineQueryResult{result},
		CacheTime:     0,
		IsPersonal:    true,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to answer inline query")
		return
	}

	log.Info().Msg("Placeholder result offered")
}

// MatchChosenInlineResult matches updates carrying a chosen inline result
func (h *Handlers) MatchChosenInlineResult(update *models.Update) bool {
	return update.ChosenInlineResult != nil
}

// HandleChosenInlineResult starts the download for the placeholder the user
// just sent.
func (h *Handlers) HandleChosenInlineResult(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	chosen := update.ChosenInlineResult

	if chosen.InlineMessageID == "" {
		h.logger.Warn().Str("result_id", chosen.ResultID).Msg("Chosen result carries no inline message id, nothing to edit")
		return
	}

	url := strings.TrimSpace(chosen.Query)
	if url == "" {
		return
	}

	err := h.uc.Deliver(ctx, &dto.DownloadRequest{
		URL:             url,
		InlineMessageID: chosen.InlineMessageID,
		UserID:          chosen.From.ID,
	})
	if err != nil {
		h.logger.Error().Err(err).Int64("user_id", chosen.From.ID).Str("url", url).Msg("Failed to deliver chosen result")
	}
}

// UploadVideo implements deps.MediaSender interface
func (h *Handlers) UploadVideo(ctx context.Context, req *dto.UploadRequest) (string, error) {
	file, err := os.Open(req.Path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", req.Path, err)
	}
	defer file.Close()

	msgCtx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	msg, err := h.bot.SendVideo(msgCtx, &tgbot.SendVideoParams{
		ChatID:            h.cfg.Telegram.MediaChatID,
		Video:             &models.InputFileUpload{Filename: filepath.Base(req.Path), Data: file},
		Caption:           req.Caption,
		Width:             req.Width,
		Height:            req.Height,
		Duration:          req.Duration,
		SupportsStreaming: true,
	})
	if err != nil {
		return "", fmt.Errorf("send video to holding chat: %w", err)
	}

	if msg.Video == nil {
		return "", fmt.Errorf("uploaded message carries no video")
	}

	h.logger.Debug().Str("file_id", msg.Video.FileID).Msg("Video uploaded to the holding chat")
	return msg.Video.FileID, nil
}

// ReplaceWithVideo implements deps.MediaSender interface
func (h *Handlers) ReplaceWithVideo(ctx context.Context, inlineMessageID string, video *dto.VideoResult) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.EditMessageMedia(msgCtx, &tgbot.EditMessageMediaParams{
		InlineMessageID: inlineMessageID,
		Media: &models.InputMediaVideo{
			Media:             video.Media,
			Caption:           video.Caption,
			Width:             video.Width,
			Height:            video.Height,
			Duration:          video.Duration,
			SupportsStreaming: video.SupportsStreaming,
		},
	})
	if err != nil {
		return fmt.Errorf("edit message media: %w", err)
	}
	return nil
}

// ReplaceWithPhoto implements deps.MediaSender interface
func (h *Handlers) ReplaceWithPhoto(ctx context.Context, inlineMessageID, photoURL, caption string) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.EditMessageMedia(msgCtx, &tgbot.EditMessageMediaParams{
		InlineMessageID: inlineMessageID,
		Media: &models.InputMediaPhoto{
			Media:   photoURL,
			Caption: caption,
		},
	})
	if err != nil {
		return fmt.Errorf("edit message media: %w", err)
	}
	return nil
}

// EditCaption implements deps.MediaSender interface
func (h *Handlers) EditCaption(ctx context.Context, inlineMessageID, caption string) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.EditMessageCaption(msgCtx, &tgbot.EditMessageCaptionParams{
		InlineMessageID: inlineMessageID,
		Caption:         caption,
	})
	if err != nil {
		return fmt.Errorf("edit message caption: %w", err)
	}
	return nil
}
