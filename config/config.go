package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the inline video bot
type Config struct {
	Telegram    TelegramConfig
	Limits      LimitsConfig
	Placeholder MediaConfig
	ErrorMedia  MediaConfig
	Extractor   ExtractorConfig
	Logging     LoggingConfig
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken string
	// MediaChatID is the holding chat the bot uploads media to in order to
	// obtain a durable file reference.
	MediaChatID int64
}

// LimitsConfig holds size ceilings and rate limiting configuration
type LimitsConfig struct {
	// MaxVideoSize and MaxAudioSize are per-track size ceilings in bytes
	// used by format selection.
	MaxVideoSize int64
	MaxAudioSize int64
	// MaxUploadSize is the Telegram bot upload ceiling in bytes.
	MaxUploadSize int64
	// Window is the per-user throttle window.
	Window time.Duration
	// VIPUserID is exempt from rate limiting.
	VIPUserID int64
	// PreferredAudioLanguages orders audio track selection.
	PreferredAudioLanguages []string
}

// MediaConfig describes a static media asset (placeholder or error video)
type MediaConfig struct {
	URL          string
	ThumbnailURL string
	Width        int
	Height       int
	Duration     int
}

// ExtractorConfig holds options forwarded to the extraction library
type ExtractorConfig struct {
	// Cookies is the decoded content of the COOKIES env var (base64,
	// Netscape cookie format). Empty when not configured.
	Cookies   string
	UserAgent string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// Result provides config parts for fx dependency injection using fx.Out pattern.
// Placeholder and error media configs stay reachable through Config since both
// share the MediaConfig type.
type Result struct {
	fx.Out

	Config    *Config
	Telegram  *TelegramConfig
	Limits    *LimitsConfig
	Extractor *ExtractorConfig
	Logging   *LoggingConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:    cfg,
		Telegram:  &cfg.Telegram,
		Limits:    &cfg.Limits,
		Extractor: &cfg.Extractor,
		Logging:   &cfg.Logging,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cookies, err := decodeCookies(os.Getenv("COOKIES"))
	if err != nil {
		return nil, fmt.Errorf("COOKIES is not valid base64: %w", err)
	}

	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
			MediaChatID: getEnvInt64("MEDIA_CHAT_ID", 0),
		},
		Limits: LimitsConfig{
			MaxVideoSize:            getEnvInt64("MAX_VIDEO_SIZE", 15*1024*1024),
			MaxAudioSize:            getEnvInt64("MAX_AUDIO_SIZE", 8*1024*1024),
			MaxUploadSize:           getEnvInt64("MAX_TG_FILE_SIZE", 50*1024*1024),
			Window:                  time.Duration(getEnvInt("RATE_LIMIT_WINDOW_MINUTES", 1)) * time.Minute,
			VIPUserID:               getEnvInt64("VIP_USER_ID", 0),
			PreferredAudioLanguages: splitList(getEnv("PREFERRED_AUDIO_LANGUAGES", "en-US,en,ru-RU,ru")),
		},
		Placeholder: MediaConfig{
			URL:          getEnv("PH_LOADING_VIDEO_URL", "https://magicxor.github.io/static/ytdl-inline-bot/loading_v2.mp4"),
			ThumbnailURL: getEnv("PH_THUMBNAIL_URL", "https://magicxor.github.io/static/ytdl-inline-bot/loading_v1.jpg"),
			Width:        getEnvInt("PH_VIDEO_WIDTH", 1024),
			Height:       getEnvInt("PH_VIDEO_HEIGHT", 576),
			Duration:     getEnvInt("PH_VIDEO_DURATION", 10),
		},
		ErrorMedia: MediaConfig{
			URL:      getEnv("ERR_LOADING_VIDEO_URL", "https://magicxor.github.io/static/ytdl-inline-bot/error_v1.mp4"),
			Width:    getEnvInt("ERR_VIDEO_WIDTH", 640),
			Height:   getEnvInt("ERR_VIDEO_HEIGHT", 480),
			Duration: getEnvInt("ERR_VIDEO_DURATION", 5),
		},
		Extractor: ExtractorConfig{
			Cookies:   cookies,
			UserAgent: getEnv("USER_AGENT", ""),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	if c.Telegram.MediaChatID == 0 {
		return fmt.Errorf("MEDIA_CHAT_ID is required")
	}

	if c.Limits.MaxVideoSize <= 0 || c.Limits.MaxAudioSize <= 0 || c.Limits.MaxUploadSize <= 0 {
		return fmt.Errorf("size ceilings must be positive")
	}

	if c.Limits.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW_MINUTES must be positive")
	}

	return nil
}

// decodeCookies decodes the base64 COOKIES value; empty input yields empty cookies
func decodeCookies(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// splitList splits a comma-separated env value, dropping empty items
func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable with default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvInt64 gets an int64 environment variable with default value
func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}
