// Package ytdlp adapts the ytget extraction library to the video domain.
package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	ytdl "github.com/ytget/ytdlp/v2"
	"github.com/ytget/ytdlp/v2/errs"

	"github.com/clipflow/clipflow/config"
	"github.com/clipflow/clipflow/internal/domain/video/entities"
	"github.com/clipflow/clipflow/internal/domain/video/formats"
)

const httpTimeout = 30 * time.Second

// Client wraps the ytget downloader behind the domain Extractor interface
type Client struct {
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates an extractor client. Cookies and User-Agent from the
// configuration ride along on every request the extraction library makes.
func NewClient(cfg *config.ExtractorConfig, logger zerolog.Logger) *Client {
	transport := &headerTransport{
		base: &http.Transport{
			ForceAttemptHTTP2: false,
			MaxIdleConns:      100,
			IdleConnTimeout:   90 * time.Second,
		},
		userAgent: cfg.UserAgent,
		cookies:   parseNetscapeCookies(cfg.Cookies),
	}

	return &Client{
		httpClient: &http.Client{Transport: transport, Timeout: httpTimeout},
		logger:     logger,
	}
}

// Probe implements deps.Extractor
func (c *Client) Probe(ctx context.Context, url string) (*entities.VideoMetadata, error) {
	dl := ytdl.New().WithHTTPClient(c.httpClient)

	_, info, err := dl.ResolveURL(ctx, url)
	if err != nil {
		return nil, c.mapError(url, err)
	}

	meta := &entities.VideoMetadata{
		Title:    info.Title,
		Duration: info.Duration,
	}

	for _, f := range info.Formats {
		kind, ok := formats.KindFromMime(f.MimeType)
		if !ok {
			continue
		}

		candidate := entities.FormatCandidate{
			ID:       strconv.Itoa(f.Itag),
			Codec:    formats.CodecFromMime(f.MimeType),
			Filesize: f.Size,
			Kind:     kind,
			Height:   parseHeight(f.Quality),
		}

		switch kind {
		case entities.TrackVideo:
			meta.Video = append(meta.Video, candidate)
			if candidate.Height > meta.Height {
				meta.Height = candidate.Height
			}
		case entities.TrackAudio:
			meta.Audio = append(meta.Audio, candidate)
		}
	}

	c.logger.Debug().
		Str("url", url).
		Str("title", meta.Title).
		Int("video_formats", len(meta.Video)).
		Int("audio_formats", len(meta.Audio)).
		Msg("Probed available formats")

	return meta, nil
}

// Fetch implements deps.Extractor
func (c *Client) Fetch(ctx context.Context, url, formatID, outputPath string) error {
	dl := ytdl.New().
		WithHTTPClient(c.httpClient).
		WithFormat("itag="+formatID, "mp4").
		WithOutputPath(outputPath)

	if _, err := dl.Download(ctx, url); err != nil {
		return c.mapError(url, err)
	}

	return nil
}

// mapError logs the known extraction failure classes before passing the
// error up; the caller treats them all as terminal for the request.
func (c *Client) mapError(url string, err error) error {
	switch {
	case errors.Is(err, errs.ErrGeoBlocked):
		c.logger.Warn().Str("url", url).Msg("Video is geo-blocked")
	case errors.Is(err, errs.ErrAgeRestricted):
		c.logger.Warn().Str("url", url).Msg("Video is age-restricted")
	case errors.Is(err, errs.ErrPrivate):
		c.logger.Warn().Str("url", url).Msg("Video is private")
	case errors.Is(err, errs.ErrVideoUnavailable):
		c.logger.Warn().Str("url", url).Msg("Video is unavailable")
	case errors.Is(err, errs.ErrRateLimited):
		c.logger.Warn().Str("url", url).Msg("Extraction rate limited by the source site")
	}
	return fmt.Errorf("extract %s: %w", url, err)
}

// parseHeight reads the numeric height out of a quality label like "720p".
func parseHeight(quality string) int {
	for i, r := range quality {
		if r < '0' || r > '9' {
			if i == 0 {
				return 0
			}
			height, _ := strconv.Atoi(quality[:i])
			return height
		}
	}
	height, _ := strconv.Atoi(quality)
	return height
}
