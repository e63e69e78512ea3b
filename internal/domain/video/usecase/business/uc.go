// Package business contains the video delivery business logic
package business

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clipflow/clipflow/config"
	"github.com/clipflow/clipflow/internal/domain/video/deps"
	"github.com/clipflow/clipflow/internal/domain/video/dto"
	"github.com/clipflow/clipflow/internal/domain/video/entities"
	verrors "github.com/clipflow/clipflow/internal/domain/video/errors"
	"github.com/clipflow/clipflow/internal/domain/video/formats"
	"github.com/clipflow/clipflow/internal/domain/video/link"
	"github.com/clipflow/clipflow/internal/domain/video/throttle"
	"github.com/clipflow/clipflow/pkg/retry"
)

const (
	retryAttempts = 3
	retryDelay    = 1 * time.Second

	downloadTimeout = 60 * time.Second
	scrapeTimeout   = 10 * time.Second
)

// UseCase orchestrates the second phase of the inline flow: a user chose the
// placeholder result and the real video must be produced behind it.
type UseCase struct {
	extractor deps.Extractor
	sender    deps.MediaSender
	selector  *formats.Selector
	limiter   *throttle.Limiter
	cfg       *config.Config

	httpClient *http.Client
	logger     zerolog.Logger
}

// NewUseCase creates a video delivery use case. The sender is attached later
// via SetSender because the Telegram handlers depend on the use case.
func NewUseCase(
	extractor deps.Extractor,
	selector *formats.Selector,
	limiter *throttle.Limiter,
	cfg *config.Config,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		extractor:  extractor,
		selector:   selector,
		limiter:    limiter,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: scrapeTimeout},
		logger:     logger,
	}
}

// SetSender attaches the media sender after construction
func (uc *UseCase) SetSender(sender deps.MediaSender) {
	uc.sender = sender
}

// AllowPreview reports whether a placeholder may be offered to the user.
// It never spends the user's allowance; that happens in Deliver once the
// user actually picks the result.
func (uc *UseCase) AllowPreview(userID int64) bool {
	return uc.limiter.Peek(userID, time.Now())
}

// Deliver downloads the video behind the chosen inline result, uploads it to
// the holding chat and swaps the placeholder for the uploaded copy. On any
// failure the placeholder is replaced with a best-effort explanation instead.
func (uc *UseCase) Deliver(ctx context.Context, req *dto.DownloadRequest) error {
	log := uc.logger.With().
		Int64("user_id", req.UserID).
		Str("url", req.URL).
		Logger()

	log.Info().Msg("Processing chosen inline result")

	// The URL was validated before the placeholder was offered; a mismatch
	// here means the update did not come from our own inline result.
	if !link.IsVideoURL(req.URL) {
		log.Warn().Msg("Chosen result query is not a supported video URL")
		return verrors.ErrUnsupportedURL
	}

	if !uc.limiter.Allow(req.UserID, time.Now()) {
		minutes := int(uc.limiter.Window().Minutes())
		uc.editCaption(ctx, req.InlineMessageID, fmt.Sprintf(
			"Rate limit exceeded. Please wait %d minute(s) before requesting another download.", minutes))
		log.Info().Msg("Request rejected by rate limiter")
		return verrors.ErrRateLimited
	}

	meta, err := uc.probe(ctx, req.URL)
	if err != nil {
		log.Error().Err(err).Msg("Failed to extract video metadata")
		uc.fallback(ctx, req.URL, req.InlineMessageID)
		return verrors.ErrExtractionFailed
	}

	selection, videoOK, audioOK := uc.selector.Select(meta)
	if !videoOK {
		uc.editCaption(ctx, req.InlineMessageID, fmt.Sprintf(
			"No suitable video format found under %d MB.", uc.cfg.Limits.MaxVideoSize/(1024*1024)))
		log.Warn().Msg("No suitable video format")
		return verrors.ErrNoVideoFormat
	}
	if !audioOK {
		uc.editCaption(ctx, req.InlineMessageID, fmt.Sprintf(
			"No suitable audio format found under %d MB.", uc.cfg.Limits.MaxAudioSize/(1024*1024)))
		log.Warn().Msg("No suitable audio format")
		return verrors.ErrNoAudioFormat
	}
	if combined := selection.CombinedSize(); combined > uc.cfg.Limits.MaxUploadSize {
		uc.editCaption(ctx, req.InlineMessageID, fmt.Sprintf(
			"The video is too large to deliver (%d MB limit).", uc.cfg.Limits.MaxUploadSize/(1024*1024)))
		log.Warn().Int64("combined_size", combined).Msg("Selected formats exceed the upload ceiling")
		return verrors.ErrFileTooLarge
	}

	log.Info().
		Str("video_format", selection.Video.ID).
		Str("audio_format", selection.Audio.ID).
		Int64("combined_size", selection.CombinedSize()).
		Msg("Selected formats")

	outputPath := filepath.Join(os.TempDir(), "clipflow_"+uuid.NewString()+".mp4")
	defer os.Remove(outputPath)

	if err := retry.Do(ctx, retryAttempts, retryDelay, func() error {
		dctx, cancel := context.WithTimeout(ctx, downloadTimeout)
		defer cancel()
		return uc.extractor.Fetch(dctx, req.URL, selection.Video.ID, outputPath)
	}); err != nil {
		log.Error().Err(err).Msg("Failed to download video")
		uc.fallback(ctx, req.URL, req.InlineMessageID)
		return verrors.ErrExtractionFailed
	}

	caption := strings.TrimSpace(meta.Title + " " + req.URL)

	var fileID string
	if err := retry.Do(ctx, retryAttempts, retryDelay, func() error {
		var uploadErr error
		fileID, uploadErr = uc.sender.UploadVideo(ctx, &dto.UploadRequest{
			Path:     outputPath,
			Caption:  caption,
			Width:    meta.Width,
			Height:   meta.Height,
			Duration: meta.Duration,
		})
		return uploadErr
	}); err != nil {
		log.Error().Err(err).Msg("Failed to upload video to the holding chat")
		uc.fallback(ctx, req.URL, req.InlineMessageID)
		return verrors.ErrUploadFailed
	}

	if err := retry.Do(ctx, retryAttempts, retryDelay, func() error {
		return uc.sender.ReplaceWithVideo(ctx, req.InlineMessageID, &dto.VideoResult{
			Media:             fileID,
			Caption:           caption,
			Width:             meta.Width,
			Height:            meta.Height,
			Duration:          meta.Duration,
			SupportsStreaming: true,
		})
	}); err != nil {
		log.Error().Err(err).Msg("Failed to replace the placeholder")
		uc.fallback(ctx, req.URL, req.InlineMessageID)
		return verrors.ErrUploadFailed
	}

	log.Info().Str("file_id", fileID).Msg("Video delivered")
	return nil
}

func (uc *UseCase) probe(ctx context.Context, url string) (*entities.VideoMetadata, error) {
	var meta *entities.VideoMetadata
	err := retry.Do(ctx, retryAttempts, retryDelay, func() error {
		m, probeErr := uc.extractor.Probe(ctx, url)
		if probeErr != nil {
			return probeErr
		}
		meta = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return meta, nil
}

// fallback replaces the placeholder with whatever explanation can still be
// produced: the page title over the source thumbnail when the link is a
// YouTube one, otherwise the stock error video.
func (uc *UseCase) fallback(ctx context.Context, url, inlineMessageID string) {
	caption := uc.pageTitle(ctx, url)
	if caption == "" {
		caption = "Failed to download video."
	}
	caption = caption + "\n" + url

	if id := link.ExtractVideoID(url); id != "" && link.IsYouTubeURL(url) {
		err := uc.sender.ReplaceWithPhoto(ctx, inlineMessageID, link.ThumbnailURL(id), caption)
		if err == nil {
			return
		}
		uc.logger.Warn().Err(err).Str("url", url).Msg("Failed to replace the placeholder with a thumbnail")
	}

	err := uc.sender.ReplaceWithVideo(ctx, inlineMessageID, &dto.VideoResult{
		Media:    uc.cfg.ErrorMedia.URL,
		Caption:  caption,
		Width:    uc.cfg.ErrorMedia.Width,
		Height:   uc.cfg.ErrorMedia.Height,
		Duration: uc.cfg.ErrorMedia.Duration,
	})
	if err != nil {
		uc.logger.Error().Err(err).Str("url", url).Msg("Failed to replace the placeholder with the error video")
	}
}

// pageTitle scrapes the <title> of the source page. Best effort only.
func (uc *UseCase) pageTitle(ctx context.Context, url string) string {
	sctx, cancel := context.WithTimeout(ctx, scrapeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(sctx, http.MethodGet, url, nil)
	if err != nil {
		return ""
	}

	resp, err := uc.httpClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(doc.Find("title").First().Text())
}

func (uc *UseCase) editCaption(ctx context.Context, inlineMessageID, caption string) {
	if err := uc.sender.EditCaption(ctx, inlineMessageID, caption); err != nil {
		uc.logger.Warn().Err(err).Msg("Failed to edit the placeholder caption")
	}
}
