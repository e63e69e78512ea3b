package business

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipflow/clipflow/config"
	"github.com/clipflow/clipflow/internal/domain/video/deps"
	"github.com/clipflow/clipflow/internal/domain/video/dto"
	"github.com/clipflow/clipflow/internal/domain/video/entities"
	"github.com/clipflow/clipflow/internal/domain/video/formats"
	"github.com/clipflow/clipflow/internal/domain/video/throttle"
	pkgerrors "github.com/clipflow/clipflow/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	testURL      = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	testThumbURL = "https://img.youtube.com/vi/dQw4w9WgXcQ/0.jpg"
	mib          = int64(1024 * 1024)
)

type mockExtractor struct {
	probeFn    func(ctx context.Context, url string) (*entities.VideoMetadata, error)
	fetchFn    func(ctx context.Context, url, formatID, outputPath string) error
	probeCalls int
	fetchCalls int
}

func (m *mockExtractor) Probe(ctx context.Context, url string) (*entities.VideoMetadata, error) {
	m.probeCalls++
	return m.probeFn(ctx, url)
}

func (m *mockExtractor) Fetch(ctx context.Context, url, formatID, outputPath string) error {
	m.fetchCalls++
	if m.fetchFn == nil {
		return nil
	}
	return m.fetchFn(ctx, url, formatID, outputPath)
}

type replaceVideoCall struct {
	inlineMessageID string
	video           *dto.VideoResult
}

type mockSender struct {
	uploadFn       func(ctx context.Context, req *dto.UploadRequest) (string, error)
	replaceVideoFn func(ctx context.Context, inlineMessageID string, video *dto.VideoResult) error
	replacePhotoFn func(ctx context.Context, inlineMessageID, photoURL, caption string) error

	uploads       []*dto.UploadRequest
	replaceVideos []replaceVideoCall
	photoURLs     []string
	photoCaptions []string
	captions      []string
}

func (m *mockSender) UploadVideo(ctx context.Context, req *dto.UploadRequest) (string, error) {
	m.uploads = append(m.uploads, req)
	if m.uploadFn == nil {
		return "file123", nil
	}
	return m.uploadFn(ctx, req)
}

func (m *mockSender) ReplaceWithVideo(ctx context.Context, inlineMessageID string, video *dto.VideoResult) error {
	m.replaceVideos = append(m.replaceVideos, replaceVideoCall{inlineMessageID, video})
	if m.replaceVideoFn == nil {
		return nil
	}
	return m.replaceVideoFn(ctx, inlineMessageID, video)
}

func (m *mockSender) ReplaceWithPhoto(ctx context.Context, inlineMessageID, photoURL, caption string) error {
	m.photoURLs = append(m.photoURLs, photoURL)
	m.photoCaptions = append(m.photoCaptions, caption)
	if m.replacePhotoFn == nil {
		return nil
	}
	return m.replacePhotoFn(ctx, inlineMessageID, photoURL, caption)
}

func (m *mockSender) EditCaption(ctx context.Context, inlineMessageID, caption string) error {
	m.captions = append(m.captions, caption)
	return nil
}

var (
	_ deps.Extractor   = (*mockExtractor)(nil)
	_ deps.MediaSender = (*mockSender)(nil)
)

type errorTransport struct{}

func (errorTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("no network in tests")
}

func testConfig() *config.Config {
	return &config.Config{
		Telegram: config.TelegramConfig{BotToken: "token", MediaChatID: -100},
		Limits: config.LimitsConfig{
			MaxVideoSize:            15 * mib,
			MaxAudioSize:            8 * mib,
			MaxUploadSize:           50 * mib,
			Window:                  time.Minute,
			PreferredAudioLanguages: []string{"en-US", "en"},
		},
		ErrorMedia: config.MediaConfig{
			URL:      "https://static.example/error.mp4",
			Width:    640,
			Height:   480,
			Duration: 5,
		},
	}
}

func newTestUseCase(extractor deps.Extractor, sender deps.MediaSender) *UseCase {
	cfg := testConfig()
	uc := NewUseCase(
		extractor,
		formats.NewSelector(cfg.Limits.MaxVideoSize, cfg.Limits.MaxAudioSize, cfg.Limits.PreferredAudioLanguages),
		throttle.NewLimiter(cfg.Limits.Window, cfg.Limits.VIPUserID),
		cfg,
		zerolog.Nop(),
	)
	uc.SetSender(sender)
	uc.httpClient = &http.Client{Transport: errorTransport{}}
	return uc
}

func goodMetadata() *entities.VideoMetadata {
	return &entities.VideoMetadata{
		Title:    "Test Video",
		Duration: 212,
		Width:    0,
		Height:   720,
		Video: []entities.FormatCandidate{
			{ID: "22", Codec: "avc1", Filesize: 10 * mib, Kind: entities.TrackVideo, Height: 720},
		},
		Audio: []entities.FormatCandidate{
			{ID: "140", Codec: "mp4a", Filesize: 3 * mib, Kind: entities.TrackAudio},
		},
	}
}

func TestUseCase_Deliver_Success(t *testing.T) {
	extractor := &mockExtractor{
		probeFn: func(ctx context.Context, url string) (*entities.VideoMetadata, error) {
			return goodMetadata(), nil
		},
	}
	sender := &mockSender{}
	uc := newTestUseCase(extractor, sender)

	err := uc.Deliver(context.Background(), &dto.DownloadRequest{
		URL:             testURL,
		InlineMessageID: "im-1",
		UserID:          42,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, extractor.probeCalls)
	assert.Equal(t, 1, extractor.fetchCalls)

	require.Len(t, sender.uploads, 1)
	assert.Equal(t, "Test Video "+testURL, sender.uploads[0].Caption)
	assert.Equal(t, 212, sender.uploads[0].Duration)

	require.Len(t, sender.replaceVideos, 1)
	call := sender.replaceVideos[0]
	assert.Equal(t, "im-1", call.inlineMessageID)
	assert.Equal(t, "file123", call.video.Media)
	assert.True(t, call.video.SupportsStreaming)
	assert.Empty(t, sender.photoURLs)
}

func TestUseCase_Deliver_RateLimited(t *testing.T) {
	extractor := &mockExtractor{
		probeFn: func(ctx context.Context, url string) (*entities.VideoMetadata, error) {
			return goodMetadata(), nil
		},
	}
	sender := &mockSender{}
	uc := newTestUseCase(extractor, sender)

	req := &dto.DownloadRequest{URL: testURL, InlineMessageID: "im-1", UserID: 42}
	require.NoError(t, uc.Deliver(context.Background(), req))

	err := uc.Deliver(context.Background(), req)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsRateLimitError(err))

	require.Len(t, sender.captions, 1)
	assert.Contains(t, sender.captions[0], "Rate limit exceeded")
	assert.Contains(t, sender.captions[0], "1 minute(s)")
	// no second download happened
	assert.Equal(t, 1, extractor.probeCalls)
}

func TestUseCase_Deliver_ExtractionFails_FallsBackToThumbnail(t *testing.T) {
	extractor := &mockExtractor{
		probeFn: func(ctx context.Context, url string) (*entities.VideoMetadata, error) {
			return nil, errors.New("signature extraction failed")
		},
	}
	sender := &mockSender{}
	uc := newTestUseCase(extractor, sender)

	err := uc.Deliver(context.Background(), &dto.DownloadRequest{
		URL:             testURL,
		InlineMessageID: "im-1",
		UserID:          42,
	})

	require.Error(t, err)
	assert.Equal(t, 3, extractor.probeCalls)

	require.Len(t, sender.photoURLs, 1)
	assert.Equal(t, testThumbURL, sender.photoURLs[0])
	assert.Contains(t, sender.photoCaptions[0], "Failed to download video.")
	assert.Contains(t, sender.photoCaptions[0], testURL)
	assert.Empty(t, sender.replaceVideos)
}

func TestUseCase_Deliver_UploadFails_FallsBackToErrorVideo(t *testing.T) {
	extractor := &mockExtractor{
		probeFn: func(ctx context.Context, url string) (*entities.VideoMetadata, error) {
			return goodMetadata(), nil
		},
	}
	sender := &mockSender{
		uploadFn: func(ctx context.Context, req *dto.UploadRequest) (string, error) {
			return "", errors.New("upload failed")
		},
		// the thumbnail edit fails too, forcing the stock error video
		replacePhotoFn: func(ctx context.Context, inlineMessageID, photoURL, caption string) error {
			return errors.New("edit failed")
		},
	}
	uc := newTestUseCase(extractor, sender)

	err := uc.Deliver(context.Background(), &dto.DownloadRequest{
		URL:             testURL,
		InlineMessageID: "im-1",
		UserID:          42,
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsInternalError(err))
	assert.Len(t, sender.uploads, 3)
	assert.Len(t, sender.photoURLs, 1)

	require.Len(t, sender.replaceVideos, 1)
	call := sender.replaceVideos[0]
	assert.Equal(t, "https://static.example/error.mp4", call.video.Media)
	assert.True(t, strings.HasSuffix(call.video.Caption, testURL))
}

func TestUseCase_Deliver_UnsupportedURL(t *testing.T) {
	extractor := &mockExtractor{
		probeFn: func(ctx context.Context, url string) (*entities.VideoMetadata, error) {
			return goodMetadata(), nil
		},
	}
	sender := &mockSender{}
	uc := newTestUseCase(extractor, sender)

	err := uc.Deliver(context.Background(), &dto.DownloadRequest{
		URL:             "https://example.com/clip",
		InlineMessageID: "im-1",
		UserID:          42,
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidationError(err))
	assert.Equal(t, 0, extractor.probeCalls)
	assert.Empty(t, sender.captions)
}

func TestUseCase_Deliver_NoVideoFormat(t *testing.T) {
	extractor := &mockExtractor{
		probeFn: func(ctx context.Context, url string) (*entities.VideoMetadata, error) {
			return &entities.VideoMetadata{
				Title: "Huge Video",
				Video: []entities.FormatCandidate{
					{ID: "22", Codec: "avc1", Filesize: 100 * mib, Kind: entities.TrackVideo},
				},
				Audio: []entities.FormatCandidate{
					{ID: "140", Codec: "mp4a", Filesize: 3 * mib, Kind: entities.TrackAudio},
				},
			}, nil
		},
	}
	sender := &mockSender{}
	uc := newTestUseCase(extractor, sender)

	err := uc.Deliver(context.Background(), &dto.DownloadRequest{
		URL:             testURL,
		InlineMessageID: "im-1",
		UserID:          42,
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFoundError(err))
	require.Len(t, sender.captions, 1)
	assert.Contains(t, sender.captions[0], "No suitable video format found under 15 MB")
	assert.Equal(t, 0, extractor.fetchCalls)
}

func TestUseCase_Deliver_CombinedSizeOverUploadCeiling(t *testing.T) {
	extractor := &mockExtractor{
		probeFn: func(ctx context.Context, url string) (*entities.VideoMetadata, error) {
			return &entities.VideoMetadata{
				Title: "Long Video",
				Video: []entities.FormatCandidate{
					// under the per-track ceilings but over 50 MB combined
					{ID: "22", Codec: "avc1", Filesize: 14 * mib, Kind: entities.TrackVideo},
				},
				Audio: []entities.FormatCandidate{
					{ID: "140", Codec: "mp4a", Filesize: 7 * mib, Kind: entities.TrackAudio},
				},
			}, nil
		},
	}
	sender := &mockSender{}
	cfg := testConfig()
	cfg.Limits.MaxUploadSize = 20 * mib
	uc := NewUseCase(
		extractor,
		formats.NewSelector(cfg.Limits.MaxVideoSize, cfg.Limits.MaxAudioSize, cfg.Limits.PreferredAudioLanguages),
		throttle.NewLimiter(cfg.Limits.Window, cfg.Limits.VIPUserID),
		cfg,
		zerolog.Nop(),
	)
	uc.SetSender(sender)
	uc.httpClient = &http.Client{Transport: errorTransport{}}

	err := uc.Deliver(context.Background(), &dto.DownloadRequest{
		URL:             testURL,
		InlineMessageID: "im-1",
		UserID:          42,
	})

	require.Error(t, err)
	require.Len(t, sender.captions, 1)
	assert.Contains(t, sender.captions[0], "too large")
	assert.Equal(t, 0, extractor.fetchCalls)
}

func TestUseCase_AllowPreview_DoesNotSpendAllowance(t *testing.T) {
	extractor := &mockExtractor{
		probeFn: func(ctx context.Context, url string) (*entities.VideoMetadata, error) {
			return goodMetadata(), nil
		},
	}
	sender := &mockSender{}
	uc := newTestUseCase(extractor, sender)

	assert.True(t, uc.AllowPreview(42))
	assert.True(t, uc.AllowPreview(42))

	err := uc.Deliver(context.Background(), &dto.DownloadRequest{
		URL:             testURL,
		InlineMessageID: "im-1",
		UserID:          42,
	})
	require.NoError(t, err)

	// the delivery spent the allowance
	assert.False(t, uc.AllowPreview(42))
}
