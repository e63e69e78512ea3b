// Package deps contains interface definitions for the video domain dependencies
package deps

import (
	"context"

	"github.com/clipflow/clipflow/internal/domain/video/dto"
	"github.com/clipflow/clipflow/internal/domain/video/entities"
)

// Extractor defines the outbound interface to the media extraction library
type Extractor interface {
	// Probe fetches metadata and the available format candidates for a URL
	// without downloading anything.
	Probe(ctx context.Context, url string) (*entities.VideoMetadata, error)

	// Fetch downloads the format identified by formatID to outputPath.
	Fetch(ctx context.Context, url, formatID, outputPath string) error
}

// MediaSender defines the outbound interface to the chat platform.
// This interface is used to break the cyclic dependency between UseCase and
// the Telegram handlers, which implement it.
type MediaSender interface {
	// UploadVideo uploads a local file to the holding chat and returns the
	// durable file reference.
	UploadVideo(ctx context.Context, req *dto.UploadRequest) (fileID string, err error)

	// ReplaceWithVideo swaps the placeholder behind inlineMessageID for a video.
	ReplaceWithVideo(ctx context.Context, inlineMessageID string, video *dto.VideoResult) error

	// ReplaceWithPhoto swaps the placeholder behind inlineMessageID for a photo.
	ReplaceWithPhoto(ctx context.Context, inlineMessageID, photoURL, caption string) error

	// EditCaption replaces the caption of the placeholder message.
	EditCaption(ctx context.Context, inlineMessageID, caption string) error
}
