// Package errors contains domain-specific errors for the video domain
package errors

import (
	pkgerrors "github.com/clipflow/clipflow/pkg/errors"
)

// Domain errors for inline download operations
var (
	ErrUnsupportedURL   = pkgerrors.NewValidationError("query is not a supported video URL")
	ErrRateLimited      = pkgerrors.NewRateLimitError("rate limit exceeded")
	ErrNoVideoFormat    = pkgerrors.NewNotFoundError("no suitable video format found")
	ErrNoAudioFormat    = pkgerrors.NewNotFoundError("no suitable audio format found")
	ErrFileTooLarge     = pkgerrors.NewValidationError("combined media size exceeds the upload ceiling")
	ErrExtractionFailed = pkgerrors.NewInternalError("media extraction failed")
	ErrUploadFailed     = pkgerrors.NewInternalError("media upload failed")
)
