// Package dto contains data transfer objects for the video domain
package dto

// DownloadRequest describes a chosen inline result to fulfil: download the
// media behind URL and replace the placeholder message.
type DownloadRequest struct {
	URL             string
	InlineMessageID string
	UserID          int64
}

// UploadRequest describes a local file to upload to the holding chat.
type UploadRequest struct {
	Path     string
	Caption  string
	Width    int
	Height   int
	Duration int
}

// VideoResult describes the media that replaces a placeholder. Media is
// either a Telegram file id or an external URL.
type VideoResult struct {
	Media             string
	Caption           string
	Width             int
	Height            int
	Duration          int
	SupportsStreaming bool
}
