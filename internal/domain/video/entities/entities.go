// Package entities contains domain entities
package entities

// TrackKind distinguishes video and audio format candidates
type TrackKind string

const (
	TrackVideo TrackKind = "video"
	TrackAudio TrackKind = "audio"
)

// FormatCandidate is one downloadable stream representation offered by the
// source site. Produced per request by the extraction library, never persisted.
type FormatCandidate struct {
	// ID is the extractor's identifier for the stream (itag for YouTube).
	ID    string
	Codec string
	// Language is set for audio tracks when the extractor reports one.
	Language string
	// Filesize in bytes; 0 means the extractor does not know the size.
	Filesize int64
	Kind     TrackKind
	Height   int
}

// VideoMetadata is the probe result for a URL: basic metadata plus the
// candidate lists split by track kind.
type VideoMetadata struct {
	Title    string
	Duration int
	Width    int
	Height   int
	Video    []FormatCandidate
	Audio    []FormatCandidate
}

// Selection is the chosen video/audio pair for a download.
type Selection struct {
	Video FormatCandidate
	Audio FormatCandidate
}

// CombinedSize returns the total declared size of the selected pair.
func (s Selection) CombinedSize() int64 {
	return s.Video.Filesize + s.Audio.Filesize
}
