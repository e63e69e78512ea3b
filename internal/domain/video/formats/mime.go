package formats

import (
	"strings"

	"github.com/clipflow/clipflow/internal/domain/video/entities"
)

// CodecFromMime extracts the leading codec token from a MIME type like
// `video/mp4; codecs="avc1.64001F, mp4a.40.2"`. Returns an empty string when
// the codecs parameter is missing.
func CodecFromMime(mimeType string) string {
	_, params, found := strings.Cut(mimeType, ";")
	if !found {
		return ""
	}

	for _, param := range strings.Split(params, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "codecs") {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"`)
		first, _, _ := strings.Cut(value, ",")
		return strings.TrimSpace(first)
	}

	return ""
}

// KindFromMime classifies a MIME type as a video or audio track.
func KindFromMime(mimeType string) (entities.TrackKind, bool) {
	switch {
	case strings.HasPrefix(mimeType, "video/"):
		return entities.TrackVideo, true
	case strings.HasPrefix(mimeType, "audio/"):
		return entities.TrackAudio, true
	default:
		return "", false
	}
}
