// Package link validates inline queries as video URLs.
package link

import (
	"net/url"
	"regexp"
	"strings"
)

// Accepted inline query prefixes. Anything else is silently ignored so the
// bot stays quiet in shared text boxes.
var acceptedPrefixes = []string{
	"https://youtu.be/",
	"https://www.youtube.com/watch",
	"https://youtube.com/watch",
	"https://m.youtube.com/watch",
	"https://youtube.com/shorts/",
	"https://www.youtube.com/shorts/",
}

var videoIDRe = regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})`)

// IsVideoURL reports whether the query looks like a downloadable video link.
func IsVideoURL(query string) bool {
	for _, prefix := range acceptedPrefixes {
		if strings.HasPrefix(query, prefix) {
			return true
		}
	}
	return false
}

// IsYouTubeURL reports whether the URL points at a YouTube host.
func IsYouTubeURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	host = strings.TrimPrefix(host, "m.")
	return host == "youtube.com" || host == "youtu.be"
}

// ExtractVideoID extracts the YouTube video id from the common URL shapes:
// watch?v=, youtu.be/, /embed/, /shorts/ and /watch/ paths, with an
// 11-character token match as the last resort. Returns "" when nothing
// id-like is found.
func ExtractVideoID(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fallbackID(rawURL)
	}

	if v := parsed.Query().Get("v"); v != "" {
		return v
	}

	if parsed.Hostname() == "youtu.be" {
		return strings.TrimPrefix(parsed.Path, "/")
	}

	path := parsed.Path
	for _, marker := range []string{"/embed/", "/shorts/", "/watch/"} {
		if _, rest, found := strings.Cut(path, marker); found {
			id, _, _ := strings.Cut(rest, "/")
			return id
		}
	}

	return fallbackID(rawURL)
}

func fallbackID(rawURL string) string {
	m := videoIDRe.FindStringSubmatch(rawURL)
	if len(m) == 2 {
		return m[1]
	}
	return ""
}

// ThumbnailURL returns the static YouTube thumbnail for a video id.
func ThumbnailURL(videoID string) string {
	return "https://img.youtube.com/vi/" + videoID + "/0.jpg"
}
