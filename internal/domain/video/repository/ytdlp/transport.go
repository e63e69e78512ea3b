package ytdlp

import (
	"net/http"
	"strings"
)

// headerTransport injects the configured User-Agent and cookies into every
// request the extraction library makes.
type headerTransport struct {
	base      http.RoundTripper
	userAgent string
	cookies   []*http.Cookie
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if t.userAgent != "" {
		clone.Header.Set("User-Agent", t.userAgent)
	}
	for _, cookie := range t.cookies {
		clone.AddCookie(cookie)
	}

	return t.base.RoundTrip(clone)
}

// parseNetscapeCookies parses a Netscape cookies.txt blob into name/value
// pairs. Domain, path and expiry columns are ignored; the bot talks to a
// single site family and the supervisor refreshes cookies out of band.
func parseNetscapeCookies(blob string) []*http.Cookie {
	var cookies []*http.Cookie
	for _, line := range strings.Split(blob, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 7 {
			continue
		}

		cookies = append(cookies, &http.Cookie{
			Name:  fields[5],
			Value: fields[6],
		})
	}
	return cookies
}
