package transcript

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/nguyentantai21042004/caption-digest/internal/models"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

var youtubeHosts = map[string]bool{
	"youtube.com":              true,
	"www.youtube.com":          true,
	"m.youtube.com":            true,
	"music.youtube.com":        true,
	"youtube-nocookie.com":     true,
	"www.youtube-nocookie.com": true,
}

// ParseVideoID extracts the 11-character video ID from a YouTube URL.
// A bare ID is accepted as is.
func ParseVideoID(rawURL string) (string, error) {
	s := strings.TrimSpace(rawURL)
	if videoIDPattern.MatchString(s) {
		return s, nil
	}

	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", invalidURL(rawURL, err)
	}

	host := strings.ToLower(u.Hostname())
	var id string
	switch {
	case host == "youtu.be" || host == "www.youtu.be":
		id = firstSegment(u.Path)
	case youtubeHosts[host]:
		id = idFromPath(u)
	default:
		return "", invalidURL(rawURL, fmt.Errorf("unsupported host %q", host))
	}

	if !videoIDPattern.MatchString(id) {
		return "", invalidURL(rawURL, fmt.Errorf("no video ID found"))
	}
	return id, nil
}

func idFromPath(u *url.URL) string {
	if u.Path == "/watch" || u.Path == "/watch/" {
		return u.Query().Get("v")
	}
	for _, prefix := range []string{"/shorts/", "/embed/", "/live/", "/v/"} {
		if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
			return firstSegment(rest)
		}
	}
	return ""
}

func firstSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return path
}

// WatchURL returns the canonical watch URL for id
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

func invalidURL(rawURL string, err error) error {
	return models.NewError(models.CodeInvalidInput, fmt.Sprintf("invalid video URL %q", rawURL), err)
}
