// Package poster turns the poster references stored by the backend into URLs
// a client can fetch.
//
// The backend returns three shapes: absolute URLs (Cloudinary or any other
// remote host), server-absolute paths such as /uploads/x.jpg, and bare file
// names that live under the backend's uploads directory. Entries without a
// poster resolve to a placeholder image.
package poster

import "strings"

// Placeholder is returned for entries without a poster.
const Placeholder = "/placeholder-image.png"

// Normalize resolves raw against the backend origin derived from apiBaseURL.
func Normalize(raw, apiBaseURL string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return Placeholder
	case strings.HasPrefix(raw, "http"):
		return raw
	case strings.HasPrefix(raw, "/"):
		return Origin(apiBaseURL) + raw
	default:
		return Origin(apiBaseURL) + "/uploads/" + raw
	}
}

// Origin strips a trailing /api segment (and any trailing slash) from the
// configured API base URL.
func Origin(apiBaseURL string) string {
	origin := strings.TrimRight(strings.TrimSpace(apiBaseURL), "/")
	origin = strings.TrimSuffix(origin, "/api")
	return strings.TrimRight(origin, "/")
}

// IsPlaceholder reports whether url is the placeholder image.
func IsPlaceholder(url string) bool {
	return url == Placeholder
}

// IsUpload reports whether url is a file served from the backend's own
// uploads directory.
func IsUpload(url, apiBaseURL string) bool {
	return strings.HasPrefix(url, Origin(apiBaseURL)+"/uploads/")
}
