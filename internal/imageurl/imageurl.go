// Package imageurl maps the heterogeneous image references found on posts
// into something an image view can actually render.
package imageurl

import (
	"fmt"
	"net/url"
	"strings"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".avif", ".svg"}

// Resolve turns a raw image reference into a renderable URL:
//
//   - empty input becomes the backend's placeholder endpoint for the
//     requested dimensions
//   - a relative upload path is prefixed with the backend origin
//   - a direct image URL passes through unchanged
//   - an unsplash.com page URL carrying a photo ID is rewritten to that
//     host's direct-image convention; one without an ID would serve HTML
//     into an image tag, so it becomes the placeholder
//   - anything else passes through unchanged
//
// Resolve cannot anticipate dead links; views still need a load-failure
// fallback.
func Resolve(origin, raw string, width, height int) string {
	origin = strings.TrimSuffix(origin, "/")

	if strings.TrimSpace(raw) == "" {
		return Placeholder(origin, width, height)
	}

	if strings.HasPrefix(raw, "/uploads/") {
		return origin + raw
	}

	if hasImageExtension(raw) {
		return raw
	}

	if u, err := url.Parse(raw); err == nil {
		host := strings.TrimPrefix(u.Hostname(), "www.")
		if host == "unsplash.com" {
			if id := unsplashPhotoID(u.Path); id != "" {
				return fmt.Sprintf("https://images.unsplash.com/photo-%s?w=%d&h=%d&fit=crop", id, width, height)
			}
			// Page URL, not an image.
			return Placeholder(origin, width, height)
		}
	}

	return raw
}

// Placeholder is the backend-served stand-in image for the given dimensions.
func Placeholder(origin string, width, height int) string {
	return fmt.Sprintf("%s/api/placeholder/%d/%d", strings.TrimSuffix(origin, "/"), width, height)
}

func hasImageExtension(raw string) bool {
	path := raw
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.ToLower(path)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// unsplashPhotoID pulls the trailing ID out of /photos/<slug>-<id> paths.
func unsplashPhotoID(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if part != "photos" || i+1 >= len(parts) {
			continue
		}
		slug := parts[i+1]
		if j := strings.LastIndex(slug, "-"); j >= 0 && j+1 < len(slug) {
			return slug[j+1:]
		}
		return slug
	}
	return ""
}
