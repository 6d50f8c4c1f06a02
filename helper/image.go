package helper

import (
	"path/filepath"
	"strings"
)

// PublicIDFromURL recovers "<folder>/<name>" from a Cloudinary delivery URL,
// e.g. https://res.cloudinary.com/<cloud>/image/upload/v1/<folder>/<name>.jpg.
func PublicIDFromURL(url string) string {
	parts := strings.Split(url, "/")
	n := len(parts)
	if n < 4 {
		return ""
	}
	publicID := strings.Join(parts[n-2:n], "/")
	return strings.TrimSuffix(publicID, filepath.Ext(publicID))
}

// ImagePublicID prefers the stored id. Seeded and older rows only carry the URL.
func ImagePublicID(publicID, url string) string {
	if publicID != "" {
		return publicID
	}
	if !strings.Contains(url, "res.cloudinary.com") {
		return ""
	}
	return PublicIDFromURL(url)
}
