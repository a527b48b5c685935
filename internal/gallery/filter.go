package gallery

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// SupportedExtensions lists the image extensions the loader accepts,
// compared case-insensitively and without the leading dot.
var SupportedExtensions = []string{"jpg", "jpeg", "png", "gif", "bmp", "webp"}

// extensionMediaTypes maps each supported extension to its media type.
var extensionMediaTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"webp": "image/webp",
}

// IsSupported reports whether name carries one of the supported image
// extensions.
func IsSupported(name string) bool {
	_, ok := extensionMediaTypes[extension(name)]
	return ok
}

func extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// MatchesExclude returns true if the file name matches any of the
// exclude patterns. If patterns is empty, nothing is excluded.
func MatchesExclude(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(filepath.ToSlash(pattern), name); err == nil && matched {
			return true
		}
	}
	return false
}
