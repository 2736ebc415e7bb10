package session

import (
	"fmt"
	"path"
	"strings"
	"time"
)

const (
	// maxFilenameLen keeps resolved names under the storage limit.
	maxFilenameLen = 255

	// maxSuffixAttempts bounds the numeric-suffix search; past it a
	// timestamp suffix guarantees termination.
	maxSuffixAttempts = 1000
)

// GenerateUniqueFilename resolves case-insensitive duplicate filenames by
// appending the first free numeric suffix before the extension
// (banner.jpg → banner-1.jpg). The first gap wins, not highest+1. Names
// are truncated so suffix and extension always survive the storage limit.
func GenerateUniqueFilename(name string, taken map[string]struct{}) string {
	candidate := truncate(name, "")
	if !isTaken(taken, candidate) {
		return candidate
	}

	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)

	for i := 1; i <= maxSuffixAttempts; i++ {
		candidate = truncate(base+ext, fmt.Sprintf("-%d", i))
		if !isTaken(taken, candidate) {
			return candidate
		}
	}

	// termination fallback
	return truncate(base+ext, fmt.Sprintf("-%d", time.Now().UnixNano()))
}

func isTaken(taken map[string]struct{}, name string) bool {
	_, ok := taken[strings.ToLower(name)]
	return ok
}

// truncate shortens the base name so base+suffix+ext stays under the
// storage limit, preserving both the suffix and the extension.
func truncate(name, suffix string) string {
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)

	if over := len(base) + len(suffix) + len(ext) - maxFilenameLen; over > 0 {
		if over >= len(base) {
			base = base[:1]
		} else {
			base = base[:len(base)-over]
		}
	}
	return base + suffix + ext
}
