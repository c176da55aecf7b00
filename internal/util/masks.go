// Package util provides shared helpers used across the codebase.
package util

import (
	"path"
	"path/filepath"
	"strings"
)

// MatchesAny reports whether p matches any of the given masks.
// Masks without a path separator are tested against the base name, masks
// containing one are tested against the whole slash-normalized path.
// Supported wildcards:
// - * matches any number of characters within a path segment
// - ** matches any number of characters across path segments
// Examples:
// - ".git*" matches ".git" and ".gitignore"
// - "assets/*.map" matches "assets/app.js.map"
// - "vendor/**" matches everything below "vendor"
func MatchesAny(p string, masks []string) bool {
	normalized := filepath.ToSlash(p)

	for _, mask := range masks {
		mask = filepath.ToSlash(mask)

		if strings.Contains(mask, "**") {
			if matchDoubleStar(normalized, mask) {
				return true
			}
			continue
		}

		subject := normalized
		if !strings.ContainsRune(mask, '/') {
			subject = path.Base(normalized)
		}
		if ok, _ := path.Match(mask, subject); ok {
			return true
		}
	}

	return false
}

// matchDoubleStar handles masks containing the ** wildcard.
func matchDoubleStar(p, mask string) bool {
	prefixed := strings.HasPrefix(mask, "**")
	suffixed := strings.HasSuffix(mask, "**")

	switch {
	case prefixed && suffixed:
		middle := strings.Trim(mask, "*")
		return strings.Contains("/"+p+"/", middle)
	case prefixed:
		rest := strings.TrimPrefix(mask, "**")
		return strings.HasSuffix(p, rest) || strings.Contains(p, rest)
	case suffixed:
		return strings.HasPrefix(p, strings.TrimSuffix(mask, "**"))
	default:
		parts := strings.SplitN(mask, "**", 2)
		return strings.HasPrefix(p, parts[0]) && strings.HasSuffix(p, parts[1])
	}
}
