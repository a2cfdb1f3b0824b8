package models

import "strings"

// Slugify derives a URL-safe slug: lowercase, runs of non-alphanumerics
// collapsed into single hyphens, no leading or trailing hyphen.
func Slugify(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(raw) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
