package domain

import "strings"

// =============================================================================
// Slug Generation
// =============================================================================

// Slugify converts a roster name to a URL-safe slug.
//
// The transformation rules are:
//   - Letters are lowercased, digits are kept
//   - Spaces, hyphens and underscores become a single hyphen
//   - All other characters are removed
//   - Leading and trailing hyphens are trimmed
//
// Example:
//
//	Slugify("Vader's Fist")       // returns "vaders-fist"
//	Slugify("Empire  -- 800pts")  // returns "empire-800pts"
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingHyphen := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case r >= 'A' && r <= 'Z':
			r += 'a' - 'A'
		case r == ' ' || r == '-' || r == '_':
			pendingHyphen = b.Len() > 0
			continue
		default:
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
