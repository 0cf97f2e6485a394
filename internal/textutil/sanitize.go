package textutil

import "strings"

// SanitizeFileName scrubs a search name so it can serve as a directory name.
// Path separators, colons, and asterisks become dashes; quoting and
// redirection punctuation is dropped; surrounding whitespace is trimmed.
func SanitizeFileName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch r {
		case '/', '\\', ':', '*':
			b.WriteByte('-')
		case '?', '"', '<', '>', '|':
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
