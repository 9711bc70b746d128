package validators

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SanitizeString trims surrounding whitespace, drops control characters and
// caps the result at maxLen runes. Names and districts arrive in Bengali as
// often as ASCII, so the cap counts runes rather than bytes to avoid
// splitting a character mid-sequence.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(input))

	if maxLen > 0 && utf8.RuneCountInString(cleaned) > maxLen {
		return string([]rune(cleaned)[:maxLen])
	}
	return cleaned
}
