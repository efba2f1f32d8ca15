package aggregator

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Truncate shortens s to at most limit runes without cutting a word in half.
// It backs up to the last whitespace at or before limit; when the first limit
// runes contain no whitespace it cuts at limit. Leading whitespace is dropped.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	runes := []rune(s)
	if unicode.IsSpace(runes[limit]) {
		return strings.TrimRightFunc(string(runes[:limit]), unicode.IsSpace)
	}

	for i := limit - 1; i > 0; i-- {
		if unicode.IsSpace(runes[i]) {
			if cut := strings.TrimRightFunc(string(runes[:i]), unicode.IsSpace); cut != "" {
				return cut
			}
			break
		}
	}

	return string(runes[:limit])
}
