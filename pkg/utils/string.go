package utils

import "unicode/utf8"

// Truncate shortens s to at most maxLen bytes for log attributes, appending
// "..." when anything was cut. The cut never splits a UTF-8 sequence, so a
// stream line holding multibyte model output still logs as valid text.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 0 {
		return "..."
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
