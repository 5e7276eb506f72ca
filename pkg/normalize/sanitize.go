package normalize

import (
	"strings"
	"unicode/utf8"
)

// Clean returns s as valid UTF-8 with control characters removed. It never
// fails: invalid byte sequences are dropped first, and input that still
// cannot be decoded degrades to its printable 7-bit subset. Line breaks
// and tabs survive, everything else below 0x20 and DEL do not.
//
// Upstream text quality is uncontrolled, so every string field of every
// category goes through here; a corrupt field degrades in place instead
// of failing the record or the response.
func Clean(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
		if !utf8.ValidString(s) {
			s = stripToPrintableASCII(s)
		}
	}

	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

func stripToPrintableASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x20 && s[i] < 0x7f {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// truncate cuts s to at most limit runes, appending an ellipsis when
// anything was dropped.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}
