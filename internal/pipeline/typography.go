package pipeline

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var dashes = strings.NewReplacer("---", "—", "--", "–", "...", "…")

// smartTypography curls quotes and converts dashes and ellipses in the text
// between tags. Tag markup and attribute values are copied unchanged.
func smartTypography(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prev := ' '
	for len(s) > 0 {
		if s[0] == '<' {
			end := strings.IndexByte(s, '>')
			if end < 0 {
				b.WriteString(s)
				break
			}
			b.WriteString(s[:end+1])
			s = s[end+1:]
			continue
		}
		next := strings.IndexByte(s, '<')
		if next < 0 {
			next = len(s)
		}
		text := dashes.Replace(s[:next])
		for _, r := range text {
			switch r {
			case '"':
				if opensQuote(prev) {
					r = '“'
				} else {
					r = '”'
				}
			case '\'':
				if opensQuote(prev) {
					r = '‘'
				} else {
					r = '’'
				}
			}
			b.WriteRune(r)
			prev = r
		}
		s = s[next:]
	}
	return b.String()
}

// opensQuote reports whether a quote after prev starts a quotation.
func opensQuote(prev rune) bool {
	return prev == utf8.RuneError || unicode.IsSpace(prev) || strings.ContainsRune("([{—–", prev)
}
