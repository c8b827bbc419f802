package pipeline

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars   = regexp.MustCompile(`[^\w\s-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugHyphens    = regexp.MustCompile(`-+`)
)

// slugRegistry hands out unique heading IDs within one document.
type slugRegistry struct {
	counts map[string]int
}

func newSlugRegistry() *slugRegistry {
	return &slugRegistry{counts: make(map[string]int)}
}

// unique returns a slug for text that no earlier call has returned.
// Repeats of a base slug get "-2", "-3", ...; a text with no word
// characters becomes "heading-N".
func (r *slugRegistry) unique(text string) string {
	base := slugify(text)
	if base == "" {
		base = "heading-" + strconv.Itoa(len(r.counts)+1)
	}
	n, seen := r.counts[base]
	if !seen {
		r.counts[base] = 1
		return base
	}
	for {
		n++
		candidate := base + "-" + strconv.Itoa(n)
		if _, taken := r.counts[candidate]; !taken {
			r.counts[base] = n
			r.counts[candidate] = 1
			return candidate
		}
	}
}

// slugify lower-cases text, folds accents, keeps word characters, spaces and
// hyphens, and joins words with single hyphens.
func slugify(text string) string {
	s := foldAccents(strings.ToLower(text))
	s = nonSlugChars.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
