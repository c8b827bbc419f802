package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

// Sentinel tokens are framed by two Private Use Area runes. The preprocessor
// strips both runes from the input, so a token can only come from Protect.
const (
	sentinelOpen  = "\uE000"
	sentinelClose = "\uE001"
)

// Kind identifies which side table a literal belongs to.
type Kind byte

// Literal kinds, named by the letter embedded in their sentinel token.
const (
	KindCode        Kind = 'C' // fenced code block
	KindInlineCode  Kind = 'I'
	KindDisplayMath Kind = 'D'
	KindInlineMath  Kind = 'M'
	KindEscape      Kind = 'E' // backslash-escaped punctuation
)

// tokenPattern matches any sentinel token. Submatches: 1=kind, 2=index.
var tokenPattern = regexp.MustCompile(`\x{E000}([CIDME])([0-9]+)\x{E001}`)

// Literal is one protected region of the source document.
type Literal struct {
	Kind     Kind
	Content  string // raw literal: code body, formula, or the escaped character
	Language string // fenced code only; empty when no tag was given
}

// Placeholders holds the side tables built during extraction. Entries are
// appended while protecting and only read while restoring.
type Placeholders struct {
	tables map[Kind][]Literal
}

// NewPlaceholders returns empty side tables.
func NewPlaceholders() *Placeholders {
	return &Placeholders{tables: make(map[Kind][]Literal)}
}

// Protect records lit and returns the sentinel token that stands in for it.
func (p *Placeholders) Protect(lit Literal) string {
	idx := len(p.tables[lit.Kind])
	p.tables[lit.Kind] = append(p.tables[lit.Kind], lit)
	return token(lit.Kind, idx)
}

// Len reports how many literals of kind k were protected.
func (p *Placeholders) Len(k Kind) int {
	return len(p.tables[k])
}

// Lookup resolves a token of kind k by index.
func (p *Placeholders) Lookup(k Kind, idx int) (Literal, bool) {
	entries := p.tables[k]
	if idx < 0 || idx >= len(entries) {
		return Literal{}, false
	}
	return entries[idx], true
}

// Resolve replaces every token of kind k in s with render(literal).
// Tokens of other kinds are left in place.
func (p *Placeholders) Resolve(s string, k Kind, render func(Literal) string) string {
	if p.Len(k) == 0 || !strings.Contains(s, sentinelOpen) {
		return s
	}
	return tokenPattern.ReplaceAllStringFunc(s, func(tok string) string {
		m := tokenPattern.FindStringSubmatch(tok)
		if Kind(m[1][0]) != k {
			return tok
		}
		idx, err := strconv.Atoi(m[2])
		if err != nil {
			return tok
		}
		lit, ok := p.Lookup(k, idx)
		if !ok {
			return tok
		}
		return render(lit)
	})
}

// Plain replaces every token in s with its raw literal text.
// Used where the rendered form is not wanted, such as heading slugs.
func (p *Placeholders) Plain(s string) string {
	if !strings.Contains(s, sentinelOpen) {
		return s
	}
	return tokenPattern.ReplaceAllStringFunc(s, func(tok string) string {
		m := tokenPattern.FindStringSubmatch(tok)
		idx, _ := strconv.Atoi(m[2])
		lit, ok := p.Lookup(Kind(m[1][0]), idx)
		if !ok {
			return ""
		}
		return lit.Content
	})
}

// isSoleToken reports whether line, ignoring surrounding whitespace, is a
// single token of one of the given kinds.
func isSoleToken(line string, kinds ...Kind) bool {
	trimmed := strings.TrimSpace(line)
	m := tokenPattern.FindStringSubmatchIndex(trimmed)
	if m == nil || m[0] != 0 || m[1] != len(trimmed) {
		return false
	}
	k := Kind(trimmed[m[2]])
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

func token(k Kind, idx int) string {
	return sentinelOpen + string(rune(k)) + strconv.Itoa(idx) + sentinelClose
}
