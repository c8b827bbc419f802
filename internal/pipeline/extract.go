package pipeline

import (
	"regexp"
	"strings"
	"unicode"
)

// maxLanguageTagLen bounds the first fence line that may be read as a language tag.
const maxLanguageTagLen = 20

var (
	fencedCodePattern = regexp.MustCompile("(?s)```(.*?)```")
	inlineCodePattern = regexp.MustCompile("`([^`\n]+)`")
	escapePattern     = regexp.MustCompile("\\\\([\\\\`*_{}\\[\\]()#+\\-.!|~$<>:=])")
)

// extract replaces every literal region of text with a sentinel token and
// records the originals. Order is fenced code, inline code, display math,
// inline math, escapes: a region extracted earlier hides its delimiters from
// every later pattern.
func extract(text string) (string, *Placeholders) {
	ph := NewPlaceholders()
	text = extractFencedCode(text, ph)
	text = extractInlineCode(text, ph)
	text = extractMath(text, "$$", false, KindDisplayMath, ph)
	text = extractMath(text, "$", true, KindInlineMath, ph)
	text = extractEscapes(text, ph)
	return text, ph
}

func extractFencedCode(text string, ph *Placeholders) string {
	return fencedCodePattern.ReplaceAllStringFunc(text, func(block string) string {
		body := fencedCodePattern.FindStringSubmatch(block)[1]
		lang, body := splitLanguageTag(body)
		return ph.Protect(Literal{
			Kind:     KindCode,
			Content:  trimBlankLines(body),
			Language: lang,
		})
	})
}

// splitLanguageTag treats a short, whitespace-free first line as the language.
func splitLanguageTag(body string) (lang, rest string) {
	nl := strings.IndexByte(body, '\n')
	if nl < 0 {
		return "", body
	}
	first := body[:nl]
	if first == "" || len(first) >= maxLanguageTagLen || strings.IndexFunc(first, unicode.IsSpace) >= 0 {
		return "", body
	}
	return first, body[nl+1:]
}

// trimBlankLines drops leading and trailing whitespace-only lines and keeps
// everything in between verbatim, including indentation.
func trimBlankLines(body string) string {
	lines := strings.Split(body, "\n")
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

func extractInlineCode(text string, ph *Placeholders) string {
	return inlineCodePattern.ReplaceAllStringFunc(text, func(span string) string {
		return ph.Protect(Literal{
			Kind:    KindInlineCode,
			Content: inlineCodePattern.FindStringSubmatch(span)[1],
		})
	})
}

// extractMath scans for delim-framed spans. A delimiter preceded by an odd
// number of backslashes is literal. Single-line spans may not cross a newline.
// Content is trimmed; empty spans are left as text.
func extractMath(text, delim string, singleLine bool, kind Kind, ph *Placeholders) string {
	var out strings.Builder
	i := 0
	for {
		open := findDelimiter(text, i, delim, singleLine)
		if open < 0 {
			out.WriteString(text[i:])
			return out.String()
		}
		start := open + len(delim)
		closeIdx := findDelimiter(text, start, delim, singleLine)
		if closeIdx < 0 {
			out.WriteString(text[i:])
			return out.String()
		}
		content := text[start:closeIdx]
		if singleLine && strings.Contains(content, "\n") {
			// The opener has no partner on its line; keep it and retry from the next line.
			out.WriteString(text[i:start])
			i = start
			continue
		}
		content = strings.TrimSpace(content)
		if content == "" {
			out.WriteString(text[i : closeIdx+len(delim)])
			i = closeIdx + len(delim)
			continue
		}
		out.WriteString(text[i:open])
		out.WriteString(ph.Protect(Literal{Kind: kind, Content: content}))
		i = closeIdx + len(delim)
	}
}

// findDelimiter returns the index of the next unescaped delim at or after from.
// When single is set, a "$$" pair never counts as a "$" delimiter.
func findDelimiter(text string, from int, delim string, single bool) int {
	for from < len(text) {
		idx := strings.Index(text[from:], delim)
		if idx < 0 {
			return -1
		}
		pos := from + idx
		if isEscaped(text, pos) {
			from = pos + len(delim)
			continue
		}
		if single && pos+1 < len(text) && text[pos+1] == '$' {
			from = pos + 2
			continue
		}
		return pos
	}
	return -1
}

// isEscaped reports whether text[pos] is preceded by an odd run of backslashes.
func isEscaped(text string, pos int) bool {
	n := 0
	for j := pos - 1; j >= 0 && text[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

func extractEscapes(text string, ph *Placeholders) string {
	return escapePattern.ReplaceAllStringFunc(text, func(esc string) string {
		return ph.Protect(Literal{Kind: KindEscape, Content: esc[1:]})
	})
}
