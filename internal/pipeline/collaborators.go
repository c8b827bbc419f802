package pipeline

import (
	"errors"

	"github.com/yuin/goldmark/util"
)

// ErrRendererUnavailable is returned by the nil collaborators below.
var ErrRendererUnavailable = errors.New("renderer not configured")

// MathRenderer typesets a TeX formula to HTML.
// Trust enables commands that KaTeX gates behind its trust setting,
// including the chemistry extensions.
type MathRenderer interface {
	RenderMath(formula string, display, trust bool) (string, error)
}

// Highlighter renders source code as syntax-highlighted HTML
// (the inner markup of a <code> element).
type Highlighter interface {
	Highlight(code, language string) (string, error)
}

// MathRendererFunc adapts a function to MathRenderer.
type MathRendererFunc func(formula string, display, trust bool) (string, error)

// RenderMath calls f.
func (f MathRendererFunc) RenderMath(formula string, display, trust bool) (string, error) {
	return f(formula, display, trust)
}

// HighlighterFunc adapts a function to Highlighter.
type HighlighterFunc func(code, language string) (string, error)

// Highlight calls f.
func (f HighlighterFunc) Highlight(code, language string) (string, error) {
	return f(code, language)
}

type noMath struct{}

func (noMath) RenderMath(string, bool, bool) (string, error) { return "", ErrRendererUnavailable }

type noHighlight struct{}

func (noHighlight) Highlight(string, string) (string, error) { return "", ErrRendererUnavailable }

// EscapeHTML escapes &, <, > and " for use in text and attribute values.
func EscapeHTML(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}

// escapeURL percent-encodes a link destination and escapes it for an attribute.
func escapeURL(s string) string {
	return string(util.EscapeHTML(util.URLEscape([]byte(s), false)))
}
