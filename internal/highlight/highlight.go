// Package highlight renders source code as HTML with chroma.
package highlight

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "github"

// Sentinel errors.
var (
	ErrUnknownLanguage = errors.New("unknown language")
	ErrUnknownStyle    = errors.New("unknown highlight style")
	ErrHighlight       = errors.New("highlighting failed")
)

// Chroma highlights code with CSS classes, so one stylesheet serves the
// whole document. Safe for concurrent use.
type Chroma struct {
	style     *chroma.Style
	formatter *html.Formatter
}

// New returns a Chroma highlighter for the named style.
func New(styleName string) (*Chroma, error) {
	if styleName == "" {
		styleName = DefaultStyle
	}
	style, ok := styles.Registry[strings.ToLower(styleName)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStyle, styleName)
	}
	return &Chroma{
		style: style,
		formatter: html.New(
			html.WithClasses(true),
			html.PreventSurroundingPre(true),
		),
	}, nil
}

// Highlight tokenises code with the lexer registered for language and
// returns the inner markup of a <code> element.
func (c *Chroma) Highlight(code, language string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}
	var buf bytes.Buffer
	if err := c.formatter.Format(&buf, c.style, it); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}
	return buf.String(), nil
}

// StyleName returns the name of the style in use.
func (c *Chroma) StyleName() string {
	return c.style.Name
}

// WriteCSS writes the stylesheet for the highlighter's style.
func (c *Chroma) WriteCSS(w io.Writer) error {
	return c.formatter.WriteCSS(w, c.style)
}

// CSS returns the stylesheet as a string.
func (c *Chroma) CSS() (string, error) {
	var buf bytes.Buffer
	if err := c.WriteCSS(&buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}
	return buf.String(), nil
}

// Styles lists the available style names.
func Styles() []string {
	return styles.Names()
}
