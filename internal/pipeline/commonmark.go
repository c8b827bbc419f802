package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	katex "github.com/FurqanSoftware/goldmark-katex"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrCommonMarkConversion indicates the goldmark engine failed.
var ErrCommonMarkConversion = errors.New("CommonMark conversion failed")

// FragmentConverter converts Markdown to an HTML fragment.
type FragmentConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// CommonMarkConverter renders strict CommonMark with GFM, footnotes,
// emoji shortcodes, chroma highlighting and KaTeX math.
type CommonMarkConverter struct {
	md goldmark.Markdown
}

var _ FragmentConverter = (*CommonMarkConverter)(nil)

// NewCommonMarkConverter creates a converter. style names the chroma style
// used when highlight is true; classes are emitted so the stylesheet from
// internal/highlight applies.
func NewCommonMarkConverter(highlight, math bool, style string) *CommonMarkConverter {
	exts := []goldmark.Extender{
		extension.GFM,
		extension.Footnote,
		extension.DefinitionList,
		emoji.New(emoji.WithRenderingMethod(emoji.Unicode)),
	}
	if highlight {
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithStyle(style),
			highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
		))
	}
	if math {
		exts = append(exts, &katex.Extender{})
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &CommonMarkConverter{md: md}
}

// ToHTML converts content, honouring cancellation while goldmark runs.
func (c *CommonMarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: panic: %v", ErrCommonMarkConversion, r)}
			}
		}()
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrCommonMarkConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
