package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strconv"
	"strings"
)

// ErrDocumentRender indicates the standalone document template failed.
var ErrDocumentRender = errors.New("document template rendering failed")

var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body>
<article class="scimark">
{{.Body}}
</article>
</body>
</html>
`))

// WrapDocument embeds a rendered fragment in an HTML5 document.
// The title is escaped; the body is trusted pipeline output.
func WrapDocument(title, body string) (string, error) {
	if title == "" {
		title = "Document"
	}
	var buf bytes.Buffer
	err := documentTemplate.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{title, template.HTML(body)}) // #nosec G203 -- body is produced by Run
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentRender, err)
	}
	return buf.String(), nil
}

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block before </head>, or prepends it to a
// fragment. Closing sequences in the CSS are neutralised.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>\n"
	if idx := strings.Index(strings.ToLower(htmlContent), "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}
	return styleBlock + htmlContent
}

// sanitizeCSS escapes "</" so the stylesheet cannot close its <style> element.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// TOCOptions selects the headings listed in a table of contents.
type TOCOptions struct {
	Title    string
	MinDepth int // shallowest heading level, 1-6
	MaxDepth int // deepest heading level, 1-6
}

// TOCInjector defines the contract for TOC injection into HTML.
type TOCInjector interface {
	InjectTOC(ctx context.Context, htmlContent string, opts *TOCOptions) (string, error)
}

// tocEntry is a heading picked up for the table of contents.
type tocEntry struct {
	level int
	id    string
	text  string
}

var (
	// Captures: 1=level, 2=id, 3=inner HTML.
	headingTagPattern = regexp.MustCompile(`(?is)<h([1-6])[^>]*\bid="([^"]*)"[^>]*>(.*?)</h[1-6]>`)
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
)

// headingText strips tags and decodes entities so the text can be escaped once.
func headingText(inner string) string {
	return strings.TrimSpace(html.UnescapeString(htmlTagPattern.ReplaceAllString(inner, "")))
}

// collectHeadings returns headings with an id whose level is within range.
func collectHeadings(htmlContent string, minDepth, maxDepth int) []tocEntry {
	var entries []tocEntry
	for _, m := range headingTagPattern.FindAllStringSubmatch(htmlContent, -1) {
		level, _ := strconv.Atoi(m[1])
		if level < minDepth || level > maxDepth {
			continue
		}
		entries = append(entries, tocEntry{level: level, id: m[2], text: headingText(m[3])})
	}
	return entries
}

// tocNumbering assigns "1.", "1.2." style numbers. The first heading sets
// depth 1 and a jump of more than one level is treated as a direct child.
type tocNumbering struct {
	counters [6]int
	base     int
	last     int
}

func (n *tocNumbering) next(level int) (string, int) {
	if n.base == 0 {
		n.base = level
	}
	depth := max(level-n.base+1, 1)
	if n.last > 0 && depth > n.last+1 {
		depth = n.last + 1
	}
	for i := depth; i < len(n.counters); i++ {
		n.counters[i] = 0
	}
	n.counters[depth-1]++
	n.last = depth

	parts := make([]string, depth)
	for i := range parts {
		parts[i] = strconv.Itoa(n.counters[i])
	}
	return strings.Join(parts, ".") + ".", depth
}

// renderTOC builds a nested, numbered list of links.
func renderTOC(entries []tocEntry, title string) string {
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<nav class="toc">`)
	if title != "" {
		b.WriteString(`<h2 class="toc-title">` + html.EscapeString(title) + `</h2>`)
	}

	var numbering tocNumbering
	depth := 0
	for _, e := range entries {
		num, d := numbering.next(e.level)
		switch {
		case d > depth:
			for ; depth < d; depth++ {
				b.WriteString(`<ol class="toc-list">`)
			}
		default:
			b.WriteString("</li>")
			for ; depth > d; depth-- {
				b.WriteString("</ol></li>")
			}
		}
		b.WriteString(`<li><a href="#` + html.EscapeString(e.id) + `"><span class="toc-number">` +
			num + "</span> " + html.EscapeString(e.text) + "</a>")
	}
	b.WriteString("</li>")
	for ; depth > 1; depth-- {
		b.WriteString("</ol></li>")
	}
	b.WriteString("</ol></nav>")
	return b.String()
}

// TOCInjection implements TOCInjector.
type TOCInjection struct{}

var (
	_ CSSInjector = (*CSSInjection)(nil)
	_ TOCInjector = (*TOCInjection)(nil)
)

// NewTOCInjection creates a new TOC injector.
func NewTOCInjection() *TOCInjection {
	return &TOCInjection{}
}

// InjectTOC inserts a table of contents after <body>, or at the start of a
// fragment. Content without matching headings is returned unchanged.
func (t *TOCInjection) InjectTOC(ctx context.Context, htmlContent string, opts *TOCOptions) (string, error) {
	if opts == nil {
		return htmlContent, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	toc := renderTOC(collectHeadings(htmlContent, opts.MinDepth, opts.MaxDepth), opts.Title)
	if toc == "" {
		return htmlContent, nil
	}

	if idx := strings.Index(strings.ToLower(htmlContent), "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			pos := idx + closeIdx + 1
			return htmlContent[:pos] + "\n" + toc + htmlContent[pos:], nil
		}
	}
	return toc + "\n" + htmlContent, nil
}
