package pipeline

import "regexp"

var (
	boldItalicPattern    = regexp.MustCompile(`\*\*\*(.+?)\*\*\*`)
	boldPattern          = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicPattern        = regexp.MustCompile(`\*([^*\s](?:[^*]*?[^*\s])?)\*`)
	strikethroughPattern = regexp.MustCompile(`~~(.+?)~~`)
	markPattern          = regexp.MustCompile(`==(\S(?:.*?\S)?)==`)

	// Captures: 1=alt/text, 2=destination, 3=optional title.
	imagePattern = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)(?:\s+"([^"]*)")?\)`)
	linkPattern  = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)(?:\s+"([^"]*)")?\)`)

	urlAutolinkPattern   = regexp.MustCompile(`<((?:https?|ftp)://[^\s<>]+)>`)
	emailAutolinkPattern = regexp.MustCompile(`<([^\s<>@]+@[^\s<>@]+\.[^\s<>@]+)>`)

	footnoteRefPattern = regexp.MustCompile(`\[\^([\w-]+)\]`)
)

// inlineRewriter applies span rules in a fixed order; each rule sees the
// output of the one before it.
type inlineRewriter struct {
	ph         *Placeholders
	footnotes  *footnoteRegistry
	typography bool
}

// rewrite formats one line. Footnote references are numbered as they are
// met, so lines must be passed in document order.
func (r *inlineRewriter) rewrite(s string) string {
	s = r.spans(s)
	if r.footnotes != nil {
		s = footnoteRefPattern.ReplaceAllStringFunc(s, func(ref string) string {
			return r.footnotes.reference(footnoteRefPattern.FindStringSubmatch(ref)[1])
		})
	}
	if r.typography {
		s = smartTypography(s)
	}
	return s
}

// spans runs every rule except footnote references.
func (r *inlineRewriter) spans(s string) string {
	s = boldItalicPattern.ReplaceAllString(s, "<strong><em>$1</em></strong>")
	s = boldPattern.ReplaceAllString(s, "<strong>$1</strong>")
	s = italicPattern.ReplaceAllString(s, "<em>$1</em>")
	s = strikethroughPattern.ReplaceAllString(s, "<del>$1</del>")
	s = markPattern.ReplaceAllString(s, "<mark>$1</mark>")
	s = imagePattern.ReplaceAllStringFunc(s, r.image)
	s = urlAutolinkPattern.ReplaceAllStringFunc(s, func(m string) string {
		url := m[1 : len(m)-1]
		return `<a href="` + r.url(url) + `">` + EscapeHTML(url) + "</a>"
	})
	s = emailAutolinkPattern.ReplaceAllStringFunc(s, func(m string) string {
		addr := m[1 : len(m)-1]
		return `<a href="mailto:` + r.url(addr) + `">` + EscapeHTML(addr) + "</a>"
	})
	s = linkPattern.ReplaceAllStringFunc(s, r.link)
	return s
}

// url escapes a destination for an attribute. Sentinels are resolved to
// their raw text first, since percent-encoding would break them.
func (r *inlineRewriter) url(dest string) string {
	if r.ph != nil {
		dest = r.ph.Plain(dest)
	}
	return escapeURL(dest)
}

func (r *inlineRewriter) image(m string) string {
	g := imagePattern.FindStringSubmatch(m)
	out := `<img src="` + r.url(g[2]) + `" alt="` + EscapeHTML(g[1]) + `"`
	if g[3] != "" {
		out += ` title="` + EscapeHTML(g[3]) + `"`
	}
	return out + ">"
}

func (r *inlineRewriter) link(m string) string {
	g := linkPattern.FindStringSubmatch(m)
	out := `<a href="` + r.url(g[2]) + `"`
	if g[3] != "" {
		out += ` title="` + EscapeHTML(g[3]) + `"`
	}
	return out + ">" + g[1] + "</a>"
}

// rewriteLines formats every line in place, block HTML included, so
// headings, list items and table cells get span formatting too.
func (r *inlineRewriter) rewriteLines(lines []Line) []Line {
	for i := range lines {
		if lines[i].Kind == LineBlank {
			continue
		}
		lines[i].Text = r.rewrite(lines[i].Text)
	}
	return lines
}
