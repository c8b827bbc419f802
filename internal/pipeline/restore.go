package pipeline

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/rs/zerolog"
)

var (
	wrappedDisplayMath = regexp.MustCompile(`(?s)<p>\s*(<div class="math-display">.*?</div>)\s*</p>`)
	emptyParagraph     = regexp.MustCompile(`<p>\s*</p>\n?`)
)

// restorer resolves sentinel tokens back into rendered HTML.
type restorer struct {
	ph   *Placeholders
	opts Options
	log  zerolog.Logger
}

// restore resolves tokens in the reverse of extraction order: fenced code,
// inline code, math, then escaped characters. It then lifts display math
// out of paragraphs and drops empty paragraphs.
func (r *restorer) restore(html string) string {
	html = r.ph.Resolve(html, KindCode, r.codeBlock)
	html = r.ph.Resolve(html, KindInlineCode, func(lit Literal) string {
		return "<code>" + EscapeHTML(lit.Content) + "</code>"
	})
	html = r.ph.Resolve(html, KindDisplayMath, func(lit Literal) string {
		return `<div class="math-display">` + r.math(lit.Content, true) + "</div>"
	})
	html = r.ph.Resolve(html, KindInlineMath, func(lit Literal) string {
		return `<span class="math-inline">` + r.math(lit.Content, false) + "</span>"
	})
	html = r.ph.Resolve(html, KindEscape, func(lit Literal) string {
		return EscapeHTML(lit.Content)
	})
	html = wrappedDisplayMath.ReplaceAllString(html, "$1")
	return emptyParagraph.ReplaceAllString(html, "")
}

// codeBlock renders a fenced block. Highlighting is attempted only for
// tagged blocks; any failure falls back to escaped text without a marker.
func (r *restorer) codeBlock(lit Literal) string {
	body := EscapeHTML(lit.Content)
	class := ""
	if lit.Language != "" {
		class = ` class="language-` + EscapeHTML(lit.Language) + `"`
		if r.opts.Highlight {
			highlighted, err := safeRender(func() (string, error) {
				return r.opts.Highlighter.Highlight(lit.Content, lit.Language)
			})
			if err != nil {
				r.log.Debug().Err(err).Str("lang", lit.Language).Msg("highlight failed, using plain text")
			} else {
				body = highlighted
			}
		}
	}
	return "<pre><code" + class + ">" + body + "</code></pre>"
}

// math typesets formula, or emits a placeholder when math is disabled.
// A typesetting failure yields a marked error span holding the raw formula.
func (r *restorer) math(formula string, display bool) string {
	if !r.opts.Math {
		return `<span class="math-placeholder" data-math="` + EscapeHTML(formula) +
			`" data-display="` + strconv.FormatBool(display) + `">` + EscapeHTML(formula) + "</span>"
	}
	html, err := safeRender(func() (string, error) {
		return r.opts.MathRenderer.RenderMath(formula, display, r.opts.Chemistry)
	})
	if err != nil {
		r.log.Debug().Err(err).Str("formula", formula).Bool("display", display).Msg("math rendering failed")
		return `<span class="math-error" title="` + EscapeHTML(err.Error()) + `">` + EscapeHTML(formula) + "</span>"
	}
	return html
}

// safeRender turns a collaborator panic into an error.
func safeRender(render func() (string, error)) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("renderer panic: %v", rec)
		}
	}()
	return render()
}
