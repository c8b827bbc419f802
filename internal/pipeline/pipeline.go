package pipeline

import (
	"strings"

	"github.com/rs/zerolog"
)

// Options configures one pipeline run.
type Options struct {
	Math       bool // invoke MathRenderer; otherwise emit placeholder spans
	Chemistry  bool // pass trust=true to MathRenderer
	Highlight  bool // invoke Highlighter for tagged code blocks
	Typography bool // smart quotes, dashes and ellipses

	MathRenderer MathRenderer
	Highlighter  Highlighter
	Logger       zerolog.Logger
}

// DefaultOptions returns math, chemistry and highlighting on, typography off,
// and collaborators that always fail.
func DefaultOptions() Options {
	return Options{
		Math:         true,
		Chemistry:    true,
		Highlight:    true,
		MathRenderer: noMath{},
		Highlighter:  noHighlight{},
		Logger:       zerolog.Nop(),
	}
}

// Run converts markdown to an HTML fragment. It never fails: an internal
// panic yields the escaped source in a <pre> block.
func Run(markdown string, opts Options) (html string) {
	if opts.MathRenderer == nil {
		opts.MathRenderer = noMath{}
	}
	if opts.Highlighter == nil {
		opts.Highlighter = noHighlight{}
	}

	defer func() {
		if rec := recover(); rec != nil {
			opts.Logger.Error().Interface("panic", rec).Msg("pipeline panic, emitting source as text")
			html = "<pre>" + EscapeHTML(markdown) + "</pre>"
		}
	}()

	text, ph := extract(preprocess(markdown))
	text = compressBlankLines(text)
	text = replaceShortcodes(text)

	st := &structureState{
		ph:        ph,
		slugs:     newSlugRegistry(),
		footnotes: newFootnoteRegistry(),
	}
	lines := transformStructure(text, st)
	lines = buildBlocks(lines)

	rw := &inlineRewriter{ph: ph, footnotes: st.footnotes, typography: opts.Typography}
	lines = rw.rewriteLines(lines)
	lines = assembleParagraphs(lines)

	body := joinLines(lines)
	if section := st.footnotes.render(rw.spans); section != "" {
		body += "\n" + section
	}

	r := &restorer{ph: ph, opts: opts, log: opts.Logger}
	return strings.TrimSpace(r.restore(body))
}
