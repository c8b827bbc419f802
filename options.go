package scimark

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-scimark/internal/pipeline"
)

// MathRenderer typesets a TeX formula to HTML. Trust enables commands that
// are refused by default, including the chemistry extensions.
type MathRenderer = pipeline.MathRenderer

// Highlighter renders source code as the inner HTML of a <code> element.
type Highlighter = pipeline.Highlighter

// MathRendererFunc adapts a function to MathRenderer.
type MathRendererFunc = pipeline.MathRendererFunc

// HighlighterFunc adapts a function to Highlighter.
type HighlighterFunc = pipeline.HighlighterFunc

// Option configures a Converter or a Parse call.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	math       bool
	chemistry  bool
	highlight  bool
	typography bool

	mathRenderer   MathRenderer
	highlighter    Highlighter
	highlightStyle string

	engine    Engine
	logger    zerolog.Logger
	timeout   time.Duration
	style     string // name, path or CSS content
	assetPath string
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

func defaultConfig() converterConfig {
	return converterConfig{
		math:      true,
		chemistry: true,
		highlight: true,
		logger:    zerolog.Nop(),
		timeout:   defaultTimeout,
	}
}

// WithMath enables or disables math typesetting (default on). When off,
// formulas are kept as escaped source in a placeholder span.
func WithMath(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.math = enabled
	}
}

// WithChemistry enables the chemistry commands \ce and \pu (default on).
func WithChemistry(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.chemistry = enabled
	}
}

// WithHighlight enables or disables code highlighting (default on).
func WithHighlight(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.highlight = enabled
	}
}

// WithTypography enables smart quotes, dashes and ellipses (default off).
func WithTypography(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.typography = enabled
	}
}

// WithMathRenderer replaces the KaTeX renderer.
func WithMathRenderer(r MathRenderer) Option {
	return func(c *Converter) {
		c.cfg.mathRenderer = r
	}
}

// WithHighlighter replaces the chroma highlighter. The highlight
// stylesheet is then left to the caller.
func WithHighlighter(h Highlighter) Option {
	return func(c *Converter) {
		c.cfg.highlighter = h
	}
}

// WithHighlightStyle selects the chroma style, e.g. "github" or "monokai".
func WithHighlightStyle(name string) Option {
	return func(c *Converter) {
		c.cfg.highlightStyle = name
	}
}

// WithLogger sets the logger for recoverable rendering failures.
// The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Converter) {
		c.cfg.logger = l
	}
}

// WithEngine selects the Markdown engine (default EngineExtended).
func WithEngine(e Engine) Option {
	return func(c *Converter) {
		c.cfg.engine = e
	}
}

// WithTimeout sets the PDF page load timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("scimark: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithStyle sets the stylesheet for standalone output. It accepts a style
// name ("default", "paper"), a path to a CSS file, or CSS content.
func WithStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.style = style
	}
}

// WithAssetPath adds a directory searched for styles before the embedded
// ones, laid out as {path}/styles/{name}.css.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}
