package scimark

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/alnah/go-scimark/internal/assets"
	"github.com/alnah/go-scimark/internal/fileutil"
	"github.com/alnah/go-scimark/internal/highlight"
	"github.com/alnah/go-scimark/internal/mathtex"
	"github.com/alnah/go-scimark/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.FragmentConverter = (*pipeline.CommonMarkConverter)(nil)
	_ pipeline.CSSInjector       = (*pipeline.CSSInjection)(nil)
	_ pipeline.TOCInjector       = (*pipeline.TOCInjection)(nil)
	_ MathRenderer               = (*mathtex.KaTeX)(nil)
	_ Highlighter                = (*highlight.Chroma)(nil)
	_ pdfConverter               = (*rodConverter)(nil)
)

// sharedKaTeX is the default math renderer. Sharing it shares its cache.
var sharedKaTeX = sync.OnceValue(mathtex.New)

// Converter renders Markdown to HTML fragments, standalone documents and PDF.
// Create with NewConverter, use Convert or Parse, and Close when done.
type Converter struct {
	cfg          converterConfig
	chroma       *highlight.Chroma // default highlighter, nil when replaced
	commonMark   pipeline.FragmentConverter
	cssInjector  pipeline.CSSInjector
	tocInjector  pipeline.TOCInjector
	pdfConverter pdfConverter
	stylesheet   string
}

// Parse converts markdown to an HTML fragment with the default renderers.
// It never fails: rendering problems degrade to escaped source text.
func Parse(markdown string, opts ...Option) string {
	return newConverter(opts...).Parse(markdown)
}

// NewConverter creates a Converter. Unlike Parse, it reports bad options:
// an unknown engine, highlight style or stylesheet.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{cfg: defaultConfig()}
	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.engine != EngineExtended && c.cfg.engine != EngineCommonMark {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEngine, c.cfg.engine)
	}
	if c.cfg.highlightStyle != "" {
		if _, err := highlight.New(c.cfg.highlightStyle); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownHighlightStyle, c.cfg.highlightStyle)
		}
	}

	c.setup()

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}
	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout)
	}
	return c, nil
}

// newConverter applies options and fills in defaults without validation.
// An unknown highlight style falls back to the default style.
func newConverter(opts ...Option) *Converter {
	c := &Converter{cfg: defaultConfig()}
	for _, opt := range opts {
		opt(c)
	}
	c.setup()
	return c
}

// setup resolves collaborators and injectors after options are applied.
func (c *Converter) setup() {
	if c.cfg.mathRenderer == nil {
		c.cfg.mathRenderer = sharedKaTeX()
	}
	if c.cfg.highlighter == nil {
		h, err := highlight.New(c.cfg.highlightStyle)
		if err != nil {
			c.cfg.logger.Warn().Err(err).Str("style", c.cfg.highlightStyle).Msg("using default highlight style")
			h, _ = highlight.New(highlight.DefaultStyle)
		}
		c.chroma = h
		c.cfg.highlighter = h
	}
	if c.cfg.engine == EngineCommonMark && c.commonMark == nil {
		style := highlight.DefaultStyle
		if c.chroma != nil {
			style = c.chroma.StyleName()
		}
		c.commonMark = pipeline.NewCommonMarkConverter(c.cfg.highlight, c.cfg.math, style)
	}
	if c.cssInjector == nil {
		c.cssInjector = &pipeline.CSSInjection{}
	}
	if c.tocInjector == nil {
		c.tocInjector = pipeline.NewTOCInjection()
	}
}

// Parse converts markdown to an HTML fragment. Safe for concurrent use.
func (c *Converter) Parse(markdown string) string {
	return c.render(context.Background(), markdown)
}

// render runs the configured engine. A CommonMark failure falls back to
// the extended engine.
func (c *Converter) render(ctx context.Context, markdown string) string {
	if c.commonMark != nil {
		out, err := c.commonMark.ToHTML(ctx, markdown)
		if err == nil {
			return out
		}
		c.cfg.logger.Warn().Err(err).Msg("commonmark engine failed, using extended engine")
	}
	return pipeline.Run(markdown, c.pipelineOptions())
}

func (c *Converter) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Math:         c.cfg.math,
		Chemistry:    c.cfg.chemistry,
		Highlight:    c.cfg.highlight,
		Typography:   c.cfg.typography,
		MathRenderer: c.cfg.mathRenderer,
		Highlighter:  c.cfg.highlighter,
		Logger:       c.cfg.logger,
	}
}

// Convert renders input to HTML and, if requested, PDF.
// The context is used for cancellation and timeout.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	htmlContent := c.render(ctx, input.Markdown)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if input.SourceDir != "" {
		htmlContent, err = pipeline.RewriteRelativePaths(htmlContent, input.SourceDir)
		if err != nil {
			return nil, fmt.Errorf("%w: rewriting relative paths: %v", ErrHTMLConversion, err)
		}
	}

	// Order matters: the TOC goes right after <body>, so the document exists first.
	if input.Standalone || input.PDF {
		htmlContent, err = pipeline.WrapDocument(input.Title, htmlContent)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
		}
		htmlContent = c.cssInjector.InjectCSS(ctx, htmlContent, c.documentCSS(input.CSS))
	}

	if input.TOC != nil {
		minDepth, maxDepth := input.TOC.depths()
		htmlContent, err = c.tocInjector.InjectTOC(ctx, htmlContent, &pipeline.TOCOptions{
			Title:    input.TOC.Title,
			MinDepth: minDepth,
			MaxDepth: maxDepth,
		})
		if err != nil {
			return nil, fmt.Errorf("injecting TOC: %w", err)
		}
	}

	res := &Result{HTML: []byte(htmlContent)}
	if !input.PDF {
		return res, nil
	}

	pdfBytes, err := c.pdfConverter.ToPDF(ctx, htmlContent, input.Page)
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	res.PDF = pdfBytes
	return res, nil
}

// documentCSS combines the style, the highlight stylesheet and user CSS.
// User CSS comes last so it can override.
func (c *Converter) documentCSS(userCSS string) string {
	css := c.stylesheet
	if userCSS != "" {
		css += "\n" + userCSS
	}
	return css
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

// resolveStyle loads the stylesheet (name, path or CSS content) and
// appends the highlight stylesheet when the default highlighter is used.
func (c *Converter) resolveStyle() error {
	css, err := c.loadStyle(c.cfg.style)
	if err != nil {
		return err
	}

	if c.cfg.highlight && c.chroma != nil {
		hl, err := c.chroma.CSS()
		if err != nil {
			return fmt.Errorf("building highlight stylesheet: %w", err)
		}
		css += "\n" + hl
	}
	c.stylesheet = css
	return nil
}

func (c *Converter) loadStyle(input string) (string, error) {
	if input == "" {
		input = assets.DefaultStyleName
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("loading style file %q: %w", input, err)
		}
		return string(content), nil
	}

	if fileutil.IsCSS(input) {
		return input, nil
	}

	resolver, err := assets.NewResolver(c.cfg.assetPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	css, err := resolver.LoadStyle(input)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) || errors.Is(err, assets.ErrInvalidAssetName) {
			return "", fmt.Errorf("%w: %q", ErrStyleNotFound, input)
		}
		return "", fmt.Errorf("loading style %q: %w", input, err)
	}
	return css, nil
}

// validateInput checks that required fields are present and valid.
//
// This is a TRUST BOUNDARY for direct library users who build Input manually.
// Parse stays total and accepts any text.
func validateInput(input Input) error {
	if input.Markdown == "" {
		return ErrEmptyMarkdown
	}
	if err := input.Page.Validate(); err != nil {
		return err
	}
	if err := input.TOC.Validate(); err != nil {
		return err
	}
	return nil
}
