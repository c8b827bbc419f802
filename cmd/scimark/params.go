package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	scimark "github.com/alnah/go-scimark"
	"github.com/alnah/go-scimark/internal/config"
	"github.com/alnah/go-scimark/internal/fileutil"
)

// ErrReadCSS indicates the --css file could not be read.
var ErrReadCSS = errors.New("failed to read CSS file")

// firstHeadingPattern matches the first ATX level-1 heading.
var firstHeadingPattern = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t#]*$`)

// conversionParams groups parameters shared across batch/file conversion.
type conversionParams struct {
	standalone bool
	title      string // fixed title; empty = derive per file
	css        string
	toc        *scimark.TOC
	pdf        bool
	page       *scimark.PageSettings
}

// mergeFlags copies explicitly set flags into cfg (CLI wins).
func mergeFlags(f *cliFlags, cfg *config.Config) {
	changed := f.changed
	if changed == nil {
		changed = func(string) bool { return false }
	}

	if f.render.noMath {
		cfg.Render.Math = boolPtr(false)
	}
	if f.render.noChemistry {
		cfg.Render.Chemistry = boolPtr(false)
	}
	if f.render.noHighlight {
		cfg.Render.Highlight = boolPtr(false)
	}
	if changed("typography") {
		cfg.Render.Typography = boolPtr(f.render.typography)
	}
	if f.render.engine != "" {
		cfg.Render.Engine = f.render.engine
	}
	if f.render.highlightStyle != "" {
		cfg.Highlight.Style = f.render.highlightStyle
	}

	if changed("standalone") {
		cfg.Output.Standalone = f.document.standalone
	}
	if f.document.title != "" {
		cfg.Output.Title = f.document.title
	}
	if f.document.style != "" {
		cfg.Output.Style = f.document.style
	}
	if f.document.css != "" {
		cfg.Output.CSS = f.document.css
	}
	if f.document.assetPath != "" {
		cfg.Assets.BasePath = f.document.assetPath
	}

	if changed("toc") {
		cfg.TOC.Enabled = f.toc.enabled
	}
	if f.toc.title != "" {
		cfg.TOC.Title = f.toc.title
	}
	if f.toc.minDepth != 0 {
		cfg.TOC.MinDepth = f.toc.minDepth
	}
	if f.toc.maxDepth != 0 {
		cfg.TOC.MaxDepth = f.toc.maxDepth
	}

	if changed("pdf") {
		cfg.PDF.Enabled = f.pdf.enabled
	}
	if f.pdf.size != "" {
		cfg.PDF.PageSize = f.pdf.size
	}
	if f.pdf.orientation != "" {
		cfg.PDF.Orientation = f.pdf.orientation
	}
	if f.pdf.margin != 0 {
		cfg.PDF.Margin = f.pdf.margin
	}
	if f.pdf.timeout != "" {
		cfg.PDF.Timeout = f.pdf.timeout
	}
}

func boolPtr(b bool) *bool { return &b }

// boolOr dereferences p, or returns def when p is unset.
func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// buildOptions translates cfg into converter options.
func buildOptions(cfg *config.Config, logger zerolog.Logger) ([]scimark.Option, error) {
	engine, err := scimark.ParseEngine(cfg.Render.Engine)
	if err != nil {
		return nil, err
	}

	opts := []scimark.Option{
		scimark.WithMath(boolOr(cfg.Render.Math, true)),
		scimark.WithChemistry(boolOr(cfg.Render.Chemistry, true)),
		scimark.WithHighlight(boolOr(cfg.Render.Highlight, true)),
		scimark.WithTypography(boolOr(cfg.Render.Typography, false)),
		scimark.WithEngine(engine),
		scimark.WithLogger(logger),
	}
	if cfg.Highlight.Style != "" {
		opts = append(opts, scimark.WithHighlightStyle(cfg.Highlight.Style))
	}
	if cfg.Output.Style != "" {
		opts = append(opts, scimark.WithStyle(cfg.Output.Style))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, scimark.WithAssetPath(cfg.Assets.BasePath))
	}

	timeout, err := cfg.PDF.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, scimark.WithTimeout(timeout))
	}
	return opts, nil
}

// buildParams resolves per-run conversion parameters from cfg.
func buildParams(cfg *config.Config) (*conversionParams, error) {
	css, err := resolveExtraCSS(cfg.Output.CSS)
	if err != nil {
		return nil, err
	}

	p := &conversionParams{
		standalone: cfg.Output.Standalone,
		title:      cfg.Output.Title,
		css:        css,
		toc:        buildTOC(cfg),
		pdf:        cfg.PDF.Enabled,
	}
	if p.pdf {
		p.page = buildPageSettings(cfg)
		if err := p.page.Validate(); err != nil {
			return nil, err
		}
	}
	if err := p.toc.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// buildPageSettings fills unset page fields with library defaults.
func buildPageSettings(cfg *config.Config) *scimark.PageSettings {
	page := scimark.DefaultPageSettings()
	if cfg.PDF.PageSize != "" {
		page.Size = cfg.PDF.PageSize
	}
	if cfg.PDF.Orientation != "" {
		page.Orientation = cfg.PDF.Orientation
	}
	if cfg.PDF.Margin != 0 {
		page.Margin = cfg.PDF.Margin
	}
	return page
}

// buildTOC creates scimark.TOC from config. Zero depths use library defaults.
func buildTOC(cfg *config.Config) *scimark.TOC {
	if !cfg.TOC.Enabled {
		return nil
	}
	return &scimark.TOC{
		Title:    cfg.TOC.Title,
		MinDepth: cfg.TOC.MinDepth,
		MaxDepth: cfg.TOC.MaxDepth,
	}
}

// resolveExtraCSS returns value as CSS, reading it from disk when it is a path.
func resolveExtraCSS(value string) (string, error) {
	if value == "" || fileutil.IsCSS(value) {
		return value, nil
	}
	data, err := os.ReadFile(value) // #nosec G304 -- user-provided CSS path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
	}
	return string(data), nil
}

// extractFirstHeading extracts the first # heading from markdown content.
func extractFirstHeading(markdown string) string {
	matches := firstHeadingPattern.FindStringSubmatch(markdown)
	if len(matches) >= 2 {
		return strings.TrimSpace(matches[1])
	}
	return ""
}

// resolveTitle picks the document title: fixed -> first H1 -> file name.
func resolveTitle(fixed, markdown, filename string) string {
	if fixed != "" {
		return fixed
	}
	if h1 := extractFirstHeading(markdown); h1 != "" {
		return h1
	}
	if filename == "" {
		return ""
	}
	return strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
}
