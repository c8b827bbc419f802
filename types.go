package scimark

import (
	"fmt"
	"strings"
)

// Engine selects the Markdown engine.
type Engine int

const (
	// EngineExtended is the multi-phase pipeline with math, chemistry,
	// definition lists and the other extensions.
	EngineExtended Engine = iota

	// EngineCommonMark is goldmark with GFM, footnotes, chroma and KaTeX.
	EngineCommonMark
)

// String returns the engine name accepted by ParseEngine.
func (e Engine) String() string {
	switch e {
	case EngineExtended:
		return "extended"
	case EngineCommonMark:
		return "commonmark"
	default:
		return fmt.Sprintf("Engine(%d)", int(e))
	}
}

// ParseEngine returns the engine with the given name (case-insensitive).
// The empty string selects EngineExtended.
func ParseEngine(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "extended":
		return EngineExtended, nil
	case "commonmark":
		return EngineCommonMark, nil
	default:
		return 0, fmt.Errorf("%w: %q (must be extended or commonmark)", ErrInvalidEngine, name)
	}
}

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
		return true
	}
	return false
}

func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// TOC depth defaults, used when MinDepth or MaxDepth is zero.
const (
	DefaultTOCMinDepth = 1
	DefaultTOCMaxDepth = 3
)

// TOC configures the table of contents.
type TOC struct {
	Title    string // empty = no title above the list
	MinDepth int    // 1-6, 0 = DefaultTOCMinDepth
	MaxDepth int    // 1-6, 0 = DefaultTOCMaxDepth
}

// Validate checks depth bounds. Returns nil if t is nil (no TOC).
func (t *TOC) Validate() error {
	if t == nil {
		return nil
	}
	minDepth, maxDepth := t.depths()
	if minDepth < 1 || minDepth > 6 {
		return fmt.Errorf("%w: minDepth %d (must be between 1 and 6)", ErrInvalidTOCDepth, t.MinDepth)
	}
	if maxDepth < 1 || maxDepth > 6 {
		return fmt.Errorf("%w: maxDepth %d (must be between 1 and 6)", ErrInvalidTOCDepth, t.MaxDepth)
	}
	if minDepth > maxDepth {
		return fmt.Errorf("%w: minDepth %d exceeds maxDepth %d", ErrInvalidTOCDepth, minDepth, maxDepth)
	}
	return nil
}

// depths returns the effective depth range.
func (t *TOC) depths() (minDepth, maxDepth int) {
	minDepth, maxDepth = t.MinDepth, t.MaxDepth
	if minDepth == 0 {
		minDepth = DefaultTOCMinDepth
	}
	if maxDepth == 0 {
		maxDepth = DefaultTOCMaxDepth
	}
	return minDepth, maxDepth
}

// Input contains conversion parameters.
type Input struct {
	Markdown   string        // Markdown content (required)
	SourceDir  string        // Rewrite relative image and link paths against this directory
	Standalone bool          // Wrap the fragment in an HTML5 document with stylesheets
	Title      string        // Document title (standalone only, default "Document")
	CSS        string        // Custom CSS appended after the style (standalone only)
	TOC        *TOC          // Table of contents (optional)
	PDF        bool          // Also render a PDF; implies Standalone
	Page       *PageSettings // Page settings (optional, nil = defaults)
}

// Result holds conversion output. PDF is nil unless Input.PDF was set.
type Result struct {
	HTML []byte
	PDF  []byte
}
