// Package config loads the YAML configuration file of the scimark CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-scimark/internal/fileutil"
	"github.com/alnah/go-scimark/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// configDirName is the directory under the user config dir searched for names.
const configDirName = "go-scimark"

// Field length limits.
const (
	MaxTitleLength       = 200  // Document title
	MaxPathLength        = 4096 // File system paths
	MaxStyleLength       = 4096 // Style name, path or inline CSS
	MaxCSSLength         = 1 << 16
	MaxEngineLength      = 20 // "extended", "commonmark"
	MaxHighlightLength   = 50 // chroma style name
	MaxPageSizeLength    = 10 // "letter", "a4", "legal"
	MaxOrientationLength = 10 // "portrait", "landscape"
	MaxTOCTitleLength    = 100
	MaxTimeoutLength     = 20 // "30s", "2m"
)

// Config holds all configuration for document generation.
type Config struct {
	Render    RenderConfig    `yaml:"render"`
	Highlight HighlightConfig `yaml:"highlight"`
	Output    OutputConfig    `yaml:"output"`
	Assets    AssetsConfig    `yaml:"assets"`
	TOC       TOCConfig       `yaml:"toc"`
	PDF       PDFConfig       `yaml:"pdf"`
}

// RenderConfig controls the Markdown pipeline. Nil booleans keep the
// library defaults (math, chemistry and highlighting on, typography off).
type RenderConfig struct {
	Math       *bool  `yaml:"math"`
	Chemistry  *bool  `yaml:"chemistry"`
	Highlight  *bool  `yaml:"highlight"`
	Typography *bool  `yaml:"typography"`
	Engine     string `yaml:"engine"` // "extended" (default) or "commonmark"
}

// HighlightConfig selects the code highlighting theme.
type HighlightConfig struct {
	Style string `yaml:"style"` // chroma style name (default: "github")
}

// OutputConfig defines output destination and document options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = next to the source
	Standalone bool   `yaml:"standalone"` // Full HTML document instead of a fragment
	Title      string `yaml:"title"`      // Empty = first H1, then file name
	Style      string `yaml:"style"`      // Style name, path or CSS (default: "default")
	CSS        string `yaml:"css"`        // Extra CSS appended after the style
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded styles only
}

// TOCConfig defines table of contents options.
type TOCConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Title    string `yaml:"title"`    // Empty = no title above TOC
	MinDepth int    `yaml:"minDepth"` // 1-6, default 1
	MaxDepth int    `yaml:"maxDepth"` // 1-6, default 3
}

// PDFConfig defines PDF export options.
type PDFConfig struct {
	Enabled     bool    `yaml:"enabled"`
	PageSize    string  `yaml:"pageSize"`    // "letter", "a4", "legal" (default: "letter")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Margin      float64 `yaml:"margin"`      // inches (default: 0.5)
	Timeout     string  `yaml:"timeout"`     // Go duration, e.g. "45s"
}

// Validate checks field lengths and ranges. Semantic checks of page
// settings and engine names are left to the library.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"render.engine", c.Render.Engine, MaxEngineLength},
		{"highlight.style", c.Highlight.Style, MaxHighlightLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"output.title", c.Output.Title, MaxTitleLength},
		{"output.style", c.Output.Style, MaxStyleLength},
		{"output.css", c.Output.CSS, MaxCSSLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"toc.title", c.TOC.Title, MaxTOCTitleLength},
		{"pdf.pageSize", c.PDF.PageSize, MaxPageSizeLength},
		{"pdf.orientation", c.PDF.Orientation, MaxOrientationLength},
		{"pdf.timeout", c.PDF.Timeout, MaxTimeoutLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if err := validateDepth("toc.minDepth", c.TOC.MinDepth); err != nil {
		return err
	}
	if err := validateDepth("toc.maxDepth", c.TOC.MaxDepth); err != nil {
		return err
	}
	if c.TOC.MinDepth != 0 && c.TOC.MaxDepth != 0 && c.TOC.MinDepth > c.TOC.MaxDepth {
		return fmt.Errorf("%w: toc.minDepth %d exceeds toc.maxDepth %d", ErrInvalidValue, c.TOC.MinDepth, c.TOC.MaxDepth)
	}

	if c.PDF.Margin < 0 {
		return fmt.Errorf("%w: pdf.margin must not be negative, got %.2f", ErrInvalidValue, c.PDF.Margin)
	}
	if _, err := c.PDF.TimeoutDuration(); err != nil {
		return err
	}

	return nil
}

// TimeoutDuration parses pdf.timeout. An empty value returns zero.
func (p PDFConfig) TimeoutDuration() (time.Duration, error) {
	if p.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(p.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: pdf.timeout %q (must be a positive duration like 30s)", ErrInvalidValue, p.Timeout)
	}
	return d, nil
}

// validateDepth accepts 0 (unset) or a heading level.
func validateDepth(field string, depth int) error {
	if depth != 0 && (depth < 1 || depth > 6) {
		return fmt.Errorf("%w: %s must be between 1 and 6, got %d", ErrInvalidValue, field, depth)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration that keeps every library default.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	f, err := os.Open(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := yamlutil.DecodeStrict(f, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths lists the files tried for a config name, in order:
// current directory, then the user config directory, each with .yaml and .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, configDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
