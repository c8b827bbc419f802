package main

import (
	"context"
	"errors"
	"os"

	scimark "github.com/alnah/go-scimark"
	"github.com/alnah/go-scimark/internal/assets"
	"github.com/alnah/go-scimark/internal/config"
	"github.com/alnah/go-scimark/internal/highlight"
	"github.com/alnah/go-scimark/internal/hints"
)

// Exit codes for the scimark CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// ErrUsage marks command-line parsing failures.
var ErrUsage = errors.New("invalid usage")

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, scimark.ErrBrowserConnect) ||
		errors.Is(err, scimark.ErrPageCreate) ||
		errors.Is(err, scimark.ErrPageLoad) ||
		errors.Is(err, scimark.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrCreateDir) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrOutputNotDir) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, scimark.ErrEmptyMarkdown) ||
		errors.Is(err, scimark.ErrInvalidPageSize) ||
		errors.Is(err, scimark.ErrInvalidOrientation) ||
		errors.Is(err, scimark.ErrInvalidMargin) ||
		errors.Is(err, scimark.ErrInvalidTOCDepth) ||
		errors.Is(err, scimark.ErrInvalidEngine) ||
		errors.Is(err, scimark.ErrUnknownHighlightStyle) ||
		errors.Is(err, scimark.ErrStyleNotFound) ||
		errors.Is(err, scimark.ErrInvalidAssetPath) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, configName string) string {
	switch {
	case errors.Is(err, scimark.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, scimark.ErrPageLoad), errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths(configName))
	case errors.Is(err, ErrCreateDir):
		return hints.ForOutputDirectory()
	case errors.Is(err, scimark.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.StyleNames())
	case errors.Is(err, scimark.ErrUnknownHighlightStyle):
		return hints.ForHighlightStyle(highlight.Styles())
	case errors.Is(err, scimark.ErrInvalidEngine):
		return hints.ForEngine()
	}
	return ""
}
