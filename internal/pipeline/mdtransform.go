package pipeline

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress multiple blank lines to one
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
)

// sentinelRunes removes the runes reserved for sentinel tokens.
var sentinelRunes = strings.NewReplacer(sentinelOpen, "", sentinelClose, "")

// preprocess prepares raw input for extraction: unified line endings,
// NFC composition, and no reserved sentinel runes.
func preprocess(content string) string {
	content = normalizeLineEndings(content)
	content = norm.NFC.String(content)
	return sentinelRunes.Replace(content)
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines limits consecutive blank lines to one.
// Runs after extraction so blank lines inside code bodies are preserved.
func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}
