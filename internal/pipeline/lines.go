package pipeline

import "strings"

// LineKind tags a line between the structural and paragraph phases.
type LineKind int

const (
	// LineText is markdown text still awaiting paragraph assembly.
	LineText LineKind = iota
	// LineBlank separates paragraphs.
	LineBlank
	// LineBlock is finished block-level HTML that must not be wrapped.
	LineBlock
)

// Line is one unit of the document as it flows through phases 2 to 5.
type Line struct {
	Kind LineKind
	Text string
}

func textLine(s string) Line {
	if strings.TrimSpace(s) == "" {
		return Line{Kind: LineBlank}
	}
	return Line{Kind: LineText, Text: s}
}

func blockLine(s string) Line {
	return Line{Kind: LineBlock, Text: s}
}

func joinLines(lines []Line) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l.Text)
	}
	return b.String()
}
