package pipeline

import (
	"regexp"
	"strings"
)

var (
	tableRowPattern       = regexp.MustCompile(`^\s*\|.*\|\s*$`)
	tableSeparatorPattern = regexp.MustCompile(`^\s*\|?\s*:?-+:?\s*(?:\|\s*:?-+:?\s*)*\|?\s*$`)
)

// Column alignments derived from the separator row.
const (
	alignLeft   = "left"
	alignCenter = "center"
	alignRight  = "right"
)

// parseTable recognises a header row, a separator row and at least one body
// row. It returns the table HTML and the number of lines consumed, or 0 when
// lines does not start a table.
func parseTable(lines []string) (string, int) {
	if len(lines) < 3 ||
		!tableRowPattern.MatchString(lines[0]) ||
		!tableSeparatorPattern.MatchString(lines[1]) ||
		!strings.Contains(lines[1], "|") ||
		!tableRowPattern.MatchString(lines[2]) {
		return "", 0
	}

	header := splitRow(lines[0])
	aligns := columnAlignments(splitRow(lines[1]))

	n := 2
	for n < len(lines) && tableRowPattern.MatchString(lines[n]) {
		n++
	}

	var b strings.Builder
	b.WriteString("<table><thead><tr>")
	writeCells(&b, "th", header, aligns)
	b.WriteString("</tr></thead><tbody>")
	for _, row := range lines[2:n] {
		b.WriteString("<tr>")
		writeCells(&b, "td", splitRow(row), aligns)
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String(), n
}

// splitRow trims the outer pipes and returns the trimmed cells.
func splitRow(row string) []string {
	row = strings.TrimSpace(row)
	row = strings.TrimPrefix(row, "|")
	row = strings.TrimSuffix(row, "|")
	cells := strings.Split(row, "|")
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}

func columnAlignments(sep []string) []string {
	aligns := make([]string, len(sep))
	for i, cell := range sep {
		left := strings.HasPrefix(cell, ":")
		right := strings.HasSuffix(cell, ":")
		switch {
		case left && right:
			aligns[i] = alignCenter
		case right:
			aligns[i] = alignRight
		default:
			aligns[i] = alignLeft
		}
	}
	return aligns
}

// writeCells renders one row. Rows may be ragged: cells past the last
// alignment entry are written without a style.
func writeCells(b *strings.Builder, tag string, cells, aligns []string) {
	for i, c := range cells {
		b.WriteString("<" + tag)
		if i < len(aligns) {
			b.WriteString(` style="text-align: ` + aligns[i] + `"`)
		}
		b.WriteString(">" + c + "</" + tag + ">")
	}
}
