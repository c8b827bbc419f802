package pipeline

import "strings"

// assembleParagraphs wraps each run of text lines in one <p>, joining the
// run with single spaces. Blank and block lines end a run; blank lines are
// dropped and block lines are copied through.
func assembleParagraphs(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	var run []string

	flush := func() {
		if len(run) == 0 {
			return
		}
		out = append(out, blockLine("<p>"+strings.Join(run, " ")+"</p>"))
		run = run[:0]
	}

	for _, l := range lines {
		switch l.Kind {
		case LineText:
			run = append(run, strings.TrimSpace(l.Text))
		case LineBlank:
			flush()
		default:
			flush()
			out = append(out, l)
		}
	}
	flush()
	return out
}
