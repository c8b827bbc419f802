package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Captures: 1=hashes, 2=text. "#{1,6}" followed by whitespace cannot
	// stop short, so ###### is never read as a shorter level.
	headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+?)(?:\s+#+)?\s*$`)

	ruleDashes      = regexp.MustCompile(`^\s*-{3,}\s*$`)
	ruleAsterisks   = regexp.MustCompile(`^\s*\*{3,}\s*$`)
	ruleUnderscores = regexp.MustCompile(`^\s*_{3,}\s*$`)

	footnoteDefPattern = regexp.MustCompile(`^\[\^([\w-]+)\]:\s*(.*)$`)
	definitionPattern  = regexp.MustCompile(`^:\s+(.+)$`)
)

// structureState is the registry context shared by phase 2 helpers.
type structureState struct {
	ph        *Placeholders
	slugs     *slugRegistry
	footnotes *footnoteRegistry
}

// transformStructure rewrites single-line and short multi-line constructs
// (headings, rules, tables, definition lists) into block HTML and removes
// footnote definitions from the flow.
func transformStructure(text string, st *structureState) []Line {
	src := strings.Split(text, "\n")
	out := make([]Line, 0, len(src))

	for i := 0; i < len(src); i++ {
		line := src[i]

		if m := footnoteDefPattern.FindStringSubmatch(line); m != nil {
			st.footnotes.define(m[1], strings.TrimSpace(m[2]))
			continue
		}

		if m := headingPattern.FindStringSubmatch(line); m != nil {
			out = append(out, blockLine(st.heading(len(m[1]), m[2])))
			continue
		}

		if isRule(line) {
			out = append(out, blockLine("<hr>"))
			continue
		}

		if html, consumed := parseTable(src[i:]); consumed > 0 {
			out = append(out, blockLine(html))
			i += consumed - 1
			continue
		}

		if html, consumed := parseDefinitionList(src[i:]); consumed > 0 {
			out = append(out, blockLine(html))
			i += consumed - 1
			continue
		}

		if isSoleToken(line, KindCode, KindDisplayMath) {
			out = append(out, blockLine(strings.TrimSpace(line)))
			continue
		}

		out = append(out, textLine(line))
	}
	return out
}

func (st *structureState) heading(level int, text string) string {
	text = strings.TrimSpace(text)
	id := st.slugs.unique(st.ph.Plain(text))
	lvl := strconv.Itoa(level)
	return "<h" + lvl + ` id="` + id + `">` + text + "</h" + lvl + ">"
}

// isRule matches three or more of the same rule character, alone on the line.
func isRule(line string) bool {
	return ruleDashes.MatchString(line) ||
		ruleAsterisks.MatchString(line) ||
		ruleUnderscores.MatchString(line)
}

// parseDefinitionList consumes "term" / ": definition" pairs. Pairs separated
// only by blank lines join the same <dl>. Returns the number of source lines used.
func parseDefinitionList(lines []string) (string, int) {
	if !isTermPair(lines) {
		return "", 0
	}

	var b strings.Builder
	b.WriteString("<dl>")
	i := 0
	for isTermPair(lines[i:]) {
		b.WriteString("<dt>" + strings.TrimSpace(lines[i]) + "</dt>")
		i++
		for i < len(lines) {
			m := definitionPattern.FindStringSubmatch(lines[i])
			if m == nil {
				break
			}
			b.WriteString("<dd>" + strings.TrimSpace(m[1]) + "</dd>")
			i++
		}
		consumed := i
		for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
			i++
		}
		if !isTermPair(lines[i:]) {
			i = consumed
			break
		}
	}
	b.WriteString("</dl>")
	return b.String(), i
}

func isTermPair(lines []string) bool {
	if len(lines) < 2 {
		return false
	}
	term := strings.TrimSpace(lines[0])
	if term == "" || strings.HasPrefix(term, ":") {
		return false
	}
	return definitionPattern.MatchString(lines[1])
}
