package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

// listType is the classified kind of a list item.
type listType int

const (
	listTask listType = iota
	listUnordered
	listEmoji
	listDecimal
	listLowerAlpha
	listUpperAlpha
	listLowerRoman
)

// maxRomanLen caps roman markers so ordinary words are not read as numerals.
const maxRomanLen = 6

var (
	taskItemPattern      = regexp.MustCompile(`^(\s*)[-*]\s+\[([ xX])\]\s+(.*)$`)
	unorderedItemPattern = regexp.MustCompile(`^(\s*)[-*]\s+(.*)$`)
	decimalItemPattern   = regexp.MustCompile(`^(\s*)(\d+)\.\s+(.*)$`)
	lowerAlphaPattern    = regexp.MustCompile(`^(\s*)([a-z])\.\s+(.*)$`)
	upperAlphaPattern    = regexp.MustCompile(`^(\s*)([A-Z])\.\s+(.*)$`)
	lowerRomanPattern    = regexp.MustCompile(`^(\s*)([ivx]{1,` + strconv.Itoa(maxRomanLen) + `})\.\s+(.*)$`)
	validRoman           = regexp.MustCompile(`^x{0,3}(ix|iv|v?i{0,3})$`)
	leadingSpace         = regexp.MustCompile(`^\s*`)
)

// listItem is a line classified as a list item.
type listItem struct {
	typ     listType
	indent  int
	content string
	marker  string // number, letter, numeral or emoji as written
	checked bool
}

// classifyListItem tries the item patterns in fixed precedence: task,
// unordered, emoji bullet, decimal, lower alpha, upper alpha, lower roman.
// Emoji bullets are only tried when the unordered pattern failed.
func classifyListItem(line string) (listItem, bool) {
	if m := taskItemPattern.FindStringSubmatch(line); m != nil {
		return listItem{
			typ:     listTask,
			indent:  indentWidth(m[1]),
			content: m[3],
			checked: m[2] != " ",
		}, true
	}
	if m := unorderedItemPattern.FindStringSubmatch(line); m != nil {
		return listItem{typ: listUnordered, indent: indentWidth(m[1]), content: m[2]}, true
	}
	lead := leadingSpace.FindString(line)
	if glyph, rest, ok := leadingEmoji(line[len(lead):]); ok {
		return listItem{typ: listEmoji, indent: indentWidth(lead), content: rest, marker: glyph}, true
	}
	if m := decimalItemPattern.FindStringSubmatch(line); m != nil {
		return listItem{typ: listDecimal, indent: indentWidth(m[1]), content: m[3], marker: m[2]}, true
	}
	if m := lowerAlphaPattern.FindStringSubmatch(line); m != nil {
		return listItem{typ: listLowerAlpha, indent: indentWidth(m[1]), content: m[3], marker: m[2]}, true
	}
	if m := upperAlphaPattern.FindStringSubmatch(line); m != nil {
		return listItem{typ: listUpperAlpha, indent: indentWidth(m[1]), content: m[3], marker: m[2]}, true
	}
	if m := lowerRomanPattern.FindStringSubmatch(line); m != nil && validRoman.MatchString(m[2]) {
		return listItem{typ: listLowerRoman, indent: indentWidth(m[1]), content: m[3], marker: m[2]}, true
	}
	return listItem{}, false
}

// indentWidth counts leading whitespace, a tab counting as four columns.
func indentWidth(ws string) int {
	n := 0
	for _, r := range ws {
		if r == '\t' {
			n += 4
			continue
		}
		n++
	}
	return n
}

// ordinal returns the 1-based position an ordered marker stands for.
func (it listItem) ordinal() int {
	switch it.typ {
	case listDecimal:
		n, err := strconv.Atoi(it.marker)
		if err != nil {
			return 1
		}
		return n
	case listLowerAlpha:
		return int(it.marker[0]-'a') + 1
	case listUpperAlpha:
		return int(it.marker[0]-'A') + 1
	case listLowerRoman:
		return romanValue(it.marker)
	}
	return 0
}

func romanValue(s string) int {
	values := map[byte]int{'i': 1, 'v': 5, 'x': 10}
	total := 0
	for i := 0; i < len(s); i++ {
		v := values[s[i]]
		if i+1 < len(s) && values[s[i+1]] > v {
			total -= v
			continue
		}
		total += v
	}
	return total
}

// openTag returns the list element that starts a list of its type.
func (it listItem) openTag() string {
	start := ""
	if n := it.ordinal(); n > 1 {
		start = ` start="` + strconv.Itoa(n) + `"`
	}
	switch it.typ {
	case listTask:
		return `<ul class="task-list">`
	case listEmoji:
		return `<ul class="emoji-list">`
	case listDecimal:
		return "<ol" + start + ">"
	case listLowerAlpha:
		return `<ol type="a"` + start + ">"
	case listUpperAlpha:
		return `<ol type="A"` + start + ">"
	case listLowerRoman:
		return `<ol type="i"` + start + ">"
	}
	return "<ul>"
}

func (t listType) closeTag() string {
	switch t {
	case listDecimal, listLowerAlpha, listUpperAlpha, listLowerRoman:
		return "</ol>"
	}
	return "</ul>"
}

// openItem returns the opening <li> with the item's content. The element is
// closed by the block machine when a sibling arrives or the list ends.
func (it listItem) openItem() string {
	switch it.typ {
	case listTask:
		box := `<input type="checkbox" disabled>`
		if it.checked {
			box = `<input type="checkbox" checked disabled>`
		}
		return `<li class="task-list-item">` + box + " " + it.content
	case listEmoji:
		return `<li class="emoji-item" data-emoji="` + it.marker + `"><span class="emoji-bullet">` +
			it.marker + "</span> " + it.content
	case listDecimal:
		return `<li value="` + strconv.Itoa(it.ordinal()) + `">` + it.content
	case listLowerAlpha, listUpperAlpha, listLowerRoman:
		return `<li value="` + strconv.Itoa(it.ordinal()) + `" data-marker="` + it.marker + `">` + it.content
	}
	return "<li>" + strings.TrimSpace(it.content)
}
