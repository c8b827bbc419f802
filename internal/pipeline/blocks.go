package pipeline

import (
	"regexp"
	"strings"
)

// Captures: 1=markers (">" possibly separated by spaces), 2=content.
var blockquotePattern = regexp.MustCompile(`^\s*((?:>\s?)+)(.*)$`)

// openList is one entry of the list stack.
type openList struct {
	typ      listType
	indent   int
	itemOpen bool
}

// blockMachine walks lines once, tracking open lists and blockquotes.
type blockMachine struct {
	out    []Line
	lists  stack[*openList]
	quotes stack[int] // entry value is the depth it opened
}

// buildBlocks applies the block state machine to the output of phase 2.
// Both stacks are empty when it returns.
func buildBlocks(lines []Line) []Line {
	m := &blockMachine{out: make([]Line, 0, len(lines))}
	for _, l := range lines {
		m.step(l)
	}
	m.closeLists()
	m.closeQuotes()
	return m.out
}

func (m *blockMachine) step(l Line) {
	switch l.Kind {
	case LineBlank:
		m.emit(l)
		return
	case LineBlock:
		m.closeLists()
		m.closeQuotes()
		m.emit(l)
		return
	}

	if match := blockquotePattern.FindStringSubmatch(l.Text); match != nil {
		m.closeLists()
		m.setQuoteDepth(strings.Count(match[1], ">"))
		m.emit(textLine(match[2]))
		return
	}

	if item, ok := classifyListItem(l.Text); ok {
		m.closeQuotes()
		m.addItem(item)
		return
	}

	m.closeLists()
	m.closeQuotes()
	m.emit(l)
}

func (m *blockMachine) addItem(item listItem) {
	for {
		top, ok := m.lists.top()
		if !ok || top.indent <= item.indent {
			break
		}
		m.closeTopList()
	}

	top, ok := m.lists.top()
	switch {
	case !ok || top.indent < item.indent:
		m.openList(item)
	case top.typ != item.typ:
		m.closeTopList()
		m.openList(item)
	case top.itemOpen:
		m.emit(blockLine("</li>"))
	}

	cur, _ := m.lists.top()
	cur.itemOpen = true
	m.emit(blockLine(item.openItem()))
}

func (m *blockMachine) openList(item listItem) {
	m.lists.push(&openList{typ: item.typ, indent: item.indent})
	m.emit(blockLine(item.openTag()))
}

func (m *blockMachine) closeTopList() {
	l, ok := m.lists.pop()
	if !ok {
		return
	}
	if l.itemOpen {
		m.emit(blockLine("</li>"))
	}
	m.emit(blockLine(l.typ.closeTag()))
}

func (m *blockMachine) closeLists() {
	for m.lists.len() > 0 {
		m.closeTopList()
	}
}

// setQuoteDepth closes blockquotes deeper than depth and opens missing ones.
func (m *blockMachine) setQuoteDepth(depth int) {
	for m.quotes.len() > depth {
		m.quotes.pop()
		m.emit(blockLine("</blockquote>"))
	}
	for m.quotes.len() < depth {
		m.quotes.push(m.quotes.len() + 1)
		m.emit(blockLine("<blockquote>"))
	}
}

func (m *blockMachine) closeQuotes() {
	m.setQuoteDepth(0)
}

func (m *blockMachine) emit(l Line) {
	m.out = append(m.out, l)
}
