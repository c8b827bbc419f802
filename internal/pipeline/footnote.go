package pipeline

import (
	"strconv"
	"strings"
)

// missingFootnote is rendered for a reference with no matching definition.
const missingFootnote = "Missing footnote content"

// footnoteRegistry collects definitions during phase 2 and numbers
// references in first-seen order during phase 4.
type footnoteRegistry struct {
	defs    map[string]string
	order   []string
	numbers map[string]int
	refs    map[string]int // references emitted so far, per id
}

func newFootnoteRegistry() *footnoteRegistry {
	return &footnoteRegistry{
		defs:    make(map[string]string),
		numbers: make(map[string]int),
		refs:    make(map[string]int),
	}
}

// define records a definition. The first definition of an id wins.
func (f *footnoteRegistry) define(id, text string) {
	if _, ok := f.defs[id]; ok {
		return
	}
	f.defs[id] = text
}

// reference renders a superscript anchor for id, assigning the next number
// on first sight and reusing it afterwards.
func (f *footnoteRegistry) reference(id string) string {
	num, ok := f.numbers[id]
	if !ok {
		f.order = append(f.order, id)
		num = len(f.order)
		f.numbers[id] = num
	}
	f.refs[id]++

	anchor := "fnref-" + id
	if n := f.refs[id]; n > 1 {
		anchor += "-" + strconv.Itoa(n)
	}
	return `<sup class="footnote-ref"><a href="#fn-` + id + `" id="` + anchor + `">` +
		strconv.Itoa(num) + `</a></sup>`
}

// render returns the footnotes section, or "" when nothing was referenced.
// inline formats each definition's text.
func (f *footnoteRegistry) render(inline func(string) string) string {
	if len(f.order) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<section class=\"footnotes\">\n<hr>\n<ol>\n")
	for _, id := range f.order {
		text, ok := f.defs[id]
		if !ok || text == "" {
			text = missingFootnote
		} else {
			text = inline(text)
		}
		b.WriteString(`<li id="fn-` + id + `">` + text +
			` <a href="#fnref-` + id + `" class="footnote-backref">&#8617;</a></li>` + "\n")
	}
	b.WriteString("</ol>\n</section>")
	return b.String()
}
