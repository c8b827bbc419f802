// Package scimark converts extended Markdown to HTML, with TeX math,
// chemistry notation and syntax-highlighted code, and optionally to PDF.
//
// # Quick Start
//
// Parse renders a fragment and never fails:
//
//	html := scimark.Parse("The area is $\\pi r^2$.")
//
// A Converter adds standalone documents, stylesheets, a table of contents
// and PDF export:
//
//	conv, err := scimark.NewConverter(scimark.WithTimeout(time.Minute))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, scimark.Input{
//	    Markdown:   content,
//	    Standalone: true,
//	    TOC:        &scimark.TOC{Title: "Contents"},
//	})
//
// # Syntax
//
// Beyond CommonMark headings, lists, blockquotes, emphasis, links and images,
// the extended engine supports:
//
//   - inline math $...$ and display math $$...$$, typeset with KaTeX
//   - chemistry with \ce{...} and \pu{...} when chemistry is enabled
//   - fenced code with a language tag, highlighted with chroma
//   - GFM tables with column alignment
//   - footnotes [^id] with a trailing footnote section
//   - definition lists (Term, then ": definition")
//   - task lists "- [ ]" and "- [x]"
//   - ordered lists with a., A., i. markers, and emoji bullet lists
//   - :shortcode: emoji and ==highlighted== text
//
// Every heading gets a unique slug id usable as an anchor.
//
// # Collaborators
//
// Math and code rendering go through the MathRenderer and Highlighter
// interfaces. A failing collaborator never fails the conversion: formulas
// fall back to an escaped error span and code to an escaped block.
//
// # Concurrency
//
// Parse and Converter.Parse are safe for concurrent use. Convert may be
// called concurrently, but a Converter owns at most one browser; use
// ConverterPool for parallel PDF export.
//
// # PDF
//
// PDF export drives headless Chrome through go-rod. Rod downloads Chromium
// on first use unless ROD_BROWSER_BIN points at an installed browser.
package scimark
