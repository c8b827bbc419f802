// Package pipeline implements the extended Markdown to HTML conversion.
//
// Run applies six phases in a fixed order, each consuming the previous
// phase's output:
//   - literal extraction: fenced code, inline code, math and backslash
//     escapes are swapped for sentinel tokens and kept in side tables
//   - structural lines: headings with unique slugs, rules, tables,
//     definition lists and footnote definitions
//   - block state machine: list and blockquote nesting
//   - inline rewriting: emphasis, links, images, autolinks, footnote refs
//   - paragraph assembly
//   - restoration: tokens are resolved in reverse order, calling the
//     Highlighter and MathRenderer collaborators, which may fail without
//     failing the run
//
// The package also holds document post-processing (standalone wrapping,
// CSS and TOC injection, relative path rewriting) and the alternate
// CommonMark engine built on goldmark.
package pipeline
