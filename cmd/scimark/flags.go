package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags that control the CLI itself.
type commonFlags struct {
	config      string
	quiet       bool
	verbose     bool
	version     bool
	printConfig bool
}

// renderFlags holds Markdown rendering switches.
type renderFlags struct {
	noMath         bool
	noChemistry    bool
	noHighlight    bool
	typography     bool
	engine         string
	highlightStyle string
}

// documentFlags holds standalone document flags.
type documentFlags struct {
	standalone bool
	title      string
	style      string
	css        string
	assetPath  string
}

// tocFlags holds table of contents flags.
type tocFlags struct {
	enabled  bool
	title    string
	minDepth int
	maxDepth int
}

// pdfFlags holds PDF export flags.
type pdfFlags struct {
	enabled     bool
	size        string
	orientation string
	margin      float64
	timeout     string
}

// cliFlags holds every flag of the scimark command.
type cliFlags struct {
	common   commonFlags
	output   string
	workers  int
	stdin    bool
	render   renderFlags
	document documentFlags
	toc      tocFlags
	pdf      pdfFlags

	// changed reports whether a flag was set on the command line.
	changed func(name string) bool
}

// addCommonFlags adds CLI behaviour flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
	fs.BoolVar(&f.version, "version", false, "print version and exit")
	fs.BoolVar(&f.printConfig, "print-config", false, "print the merged configuration as YAML and exit")
}

// addRenderFlags adds rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.BoolVar(&f.noMath, "no-math", false, "leave $...$ and $$...$$ as placeholders")
	fs.BoolVar(&f.noChemistry, "no-chemistry", false, "render math without trusted chemistry commands")
	fs.BoolVar(&f.noHighlight, "no-highlight", false, "disable syntax highlighting")
	fs.BoolVar(&f.typography, "typography", false, "smart quotes, dashes and ellipses")
	fs.StringVar(&f.engine, "engine", "", "markdown engine: extended, commonmark")
	fs.StringVar(&f.highlightStyle, "highlight-style", "", "chroma style for code blocks (default: github)")
}

// addDocumentFlags adds standalone document flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.BoolVar(&f.standalone, "standalone", false, "write a complete HTML document")
	fs.StringVar(&f.title, "title", "", "document title (\"\" = auto from H1)")
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.css, "css", "", "extra CSS file appended after the style")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom style directory")
}

// addTOCFlags adds TOC flags to a FlagSet.
func addTOCFlags(fs *flag.FlagSet, f *tocFlags) {
	fs.BoolVar(&f.enabled, "toc", false, "insert a table of contents")
	fs.StringVar(&f.title, "toc-title", "", "table of contents heading")
	fs.IntVar(&f.minDepth, "toc-min-depth", 0, "min heading depth for TOC (1-6, default: 1)")
	fs.IntVar(&f.maxDepth, "toc-max-depth", 0, "max heading depth for TOC (1-6, default: 3)")
}

// addPDFFlags adds PDF export flags to a FlagSet.
func addPDFFlags(fs *flag.FlagSet, f *pdfFlags) {
	fs.BoolVar(&f.enabled, "pdf", false, "write PDF instead of HTML (needs Chrome)")
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout (e.g., 30s, 2m)")
}

// parseFlags parses command-line arguments (without the program name) and
// returns positional args.
func parseFlags(args []string, usageOut io.Writer) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("scimark", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &cliFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.stdin, "stdin", false, "read markdown from stdin, write to stdout")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addDocumentFlags(fs, &f.document)
	addTOCFlags(fs, &f.toc)
	addPDFFlags(fs, &f.pdf)

	fs.Usage = func() { printUsage(usageOut, fs) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	f.changed = fs.Changed
	return f, fs.Args(), nil
}
