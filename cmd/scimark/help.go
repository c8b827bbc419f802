package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// printUsage prints the command usage followed by the flag table.
func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: scimark [flags] <file.md|dir>...")
	fmt.Fprintln(w, "       scimark --stdin [flags] < in.md > out.html")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert extended Markdown (math, chemistry, footnotes, definition lists)")
	fmt.Fprintln(w, "to HTML fragments, standalone HTML documents or PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, fs.FlagUsages())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN   Chrome binary used for --pdf")
	fmt.Fprintln(w, "  ROD_NO_SANDBOX=1  Disable the Chrome sandbox (Docker/CI)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes: 0 success, 1 error, 2 usage, 3 I/O, 4 browser")
}
