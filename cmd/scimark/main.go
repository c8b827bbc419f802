// Command scimark converts extended Markdown to HTML or PDF.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(realMain(os.Args[1:]))
}

// realMain runs the CLI and returns the process exit code.
func realMain(args []string) int {
	// Parse flags first to configure logging
	flags, positional, err := parseFlags(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(os.Stderr, err)
		return ExitUsage
	}

	logger := newLogger(os.Stderr, flags.common.quiet, flags.common.verbose)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debug().Msgf(format, args...)
	}))

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := execute(ctx, flags, positional, DefaultEnv(logger)); err != nil {
		fmt.Fprintln(os.Stderr, err.Error()+hintFor(err, flags.common.config))
		return exitCodeFor(err)
	}
	return ExitSuccess
}
