package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	scimark "github.com/alnah/go-scimark"
	"github.com/alnah/go-scimark/internal/config"
	"github.com/alnah/go-scimark/internal/yamlutil"
)

// run parses args (without the program name) and executes the command.
func run(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return execute(ctx, flags, positional, env)
}

// execute runs a parsed command line.
func execute(ctx context.Context, flags *cliFlags, positional []string, env *Environment) error {
	if flags.common.version {
		fmt.Fprintf(env.Stdout, "scimark %s\n", Version)
		return nil
	}

	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Merge CLI flags into config (CLI wins)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if flags.common.printConfig {
		out, err := yamlutil.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = env.Stdout.Write(out)
		return err
	}

	opts, err := buildOptions(cfg, env.Logger)
	if err != nil {
		return err
	}
	params, err := buildParams(cfg)
	if err != nil {
		return err
	}

	if flags.stdin {
		return runStdin(ctx, opts, params, env)
	}

	if len(positional) == 0 {
		return ErrNoInput
	}

	output := flags.output
	if output == "" {
		output = cfg.Output.DefaultDir
	}

	files, err := discoverFiles(positional, output, outputExtension(params.pdf))
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, strings.Join(positional, ", "))
	}

	size := min(scimark.ResolvePoolSize(flags.workers), len(files))
	env.Logger.Debug().Int("files", len(files)).Int("workers", size).Msg("starting conversion")

	pool, err := env.NewPool(size, opts...)
	if err != nil {
		return err
	}
	defer closePool(pool, env)

	results := convertBatch(ctx, pool, files, params)
	if failed := printResults(results, flags.common.quiet, flags.common.verbose, env); failed > 0 {
		return fmt.Errorf("%d conversion(s) failed: %w", failed, firstError(results))
	}
	return nil
}

// runStdin converts standard input and writes the document to stdout.
func runStdin(ctx context.Context, opts []scimark.Option, params *conversionParams, env *Environment) error {
	content, err := io.ReadAll(env.Stdin)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}

	pool, err := env.NewPool(1, opts...)
	if err != nil {
		return err
	}
	defer closePool(pool, env)

	conv, err := pool.Acquire()
	if err != nil {
		return err
	}
	defer pool.Release(conv)

	sourceDir, _ := os.Getwd()
	markdown := string(content)
	res, err := conv.Convert(ctx, scimark.Input{
		Markdown:   markdown,
		SourceDir:  sourceDir,
		Standalone: params.standalone,
		Title:      resolveTitle(params.title, markdown, ""),
		CSS:        params.css,
		TOC:        params.toc,
		PDF:        params.pdf,
		Page:       params.page,
	})
	if err != nil {
		return err
	}

	data := res.HTML
	if params.pdf {
		data = res.PDF
	}
	if _, err := env.Stdout.Write(data); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// loadConfig loads the named config, or the defaults when name is empty.
func loadConfig(name string) (*config.Config, error) {
	if name == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(name)
}

func closePool(pool Pool, env *Environment) {
	if err := pool.Close(); err != nil {
		env.Logger.Debug().Err(err).Msg("closing converter pool")
	}
}
