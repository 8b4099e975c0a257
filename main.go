package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ardanlabs/sdl2-ffi/bindgen"
	"github.com/ardanlabs/sdl2-ffi/buildenv"
	"github.com/ardanlabs/sdl2-ffi/cli"
	"github.com/ardanlabs/sdl2-ffi/config"
	"github.com/ardanlabs/sdl2-ffi/ctxlog"
)

func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(outW io.Writer, args []string) error {
	opts, shouldExit, err := cli.Parse(args, outW, config.SystemVars())
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := ctxlog.New(opts.LogLevel, opts.LogFormat, os.Stderr)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	return generate(ctx, outW, opts, buildenv.SystemHost())
}

// generate runs both pipelines and writes nothing unless all of them
// succeed.
func generate(ctx context.Context, outW io.Writer, opts *cli.Options, host buildenv.Host) error {
	files, err := bindgen.Generate(ctx, opts.Config, host)
	if err != nil {
		return err
	}

	if opts.GLRegistry != "" {
		f, err := os.Open(opts.GLRegistry)
		if err != nil {
			return fmt.Errorf("opening registry: %w", err)
		}
		defer f.Close()

		glFiles, err := bindgen.GenerateGL(ctx, opts.Config, host, f)
		if err != nil {
			return err
		}
		for name, content := range glFiles {
			files[name] = content
		}
	}

	paths, err := bindgen.Write(opts.OutputDir, files)
	for _, p := range paths {
		fmt.Fprintf(outW, "Generated: %s\n", p)
	}
	return err
}
