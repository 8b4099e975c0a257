package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ardanlabs/sdl2-ffi/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Options is everything a generation run needs from the command line.
type Options struct {
	Config    config.Config
	OutputDir string

	// GLRegistry is the path of the OpenGL XML registry, taken from the
	// flag or else the configuration. The GL pipeline only runs when it is
	// set.
	GLRegistry string

	LogLevel  string
	LogFormat string
}

// Parse processes command-line arguments. It returns the run options, a
// boolean indicating if the program should exit cleanly, or an ExitError.
// vars are the values an HCL configuration file can refer to.
func Parse(args []string, output io.Writer, vars config.Vars) (*Options, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("sdl2-ffi", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
sdl2-ffi - Generates foreign-function bindings for SDL2 and OpenGL.

Usage:
  sdl2-ffi [options]

Without -config the built-in SDL2 configuration is used. The OpenGL
artifacts are generated only when -gl-registry or the registry attribute
of the configuration gl block names a gl.xml file.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to an HCL configuration file.")
	outputFlag := flagSet.String("output", ".", "Output directory for generated files.")
	registryFlag := flagSet.String("gl-registry", "", "Path to the OpenGL XML registry.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected argument %q", flagSet.Arg(0))}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *outputFlag == "" {
		return nil, false, &ExitError{Code: 2, Message: "invalid output: directory cannot be empty"}
	}

	cfg := config.Default()
	if *configFlag != "" {
		loaded, err := config.Load(*configFlag, vars)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		cfg = loaded
	}
	slog.Debug("CLI parameter validation complete.")

	registry := *registryFlag
	if registry == "" {
		registry = cfg.GL.Registry
	}

	return &Options{
		Config:     cfg,
		OutputDir:  *outputFlag,
		GLRegistry: registry,
		LogLevel:   logLevel,
		LogFormat:  logFormat,
	}, false, nil
}
