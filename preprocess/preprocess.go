// Package preprocess runs the C preprocessor over umbrella headers and
// hands the output to the declaration parser.
package preprocess

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/sdl2-ffi/buildenv"
	"github.com/ardanlabs/sdl2-ffi/config"
	"github.com/ardanlabs/sdl2-ffi/ctxlog"
	"github.com/ardanlabs/sdl2-ffi/parser"
)

// ErrPreprocess is matched by every preprocessing or parse failure.
var ErrPreprocess = errors.New("preprocessing failed")

// Error reports a failure for one umbrella header.
type Error struct {
	Header string
	Err    error
}

func (e *Error) Error() string {
	if e.Header == "" {
		return fmt.Sprintf("preprocess: %v", e.Err)
	}
	return fmt.Sprintf("preprocess %s: %v", e.Header, e.Err)
}

func (e *Error) Is(target error) bool { return target == ErrPreprocess }

func (e *Error) Unwrap() error { return e.Err }

// Options configures one preprocessor invocation.
type Options struct {
	// CPP is the preprocessor executable.
	CPP string

	IncludeRoot string
	IncludeDirs []string

	// Defines are passed as -D<def>, Undefines as -U<name>.
	Defines   []string
	Undefines []string
}

// Args returns the preprocessor arguments for header, which is resolved
// against the include root.
func (o Options) Args(header string) []string {
	args := make([]string, 0, 2+len(o.IncludeDirs)+len(o.Defines)+len(o.Undefines))

	seen := make(map[string]struct{})
	for _, dir := range append([]string{o.IncludeRoot}, o.IncludeDirs...) {
		if dir == "" {
			continue
		}
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		args = append(args, "-I"+dir)
	}

	for _, d := range o.Defines {
		args = append(args, "-D"+d)
	}
	for _, u := range o.Undefines {
		args = append(args, "-U"+u)
	}

	return append(args, o.HeaderPath(header))
}

// HeaderPath returns the location of header below the include root.
func (o Options) HeaderPath(header string) string {
	return filepath.Join(o.IncludeRoot, header)
}

// ResolveCPP returns the preprocessor executable for the host. Windows
// hosts use the MinGW layout below the configured root; everywhere else
// the executable must be on PATH.
func ResolveCPP(pp config.Preprocessor, host buildenv.Host) (string, error) {
	if host.GOOS() == "windows" {
		root := pp.DefaultRoot
		if v, ok := host.LookupEnv(pp.RootEnv); ok && v != "" {
			root = v
		}
		return strings.TrimRight(root, `\/`) + `\bin\cpp.exe`, nil
	}

	path, err := host.LookPath(pp.Executable)
	if err != nil {
		return "", &Error{Err: fmt.Errorf("locate %s: %w", pp.Executable, err)}
	}
	return path, nil
}

// Run preprocesses one header and returns the output text.
func Run(ctx context.Context, host buildenv.Host, opts Options, header string) (string, error) {
	args := opts.Args(header)
	ctxlog.FromContext(ctx).Debug("Running preprocessor.", "cpp", opts.CPP, "args", args)

	out, err := host.Output(ctx, opts.CPP, args...)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			err = fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", &Error{Header: header, Err: err}
	}

	return string(out), nil
}

// Parse preprocesses and parses each header in order. It fails on the
// first header that does not preprocess or parse.
func Parse(ctx context.Context, host buildenv.Host, opts Options, headers []string) ([]*parser.File, error) {
	log := ctxlog.FromContext(ctx)

	files := make([]*parser.File, 0, len(headers))
	for _, h := range headers {
		src, err := Run(ctx, host, opts, h)
		if err != nil {
			return nil, err
		}

		f, err := parser.Parse(src)
		if err != nil {
			return nil, &Error{Header: h, Err: err}
		}

		log.Debug("Parsed umbrella header.", "header", h, "declarations", len(f.Decls))
		files = append(files, f)
	}

	return files, nil
}
