// Package buildenv locates the native library's headers and the flags
// needed to compile and link against it.
package buildenv

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ardanlabs/sdl2-ffi/config"
	"github.com/ardanlabs/sdl2-ffi/ctxlog"
)

// ErrConfig is matched by every error that means the build environment
// could not be determined.
var ErrConfig = errors.New("build environment not configured")

// ConfigError describes why the build environment could not be resolved.
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrConfig, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrConfig, e.Msg)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

func (e *ConfigError) Unwrap() error { return e.Err }

// Environment is everything the later phases need to find the headers and
// build against the library.
type Environment struct {
	// IncludeRoot is the directory holding the library's own headers.
	IncludeRoot string

	IncludeDirs []string
	Libraries   []string
	LibraryDirs []string
	CFlags      []string
	LDFlags     []string
}

// Resolve determines the build environment. The library's config tool is
// used when it is on PATH, otherwise the SDK environment variable must
// name an SDK root.
func Resolve(ctx context.Context, lib config.Library, host Host) (Environment, error) {
	log := ctxlog.FromContext(ctx)

	if lib.ConfigTool != "" {
		if tool, err := host.LookPath(lib.ConfigTool); err == nil {
			log.Debug("Resolving build environment from config tool.", "tool", tool)
			return fromConfigTool(ctx, lib, host, tool)
		}
	}

	if lib.SDKEnv != "" {
		if root, ok := host.LookupEnv(lib.SDKEnv); ok && root != "" {
			log.Debug("Resolving build environment from SDK root.", "env", lib.SDKEnv, "root", root)
			return fromSDK(lib, host, root)
		}
	}

	return Environment{}, &ConfigError{
		Msg: fmt.Sprintf("%s is not on PATH and %s is not set", lib.ConfigTool, lib.SDKEnv),
	}
}

func fromConfigTool(ctx context.Context, lib config.Library, host Host, tool string) (Environment, error) {
	pattern, err := regexp.Compile(lib.IncludePattern)
	if err != nil {
		return Environment{}, &ConfigError{Msg: "invalid include pattern", Err: err}
	}

	cflags, err := runTool(ctx, host, tool, "--cflags")
	if err != nil {
		return Environment{}, err
	}
	libs, err := runTool(ctx, host, tool, "--libs")
	if err != nil {
		return Environment{}, err
	}

	m := pattern.FindStringSubmatch(cflags)
	if m == nil || len(m) < 3 || m[2] == "" {
		return Environment{}, &ConfigError{
			Msg: fmt.Sprintf("no include directory matching %q in %q", lib.IncludePattern, cflags),
		}
	}

	env := Environment{
		IncludeRoot: m[2],
		CFlags:      strings.Fields(cflags),
		LDFlags:     strings.Fields(libs),
	}
	for _, c := range lib.Companions {
		env.LDFlags = append(env.LDFlags, "-l"+c)
	}

	return env, nil
}

func runTool(ctx context.Context, host Host, tool string, arg string) (string, error) {
	out, err := host.Output(ctx, tool, arg)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			err = fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", &ConfigError{Msg: fmt.Sprintf("%s %s failed", tool, arg), Err: err}
	}
	return strings.TrimSpace(string(out)), nil
}

func fromSDK(lib config.Library, host Host, root string) (Environment, error) {
	include, err := filepath.Abs(filepath.Join(root, "include"))
	if err != nil {
		return Environment{}, &ConfigError{Msg: "invalid SDK root", Err: err}
	}

	arch := "x86"
	if host.PointerWidth() == 64 {
		arch = "x64"
	}

	return Environment{
		IncludeRoot: include,
		IncludeDirs: []string{include},
		Libraries:   append([]string{lib.Name}, lib.Companions...),
		LibraryDirs: []string{filepath.Join(root, "lib", arch)},
	}, nil
}
