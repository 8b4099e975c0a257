// Package hosttest provides a scripted buildenv.Host for tests.
package hosttest

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Result is the scripted outcome of one command line.
type Result struct {
	Out []byte
	Err error
}

// Fake is a Host whose environment, PATH and child processes are fixed
// up front. Commands are keyed by their full command line, e.g.
// "sdl2-config --cflags".
type Fake struct {
	OS       string
	Width    int
	Env      map[string]string
	Path     map[string]string
	Commands map[string]Result

	// Calls records every command line passed to Output.
	Calls []string
}

func (f *Fake) GOOS() string {
	if f.OS == "" {
		return "linux"
	}
	return f.OS
}

func (f *Fake) PointerWidth() int {
	if f.Width == 0 {
		return 64
	}
	return f.Width
}

func (f *Fake) LookupEnv(key string) (string, bool) {
	v, ok := f.Env[key]
	return v, ok
}

func (f *Fake) LookPath(file string) (string, error) {
	if p, ok := f.Path[file]; ok {
		return p, nil
	}
	return "", errors.New("executable file not found in $PATH")
}

func (f *Fake) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	line := strings.Join(append([]string{name}, args...), " ")
	f.Calls = append(f.Calls, line)

	r, ok := f.Commands[line]
	if !ok {
		return nil, fmt.Errorf("unexpected command %q", line)
	}
	return r.Out, r.Err
}
