package buildenv

import (
	"context"
	"os"
	"runtime"
	"strconv"

	"golang.org/x/sys/execabs"
)

// Host is the part of the operating system the generator depends on.
type Host interface {
	GOOS() string
	PointerWidth() int
	LookupEnv(key string) (string, bool)
	LookPath(file string) (string, error)

	// Output runs a child process to completion and returns its standard
	// output.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

type systemHost struct{}

// SystemHost returns the Host of the running process.
func SystemHost() Host {
	return systemHost{}
}

func (systemHost) GOOS() string { return runtime.GOOS }

func (systemHost) PointerWidth() int { return strconv.IntSize }

func (systemHost) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }

func (systemHost) LookPath(file string) (string, error) { return execabs.LookPath(file) }

func (systemHost) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return execabs.CommandContext(ctx, name, args...).Output()
}
