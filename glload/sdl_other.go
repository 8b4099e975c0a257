//go:build !(darwin || freebsd || linux)

package glload

import (
	"errors"
	"runtime"
)

// ErrUnsupported is returned where runtime loading is not implemented.
var ErrUnsupported = errors.New("runtime loading is not supported on " + runtime.GOOS)

// SDL is an open SDL library handle.
type SDL struct{}

// OpenSDL is not supported on this platform.
func OpenSDL(path string) (*SDL, error) {
	return nil, ErrUnsupported
}

// ProcAddress returns a function resolving nothing.
func (s *SDL) ProcAddress() ProcAddressFunc {
	return func(string) uintptr { return 0 }
}

// Close does nothing.
func (s *SDL) Close() error { return nil }

// Dlsym returns a function resolving nothing.
func Dlsym(handle uintptr) ProcAddressFunc {
	return func(string) uintptr { return 0 }
}
