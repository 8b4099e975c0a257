//go:build darwin || freebsd || linux

package glload

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// SDL is an open SDL library handle.
type SDL struct {
	handle uintptr

	getProcAddress func(name string) uintptr
}

// OpenSDL loads the SDL library at path and binds SDL_GL_GetProcAddress.
// The caller must have created a GL context through SDL before resolving
// entry points.
func OpenSDL(path string) (*SDL, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("failed to load library: %w", err)
	}

	if _, err := purego.Dlsym(handle, "SDL_GL_GetProcAddress"); err != nil {
		purego.Dlclose(handle)
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s := SDL{handle: handle}
	purego.RegisterLibFunc(&s.getProcAddress, handle, "SDL_GL_GetProcAddress")

	return &s, nil
}

// ProcAddress returns SDL_GL_GetProcAddress as a ProcAddressFunc.
func (s *SDL) ProcAddress() ProcAddressFunc {
	return s.getProcAddress
}

// Close unloads the library.
func (s *SDL) Close() error {
	return purego.Dlclose(s.handle)
}

// Dlsym adapts plain symbol lookup in an already opened library.
func Dlsym(handle uintptr) ProcAddressFunc {
	return func(name string) uintptr {
		addr, err := purego.Dlsym(handle, name)
		if err != nil {
			return 0
		}
		return addr
	}
}
