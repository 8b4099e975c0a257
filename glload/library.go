package glload

import (
	"fmt"
	"path/filepath"
)

// LibraryFile returns the platform file name of a shared library, e.g.
// libSDL2.so on linux and SDL2.dll on windows.
func LibraryFile(goos, name string) string {
	switch goos {
	case "linux", "freebsd":
		return fmt.Sprintf("lib%s.so", name)
	case "darwin":
		return fmt.Sprintf("lib%s.dylib", name)
	case "windows":
		return fmt.Sprintf("%s.dll", name)
	default:
		return fmt.Sprintf("lib%s.so", name)
	}
}

// LibraryPath joins dir and the platform file name of name. An empty dir
// leaves the search to the dynamic loader.
func LibraryPath(dir, goos, name string) string {
	if dir == "" {
		return LibraryFile(goos, name)
	}
	return filepath.Join(dir, LibraryFile(goos, name))
}
