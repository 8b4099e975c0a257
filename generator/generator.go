// Package generator emits the artifacts handed to the foreign-function
// build step: the interface description, the native compilation unit and
// the build manifest.
package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ardanlabs/sdl2-ffi/buildenv"
	"github.com/ardanlabs/sdl2-ffi/collector"
)

// Generator emits the artifacts of the library binding.
type Generator struct {
	module    string
	env       buildenv.Environment
	umbrellas []string
	result    collector.Result
}

// New creates a Generator for the collected declarations of one library.
func New(module string, env buildenv.Environment, umbrellas []string, result collector.Result) *Generator {
	return &Generator{
		module:    module,
		env:       env,
		umbrellas: umbrellas,
		result:    result,
	}
}

// Manifest is the build manifest: everything the foreign-function build
// step needs besides the two source artifacts.
type Manifest struct {
	Module      string   `json:"module"`
	Cdef        string   `json:"cdef"`
	Source      string   `json:"source"`
	IncludeDirs []string `json:"include_dirs"`
	Libraries   []string `json:"libraries"`
	LibraryDirs []string `json:"library_dirs"`
	CompileArgs []string `json:"extra_compile_args"`
	LinkArgs    []string `json:"extra_link_args"`
}

// CdefName returns the interface description file name of module.
func CdefName(module string) string { return module + "_cdef.h" }

// SourceName returns the native compilation unit file name of module.
func SourceName(module string) string { return module + ".c" }

// ManifestName returns the build manifest file name of module.
func ManifestName(module string) string { return module + "_build.json" }

// Generate returns the artifacts keyed by file name.
func (g *Generator) Generate() (map[string]string, error) {
	files := make(map[string]string)

	files[CdefName(g.module)] = g.generateCdef()
	files[SourceName(g.module)] = g.generateSource()

	manifest, err := g.generateManifest()
	if err != nil {
		return nil, fmt.Errorf("generating manifest: %w", err)
	}
	files[ManifestName(g.module)] = manifest

	return files, nil
}

func (g *Generator) generateCdef() string {
	lines := make([]string, 0, len(g.result.Macros)+len(g.result.Types)+len(g.result.Functions))
	for _, m := range g.result.Macros {
		lines = append(lines, m.String())
	}
	lines = append(lines, g.result.Types...)
	lines = append(lines, g.result.Functions...)

	return joinLines(lines)
}

func (g *Generator) generateSource() string {
	var b strings.Builder
	for _, h := range g.umbrellas {
		fmt.Fprintf(&b, "#include \"%s\"\n", h)
	}
	return b.String()
}

func (g *Generator) generateManifest() (string, error) {
	m := Manifest{
		Module:      g.module,
		Cdef:        CdefName(g.module),
		Source:      SourceName(g.module),
		IncludeDirs: nonNil(g.env.IncludeDirs),
		Libraries:   nonNil(g.env.Libraries),
		LibraryDirs: nonNil(g.env.LibraryDirs),
		CompileArgs: nonNil(g.env.CFlags),
		LinkArgs:    nonNil(g.env.LDFlags),
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
