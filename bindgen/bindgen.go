// Package bindgen runs the generation pipelines end to end: the library
// binding from its headers and the OpenGL binding from the XML registry.
package bindgen

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/ardanlabs/sdl2-ffi/buildenv"
	"github.com/ardanlabs/sdl2-ffi/collector"
	"github.com/ardanlabs/sdl2-ffi/config"
	"github.com/ardanlabs/sdl2-ffi/ctxlog"
	"github.com/ardanlabs/sdl2-ffi/generator"
	"github.com/ardanlabs/sdl2-ffi/glregistry"
	"github.com/ardanlabs/sdl2-ffi/preprocess"
)

// Generate builds the library binding artifacts, keyed by file name.
// Nothing is returned unless every phase succeeds.
func Generate(ctx context.Context, cfg config.Config, host buildenv.Host) (map[string]string, error) {
	log := ctxlog.FromContext(ctx)

	env, err := buildenv.Resolve(ctx, cfg.Library, host)
	if err != nil {
		return nil, fmt.Errorf("resolving build environment: %w", err)
	}
	log.Info("Resolved build environment.", "include_root", env.IncludeRoot)

	cpp, err := preprocess.ResolveCPP(cfg.Preprocessor, host)
	if err != nil {
		return nil, err
	}

	opts := preprocess.Options{
		CPP:         cpp,
		IncludeRoot: env.IncludeRoot,
		IncludeDirs: env.IncludeDirs,
		Defines:     cfg.Preprocessor.Defines,
		Undefines:   cfg.Preprocessor.Undefines,
	}

	files, err := preprocess.Parse(ctx, host, opts, cfg.Library.Umbrellas)
	if err != nil {
		return nil, err
	}

	c := collector.New(collector.Options{
		IncludeRoot: env.IncludeRoot,
		Functions:   cfg.Exclude.Functions,
		Typedefs:    cfg.Exclude.Typedefs,
		Defines:     cfg.Exclude.Defines,
	})
	for _, f := range files {
		c.Visit(f)
	}

	for _, h := range cfg.Library.Headers {
		data, err := os.ReadFile(opts.HeaderPath(h))
		if err != nil {
			return nil, fmt.Errorf("reading header %s: %w", h, err)
		}
		c.ScanMacros(h, string(data))
	}

	result := c.Result()
	log.Info("Processing declarations.",
		"defines", len(result.Macros),
		"types", len(result.Types),
		"functions", len(result.Functions),
	)

	out, err := generator.New(cfg.Module, env, cfg.Library.Umbrellas, result).Generate()
	if err != nil {
		return nil, fmt.Errorf("generating code: %w", err)
	}

	return out, nil
}

// GenerateGL builds the OpenGL artifacts from the registry read from r:
// the interface description, the native unit and the Go proc table, which
// is keyed below the configured Go package directory.
func GenerateGL(ctx context.Context, cfg config.Config, host buildenv.Host, r io.Reader) (map[string]string, error) {
	log := ctxlog.FromContext(ctx)

	reg, err := glregistry.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing registry: %w", err)
	}

	cat, err := glregistry.Resolve(reg)
	if err != nil {
		return nil, fmt.Errorf("resolving registry: %w", err)
	}

	for _, api := range cat.APIs() {
		log.Debug("Resolved API.", "api", api, "versions", len(cat.Versions(api)))
	}

	out, err := generator.NewGL(cfg.GL.Module, host.GOOS(), reg).Generate()
	if err != nil {
		return nil, fmt.Errorf("generating code: %w", err)
	}

	if len(cfg.GL.Targets) > 0 {
		src, err := generator.GLProcTable(cfg.GL.Package, cat, reg, cfg.GL.Targets)
		if err != nil {
			return nil, fmt.Errorf("generating proc table: %w", err)
		}
		out[filepath.Join(cfg.GL.Package, generator.ProcTableName)] = src
	}

	log.Info("Processing registry.",
		"commands", len(reg.Commands),
		"enums", len(reg.Enums),
		"targets", len(cfg.GL.Targets),
	)

	return out, nil
}

// Write stores files below dir in name order and returns the written
// paths.
func Write(dir string, files map[string]string) ([]string, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return paths, fmt.Errorf("creating output directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(files[name]), 0644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", name, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}
