package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardanlabs/sdl2-ffi/buildenv/hosttest"
	"github.com/ardanlabs/sdl2-ffi/cli"
	"github.com/ardanlabs/sdl2-ffi/config"
	"github.com/ardanlabs/sdl2-ffi/preprocess"
)

func TestRunHelp(t *testing.T) {
	out := &bytes.Buffer{}

	err := run(out, []string{"-h"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usage:")
}

func TestRunInvalidFlag(t *testing.T) {
	err := run(&bytes.Buffer{}, []string{"-log-level", "trace"})
	require.Error(t, err)

	exitErr, ok := err.(*cli.ExitError)
	require.True(t, ok)
	assert.Equal(t, 2, exitErr.Code)
}

func testOptions(t *testing.T) (*cli.Options, *hosttest.Fake) {
	t.Helper()

	cfg := config.Default()
	cfg.Library.Headers = []string{"SDL_stdinc.h", "SDL_video.h", "SDL.h"}
	cfg.GL.Targets = []config.Target{{API: "gl", Version: "3.3", Profile: "core"}}

	root, err := filepath.Abs(filepath.Join("testdata", "include", "SDL2"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join("testdata", "SDL.i"))
	require.NoError(t, err)

	pp := preprocess.Options{
		CPP:         "/usr/bin/cpp",
		IncludeRoot: root,
		Defines:     cfg.Preprocessor.Defines,
		Undefines:   cfg.Preprocessor.Undefines,
	}
	cppLine := strings.Join(append([]string{pp.CPP}, pp.Args("SDL.h")...), " ")

	host := &hosttest.Fake{
		Path: map[string]string{
			"sdl2-config": "/usr/bin/sdl2-config",
			"cpp":         "/usr/bin/cpp",
		},
		Commands: map[string]hosttest.Result{
			"/usr/bin/sdl2-config --cflags": {Out: []byte("-I" + root)},
			"/usr/bin/sdl2-config --libs":   {Out: []byte("-lSDL2")},
			cppLine:                         {Out: []byte(strings.ReplaceAll(string(data), "@ROOT@", root))},
		},
	}

	opts := &cli.Options{
		Config:     cfg,
		OutputDir:  t.TempDir(),
		GLRegistry: filepath.Join("glregistry", "testdata", "gl.xml"),
	}
	return opts, host
}

func TestGenerate(t *testing.T) {
	opts, host := testOptions(t)
	out := &bytes.Buffer{}

	require.NoError(t, generate(context.Background(), out, opts, host))

	for _, name := range []string{"_sdl2_cdef.h", "_sdl2.c", "_sdl2_build.json", "_gl_cdef.h", "_gl.c", filepath.Join("gl", "procs.go")} {
		path := filepath.Join(opts.OutputDir, name)
		assert.FileExists(t, path)
		assert.Contains(t, out.String(), "Generated: "+path)
	}
}

func TestGenerateWritesNothingOnFailure(t *testing.T) {
	opts, host := testOptions(t)
	opts.GLRegistry = filepath.Join("testdata", "missing.xml")

	err := generate(context.Background(), &bytes.Buffer{}, opts, host)
	require.Error(t, err)

	entries, err := os.ReadDir(opts.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
