package glload

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardanlabs/sdl2-ffi/config"
	"github.com/ardanlabs/sdl2-ffi/ctxlog"
	"github.com/ardanlabs/sdl2-ffi/glregistry"
)

const registryDoc = `<registry>
<enums>
  <enum value="0x00004000" name="GL_COLOR_BUFFER_BIT"/>
  <enum value="0x0004" name="GL_TRIANGLES"/>
</enums>
<commands>
  <command><proto>void <name>glClear</name></proto><param><ptype>GLbitfield</ptype> <name>mask</name></param></command>
  <command><proto>void <name>glDrawArrays</name></proto><param><ptype>GLenum</ptype> <name>mode</name></param></command>
  <command><proto>void <name>glFlush</name></proto></command>
</commands>
<feature api="gl" name="GL_VERSION_1_0" number="1.0">
  <require>
    <enum name="GL_COLOR_BUFFER_BIT"/><enum name="GL_TRIANGLES"/>
    <command name="glClear"/><command name="glDrawArrays"/><command name="glFlush"/>
  </require>
</feature>
</registry>`

func catalog(t *testing.T) (*glregistry.Catalog, *glregistry.Registry) {
	t.Helper()

	reg, err := glregistry.Parse(strings.NewReader(registryDoc))
	require.NoError(t, err)

	cat, err := glregistry.Resolve(reg)
	require.NoError(t, err)
	return cat, reg
}

func TestLoad(t *testing.T) {
	cat, reg := catalog(t)

	var logs bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), ctxlog.New("info", "text", &logs))

	addrs := map[string]uintptr{"glClear": 0x1000, "glFlush": 0x2000}
	lookup := func(name string) uintptr { return addrs[name] }

	target := config.Target{API: "gl", Version: "1.0", Profile: "compatibility"}
	tbl, err := Load(ctx, cat, reg, target, lookup)
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.Len())
	addr, ok := tbl.Proc("glClear")
	assert.True(t, ok)
	assert.Equal(t, uintptr(0x1000), addr)

	_, ok = tbl.Proc("glDrawArrays")
	assert.False(t, ok)
	assert.Equal(t, []string{"glDrawArrays"}, tbl.Missing())

	v, ok := tbl.Enum("GL_TRIANGLES")
	assert.True(t, ok)
	assert.Equal(t, "0x0004", v)

	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "symbol=glDrawArrays")
}

func TestLoadUnknownTarget(t *testing.T) {
	cat, reg := catalog(t)

	called := false
	lookup := func(string) uintptr { called = true; return 1 }

	_, err := Load(context.Background(), cat, reg, config.Target{API: "gl", Version: "1.0", Profile: "core"}, lookup)
	assert.Error(t, err)
	assert.False(t, called)
}

func TestLibraryFile(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"linux", "libSDL2.so"},
		{"freebsd", "libSDL2.so"},
		{"darwin", "libSDL2.dylib"},
		{"windows", "SDL2.dll"},
		{"plan9", "libSDL2.so"},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			assert.Equal(t, tt.want, LibraryFile(tt.goos, "SDL2"))
		})
	}

	assert.Equal(t, filepath.Join("/opt/sdl", "libSDL2.dylib"), LibraryPath("/opt/sdl", "darwin", "SDL2"))
	assert.Equal(t, "SDL2.dll", LibraryPath("", "windows", "SDL2"))
}

func TestOpenSDLMissingLibrary(t *testing.T) {
	_, err := OpenSDL(filepath.Join(t.TempDir(), "libSDL2.so"))
	assert.Error(t, err)
}
