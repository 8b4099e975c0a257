package glregistry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadRegistry(t *testing.T) *Registry {
	t.Helper()

	f, err := os.Open(filepath.Join("testdata", "gl.xml"))
	require.NoError(t, err)
	defer f.Close()

	reg, err := Parse(f)
	require.NoError(t, err)
	return reg
}

func TestParse(t *testing.T) {
	reg := loadRegistry(t)

	require.Len(t, reg.Types, 11)
	assert.Equal(t, "#include <KHR/khrplatform.h>", reg.Types[0].Text)
	assert.True(t, reg.Types[10].APIEntry)
	assert.Equal(t, "GLDEBUGPROC", reg.Types[10].DeclName)

	cmd, ok := reg.Command("glGetString")
	require.True(t, ok)
	assert.Equal(t, Command{Name: "glGetString", Return: "const GLubyte *", Params: []string{"GLenum name"}}, cmd)

	cmd, ok = reg.Command("glGenVertexArrays")
	require.True(t, ok)
	assert.Equal(t, []string{"GLsizei n", "GLuint *arrays"}, cmd.Params)

	e, ok := reg.Enum("GL_COLOR_BUFFER_BIT")
	require.True(t, ok)
	assert.Equal(t, "0x00004000", e.Value)

	require.Len(t, reg.Features, 6)
	assert.Equal(t, Version{Major: 3, Minor: 2}, reg.Features[3].Version)
	assert.Equal(t, "compatibility", reg.Features[3].Requires[1].Profile)
	assert.Equal(t, []string{"glBegin", "glEnd"}, reg.Features[3].Removes[0].Commands)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not xml", "<registry>"},
		{"bad version", `<registry><feature api="gl" name="x" number="one"/></registry>`},
		{"nameless command", `<registry><commands><command><proto>void</proto></command></commands></registry>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestTypedefs(t *testing.T) {
	reg := loadRegistry(t)

	want := []string{
		"typedef unsigned int GLenum;",
		"typedef unsigned int GLbitfield;",
		"typedef khronos_float_t GLfloat;",
		"typedef int GLint;",
		"typedef int GLsizei;",
		"typedef char GLchar;",
		"typedef int... GLhandleARB;",
		"typedef struct __GLsync *GLsync;",
		"typedef void ( *GLDEBUGPROC)(GLenum source,GLenum type,const GLchar *message);",
	}
	if diff := cmp.Diff(want, reg.Typedefs("linux")); diff != "" {
		t.Errorf("Typedefs(linux) mismatch (-want +got):\n%s", diff)
	}

	windows := reg.Typedefs("windows")
	assert.NotContains(t, windows, "typedef khronos_float_t GLfloat;")
	assert.Len(t, windows, len(want)-1)
}

func TestRawTypedefs(t *testing.T) {
	reg := loadRegistry(t)

	linux := reg.RawTypedefs("linux")
	require.Len(t, linux, 10)
	assert.Equal(t, "#include <KHR/khrplatform.h>", linux[0])
	assert.NotContains(t, linux, "typedef int GLclampx;")

	windows := reg.RawTypedefs("windows")
	assert.Len(t, windows, 8)
}

func TestFunctionPointersAndEnums(t *testing.T) {
	reg := loadRegistry(t)

	ptrs := reg.FunctionPointers()
	require.Len(t, ptrs, 6)
	assert.Equal(t, "void (*glBegin)(GLenum mode);", ptrs[0])
	assert.Equal(t, "void (*glEnd)();", ptrs[1])
	assert.Equal(t, "const GLubyte * (*glGetString)(GLenum name);", ptrs[3])
	assert.Equal(t, "void (*glDrawArrays)(GLenum mode,GLint first,GLsizei count);", ptrs[4])

	defs := reg.EnumDefines()
	require.Len(t, defs, 8)
	assert.Equal(t, "#define GL_DEPTH_BUFFER_BIT 0x00000100", defs[0])
	assert.Equal(t, "#define GL_QUADS 0x0007", defs[2])
}

func TestEnumLastValueWins(t *testing.T) {
	doc := `<registry>
<enums><enum name="GL_A" value="1"/><enum name="GL_B" value="2"/></enums>
<enums><enum name="GL_A" value="3" api="gles2"/></enums>
</registry>`

	reg, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"#define GL_A 3", "#define GL_B 2"}, reg.EnumDefines())
}
