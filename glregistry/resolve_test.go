package glregistry

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolve(t *testing.T, doc string) *Catalog {
	t.Helper()

	reg, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	cat, err := Resolve(reg)
	require.NoError(t, err)
	return cat
}

func TestResolveCoreDerivation(t *testing.T) {
	cat := resolve(t, `<registry>
<feature api="gl" name="v1" number="1.0">
  <require><command name="A"/><command name="C"/></require>
</feature>
<feature api="gl" name="v2" number="2.0">
  <require><command name="A"/><command name="B"/></require>
  <remove><command name="A"/></remove>
</feature>
</registry>`)

	core, err := cat.Lookup("gl", "2.0", "core")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, core.Functions)

	compat, err := cat.Lookup("gl", "2.0", "compatibility")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, compat.Functions)

	_, err = cat.Lookup("gl", "1.0", "core")
	assert.ErrorContains(t, err, "has no core profile")
}

func TestResolveRemoveAbsent(t *testing.T) {
	reg, err := Parse(strings.NewReader(`<registry>
<feature api="gl" name="v1" number="1.0">
  <require><enum name="GL_A"/></require>
</feature>
<feature api="gl" name="v2" number="2.0">
  <remove><enum name="GL_Z"/></remove>
</feature>
</registry>`))
	require.NoError(t, err)

	_, err = Resolve(reg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConsistency)

	var cerr *ConsistencyError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ConsistencyError{API: "gl", Version: Version{2, 0}, Kind: "enum", Name: "GL_Z"}, *cerr)
}

func TestResolveFirstFeatureRemoves(t *testing.T) {
	reg, err := Parse(strings.NewReader(`<registry>
<feature api="gl" name="v1" number="1.0">
  <require><command name="A"/></require>
  <remove><command name="A"/></remove>
</feature>
</registry>`))
	require.NoError(t, err)

	cat, err := Resolve(reg)
	require.NoError(t, err)

	core, err := cat.Lookup("gl", "1.0", "core")
	require.NoError(t, err)
	assert.Empty(t, core.Functions)
}

func TestResolveRegistry(t *testing.T) {
	cat, err := Resolve(loadRegistry(t))
	require.NoError(t, err)

	tests := []struct {
		api, version, profile string
		want                  Symbols
	}{
		{
			api: "gl", version: "1.1", profile: "compatibility",
			want: Symbols{
				Functions: []string{"glBegin", "glClear", "glDrawArrays", "glEnd", "glGetString"},
				Enums:     []string{"GL_COLOR_BUFFER_BIT", "GL_DEPTH_BUFFER_BIT", "GL_QUADS", "GL_TRIANGLES", "GL_VERSION"},
			},
		},
		{
			api: "gl", version: "3.2", profile: "core",
			want: Symbols{
				Functions: []string{"glClear", "glDrawArrays", "glGenVertexArrays", "glGetString"},
				Enums: []string{
					"GL_COLOR_BUFFER_BIT", "GL_CONTEXT_PROFILE_MASK", "GL_DEPTH_BUFFER_BIT",
					"GL_MAJOR_VERSION", "GL_TRIANGLES", "GL_VERSION",
				},
			},
		},
		{
			api: "gl", version: "3.3", profile: "core",
			want: Symbols{
				Functions: []string{"glClear", "glDrawArrays", "glGenVertexArrays", "glGetString"},
				Enums: []string{
					"GL_COLOR_BUFFER_BIT", "GL_CONTEXT_PROFILE_MASK", "GL_DEPTH_BUFFER_BIT",
					"GL_MAJOR_VERSION", "GL_TRIANGLES", "GL_VERSION",
				},
			},
		},
		{
			api: "gles2", version: "2.0", profile: "compatibility",
			want: Symbols{
				Functions: []string{"glClear", "glDrawArrays", "glGetString"},
				Enums:     []string{"GL_COLOR_BUFFER_BIT", "GL_TRIANGLES"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.api+" "+tt.version+" "+tt.profile, func(t *testing.T) {
			got, err := cat.Lookup(tt.api, tt.version, tt.profile)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Lookup() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	compat, err := cat.Lookup("gl", "3.2", "compatibility")
	require.NoError(t, err)
	assert.Contains(t, compat.Enums, "GL_CONTEXT_COMPATIBILITY_PROFILE_BIT")
	assert.Contains(t, compat.Functions, "glBegin")
}

func TestResolveMonotonic(t *testing.T) {
	cat, err := Resolve(loadRegistry(t))
	require.NoError(t, err)

	for _, api := range cat.APIs() {
		var prev *Surface
		for _, v := range cat.Versions(api) {
			s, ok := cat.Surface(api, v)
			require.True(t, ok)

			if prev != nil {
				for name := range prev.Compatibility.Functions {
					assert.True(t, s.Compatibility.Functions.Has(name), "%s %s lost %s", api, v, name)
				}
				for name := range prev.Compatibility.Enums {
					assert.True(t, s.Compatibility.Enums.Has(name), "%s %s lost %s", api, v, name)
				}
			}
			prev = &s
		}
	}
}

func TestLookupErrors(t *testing.T) {
	cat, err := Resolve(loadRegistry(t))
	require.NoError(t, err)

	tests := []struct {
		name, api, version, profile string
		wantErr                     string
	}{
		{"unknown api", "gles", "2.0", "core", `did you mean "gles2"?`},
		{"unknown version", "gl", "3.4", "core", `did you mean "3.0"?`},
		{"bad version", "gl", "three", "core", "invalid version"},
		{"unknown profile", "gl", "3.3", "cor", `did you mean "core"?`},
		{"far api", "vulkan", "1.0", "core", `unknown api "vulkan"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cat.Lookup(tt.api, tt.version, tt.profile)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	assert.Equal(t, []Version{{1, 0}, {1, 1}, {3, 0}, {3, 2}, {3, 3}}, cat.Versions("gl"))
	assert.Equal(t, []string{"gl", "gles2"}, cat.APIs())
}
