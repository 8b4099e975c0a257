package generator

import "github.com/ardanlabs/sdl2-ffi/glregistry"

// GLGenerator emits the OpenGL interface description and native unit.
type GLGenerator struct {
	module string
	goos   string
	reg    *glregistry.Registry
}

// NewGL creates a GLGenerator. goos selects the platform typedef filter.
func NewGL(module, goos string, reg *glregistry.Registry) *GLGenerator {
	return &GLGenerator{
		module: module,
		goos:   goos,
		reg:    reg,
	}
}

// Generate returns the artifacts keyed by file name.
func (g *GLGenerator) Generate() (map[string]string, error) {
	ptrs := g.reg.FunctionPointers()
	enums := g.reg.EnumDefines()

	var cdef []string
	cdef = append(cdef, g.reg.Typedefs(g.goos)...)
	cdef = append(cdef, ptrs...)
	cdef = append(cdef, enums...)

	var source []string
	source = append(source, g.reg.RawTypedefs(g.goos)...)
	source = append(source, ptrs...)
	source = append(source, enums...)

	return map[string]string{
		CdefName(g.module):   joinLines(cdef),
		SourceName(g.module): joinLines(source),
	}, nil
}
