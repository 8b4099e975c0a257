// Package glload resolves OpenGL entry points at runtime through a
// proc-address function such as SDL_GL_GetProcAddress.
package glload

import (
	"context"
	"fmt"

	"github.com/ardanlabs/sdl2-ffi/config"
	"github.com/ardanlabs/sdl2-ffi/ctxlog"
	"github.com/ardanlabs/sdl2-ffi/glregistry"
)

// ProcAddressFunc returns the address of a named entry point, or 0 when it
// is not available.
type ProcAddressFunc func(name string) uintptr

// Table is the resolved surface of one target. Entry points the driver did
// not provide are absent; the rest stay usable.
type Table struct {
	Target config.Target

	procs   map[string]uintptr
	enums   map[string]string
	missing []string
}

// Proc returns the address of a resolved entry point.
func (t *Table) Proc(name string) (uintptr, bool) {
	addr, ok := t.procs[name]
	return addr, ok
}

// Enum returns the registry value of an enum the target exposes.
func (t *Table) Enum(name string) (string, bool) {
	v, ok := t.enums[name]
	return v, ok
}

// Missing returns the entry points lookup could not resolve, in lookup
// order.
func (t *Table) Missing() []string {
	return t.missing
}

// Len returns the number of resolved entry points.
func (t *Table) Len() int {
	return len(t.procs)
}

// Load performs one lookup per function the target exposes. A failed lookup
// is logged as a warning and recorded in Missing; only an unknown target is
// an error.
func Load(ctx context.Context, cat *glregistry.Catalog, reg *glregistry.Registry, target config.Target, lookup ProcAddressFunc) (*Table, error) {
	syms, err := cat.Lookup(target.API, target.Version, target.Profile)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", target, err)
	}

	log := ctxlog.FromContext(ctx)

	t := Table{
		Target: target,
		procs:  make(map[string]uintptr, len(syms.Functions)),
		enums:  make(map[string]string, len(syms.Enums)),
	}

	for _, name := range syms.Functions {
		addr := lookup(name)
		if addr == 0 {
			log.Warn("Unable to load entry point.", "symbol", name, "target", target.String())
			t.missing = append(t.missing, name)
			continue
		}
		t.procs[name] = addr
	}

	for _, name := range syms.Enums {
		if e, ok := reg.Enum(name); ok {
			t.enums[name] = e.Value
		}
	}

	log.Debug("Resolved entry points.", "target", target.String(), "resolved", len(t.procs), "missing", len(t.missing))

	return &t, nil
}
