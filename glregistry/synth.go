package glregistry

import (
	"fmt"
	"regexp"
)

var typedefRe = regexp.MustCompile(`typedef.* \*?([\w]+);`)

// skipType reports whether t is left out on goos. Windows toolchains do not
// ship khrplatform.h.
func skipType(t Type, goos string) bool {
	if t.API != "" {
		return true
	}
	if goos == "windows" && (t.Name == "khrplatform" || t.Requires == "khrplatform") {
		return true
	}
	return false
}

// Typedefs returns the interface description typedefs, one per
// synthesized name in first-seen order. A name defined more than once
// becomes an opaque integer typedef.
func (r *Registry) Typedefs(goos string) []string {
	var (
		names []string
		defs  = make(map[string]string)
	)
	set := func(name, def string) {
		if _, ok := defs[name]; !ok {
			names = append(names, name)
		}
		defs[name] = def
	}

	for _, t := range r.Types {
		if skipType(t, goos) {
			continue
		}

		for _, m := range typedefRe.FindAllStringSubmatch(t.Text, -1) {
			name := m[1]
			if _, ok := defs[name]; ok {
				set(name, fmt.Sprintf("typedef int... %s;", name))
				continue
			}
			set(name, m[0])
		}

		if t.APIEntry && t.DeclName != "" {
			set(t.DeclName, t.Text)
		}
	}

	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, defs[n])
	}
	return out
}

// RawTypedefs returns the unmodified text of every type entry kept on
// goos, for the native compilation unit.
func (r *Registry) RawTypedefs(goos string) []string {
	var out []string
	for _, t := range r.Types {
		if skipType(t, goos) {
			continue
		}
		out = append(out, t.Text)
	}
	return out
}

// FunctionPointers returns a pointer declaration for every command.
func (r *Registry) FunctionPointers() []string {
	out := make([]string, 0, len(r.Commands))
	for _, c := range r.Commands {
		out = append(out, c.PointerDecl())
	}
	return out
}

// EnumDefines returns a #define line for every enum.
func (r *Registry) EnumDefines() []string {
	out := make([]string, 0, len(r.Enums))
	for _, e := range r.Enums {
		out = append(out, fmt.Sprintf("#define %s %s", e.Name, e.Value))
	}
	return out
}
