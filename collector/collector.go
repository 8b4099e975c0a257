// Package collector walks parsed headers and keeps the declarations that
// belong to the bound library: type declarations, function prototypes and
// object-like macro constants, each rendered as one line of C in the
// form the foreign-function build step accepts.
package collector

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/ardanlabs/sdl2-ffi/parser"
)

// Placeholder stands in for values the interface description leaves to
// the native compiler.
const Placeholder = "..."

var (
	sizeofDimRe = regexp.MustCompile(`\[[^\]]*sizeof[^\]]*]`)
	vaListRe    = regexp.MustCompile(`va_list \w+`)
)

// Options configures a Collector.
type Options struct {
	// IncludeRoot is the directory holding the library's headers. Only
	// declarations originating below it are kept.
	IncludeRoot string

	Functions []string
	Typedefs  []string
	Defines   []string
}

// Result is the collected declaration set, each list in first-seen order.
type Result struct {
	Macros    []Macro
	Types     []string
	Functions []string
}

// Collector accumulates declarations over any number of parsed files and
// header texts.
type Collector struct {
	root string

	excludedFuncs    map[string]struct{}
	excludedTypedefs map[string]struct{}
	excludedDefines  map[string]struct{}

	types     orderedSet
	functions orderedSet

	// names holds every identifier a kept declaration introduces: typedef
	// names, tags, enumerators and functions.
	names map[string]struct{}

	macros     []Macro
	macroNames map[string]struct{}
}

// New creates a Collector.
func New(opts Options) *Collector {
	root, err := filepath.Abs(opts.IncludeRoot)
	if err != nil {
		root = filepath.Clean(opts.IncludeRoot)
	}

	return &Collector{
		root:             root,
		excludedFuncs:    toSet(opts.Functions),
		excludedTypedefs: toSet(opts.Typedefs),
		excludedDefines:  toSet(opts.Defines),
		names:            make(map[string]struct{}),
		macroNames:       make(map[string]struct{}),
	}
}

// Visit collects the in-scope declarations of one parsed translation unit.
// Visiting the same declarations again adds nothing.
func (c *Collector) Visit(f *parser.File) {
	for _, n := range f.Decls {
		if !c.inScope(n.Pos()) {
			continue
		}

		switch d := n.(type) {
		case *parser.Typedef:
			c.typedef(d)
		case *parser.FuncDef:
			c.function(d.Decl)
		case *parser.Decl:
			if _, ok := d.Type.(*parser.FuncDecl); ok {
				c.function(d)
				continue
			}
			c.tagged(d)
		}
	}
}

// Result returns the collected set. Macros whose name is already
// introduced by a collected declaration are left out.
func (c *Collector) Result() Result {
	macros := make([]Macro, 0, len(c.macros))
	for _, m := range c.macros {
		if _, ok := c.names[m.Name]; ok {
			continue
		}
		macros = append(macros, m)
	}

	return Result{
		Macros:    macros,
		Types:     slices.Clone(c.types.items),
		Functions: slices.Clone(c.functions.items),
	}
}

func (c *Collector) inScope(pos parser.Coord) bool {
	if pos.File == "" {
		return false
	}

	file, err := filepath.Abs(pos.File)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(c.root, file)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (c *Collector) typedef(d *parser.Typedef) {
	if _, ok := c.excludedTypedefs[d.Name]; ok {
		return
	}

	text := "typedef " + parser.RenderType(sanitize(d.Type), d.Name)
	c.addType(text)
	c.names[d.Name] = struct{}{}
	c.addTypeNames(d.Type)
}

// tagged keeps the struct, union or enum a non-function declaration
// introduces. The declared object itself is not part of the interface.
func (c *Collector) tagged(d *parser.Decl) {
	var text string
	switch v := parser.BaseType(d.Type).(type) {
	case *parser.Struct:
		if v.Name == "" {
			return
		}
		text = parser.RenderType(sanitize(&parser.TypeDecl{Type: v}), "")
	case *parser.Enum:
		text = parser.RenderType(sanitize(&parser.TypeDecl{Type: v}), "")
	default:
		return
	}

	c.addType(text)
	c.addTypeNames(d.Type)
}

func (c *Collector) function(d *parser.Decl) {
	if _, ok := c.excludedFuncs[d.Name]; ok {
		return
	}

	text := parser.RenderType(sanitize(d.Type), d.Name)
	text = vaListRe.ReplaceAllLiteralString(text, Placeholder)
	c.functions.add(text + ";")
	c.names[d.Name] = struct{}{}
}

func (c *Collector) addType(text string) {
	text = sizeofDimRe.ReplaceAllLiteralString(text, "["+Placeholder+"]")
	c.types.add(text + ";")
}

// addTypeNames records the tags and enumerators defined along t.
func (c *Collector) addTypeNames(t parser.Type) {
	switch v := parser.BaseType(t).(type) {
	case *parser.Struct:
		if v.Name != "" {
			c.names[v.Name] = struct{}{}
		}
		for _, f := range v.Fields {
			c.addTypeNames(f.Type)
		}
	case *parser.Enum:
		if v.Name != "" {
			c.names[v.Name] = struct{}{}
		}
		for _, e := range v.Values {
			c.names[e.Name] = struct{}{}
		}
	}
}

// sanitize returns t with every enumerator value replaced by the
// placeholder. Nodes on the way to an enum are copied; t is not modified.
func sanitize(t parser.Type) parser.Type {
	switch v := t.(type) {
	case *parser.TypeDecl:
		cp := *v
		cp.Type = sanitize(v.Type)
		return &cp

	case *parser.PtrDecl:
		cp := *v
		cp.Type = sanitize(v.Type)
		return &cp

	case *parser.ArrayDecl:
		cp := *v
		cp.Type = sanitize(v.Type)
		return &cp

	case *parser.FuncDecl:
		cp := *v
		cp.Type = sanitize(v.Type)
		cp.Params = sanitizeDecls(v.Params)
		return &cp

	case *parser.Struct:
		if !v.HasBody {
			return v
		}
		cp := *v
		cp.Fields = sanitizeDecls(v.Fields)
		return &cp

	case *parser.Enum:
		if !v.HasBody {
			return v
		}
		cp := *v
		cp.Values = make([]parser.Enumerator, len(v.Values))
		for i, e := range v.Values {
			cp.Values[i] = parser.Enumerator{Name: e.Name, Value: Placeholder}
		}
		return &cp
	}

	return t
}

func sanitizeDecls(decls []*parser.Decl) []*parser.Decl {
	if decls == nil {
		return nil
	}

	out := make([]*parser.Decl, len(decls))
	for i, d := range decls {
		cp := *d
		cp.Type = sanitize(d.Type)
		out[i] = &cp
	}
	return out
}

type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func (s *orderedSet) add(v string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
