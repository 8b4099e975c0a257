package parser

import "strings"

// Render returns the single-line C text of a top-level declaration, without
// the terminating semicolon.
func Render(n Node) string {
	switch v := n.(type) {
	case *Typedef:
		return "typedef " + RenderType(v.Type, v.Name)
	case *Decl:
		return renderDecl(v)
	case *FuncDef:
		return renderDecl(v.Decl)
	}
	return ""
}

func renderDecl(d *Decl) string {
	var b strings.Builder
	for _, s := range d.Storage {
		b.WriteString(s)
		b.WriteByte(' ')
	}
	for _, s := range d.FuncSpec {
		b.WriteString(s)
		b.WriteByte(' ')
	}
	b.WriteString(RenderType(d.Type, d.Name))
	if d.Bitsize != "" {
		b.WriteString(" : ")
		b.WriteString(d.Bitsize)
	}
	return b.String()
}

// RenderType renders a declarator chain around name. An empty name renders
// an abstract declarator.
func RenderType(t Type, name string) string {
	var (
		mods []Type
		leaf *TypeDecl
	)
	for leaf == nil {
		switch v := t.(type) {
		case *PtrDecl:
			mods = append(mods, v)
			t = v.Type
		case *ArrayDecl:
			mods = append(mods, v)
			t = v.Type
		case *FuncDecl:
			mods = append(mods, v)
			t = v.Type
		case *TypeDecl:
			leaf = v
		default:
			leaf = &TypeDecl{Type: t}
		}
	}

	nstr := name
	for i, m := range mods {
		switch v := m.(type) {
		case *ArrayDecl:
			if i > 0 && isPtr(mods[i-1]) {
				nstr = "(" + nstr + ")"
			}
			nstr += "[" + v.Dim + "]"

		case *FuncDecl:
			if i > 0 && isPtr(mods[i-1]) {
				nstr = "(" + nstr + ")"
			}
			nstr += "(" + renderParams(v) + ")"

		case *PtrDecl:
			if len(v.Quals) > 0 {
				nstr = strings.TrimSpace("*" + strings.Join(v.Quals, " ") + " " + nstr)
			} else {
				nstr = "*" + nstr
			}
		}
	}

	base := renderBase(leaf)
	if nstr == "" {
		return base
	}
	return base + " " + nstr
}

func isPtr(t Type) bool {
	_, ok := t.(*PtrDecl)
	return ok
}

func renderParams(f *FuncDecl) string {
	parts := make([]string, 0, len(f.Params)+1)
	for _, p := range f.Params {
		parts = append(parts, renderDecl(p))
	}
	if f.Variadic {
		parts = append(parts, "...")
	}
	return strings.Join(parts, ", ")
}

func renderBase(td *TypeDecl) string {
	var base string
	switch v := td.Type.(type) {
	case *IdentifierType:
		base = strings.Join(v.Names, " ")
	case *Struct:
		base = renderStruct(v)
	case *Enum:
		base = renderEnum(v)
	}

	if len(td.Quals) == 0 {
		return base
	}
	return strings.Join(td.Quals, " ") + " " + base
}

func renderStruct(s *Struct) string {
	var b strings.Builder
	b.WriteString(s.Kind)
	if s.Name != "" {
		b.WriteByte(' ')
		b.WriteString(s.Name)
	}
	if !s.HasBody {
		return b.String()
	}

	if len(s.Fields) == 0 {
		b.WriteString(" {}")
		return b.String()
	}

	b.WriteString(" {")
	for _, f := range s.Fields {
		b.WriteByte(' ')
		b.WriteString(renderDecl(f))
		b.WriteByte(';')
	}
	b.WriteString(" }")
	return b.String()
}

func renderEnum(e *Enum) string {
	var b strings.Builder
	b.WriteString("enum")
	if e.Name != "" {
		b.WriteByte(' ')
		b.WriteString(e.Name)
	}
	if !e.HasBody {
		return b.String()
	}

	b.WriteString(" {")
	for i, v := range e.Values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte(' ')
		b.WriteString(v.Name)
		if v.Value != "" {
			b.WriteString(" = ")
			b.WriteString(v.Value)
		}
	}
	b.WriteString(" }")
	return b.String()
}
