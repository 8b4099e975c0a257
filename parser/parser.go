package parser

import (
	"fmt"
	"strings"
)

var storageClasses = map[string]bool{
	"typedef": true, "extern": true, "static": true, "auto": true, "register": true,
	"_Thread_local": true, "__thread": true,
}

var qualifiers = map[string]bool{
	"const": true, "volatile": true, "restrict": true,
	"__const": true, "__volatile": true, "__volatile__": true,
	"__restrict": true, "__restrict__": true,
}

var funcSpecifiers = map[string]bool{
	"inline": true, "__inline": true, "__inline__": true, "__forceinline": true, "_Noreturn": true,
}

var basicTypes = map[string]bool{
	"void": true, "char": true, "short": true, "int": true, "long": true,
	"float": true, "double": true, "signed": true, "unsigned": true,
	"_Bool": true, "_Complex": true, "__signed": true, "__signed__": true,
	"__int8": true, "__int16": true, "__int32": true, "__int64": true, "__int128": true,
	"_Float16": true, "_Float32": true, "_Float64": true, "_Float128": true,
}

// Keywords that carry no meaning for a declaration description.
var ignored = map[string]bool{
	"__extension__": true, "__cdecl": true, "__stdcall": true, "__fastcall": true,
	"__vectorcall": true, "__w64": true, "__ptr32": true, "__ptr64": true,
}

// Keywords followed by a parenthesized operand that is dropped entirely.
var ignoredWithOperand = map[string]bool{
	"__attribute__": true, "__attribute": true, "__declspec": true,
	"__asm__": true, "__asm": true, "asm": true, "_Alignas": true,
}

type parser struct {
	toks     []token
	pos      int
	typedefs map[string]bool
}

// Parse parses preprocessed C source into its external declarations.
func Parse(src string) (*File, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	p := parser{
		toks:     toks,
		typedefs: map[string]bool{"__builtin_va_list": true},
	}

	return p.file()
}

func (p *parser) cur() token {
	return p.toks[p.pos]
}

func (p *parser) peek(n int) token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) is(text string) bool {
	t := p.cur()
	return (t.kind == tokPunct || t.kind == tokIdent) && t.text == text
}

func (p *parser) expect(text string) error {
	if !p.is(text) {
		return p.errorf("expected %q, found %s", text, describe(p.cur()))
	}
	p.next()
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Coord: p.cur().coord, Msg: fmt.Sprintf(format, args...)}
}

func describe(t token) string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.text)
}

func (p *parser) file() (*File, error) {
	f := &File{}

	for p.cur().kind != tokEOF {
		if p.is(";") {
			p.next()
			continue
		}
		if p.is("_Static_assert") || p.is("static_assert") {
			if err := p.skipStatement(); err != nil {
				return nil, err
			}
			continue
		}

		decls, err := p.externalDecl()
		if err != nil {
			return nil, err
		}
		f.Decls = append(f.Decls, decls...)
	}

	return f, nil
}

func (p *parser) externalDecl() ([]Node, error) {
	coord := p.cur().coord

	specs, err := p.specifiers()
	if err != nil {
		return nil, err
	}

	if p.is(";") {
		p.next()
		return []Node{&Decl{Storage: specs.storage, FuncSpec: specs.funcSpec, Type: specs.leaf(), Coord: coord}}, nil
	}

	var nodes []Node
	for {
		name, wrap, err := p.declarator(false)
		if err != nil {
			return nil, err
		}
		typ := wrap(specs.leaf())

		if specs.typedef {
			p.typedefs[name] = true
			nodes = append(nodes, &Typedef{Name: name, Type: typ, Coord: coord})
		} else {
			d := &Decl{Name: name, Storage: specs.storage, FuncSpec: specs.funcSpec, Type: typ, Coord: coord}

			if _, ok := typ.(*FuncDecl); ok && p.is("{") {
				if err := p.skipBalanced("{", "}"); err != nil {
					return nil, err
				}
				return append(nodes, &FuncDef{Decl: d, Coord: coord}), nil
			}

			if p.is("=") {
				p.next()
				if _, err := p.collect(",", ";"); err != nil {
					return nil, err
				}
			}
			nodes = append(nodes, d)
		}

		if p.is(",") {
			p.next()
			continue
		}
		if err := p.expect(";"); err != nil {
			return nil, err
		}
		return nodes, nil
	}
}

type specs struct {
	storage  []string
	quals    []string
	funcSpec []string
	names    []string
	base     Type
	typedef  bool
}

func (s specs) leaf() *TypeDecl {
	base := s.base
	if base == nil {
		names := s.names
		if len(names) == 0 {
			names = []string{"int"}
		}
		base = &IdentifierType{Names: names}
	}
	return &TypeDecl{Quals: s.quals, Type: base}
}

func (s specs) hasType() bool {
	return s.base != nil || len(s.names) > 0
}

func (p *parser) specifiers() (specs, error) {
	var s specs

	for {
		t := p.cur()
		if t.kind != tokIdent {
			break
		}

		switch {
		case storageClasses[t.text]:
			p.next()
			if t.text == "typedef" {
				s.typedef = true
				continue
			}
			s.storage = append(s.storage, t.text)

		case qualifiers[t.text]:
			p.next()
			s.quals = append(s.quals, normalizeQualifier(t.text))

		case funcSpecifiers[t.text]:
			p.next()
			s.funcSpec = append(s.funcSpec, "inline")

		case ignored[t.text]:
			p.next()

		case ignoredWithOperand[t.text]:
			if err := p.skipOperand(); err != nil {
				return s, err
			}

		case t.text == "_Atomic" || t.text == "__typeof__" || t.text == "typeof" || t.text == "__typeof":
			p.next()
			if !p.is("(") {
				s.quals = append(s.quals, t.text)
				continue
			}
			start := p.pos
			if err := p.skipBalanced("(", ")"); err != nil {
				return s, err
			}
			s.names = append(s.names, t.text+joinTokens(p.toks[start:p.pos]))

		case basicTypes[t.text]:
			p.next()
			s.names = append(s.names, t.text)

		case t.text == "struct" || t.text == "union":
			st, err := p.structType()
			if err != nil {
				return s, err
			}
			s.base = st

		case t.text == "enum":
			en, err := p.enumType()
			if err != nil {
				return s, err
			}
			s.base = en

		default:
			// An identifier names a type only while no type specifier
			// has been seen; afterwards it starts the declarator.
			if s.hasType() {
				return s, nil
			}
			p.next()
			s.names = append(s.names, t.text)
		}
	}

	if !s.hasType() && len(s.quals) == 0 && len(s.storage) == 0 && !s.typedef && len(s.funcSpec) == 0 {
		return s, p.errorf("expected declaration specifiers, found %s", describe(p.cur()))
	}

	return s, nil
}

func normalizeQualifier(q string) string {
	switch q {
	case "__const":
		return "const"
	case "__volatile", "__volatile__":
		return "volatile"
	case "__restrict", "__restrict__":
		return "restrict"
	}
	return q
}

func (p *parser) skipAttributes() error {
	for p.cur().kind == tokIdent {
		switch {
		case ignoredWithOperand[p.cur().text]:
			if err := p.skipOperand(); err != nil {
				return err
			}
		case ignored[p.cur().text]:
			p.next()
		default:
			return nil
		}
	}
	return nil
}

func (p *parser) skipOperand() error {
	p.next()
	for p.is("volatile") || p.is("__volatile__") || p.is("goto") {
		p.next()
	}
	if !p.is("(") {
		return nil
	}
	return p.skipBalanced("(", ")")
}

func (p *parser) skipStatement() error {
	p.next()
	if err := p.skipBalanced("(", ")"); err != nil {
		return err
	}
	return p.expect(";")
}

// skipBalanced consumes an open token through its matching close token.
func (p *parser) skipBalanced(open, close string) error {
	if err := p.expect(open); err != nil {
		return err
	}
	depth := 1
	for depth > 0 {
		t := p.next()
		switch {
		case t.kind == tokEOF:
			return p.errorf("unbalanced %q", open)
		case t.kind != tokPunct:
		case t.text == open:
			depth++
		case t.text == close:
			depth--
		}
	}
	return nil
}

// collect consumes tokens up to, not including, the first stop token found
// outside any brackets and returns their text.
func (p *parser) collect(stops ...string) (string, error) {
	start := p.pos
	depth := 0
	for {
		t := p.cur()
		if t.kind == tokEOF {
			return "", p.errorf("unexpected end of input")
		}
		if t.kind == tokPunct {
			if depth == 0 {
				for _, s := range stops {
					if t.text == s {
						return joinTokens(p.toks[start:p.pos]), nil
					}
				}
			}
			switch t.text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				depth--
				if depth < 0 {
					return "", p.errorf("unexpected %q", t.text)
				}
			}
		}
		p.next()
	}
}

func (p *parser) structType() (*Struct, error) {
	s := &Struct{Kind: p.next().text}
	if err := p.skipAttributes(); err != nil {
		return nil, err
	}
	if p.cur().kind == tokIdent {
		s.Name = p.next().text
	}
	if err := p.skipAttributes(); err != nil {
		return nil, err
	}
	if !p.is("{") {
		if s.Name == "" {
			return nil, p.errorf("expected %s name or body", s.Kind)
		}
		return s, nil
	}
	p.next()
	s.HasBody = true

	for !p.is("}") {
		if p.cur().kind == tokEOF {
			return nil, p.errorf("unterminated %s body", s.Kind)
		}
		if p.is(";") {
			p.next()
			continue
		}
		if p.is("_Static_assert") || p.is("static_assert") {
			if err := p.skipStatement(); err != nil {
				return nil, err
			}
			continue
		}

		fields, err := p.structFields()
		if err != nil {
			return nil, err
		}
		s.Fields = append(s.Fields, fields...)
	}
	p.next()

	if err := p.skipAttributes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *parser) structFields() ([]*Decl, error) {
	coord := p.cur().coord
	specs, err := p.specifiers()
	if err != nil {
		return nil, err
	}

	if p.is(";") {
		p.next()
		return []*Decl{{Type: specs.leaf(), Coord: coord}}, nil
	}

	var fields []*Decl
	for {
		var (
			name string
			wrap = func(t Type) Type { return t }
		)
		if !p.is(":") {
			name, wrap, err = p.declarator(true)
			if err != nil {
				return nil, err
			}
		}

		d := &Decl{Name: name, Type: wrap(specs.leaf()), Coord: coord}
		if p.is(":") {
			p.next()
			if d.Bitsize, err = p.collect(",", ";"); err != nil {
				return nil, err
			}
		}
		if err := p.skipAttributes(); err != nil {
			return nil, err
		}
		fields = append(fields, d)

		if p.is(",") {
			p.next()
			continue
		}
		if err := p.expect(";"); err != nil {
			return nil, err
		}
		return fields, nil
	}
}

func (p *parser) enumType() (*Enum, error) {
	p.next()
	e := &Enum{}
	if err := p.skipAttributes(); err != nil {
		return nil, err
	}
	if p.cur().kind == tokIdent {
		e.Name = p.next().text
	}
	if p.is(":") {
		p.next()
		if _, err := p.specifiers(); err != nil {
			return nil, err
		}
	}
	if !p.is("{") {
		if e.Name == "" {
			return nil, p.errorf("expected enum name or body")
		}
		return e, nil
	}
	p.next()
	e.HasBody = true

	for !p.is("}") {
		t := p.next()
		if t.kind != tokIdent {
			return nil, &SyntaxError{Coord: t.coord, Msg: fmt.Sprintf("expected enumerator, found %s", describe(t))}
		}
		if err := p.skipAttributes(); err != nil {
			return nil, err
		}

		v := Enumerator{Name: t.text}
		if p.is("=") {
			p.next()
			value, err := p.collect(",", "}")
			if err != nil {
				return nil, err
			}
			v.Value = value
		}
		e.Values = append(e.Values, v)

		if p.is(",") {
			p.next()
			continue
		}
		if !p.is("}") {
			return nil, p.errorf("expected \",\" or \"}\" in enum, found %s", describe(p.cur()))
		}
	}
	p.next()

	if err := p.skipAttributes(); err != nil {
		return nil, err
	}
	return e, nil
}

// declarator parses a possibly abstract declarator. It returns the declared
// name and a function that wraps the base type into the declared type.
func (p *parser) declarator(abstract bool) (string, func(Type) Type, error) {
	var pointers [][]string
	for p.is("*") || p.is("^") {
		p.next()
		var quals []string
		for p.cur().kind == tokIdent {
			text := p.cur().text
			if qualifiers[text] {
				quals = append(quals, normalizeQualifier(text))
				p.next()
				continue
			}
			if ignored[text] || ignoredWithOperand[text] {
				if err := p.skipAttributes(); err != nil {
					return "", nil, err
				}
				continue
			}
			break
		}
		pointers = append(pointers, quals)
	}
	if err := p.skipAttributes(); err != nil {
		return "", nil, err
	}

	var (
		name  string
		inner func(Type) Type
	)
	switch {
	case p.cur().kind == tokIdent:
		name = p.next().text

	case p.is("(") && p.nestedDeclarator():
		p.next()
		var err error
		name, inner, err = p.declarator(abstract)
		if err != nil {
			return "", nil, err
		}
		if err := p.expect(")"); err != nil {
			return "", nil, err
		}
	}

	var suffixes []func(Type) Type
	for {
		if p.is("[") {
			p.next()
			dim, err := p.collect("]")
			if err != nil {
				return "", nil, err
			}
			p.next()
			suffixes = append(suffixes, func(t Type) Type { return &ArrayDecl{Type: t, Dim: dim} })
			continue
		}
		if p.is("(") {
			params, variadic, err := p.params()
			if err != nil {
				return "", nil, err
			}
			suffixes = append(suffixes, func(t Type) Type { return &FuncDecl{Params: params, Variadic: variadic, Type: t} })
			continue
		}
		break
	}
	if err := p.skipAttributes(); err != nil {
		return "", nil, err
	}

	if name == "" && !abstract {
		return "", nil, p.errorf("expected identifier, found %s", describe(p.cur()))
	}

	wrap := func(t Type) Type {
		for _, quals := range pointers {
			t = &PtrDecl{Quals: quals, Type: t}
		}
		for i := len(suffixes) - 1; i >= 0; i-- {
			t = suffixes[i](t)
		}
		if inner != nil {
			t = inner(t)
		}
		return t
	}

	return name, wrap, nil
}

// nestedDeclarator reports whether the "(" at the cursor opens a nested
// declarator rather than a parameter list.
func (p *parser) nestedDeclarator() bool {
	t := p.peek(1)
	switch {
	case t.kind == tokPunct:
		return t.text == "*" || t.text == "^" || t.text == "(" || t.text == "["
	case t.kind == tokIdent:
		if ignored[t.text] || ignoredWithOperand[t.text] {
			return true
		}
		return !p.startsType(t.text)
	}
	return false
}

func (p *parser) startsType(name string) bool {
	return p.typedefs[name] || basicTypes[name] || qualifiers[name] || storageClasses[name] ||
		name == "struct" || name == "union" || name == "enum" || name == "_Atomic"
}

func (p *parser) params() ([]*Decl, bool, error) {
	if err := p.expect("("); err != nil {
		return nil, false, err
	}
	if p.is(")") {
		p.next()
		return nil, false, nil
	}

	var (
		params   []*Decl
		variadic bool
	)
	for {
		if p.is("...") {
			p.next()
			variadic = true
			break
		}

		coord := p.cur().coord
		specs, err := p.specifiers()
		if err != nil {
			return nil, false, err
		}
		name, wrap, err := p.declarator(true)
		if err != nil {
			return nil, false, err
		}
		params = append(params, &Decl{Name: name, Storage: specs.storage, Type: wrap(specs.leaf()), Coord: coord})

		if !p.is(",") {
			break
		}
		p.next()
	}

	if err := p.expect(")"); err != nil {
		return nil, false, err
	}
	return params, variadic, nil
}

// joinTokens renders a token run as compact C text.
func joinTokens(toks []token) string {
	var b strings.Builder
	for i, t := range toks {
		if i > 0 && needsSpace(toks[i-1], t) {
			b.WriteByte(' ')
		}
		b.WriteString(t.text)
	}
	return b.String()
}

func needsSpace(prev, cur token) bool {
	switch prev.text {
	case "(", "[", "~", "!", ".", "->":
		if prev.kind == tokPunct {
			return false
		}
	}
	if cur.kind == tokPunct {
		switch cur.text {
		case ")", "]", ",", ".", "->":
			return false
		case "(", "[":
			return prev.kind != tokIdent
		}
	}
	return true
}
