package parser

import "fmt"

// Coord is the originating location of a declaration, taken from the
// preprocessor's line markers.
type Coord struct {
	File string
	Line int
}

func (c Coord) String() string {
	if c.File == "" {
		return fmt.Sprintf("<unknown>:%d", c.Line)
	}
	return fmt.Sprintf("%s:%d", c.File, c.Line)
}

// Node is a top-level external declaration.
type Node interface {
	Pos() Coord
}

// Type is one link of a declarator chain. The chain always ends in a
// *TypeDecl holding the base type.
type Type interface {
	isType()
}

type TypeDecl struct {
	Quals []string
	Type  Type // *IdentifierType, *Struct or *Enum
}

type IdentifierType struct {
	Names []string
}

type PtrDecl struct {
	Quals []string
	Type  Type
}

type ArrayDecl struct {
	Type Type
	Dim  string
}

type FuncDecl struct {
	Params   []*Decl
	Variadic bool
	Type     Type
}

type Struct struct {
	Kind    string // "struct" or "union"
	Name    string
	Fields  []*Decl
	HasBody bool
}

type Enumerator struct {
	Name  string
	Value string
}

type Enum struct {
	Name    string
	Values  []Enumerator
	HasBody bool
}

func (*TypeDecl) isType()       {}
func (*IdentifierType) isType() {}
func (*PtrDecl) isType()        {}
func (*ArrayDecl) isType()      {}
func (*FuncDecl) isType()       {}
func (*Struct) isType()         {}
func (*Enum) isType()           {}

// Decl is a declaration of an object, a function, a struct field or a
// parameter. Name is empty for tag-only declarations such as
// "struct Foo;" and for abstract parameters.
type Decl struct {
	Name     string
	Storage  []string
	FuncSpec []string
	Type     Type
	Bitsize  string
	Coord    Coord
}

type Typedef struct {
	Name  string
	Type  Type
	Coord Coord
}

// FuncDef is a function definition. Only the prototype is kept; the body is
// skipped by the parser.
type FuncDef struct {
	Decl  *Decl
	Coord Coord
}

func (d *Decl) Pos() Coord    { return d.Coord }
func (t *Typedef) Pos() Coord { return t.Coord }
func (f *FuncDef) Pos() Coord { return f.Coord }

// File is the parse result of one preprocessed translation unit.
type File struct {
	Decls []Node
}

// BaseType follows a declarator chain down to the type held by its
// *TypeDecl.
func BaseType(t Type) Type {
	for {
		switch v := t.(type) {
		case *PtrDecl:
			t = v.Type
		case *ArrayDecl:
			t = v.Type
		case *FuncDecl:
			t = v.Type
		case *TypeDecl:
			return v.Type
		default:
			return t
		}
	}
}

// SyntaxError reports malformed input at a source coordinate.
type SyntaxError struct {
	Coord Coord
	Msg   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Coord, e.Msg)
}
