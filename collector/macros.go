package collector

import (
	"fmt"
	"regexp"
)

var (
	defineRe = regexp.MustCompile(`(?m)^#define\s+(\w+)\s+\(?([\w<|.]+)\)?`)

	intLiteralRe = regexp.MustCompile(`^(?:0[xX][0-9a-fA-F]+|0[bB][01]+|0[0-7]*|[1-9][0-9]*)$`)
)

// Macro is an object-like macro constant. Value is an integer literal or
// the placeholder.
type Macro struct {
	Name   string
	Value  string
	Header string
}

func (m Macro) String() string {
	return fmt.Sprintf("#define %s %s", m.Name, m.Value)
}

// ValueKind classifies a macro's replacement text.
type ValueKind int

const (
	NotLiteral ValueKind = iota
	IntLiteral
)

func (k ValueKind) String() string {
	if k == IntLiteral {
		return "int-literal"
	}
	return "not-literal"
}

// ClassifyValue reports whether v is an unsuffixed integer literal in
// decimal, octal, hex or binary notation.
func ClassifyValue(v string) ValueKind {
	if intLiteralRe.MatchString(v) {
		return IntLiteral
	}
	return NotLiteral
}

// ScanMacros harvests #define lines from the raw text of one header. The
// first definition of a name wins; later ones, even with another value,
// are ignored.
func (c *Collector) ScanMacros(header, text string) {
	for _, m := range defineRe.FindAllStringSubmatch(text, -1) {
		name, value := m[1], m[2]

		if _, ok := c.excludedDefines[name]; ok {
			continue
		}
		if _, ok := c.macroNames[name]; ok {
			continue
		}

		if ClassifyValue(value) == NotLiteral {
			value = Placeholder
		}

		c.macroNames[name] = struct{}{}
		c.macros = append(c.macros, Macro{Name: name, Value: value, Header: header})
	}
}
