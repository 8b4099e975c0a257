package generator

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/golang-cz/textcase"
	"golang.org/x/tools/imports"

	"github.com/ardanlabs/sdl2-ffi/collector"
	"github.com/ardanlabs/sdl2-ffi/config"
	"github.com/ardanlabs/sdl2-ffi/glregistry"
)

// ProcTableName is the file name of the generated GL proc table.
const ProcTableName = "procs.go"

const procTableTmpl = `// Code generated by sdl2-ffi. DO NOT EDIT.

package {{.Package}}

// ProcAddressFunc returns the address of a named entry point, or 0 when
// the driver does not provide it.
type ProcAddressFunc func(name string) uintptr
{{range .Tables}}
// {{.Type}} holds the entry points of {{.Target}}.
type {{.Type}} struct {
{{- range .Funcs}}
	{{.Field}} uintptr
{{- end}}
}

var {{.Symbols}} = [...]string{
{{- range .Funcs}}
	"{{.Name}}",
{{- end}}
}

// Load{{.Type}} resolves every entry point of {{.Target}} and returns the
// names lookup could not resolve.
func Load{{.Type}}(lookup ProcAddressFunc) (*{{.Type}}, []string) {
	t := new({{.Type}})
	var missing []string
	for i, p := range [...]*uintptr{
{{- range .Funcs}}
		&t.{{.Field}},
{{- end}}
	} {
		if *p = lookup({{.Symbols}}[i]); *p == 0 {
			missing = append(missing, {{.Symbols}}[i])
		}
	}
	return t, missing
}
{{end}}
{{- if .Enums}}
const (
{{- range .Enums}}
	{{.Name}} = {{.Value}}
{{- end}}
)
{{- end}}
`

type procTable struct {
	Type    string
	Target  string
	Symbols string
	Funcs   []procFunc
}

type procFunc struct {
	Field string
	Name  string
}

type procEnum struct {
	Name  string
	Value string
}

// GLProcTable renders a Go source file declaring, per target, a struct of
// entry point addresses with its loader, followed by the integer enums the
// targets expose.
func GLProcTable(pkg string, cat *glregistry.Catalog, reg *glregistry.Registry, targets []config.Target) (string, error) {
	var (
		tables []procTable
		enums  = make(map[string]struct{})
	)

	for _, tgt := range targets {
		syms, err := cat.Lookup(tgt.API, tgt.Version, tgt.Profile)
		if err != nil {
			return "", fmt.Errorf("target %s: %w", tgt, err)
		}

		name, err := tableTypeName(tgt)
		if err != nil {
			return "", err
		}

		tbl := procTable{
			Type:    name,
			Target:  tgt.String(),
			Symbols: "symbols" + name,
		}

		used := make(map[string]struct{})
		for _, fn := range syms.Functions {
			field := fieldName(fn)
			if _, ok := used[field]; ok {
				field = exported(fn)
			}
			used[field] = struct{}{}
			tbl.Funcs = append(tbl.Funcs, procFunc{Field: field, Name: fn})
		}
		tables = append(tables, tbl)

		for _, e := range syms.Enums {
			enums[e] = struct{}{}
		}
	}

	data := struct {
		Package string
		Tables  []procTable
		Enums   []procEnum
	}{
		Package: pkg,
		Tables:  tables,
		Enums:   enumConsts(reg, enums),
	}

	t, err := template.New("procs").Parse(procTableTmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	out, err := imports.Process(ProcTableName, buf.Bytes(), nil)
	if err != nil {
		return "", fmt.Errorf("formatting proc table: %w", err)
	}

	return string(out), nil
}

// enumConsts returns the named enums whose registry value is a plain
// integer literal, sorted by name.
func enumConsts(reg *glregistry.Registry, names map[string]struct{}) []procEnum {
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	var out []procEnum
	for _, n := range sorted {
		e, ok := reg.Enum(n)
		if !ok || collector.ClassifyValue(e.Value) != collector.IntLiteral {
			continue
		}
		out = append(out, procEnum{Name: n, Value: e.Value})
	}
	return out
}

// tableTypeName returns the struct name of a target, e.g. GL33Core.
func tableTypeName(t config.Target) (string, error) {
	major, minor, ok := strings.Cut(t.Version, ".")
	if !ok {
		return "", fmt.Errorf("target %s: invalid version", t)
	}
	return strings.ToUpper(t.API) + major + minor + textcase.PascalCase(t.Profile), nil
}

// fieldName maps a command to a struct field: glDrawArrays becomes
// DrawArrays.
func fieldName(cmd string) string {
	trimmed := strings.TrimPrefix(cmd, "gl")
	if trimmed == "" || !isLetter(trimmed[0]) {
		return exported(cmd)
	}
	return textcase.PascalCase(trimmed)
}

func exported(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
