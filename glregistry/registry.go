// Package glregistry reads the Khronos OpenGL XML registry, synthesizes
// the C declarations it describes and resolves which functions and enums
// each API version and profile exposes.
package glregistry

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Registry is the parsed registry document. Every list keeps document
// order.
type Registry struct {
	Types    []Type
	Enums    []Enum
	Commands []Command
	Features []Feature

	enumIndex map[string]int
	cmdIndex  map[string]int
}

// Type is one <type> entry.
type Type struct {
	// Name is the name attribute; most entries carry their name in a
	// <name> child instead, see DeclName.
	Name     string
	Requires string
	API      string

	DeclName string
	Text     string
	APIEntry bool
}

// Enum is one <enum> entry of an <enums> group.
type Enum struct {
	Name  string
	Value string
	API   string
}

// Command is one <command> entry.
type Command struct {
	Name   string
	Return string
	Params []string
}

// PointerDecl returns the function pointer declaration of c, e.g.
// "void (*glClear)(GLbitfield mask);".
func (c Command) PointerDecl() string {
	return fmt.Sprintf("%s (*%s)(%s);", c.Return, c.Name, strings.Join(c.Params, ","))
}

// Feature is one <feature> entry: the additions and removals of an API
// version.
type Feature struct {
	API      string
	Name     string
	Version  Version
	Requires []Block
	Removes  []Block
}

// Block is a <require> or <remove> element.
type Block struct {
	Profile  string
	Enums    []string
	Commands []string
}

func (b Block) empty() bool {
	return len(b.Enums) == 0 && len(b.Commands) == 0
}

// Enum returns the enum called name. When the registry lists a name more
// than once the last value wins.
func (r *Registry) Enum(name string) (Enum, bool) {
	i, ok := r.enumIndex[name]
	if !ok {
		return Enum{}, false
	}
	return r.Enums[i], true
}

// Command returns the command called name.
func (r *Registry) Command(name string) (Command, bool) {
	i, ok := r.cmdIndex[name]
	if !ok {
		return Command{}, false
	}
	return r.Commands[i], true
}

type xmlRegistry struct {
	Types    []xmlType    `xml:"types>type"`
	Enums    []xmlEnums   `xml:"enums"`
	Commands []xmlCommand `xml:"commands>command"`
	Features []xmlFeature `xml:"feature"`
}

type xmlType struct {
	Name     string    `xml:"name,attr"`
	Requires string    `xml:"requires,attr"`
	API      string    `xml:"api,attr"`
	DeclName string    `xml:"name"`
	APIEntry *struct{} `xml:"apientry"`
	Inner    string    `xml:",innerxml"`
}

type xmlEnums struct {
	Enums []xmlEnum `xml:"enum"`
}

type xmlEnum struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
	API   string `xml:"api,attr"`
}

type xmlCommand struct {
	Proto  xmlProto   `xml:"proto"`
	Params []xmlInner `xml:"param"`
}

type xmlProto struct {
	Name  string `xml:"name"`
	Inner string `xml:",innerxml"`
}

type xmlInner struct {
	Inner string `xml:",innerxml"`
}

type xmlFeature struct {
	API      string     `xml:"api,attr"`
	Name     string     `xml:"name,attr"`
	Number   string     `xml:"number,attr"`
	Requires []xmlBlock `xml:"require"`
	Removes  []xmlBlock `xml:"remove"`
}

type xmlBlock struct {
	Profile  string   `xml:"profile,attr"`
	Enums    []xmlRef `xml:"enum"`
	Commands []xmlRef `xml:"command"`
}

type xmlRef struct {
	Name string `xml:"name,attr"`
}

// Parse decodes a registry document.
func Parse(r io.Reader) (*Registry, error) {
	var doc xmlRegistry
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}

	reg := Registry{
		enumIndex: make(map[string]int),
		cmdIndex:  make(map[string]int),
	}

	for _, t := range doc.Types {
		text, err := innerText(t.Inner)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", t.Name, err)
		}
		reg.Types = append(reg.Types, Type{
			Name:     t.Name,
			Requires: t.Requires,
			API:      t.API,
			DeclName: t.DeclName,
			Text:     text,
			APIEntry: t.APIEntry != nil,
		})
	}

	for _, group := range doc.Enums {
		for _, e := range group.Enums {
			if i, ok := reg.enumIndex[e.Name]; ok {
				reg.Enums[i] = Enum(e)
				continue
			}
			reg.enumIndex[e.Name] = len(reg.Enums)
			reg.Enums = append(reg.Enums, Enum(e))
		}
	}

	for _, c := range doc.Commands {
		cmd, err := decodeCommand(c)
		if err != nil {
			return nil, err
		}
		if i, ok := reg.cmdIndex[cmd.Name]; ok {
			reg.Commands[i] = cmd
			continue
		}
		reg.cmdIndex[cmd.Name] = len(reg.Commands)
		reg.Commands = append(reg.Commands, cmd)
	}

	for _, f := range doc.Features {
		v, err := ParseVersion(f.Number)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", f.Name, err)
		}
		reg.Features = append(reg.Features, Feature{
			API:      f.API,
			Name:     f.Name,
			Version:  v,
			Requires: toBlocks(f.Requires),
			Removes:  toBlocks(f.Removes),
		})
	}

	return &reg, nil
}

func decodeCommand(c xmlCommand) (Command, error) {
	if c.Proto.Name == "" {
		return Command{}, fmt.Errorf("command without a name: %q", c.Proto.Inner)
	}

	ret, err := innerText(c.Proto.Inner, "name")
	if err != nil {
		return Command{}, fmt.Errorf("command %s: %w", c.Proto.Name, err)
	}

	cmd := Command{
		Name:   c.Proto.Name,
		Return: strings.TrimSpace(ret),
	}
	for _, p := range c.Params {
		text, err := innerText(p.Inner)
		if err != nil {
			return Command{}, fmt.Errorf("command %s: %w", c.Proto.Name, err)
		}
		cmd.Params = append(cmd.Params, text)
	}

	return cmd, nil
}

func toBlocks(blocks []xmlBlock) []Block {
	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		blk := Block{Profile: b.Profile}
		for _, e := range b.Enums {
			blk.Enums = append(blk.Enums, e.Name)
		}
		for _, c := range b.Commands {
			blk.Commands = append(blk.Commands, c.Name)
		}
		out = append(out, blk)
	}
	return out
}

// innerText concatenates the character data of an XML fragment, leaving
// out the text of elements named in skip.
func innerText(fragment string, skip ...string) (string, error) {
	dec := xml.NewDecoder(bytes.NewBufferString(fragment))

	var (
		b     strings.Builder
		depth int
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return b.String(), nil
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth > 0 || slices.Contains(skip, t.Name.Local) {
				depth++
			}
		case xml.EndElement:
			if depth > 0 {
				depth--
			}
		case xml.CharData:
			if depth == 0 {
				b.Write(t)
			}
		}
	}
}
