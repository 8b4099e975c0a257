package glregistry

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/agext/levenshtein"
)

// ErrConsistency is matched by every error caused by a registry whose
// features contradict each other.
var ErrConsistency = errors.New("registry inconsistency")

// ConsistencyError reports a remove entry naming something the profile
// being derived does not contain.
type ConsistencyError struct {
	API     string
	Version Version
	Kind    string
	Name    string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s: feature %s %s removes %s %s which is not present", ErrConsistency, e.API, e.Version, e.Kind, e.Name)
}

func (e *ConsistencyError) Is(target error) bool { return target == ErrConsistency }

// Names is a set of symbol names.
type Names map[string]struct{}

// Has reports whether name is in the set.
func (n Names) Has(name string) bool {
	_, ok := n[name]
	return ok
}

// Sorted returns the names in ascending order.
func (n Names) Sorted() []string {
	out := make([]string, 0, len(n))
	for name := range n {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (n Names) clone() Names {
	out := make(Names, len(n))
	for name := range n {
		out[name] = struct{}{}
	}
	return out
}

func (n Names) addAll(names ...string) {
	for _, name := range names {
		n[name] = struct{}{}
	}
}

func (n Names) union(o Names) {
	for name := range o {
		n[name] = struct{}{}
	}
}

// SymbolSet is what one profile of one API version exposes.
type SymbolSet struct {
	Enums     Names
	Functions Names
}

func newSymbolSet() SymbolSet {
	return SymbolSet{Enums: make(Names), Functions: make(Names)}
}

func (s SymbolSet) clone() SymbolSet {
	return SymbolSet{Enums: s.Enums.clone(), Functions: s.Functions.clone()}
}

func (s SymbolSet) union(o SymbolSet) {
	s.Enums.union(o.Enums)
	s.Functions.union(o.Functions)
}

func (s SymbolSet) add(b Block) {
	s.Enums.addAll(b.Enums...)
	s.Functions.addAll(b.Commands...)
}

// Surface is the resolved content of one API version. Core is nil until a
// version of the API first removes something.
type Surface struct {
	Compatibility SymbolSet
	Core          *SymbolSet
}

// Symbols is the sorted list of names a target exposes for runtime
// resolution.
type Symbols struct {
	Functions []string
	Enums     []string
}

// Catalog holds the resolved surface of every API version in a registry.
type Catalog struct {
	apis map[string]map[Version]Surface
}

// Resolve walks the features in registry order and derives the cumulative
// compatibility and core surface of every API version.
func Resolve(reg *Registry) (*Catalog, error) {
	cat := Catalog{apis: make(map[string]map[Version]Surface)}

	for _, f := range reg.Features {
		compat := newSymbolSet()
		coreAdds := newSymbolSet()
		for _, b := range f.Requires {
			compat.add(b)
			if b.Profile != "compatibility" {
				coreAdds.add(b)
			}
		}

		removes := false
		for _, b := range f.Removes {
			if !b.empty() {
				removes = true
			}
		}

		versions := cat.apis[f.API]
		latest, hasLatest := cat.latest(f.API)

		var core *SymbolSet
		if removes || (hasLatest && latest.Core != nil) {
			derived := newSymbolSet()
			switch {
			case hasLatest && latest.Core != nil:
				derived = latest.Core.clone()
			case hasLatest:
				derived = latest.Compatibility.clone()
			}
			derived.union(coreAdds)

			if err := applyRemoves(&derived, f); err != nil {
				return nil, err
			}
			core = &derived
		}

		if hasLatest {
			compat.union(latest.Compatibility)
		}

		if versions == nil {
			versions = make(map[Version]Surface)
			cat.apis[f.API] = versions
		}
		versions[f.Version] = Surface{Compatibility: compat, Core: core}
	}

	return &cat, nil
}

func applyRemoves(set *SymbolSet, f Feature) error {
	enums := make(Names)
	funcs := make(Names)
	for _, b := range f.Removes {
		enums.addAll(b.Enums...)
		funcs.addAll(b.Commands...)
	}

	for _, name := range funcs.Sorted() {
		if !set.Functions.Has(name) {
			return &ConsistencyError{API: f.API, Version: f.Version, Kind: "command", Name: name}
		}
		delete(set.Functions, name)
	}
	for _, name := range enums.Sorted() {
		if !set.Enums.Has(name) {
			return &ConsistencyError{API: f.API, Version: f.Version, Kind: "enum", Name: name}
		}
		delete(set.Enums, name)
	}

	return nil
}

func (c *Catalog) latest(api string) (Surface, bool) {
	versions := c.Versions(api)
	if len(versions) == 0 {
		return Surface{}, false
	}
	return c.apis[api][versions[len(versions)-1]], true
}

// APIs returns the API family names in ascending order.
func (c *Catalog) APIs() []string {
	out := make([]string, 0, len(c.apis))
	for api := range c.apis {
		out = append(out, api)
	}
	sort.Strings(out)
	return out
}

// Versions returns the known versions of api in ascending order.
func (c *Catalog) Versions(api string) []Version {
	out := make([]Version, 0, len(c.apis[api]))
	for v := range c.apis[api] {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b Version) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	return out
}

// Surface returns the resolved surface of one API version.
func (c *Catalog) Surface(api string, v Version) (Surface, bool) {
	s, ok := c.apis[api][v]
	return s, ok
}

// Lookup returns the symbols one API version exposes under profile, which
// is "core" or "compatibility".
func (c *Catalog) Lookup(api, version, profile string) (Symbols, error) {
	versions, ok := c.apis[api]
	if !ok {
		return Symbols{}, fmt.Errorf("unknown api %q%s", api, suggest(api, c.APIs()))
	}

	v, err := ParseVersion(version)
	if err != nil {
		return Symbols{}, err
	}

	surface, ok := versions[v]
	if !ok {
		known := make([]string, 0, len(versions))
		for _, kv := range c.Versions(api) {
			known = append(known, kv.String())
		}
		return Symbols{}, fmt.Errorf("unknown version %s of %s%s", version, api, suggest(version, known))
	}

	var set SymbolSet
	switch profile {
	case "compatibility":
		set = surface.Compatibility
	case "core":
		if surface.Core == nil {
			return Symbols{}, fmt.Errorf("%s %s has no core profile", api, version)
		}
		set = *surface.Core
	default:
		return Symbols{}, fmt.Errorf("unknown profile %q%s", profile, suggest(profile, []string{"compatibility", "core"}))
	}

	return Symbols{
		Functions: set.Functions.Sorted(),
		Enums:     set.Enums.Sorted(),
	}, nil
}

// suggest formats a "did you mean" hint naming the closest candidate.
func suggest(name string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.Distance(name, c, nil)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if best == "" || bestDist > len(best)/2+1 {
		return ""
	}
	return fmt.Sprintf(", did you mean %q?", best)
}
