package paramspace

import "fmt"

// Catalog is the immutable, ordered set of parameter descriptors a run
// tunes over. Created once at startup from a config reader
// (pkg/ingest/yamlcfg or pkg/ingest/xmlcfg) and never mutated afterward.
type Catalog struct {
	params []Descriptor
}

// NewCatalog validates and wraps descriptors into a Catalog. An empty
// catalog is a configuration error (spec.md §7/§8).
func NewCatalog(params []Descriptor) (*Catalog, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("paramspace: empty parameter catalog")
	}
	seen := make(map[string]struct{}, len(params))
	for _, p := range params {
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("paramspace: duplicate parameter name %q", p.Name)
		}
		seen[p.Name] = struct{}{}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("paramspace: %w", err)
		}
		if len(p.Space()) == 0 {
			return nil, fmt.Errorf("paramspace: parameter %q has an empty space", p.Name)
		}
	}
	out := make([]Descriptor, len(params))
	copy(out, params)
	return &Catalog{params: out}, nil
}

// Descriptors returns the catalog's parameters in declaration order.
func (c *Catalog) Descriptors() []Descriptor {
	out := make([]Descriptor, len(c.params))
	copy(out, c.params)
	return out
}

// Names returns the parameter names in declaration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.params))
	for i, p := range c.params {
		out[i] = p.Name
	}
	return out
}

// Len reports the number of parameters.
func (c *Catalog) Len() int {
	return len(c.params)
}

// Lookup finds a descriptor by name.
func (c *Catalog) Lookup(name string) (Descriptor, bool) {
	for _, p := range c.params {
		if p.Name == name {
			return p, true
		}
	}
	return Descriptor{}, false
}

// Conforms reports whether s contains exactly the catalog's parameter names,
// each holding a value from that parameter's declared space — the
// per-State invariant spec.md §3/§8 requires of every produced or
// consumed State.
func (c *Catalog) Conforms(s State) bool {
	if len(s) != len(c.params) {
		return false
	}
	for _, p := range c.params {
		v, ok := s[p.Name]
		if !ok {
			return false
		}
		in := false
		for _, sv := range p.Space() {
			if sv == v {
				in = true
				break
			}
		}
		if !in {
			return false
		}
	}
	return true
}
