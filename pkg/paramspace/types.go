// Package paramspace implements the discrete state representation and the
// neighborhood/random-state generators the solvers anneal over.
package paramspace

import "fmt"

// Kind distinguishes the two parameter variants the catalog supports.
type Kind int

const (
	KindInt Kind = iota
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// IntParam is an integer parameter with space {min, min+step, ...} plus max
// if not already included.
type IntParam struct {
	Min     int
	Max     int
	Step    int
	Default int
}

// Validate checks min <= default <= max and step > 0.
func (p IntParam) Validate(name string) error {
	if p.Step <= 0 {
		return fmt.Errorf("parameter %q: step must be > 0, got %d", name, p.Step)
	}
	if p.Min > p.Max {
		return fmt.Errorf("parameter %q: min (%d) > max (%d)", name, p.Min, p.Max)
	}
	if p.Default < p.Min || p.Default > p.Max {
		return fmt.Errorf("parameter %q: default (%d) outside [%d, %d]", name, p.Default, p.Min, p.Max)
	}
	return nil
}

// Space enumerates every value in {min, min+step, ...} plus max if missing.
func (p IntParam) Space() []string {
	var vals []int
	for v := p.Min; v < p.Max; v += p.Step {
		vals = append(vals, v)
	}
	if len(vals) == 0 || vals[len(vals)-1] != p.Max {
		vals = append(vals, p.Max)
	}
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = fmt.Sprintf("%d", v)
	}
	return out
}

// DefaultRepr returns the string-encoded default value.
func (p IntParam) DefaultRepr() string {
	return fmt.Sprintf("%d", p.Default)
}

// BoolParam is a boolean parameter with a two-valued space of caller-chosen
// string representations (e.g. "on"/"off", "1"/"0").
type BoolParam struct {
	TrueRepr  string
	FalseRepr string
	Default   bool
}

// Validate checks the two reprs are distinct and non-empty.
func (p BoolParam) Validate(name string) error {
	if p.TrueRepr == "" || p.FalseRepr == "" {
		return fmt.Errorf("parameter %q: true_repr/false_repr must be non-empty", name)
	}
	if p.TrueRepr == p.FalseRepr {
		return fmt.Errorf("parameter %q: true_repr and false_repr must differ", name)
	}
	return nil
}

// Space returns {true_repr, false_repr}.
func (p BoolParam) Space() []string {
	return []string{p.TrueRepr, p.FalseRepr}
}

// DefaultRepr returns the string-encoded default value.
func (p BoolParam) DefaultRepr() string {
	if p.Default {
		return p.TrueRepr
	}
	return p.FalseRepr
}

// Descriptor is one parameter's name plus its variant-specific space. Exactly
// one of Int/Bool is populated, selected by Kind.
type Descriptor struct {
	Name string
	Kind Kind
	Int  IntParam
	Bool BoolParam
}

// Validate dispatches to the active variant's Validate.
func (d Descriptor) Validate() error {
	switch d.Kind {
	case KindInt:
		return d.Int.Validate(d.Name)
	case KindBool:
		return d.Bool.Validate(d.Name)
	default:
		return fmt.Errorf("parameter %q: unknown kind", d.Name)
	}
}

// Space returns the full set of string-encoded values this parameter can take.
func (d Descriptor) Space() []string {
	switch d.Kind {
	case KindInt:
		return d.Int.Space()
	case KindBool:
		return d.Bool.Space()
	default:
		return nil
	}
}

// DefaultRepr returns the string-encoded default value.
func (d Descriptor) DefaultRepr() string {
	switch d.Kind {
	case KindInt:
		return d.Int.DefaultRepr()
	case KindBool:
		return d.Bool.DefaultRepr()
	default:
		return ""
	}
}
