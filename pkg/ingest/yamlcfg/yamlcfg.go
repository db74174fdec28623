// Package yamlcfg reads a run's parameter catalog and tuner settings from
// YAML, the way the chaos-utils scenario parser reads fault scenarios:
// ${VAR}/$VAR substitution against a variable map and the environment,
// then unmarshal (grounded on pkg/scenario/parser.Parser and
// pkg/config.Config in the teacher repo).
package yamlcfg

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/jihwankim/satuner/pkg/cooler"
	"github.com/jihwankim/satuner/pkg/energy"
	"github.com/jihwankim/satuner/pkg/paramspace"
	"github.com/jihwankim/satuner/pkg/tuner"
)

var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// Reader parses run configuration YAML, substituting Variables (and falling
// back to the environment) before unmarshalling.
type Reader struct {
	Variables map[string]string
}

// NewReader returns a Reader with vars available for substitution.
func NewReader(vars map[string]string) *Reader {
	return &Reader{Variables: vars}
}

type rawParam struct {
	Name      string `yaml:"name"`
	Kind      string `yaml:"kind"`
	Min       int    `yaml:"min"`
	Max       int    `yaml:"max"`
	Step      int    `yaml:"step"`
	Default   int    `yaml:"default"`
	TrueRepr  string `yaml:"true_repr"`
	FalseRepr string `yaml:"false_repr"`
	BoolDefl  bool   `yaml:"default_bool"`
}

type rawTuner struct {
	MaxSteps           int      `yaml:"max_steps"`
	NumIter            int      `yaml:"num_iter"`
	MinTemp            *float64 `yaml:"min_temp"`
	MaxTemp            *float64 `yaml:"max_temp"`
	EnergyMode         string   `yaml:"energy_mode"`
	CoolingMode        string   `yaml:"cooling_mode"`
	SolverKind         string   `yaml:"solver_kind"`
	BootstrapProbes    int      `yaml:"bootstrap_probes"`
	RejectionThreshold int      `yaml:"rejection_threshold"`
	Seed               int64    `yaml:"seed"`
}

type rawConfig struct {
	Parameters []rawParam `yaml:"parameters"`
	Tuner      rawTuner   `yaml:"tuner"`
}

// Config is the resolved result of reading a run configuration: a parameter
// catalog and the tuner parameters, with solver_kind/energy_mode/
// cooling_mode already parsed. MinTemp and MaxTemp stay nil when the file
// leaves them unset, so callers can still run bootstrap before
// constructing the solver.
type Config struct {
	Catalog *paramspace.Catalog
	Tuner   tuner.Params
}

// ParseFile reads path, substitutes variables, and builds a Config.
func (r *Reader) ParseFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("yamlcfg: reading %s: %w", path, err)
	}
	return r.Parse(data)
}

// Parse substitutes variables in data and builds a Config from the result.
func (r *Reader) Parse(data []byte) (*Config, error) {
	substituted := r.substituteVariables(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(substituted), &raw); err != nil {
		return nil, fmt.Errorf("yamlcfg: parsing yaml: %w", err)
	}
	return build(raw)
}

func (r *Reader) substituteVariables(input string) string {
	return varPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := varPattern.FindStringSubmatch(match)
		name := groups[1]
		if name == "" {
			name = groups[2]
		}
		if v, ok := r.Variables[name]; ok {
			return v
		}
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return match
	})
}

func build(raw rawConfig) (*Config, error) {
	descriptors := make([]paramspace.Descriptor, 0, len(raw.Parameters))
	for _, rp := range raw.Parameters {
		d, err := buildDescriptor(rp)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d)
	}
	catalog, err := paramspace.NewCatalog(descriptors)
	if err != nil {
		return nil, err
	}

	energyMode, err := parseEnergyMode(raw.Tuner.EnergyMode)
	if err != nil {
		return nil, err
	}
	coolingMode, err := parseCoolingMode(raw.Tuner.CoolingMode)
	if err != nil {
		return nil, err
	}
	solverKind, err := parseSolverKind(raw.Tuner.SolverKind)
	if err != nil {
		return nil, err
	}

	return &Config{
		Catalog: catalog,
		Tuner: tuner.Params{
			MaxSteps:           raw.Tuner.MaxSteps,
			NumIter:            raw.Tuner.NumIter,
			MinTemp:            raw.Tuner.MinTemp,
			MaxTemp:            raw.Tuner.MaxTemp,
			EnergyMode:         energyMode,
			CoolingMode:        coolingMode,
			SolverKind:         solverKind,
			BootstrapProbes:    raw.Tuner.BootstrapProbes,
			RejectionThreshold: raw.Tuner.RejectionThreshold,
			Seed:               raw.Tuner.Seed,
		},
	}, nil
}

func buildDescriptor(rp rawParam) (paramspace.Descriptor, error) {
	switch rp.Kind {
	case "int", "":
		return paramspace.Descriptor{
			Name: rp.Name,
			Kind: paramspace.KindInt,
			Int: paramspace.IntParam{
				Min: rp.Min, Max: rp.Max, Step: rp.Step, Default: rp.Default,
			},
		}, nil
	case "bool":
		return paramspace.Descriptor{
			Name: rp.Name,
			Kind: paramspace.KindBool,
			Bool: paramspace.BoolParam{
				TrueRepr: rp.TrueRepr, FalseRepr: rp.FalseRepr, Default: rp.BoolDefl,
			},
		}, nil
	default:
		return paramspace.Descriptor{}, fmt.Errorf("yamlcfg: parameter %q: unknown kind %q", rp.Name, rp.Kind)
	}
}

func parseEnergyMode(s string) (energy.Mode, error) {
	switch s {
	case "throughput", "":
		return energy.Throughput, nil
	case "latency":
		return energy.Latency, nil
	default:
		return 0, fmt.Errorf("yamlcfg: unknown energy_mode %q", s)
	}
}

func parseCoolingMode(s string) (cooler.Kind, error) {
	switch s {
	case "exponential", "":
		return cooler.Exponential, nil
	case "linear":
		return cooler.Linear, nil
	case "basic_exp":
		return cooler.BasicExp, nil
	default:
		return 0, fmt.Errorf("yamlcfg: unknown cooling_mode %q", s)
	}
}

func parseSolverKind(s string) (tuner.SolverKind, error) {
	switch s {
	case "seqsa", "":
		return tuner.SEQSA, nil
	case "mir":
		return tuner.MIR, nil
	case "spisa":
		return tuner.SPISA, nil
	case "prsa":
		return tuner.PRSA, nil
	default:
		return 0, fmt.Errorf("yamlcfg: unknown solver_kind %q", s)
	}
}
