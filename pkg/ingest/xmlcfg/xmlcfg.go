// Package xmlcfg reads a run's parameter catalog and tuner settings from
// XML, mirroring the predecessor's xml_parser/xml_reader modules. No XML
// library appears anywhere in the example pack, so this reader is built on
// the standard library's encoding/xml.
package xmlcfg

import (
	"encoding/xml"
	"fmt"
	"os"

	"github.com/jihwankim/satuner/pkg/cooler"
	"github.com/jihwankim/satuner/pkg/energy"
	"github.com/jihwankim/satuner/pkg/ingest/yamlcfg"
	"github.com/jihwankim/satuner/pkg/paramspace"
	"github.com/jihwankim/satuner/pkg/tuner"
)

type xmlParameter struct {
	Name      string `xml:"name,attr"`
	Kind      string `xml:"kind,attr"`
	Min       int    `xml:"min,attr"`
	Max       int    `xml:"max,attr"`
	Step      int    `xml:"step,attr"`
	Default   int    `xml:"default,attr"`
	TrueRepr  string `xml:"true_repr,attr"`
	FalseRepr string `xml:"false_repr,attr"`
	BoolDefl  bool   `xml:"default_bool,attr"`
}

type xmlTuner struct {
	MaxSteps           int      `xml:"max_steps,attr"`
	NumIter            int      `xml:"num_iter,attr"`
	MinTemp            *float64 `xml:"min_temp,attr"`
	MaxTemp            *float64 `xml:"max_temp,attr"`
	EnergyMode         string   `xml:"energy_mode,attr"`
	CoolingMode        string   `xml:"cooling_mode,attr"`
	SolverKind         string   `xml:"solver_kind,attr"`
	BootstrapProbes    int      `xml:"bootstrap_probes,attr"`
	RejectionThreshold int      `xml:"rejection_threshold,attr"`
	Seed               int64    `xml:"seed,attr"`
}

type xmlConfig struct {
	XMLName    xml.Name       `xml:"config"`
	Parameters []xmlParameter `xml:"parameters>parameter"`
	Tuner      xmlTuner       `xml:"tuner"`
}

// ParseFile reads and builds a yamlcfg.Config from an XML run configuration
// at path. Variable substitution is not offered here: the predecessor's XML
// configs were already fully resolved by the time they reached the tuner.
func ParseFile(path string) (*yamlcfg.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("xmlcfg: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a yamlcfg.Config from raw XML bytes.
func Parse(data []byte) (*yamlcfg.Config, error) {
	var raw xmlConfig
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("xmlcfg: parsing xml: %w", err)
	}

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

	return &yamlcfg.Config{
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

func buildDescriptor(rp xmlParameter) (paramspace.Descriptor, error) {
	switch rp.Kind {
	case "int", "":
		return paramspace.Descriptor{
			Name: rp.Name,
			Kind: paramspace.KindInt,
			Int:  paramspace.IntParam{Min: rp.Min, Max: rp.Max, Step: rp.Step, Default: rp.Default},
		}, nil
	case "bool":
		return paramspace.Descriptor{
			Name: rp.Name,
			Kind: paramspace.KindBool,
			Bool: paramspace.BoolParam{TrueRepr: rp.TrueRepr, FalseRepr: rp.FalseRepr, Default: rp.BoolDefl},
		}, nil
	default:
		return paramspace.Descriptor{}, fmt.Errorf("xmlcfg: parameter %q: unknown kind %q", rp.Name, rp.Kind)
	}
}

func parseEnergyMode(s string) (energy.Mode, error) {
	switch s {
	case "throughput", "":
		return energy.Throughput, nil
	case "latency":
		return energy.Latency, nil
	default:
		return 0, fmt.Errorf("xmlcfg: unknown energy_mode %q", s)
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
		return 0, fmt.Errorf("xmlcfg: unknown cooling_mode %q", s)
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
		return 0, fmt.Errorf("xmlcfg: unknown solver_kind %q", s)
	}
}
