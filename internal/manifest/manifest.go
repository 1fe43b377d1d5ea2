// ════════════════════════════════════════════════════════════════════════════════════════════════
// MATRIX GENERATOR MANIFEST
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Synapse Processing Core
// Component: Reads connector/delay/weight generator descriptors for the matrix generator
//
// Description:
//   A manifest is a JSON document describing one or more projections: a connector kind and its
//   parameters, a delay generator and weight generator, and the row-shape bounds (NumRows,
//   MaxRowSynapses, NumPost). Decoding uses sonnet, a drop-in encoding/json replacement, the way
//   the teacher's harvester decodes JSON-RPC payloads.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package manifest

import (
	"fmt"

	"github.com/sugawarayuuta/sonnet"

	"synapsecore/internal/matrixgen"
)

// GeneratorSpec names a connector or parameter generator kind and its parameters, as they appear
// in a manifest file. Which fields are used is kind-specific; ProjectionSpec.Config resolves the
// kind against the known connector and parameter generator kinds.
type GeneratorSpec struct {
	Kind  string  `json:"kind"`
	P     float64 `json:"p,omitempty"`
	N     int     `json:"n,omitempty"`
	Value float64 `json:"value,omitempty"`
	Min   float64 `json:"min,omitempty"`
	Max   float64 `json:"max,omitempty"`
	Mean  float64 `json:"mean,omitempty"`
	SD    float64 `json:"sd,omitempty"`
	Clip  bool    `json:"clip,omitempty"`
	Allow bool    `json:"allow_self,omitempty"`
}

// ProjectionSpec is one manifest entry describing a single projection to generate.
type ProjectionSpec struct {
	Name             string        `json:"name"`
	NumRows          int           `json:"num_rows"`
	MaxRowSynapses   int           `json:"max_row_synapses"`
	NumPost          int           `json:"num_post"`
	WeightFixedPoint int           `json:"weight_fixed_point"`
	Connector        GeneratorSpec `json:"connector"`
	Delay            GeneratorSpec `json:"delay"`
	Weight           GeneratorSpec `json:"weight"`
}

// Manifest is the top-level decoded document: an RNG seed and a list of projections.
type Manifest struct {
	Seed        int64            `json:"seed"`
	Projections []ProjectionSpec `json:"projections"`
}

// Load decodes a manifest document.
func Load(data []byte) (*Manifest, error) {
	var m Manifest
	if err := sonnet.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}
	return &m, nil
}

// Config resolves a ProjectionSpec into a matrixgen.Config ready to pass to matrixgen.Generate.
func (p ProjectionSpec) Config() (matrixgen.Config, error) {
	connector, err := buildConnector(p.Connector)
	if err != nil {
		return matrixgen.Config{}, fmt.Errorf("manifest: projection %q: connector: %w", p.Name, err)
	}
	delayGen, err := buildParam(p.Delay)
	if err != nil {
		return matrixgen.Config{}, fmt.Errorf("manifest: projection %q: delay: %w", p.Name, err)
	}
	weightGen, err := buildParam(p.Weight)
	if err != nil {
		return matrixgen.Config{}, fmt.Errorf("manifest: projection %q: weight: %w", p.Name, err)
	}
	return matrixgen.Config{
		NumRows:          p.NumRows,
		MaxRowSynapses:   p.MaxRowSynapses,
		WeightFixedPoint: p.WeightFixedPoint,
		NumPost:          p.NumPost,
		Connector:        connector,
		DelayGenerator:   delayGen,
		WeightGenerator:  weightGen,
	}, nil
}

func buildConnector(g GeneratorSpec) (matrixgen.ConnectorGenerator, error) {
	switch g.Kind {
	case "all_to_all":
		return matrixgen.AllToAll{AllowSelf: g.Allow}, nil
	case "one_to_one":
		return matrixgen.OneToOne{}, nil
	case "fixed_probability":
		return matrixgen.FixedProbability{P: g.P, AllowSelf: g.Allow}, nil
	case "fixed_total_number":
		return matrixgen.FixedTotalNumber{N: g.N, AllowSelf: g.Allow}, nil
	default:
		return nil, fmt.Errorf("unknown connector kind %q", g.Kind)
	}
}

func buildParam(g GeneratorSpec) (matrixgen.ParamGenerator, error) {
	switch g.Kind {
	case "constant":
		return matrixgen.Constant{Value: g.Value}, nil
	case "uniform":
		return matrixgen.Uniform{Min: g.Min, Max: g.Max}, nil
	case "normal":
		return matrixgen.Normal{Mean: g.Mean, SD: g.SD, Clip: g.Clip, Min: g.Min, Max: g.Max}, nil
	default:
		return nil, fmt.Errorf("unknown parameter generator kind %q", g.Kind)
	}
}
