// ════════════════════════════════════════════════════════════════════════════════════════════════
// MATRIX GENERATOR
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Synapse Processing Core
// Component: Produces packed rows from connector/delay/weight generators and an RNG
//
// Description:
//   Offline generation of a connectivity matrix: for each of NumRows rows, a ConnectorGenerator
//   produces up to MaxRowSynapses post-synaptic indices, then DelayGenerator and WeightGenerator
//   produce a value per index, and the row is packed via the codec. Every row occupies a fixed
//   stride of 3+MaxRowSynapses words regardless of how many synapses it actually used, so that
//   rows can be randomly accessed by row_stride rather than scanned.
//
// Notes:
//   - The original generator advanced its output pointer past the padding with
//     `*matrixAddress += (maxRowSynapses - numIndices)`, which mutates the value stored at the
//     pointer instead of advancing the pointer itself — almost certainly a transcription bug, since
//     it leaves the padding region's first word corrupted and every row after the first
//     misaligned. This generator advances the pointer instead and leaves padding words untouched
//     (uninitialised; readers honour the row's own N).
// ════════════════════════════════════════════════════════════════════════════════════════════════

package matrixgen

import (
	"math/rand"

	"synapsecore/internal/rowcodec"
)

// ConnectorGenerator produces the post-synaptic indices for row i, writing up to maxRowSynapses
// entries into indices and returning how many it wrote.
type ConnectorGenerator interface {
	Generate(row uint32, maxRowSynapses, numPost int, rng *rand.Rand, indices []uint32) int
}

// ParamGenerator produces count values (delays or weights) scaled by fixedPoint where applicable.
type ParamGenerator interface {
	Generate(count int, fixedPoint int, rng *rand.Rand, out []int32)
}

// Config parameterises one matrix-generation run.
type Config struct {
	NumRows          int
	MaxRowSynapses   int
	WeightFixedPoint int
	NumPost          int
	Connector        ConnectorGenerator
	DelayGenerator   ParamGenerator
	WeightGenerator  ParamGenerator
}

// RowStride returns the fixed word stride of one row: a 3-word header plus MaxRowSynapses
// synaptic-word slots.
func (c Config) RowStride() int { return 3 + c.MaxRowSynapses }

// Generate packs c.NumRows static rows into out, which must be at least c.NumRows*c.RowStride()
// words long. Returns the total number of words written (always exactly NumRows*RowStride()).
func Generate(out []uint32, c Config, rng *rand.Rand) int {
	stride := c.RowStride()
	indices := make([]uint32, c.MaxRowSynapses)
	delays := make([]int32, c.MaxRowSynapses)
	weights := make([]int32, c.MaxRowSynapses)

	pos := 0
	for i := 0; i < c.NumRows; i++ {
		n := c.Connector.Generate(uint32(i), c.MaxRowSynapses, c.NumPost, rng, indices)
		c.DelayGenerator.Generate(n, 0, rng, delays)
		c.WeightGenerator.Generate(n, c.WeightFixedPoint, rng, weights)

		out[pos] = uint32(n)
		out[pos+1] = 0 // delay-extension unsupported in the generator
		out[pos+2] = 0
		for j := 0; j < n; j++ {
			out[pos+3+j] = rowcodec.EncodeSynapse(indices[j], uint32(delays[j]), uint32(weights[j]))
		}
		pos += stride
	}
	return pos
}
