// ════════════════════════════════════════════════════════════════════════════════════════════════
// CONNECTOR / PARAMETER GENERATORS
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Synapse Processing Core
// Component: Concrete connector and delay/weight parameter generators
// ════════════════════════════════════════════════════════════════════════════════════════════════

package matrixgen

import "math/rand"

// AllToAll connects row i to every post-synaptic neuron except itself when allowSelf is false.
type AllToAll struct {
	AllowSelf bool
}

func (c AllToAll) Generate(row uint32, maxRowSynapses, numPost int, rng *rand.Rand, indices []uint32) int {
	n := 0
	for post := 0; post < numPost && n < maxRowSynapses; post++ {
		if !c.AllowSelf && uint32(post) == row {
			continue
		}
		indices[n] = uint32(post)
		n++
	}
	return n
}

// OneToOne connects row i to post-synaptic neuron i only, when i is a valid post index.
type OneToOne struct{}

func (OneToOne) Generate(row uint32, maxRowSynapses, numPost int, rng *rand.Rand, indices []uint32) int {
	if int(row) >= numPost || maxRowSynapses == 0 {
		return 0
	}
	indices[0] = row
	return 1
}

// FixedProbability connects row i to each post-synaptic neuron independently with probability P.
type FixedProbability struct {
	P         float64
	AllowSelf bool
}

func (c FixedProbability) Generate(row uint32, maxRowSynapses, numPost int, rng *rand.Rand, indices []uint32) int {
	n := 0
	for post := 0; post < numPost && n < maxRowSynapses; post++ {
		if !c.AllowSelf && uint32(post) == row {
			continue
		}
		if rng.Float64() < c.P {
			indices[n] = uint32(post)
			n++
		}
	}
	return n
}

// FixedTotalNumber connects row i to exactly min(N, numPost eligible, maxRowSynapses) distinct,
// uniformly chosen post-synaptic neurons.
type FixedTotalNumber struct {
	N         int
	AllowSelf bool
}

func (c FixedTotalNumber) Generate(row uint32, maxRowSynapses, numPost int, rng *rand.Rand, indices []uint32) int {
	pool := make([]uint32, 0, numPost)
	for post := 0; post < numPost; post++ {
		if !c.AllowSelf && uint32(post) == row {
			continue
		}
		pool = append(pool, uint32(post))
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	n := c.N
	if n > len(pool) {
		n = len(pool)
	}
	if n > maxRowSynapses {
		n = maxRowSynapses
	}
	copy(indices, pool[:n])
	return n
}

// Constant yields the same fixed-point value for every entry.
type Constant struct {
	Value float64
}

func (c Constant) Generate(count int, fixedPoint int, rng *rand.Rand, out []int32) {
	v := toFixedPoint(c.Value, fixedPoint)
	for i := 0; i < count; i++ {
		out[i] = v
	}
}

// Uniform yields a value drawn uniformly from [Min, Max), converted to the given fixed-point
// scale (fixedPoint == 0 means the value is an integer tick count, not a fractional weight).
type Uniform struct {
	Min, Max float64
}

func (u Uniform) Generate(count int, fixedPoint int, rng *rand.Rand, out []int32) {
	span := u.Max - u.Min
	for i := 0; i < count; i++ {
		v := u.Min + rng.Float64()*span
		out[i] = toFixedPoint(v, fixedPoint)
	}
}

// Normal yields a value drawn from N(Mean, SD^2), clipped to [Min, Max] if Clip is true.
type Normal struct {
	Mean, SD float64
	Clip     bool
	Min, Max float64
}

func (n Normal) Generate(count int, fixedPoint int, rng *rand.Rand, out []int32) {
	for i := 0; i < count; i++ {
		v := n.Mean + rng.NormFloat64()*n.SD
		if n.Clip {
			if v < n.Min {
				v = n.Min
			}
			if v > n.Max {
				v = n.Max
			}
		}
		out[i] = toFixedPoint(v, fixedPoint)
	}
}

func toFixedPoint(v float64, fixedPoint int) int32 {
	if fixedPoint == 0 {
		return int32(v)
	}
	return int32(v * float64(int64(1)<<uint(fixedPoint)))
}
