// ════════════════════════════════════════════════════════════════════════════════════════════════
// WEIGHT DEPENDENCE
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Synapse Processing Core
// Component: Bounds and scales plastic weight updates
// ════════════════════════════════════════════════════════════════════════════════════════════════

package plasticity

import "synapsecore/internal/ringbuffer"

// Weight is the synaptic weight type shared with the ring buffer: the same fixed-point value that
// is eventually deposited via apply_input.
type Weight = ringbuffer.Weight

// Amount is a depression or potentiation magnitude, in the same fixed-point scale as Weight,
// produced by a TimingDependence lookup and consumed by a WeightDependence.
type Amount int32

// WeightState is the per-synapse accumulator threaded through one row update: constructed from the
// stored plastic word, mutated by zero or more ApplyDepression/ApplyPotentiation calls, then
// resolved to a final weight via FinalWeight.
type WeightState struct {
	weight int64
	aux    int64 // structural extra (e.g. an eligibility trace); opaque to WeightDependence
}

// WeightDependence bounds a plastic weight as it responds to depression/potentiation events.
type WeightDependence interface {
	NewState(initial Weight) WeightState
	ApplyDepression(state *WeightState, amount Amount)
	ApplyPotentiation(state *WeightState, amount Amount)
	FinalWeight(state WeightState) Weight
}

// Additive is the additive weight dependence: depression and potentiation move the weight by a
// fixed amount scaled by a global factor, independent of the weight's current value, saturating at
// Min/Max.
type Additive struct {
	Min, Max Weight
	APlus    int64 // Q16 scale applied to potentiation amounts
	AMinus   int64 // Q16 scale applied to depression amounts
}

func (d Additive) NewState(initial Weight) WeightState {
	return WeightState{weight: int64(initial)}
}

func (d Additive) ApplyDepression(s *WeightState, amount Amount) {
	s.weight -= (int64(amount) * d.AMinus) >> 16
	if s.weight < int64(d.Min) {
		s.weight = int64(d.Min)
	}
}

func (d Additive) ApplyPotentiation(s *WeightState, amount Amount) {
	s.weight += (int64(amount) * d.APlus) >> 16
	if s.weight > int64(d.Max) {
		s.weight = int64(d.Max)
	}
}

func (d Additive) FinalWeight(s WeightState) Weight {
	return clampWeight(s.weight, d.Min, d.Max)
}

// Multiplicative is the multiplicative weight dependence: the step size shrinks as the weight
// approaches its bound (potentiation scales with distance to Max, depression with distance to
// Min), producing a soft-bound update rather than Additive's hard saturation.
type Multiplicative struct {
	Min, Max Weight
	APlus    int64 // Q16 scale applied to potentiation amounts
	AMinus   int64 // Q16 scale applied to depression amounts
}

func (d Multiplicative) NewState(initial Weight) WeightState {
	return WeightState{weight: int64(initial)}
}

func (d Multiplicative) ApplyDepression(s *WeightState, amount Amount) {
	span := s.weight - int64(d.Min)
	s.weight -= ((int64(amount) * d.AMinus) >> 16) * span >> 16
	if s.weight < int64(d.Min) {
		s.weight = int64(d.Min)
	}
}

func (d Multiplicative) ApplyPotentiation(s *WeightState, amount Amount) {
	span := int64(d.Max) - s.weight
	s.weight += ((int64(amount) * d.APlus) >> 16) * span >> 16
	if s.weight > int64(d.Max) {
		s.weight = int64(d.Max)
	}
}

func (d Multiplicative) FinalWeight(s WeightState) Weight {
	return clampWeight(s.weight, d.Min, d.Max)
}

func clampWeight(w int64, min, max Weight) Weight {
	if w < int64(min) {
		return min
	}
	if w > int64(max) {
		return max
	}
	return Weight(w)
}
