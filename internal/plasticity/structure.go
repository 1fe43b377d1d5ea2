// ════════════════════════════════════════════════════════════════════════════════════════════════
// SYNAPSE STRUCTURE
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Synapse Processing Core
// Component: In-row plastic word layout
// ════════════════════════════════════════════════════════════════════════════════════════════════

package plasticity

// SynapseStructure defines how a plastic word is decoded into update state and re-encoded after an
// update, independent of which WeightDependence/TimingDependence is configured.
type SynapseStructure interface {
	FromPlasticWord(word uint32, dep WeightDependence) WeightState
	ToPlasticWord(state WeightState) uint32
}

// WeightOnly is the plastic word layout where the entire word is the weight; no structural state
// beyond the weight itself survives between updates.
type WeightOnly struct{}

func (WeightOnly) FromPlasticWord(word uint32, dep WeightDependence) WeightState {
	return dep.NewState(Weight(word))
}

func (WeightOnly) ToPlasticWord(state WeightState) uint32 {
	return uint32(state.weight)
}

const eligibilityShift = 16

// EligibilityTrace packs a weight in the low 16 bits and a decaying eligibility trace in the high
// 16 bits. The trace is carried across updates unscaled by WeightDependence and is folded into the
// running weight (at a fixed fraction) on every subsequent update before decaying by half.
type EligibilityTrace struct{}

func (EligibilityTrace) FromPlasticWord(word uint32, dep WeightDependence) WeightState {
	weight := Weight(word & 0xFFFF)
	trace := int64(word>>eligibilityShift) & 0xFFFF
	s := dep.NewState(weight)
	s.weight += trace >> 8 // fold a fraction of accumulated eligibility into the running weight
	s.aux = trace >> 1     // remaining eligibility decays by half each update
	return s
}

func (EligibilityTrace) ToPlasticWord(state WeightState) uint32 {
	trace := uint32(state.aux) & 0xFFFF
	return uint32(uint16(state.weight)) | trace<<eligibilityShift
}
