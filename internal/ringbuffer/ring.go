// ════════════════════════════════════════════════════════════════════════════════════════════════
// DELAY-INDEXED SYNAPTIC RING BUFFER
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Synapse Processing Core
// Component: Per-core post-synaptic input accumulator
//
// Description:
//   Accumulates weighted synaptic contributions into a 2-D grid R[delay_slot][post_index], where
//   delay_slot = (tick + total_delay) mod 2^DelayBits. Each tick, the scheduler drains exactly one
//   slot (the one whose delay_slot equals the current tick modulo the ring depth) and hands the
//   row of accumulated input to the downstream neuron component. Entries saturate rather than
//   overflow, since a lost spike contribution is less harmful than wrapped arithmetic.
//
// Notes:
//   - Single-core, single-threaded: no atomics needed. The scheduler is the only caller, and it
//     never calls Add and DrainSlot concurrently.
//   - Fixed allocation at construction; never resizes during a simulation run, matching the
//     "all buffers allocated at init" lifecycle invariant.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package ringbuffer

// Weight is the saturating fixed-point accumulator type for one (delay_slot, post_index) entry.
// Matches the downstream neuron input word width used by the reference configuration.
type Weight = uint16

const maxWeight = ^Weight(0)

// Ring is a delay-indexed accumulator of post-synaptic input, 2^delayBits rows by numPost columns.
//
//go:notinheap
type Ring struct {
	rows      [][]Weight
	delayMask uint64
}

// New allocates a ring with 2^delayBits delay slots, each numPost entries wide. delayBits must be
// a positive integer no larger than 32; numPost must be positive.
func New(delayBits uint, numPost int) *Ring {
	if delayBits == 0 || delayBits > 32 {
		panic("ringbuffer: delayBits must be in [1,32]")
	}
	if numPost <= 0 {
		panic("ringbuffer: numPost must be positive")
	}
	depth := uint64(1) << delayBits
	r := &Ring{
		rows:      make([][]Weight, depth),
		delayMask: depth - 1,
	}
	for i := range r.rows {
		r.rows[i] = make([]Weight, numPost)
	}
	return r
}

// Depth returns the number of delay slots (2^DelayBits).
func (r *Ring) Depth() int { return len(r.rows) }

// NumPost returns the number of post-synaptic columns per slot.
func (r *Ring) NumPost() int {
	if len(r.rows) == 0 {
		return 0
	}
	return len(r.rows[0])
}

// Add deposits weight into slot (tick mod 2^DelayBits) at column postIndex, saturating at the
// accumulator's maximum representable value on overflow. The caller (the row kernels) is
// responsible for passing an already delay-adjusted tick (tick + total_delay); Add itself only
// performs the modulo-depth indexing.
//
//go:nosplit
//go:inline
// Add reports whether the deposit saturated the slot's accumulator.
func (r *Ring) Add(tick int64, postIndex int, weight Weight) bool {
	slot := uint64(tick) & r.delayMask
	row := r.rows[slot]
	cur := row[postIndex]
	sum := uint32(cur) + uint32(weight)
	if sum > uint32(maxWeight) {
		row[postIndex] = maxWeight
		return true
	}
	row[postIndex] = Weight(sum)
	return false
}

// DrainSlot returns the contents of the slot for the given tick and zeroes it in place so the
// slot is ready to accumulate contributions for the next time it is indexed (tick + depth ticks
// from now). Per the ring-drain invariant, each slot must be drained exactly once at the tick
// when slot == tick mod 2^DelayBits; calling DrainSlot twice for the same tick returns the zeroed
// slot the second time, which is the caller's responsibility to avoid.
func (r *Ring) DrainSlot(tick int64) []Weight {
	slot := uint64(tick) & r.delayMask
	row := r.rows[slot]
	out := make([]Weight, len(row))
	copy(out, row)
	for i := range row {
		row[i] = 0
	}
	return out
}
