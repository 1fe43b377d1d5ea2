// ════════════════════════════════════════════════════════════════════════════════════════════════
// STATIC ROW KERNEL
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Synapse Processing Core
// Component: Applies a fixed-weight synaptic row into the ring buffer
//
// Description:
//   Static rows carry no plastic state: applying one is a pure scan of the row's synaptic words,
//   decoding each into (post index, delay, weight) and depositing it via the caller-supplied
//   apply_input callback. No write-back, no trace bookkeeping.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package statickernel

import "synapsecore/internal/rowcodec"

// ApplyInputFunc deposits a weighted contribution for delivery at deliveryTick to postIndex.
type ApplyInputFunc func(deliveryTick int64, postIndex uint32, weight uint32)

// AddDelayRowFunc schedules a delay-extension replay of this row at targetTick.
type AddDelayRowFunc func(targetTick int64, locator uint32)

// Apply scans a static row buffer and deposits each synapse's weighted contribution.
// row[0] is the synapse count N, row[1] the delay-extension offset (0 = none), row[2] the
// delay-extension locator, and row[3:3+N] the packed synaptic words.
func Apply(row []uint32, tick int64, applyInput ApplyInputFunc, addDelayRow AddDelayRowFunc) {
	n := row[0]
	if row[1] != 0 {
		addDelayRow(int64(row[1])+tick, row[2])
	}
	for i := uint32(0); i < n; i++ {
		word := row[3+i]
		index := rowcodec.DecodeIndex(word)
		delay := rowcodec.DecodeDelay(word)
		weight := rowcodec.DecodeWeight(word)
		applyInput(tick+int64(delay), index, weight)
	}
}
