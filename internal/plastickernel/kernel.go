// ════════════════════════════════════════════════════════════════════════════════════════════════
// PLASTIC (STDP) ROW KERNEL
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Synapse Processing Core
// Component: Deferred update of plastic synapses using pre/post traces
//
// Description:
//   Row layout (offsets into the []uint32 buffer):
//     [0]        N
//     [1]        delay-extension target offset (0 = none)
//     [2]        delay-extension locator
//     [3]        last_update_tick
//     [4]        last_pre_tick
//     [5]        pre-trace (one word)
//     [6:6+N]    plastic words
//     [6+N:6+2N] control words (index|delay, no weight)
//   The plastic region and header tail are mutable and written back after every update; the
//   control region is immutable after matrix generation and is never included in a write-back.
//
// Notes:
//   - A flush invocation (used to commit pending post-events before eviction, or ahead of
//     inspection) updates traces and per-synapse state but deposits nothing into the ring buffer.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package plastickernel

import (
	"synapsecore/internal/plasticity"
	"synapsecore/internal/posthistory"
	"synapsecore/internal/rowcodec"
)

// ApplyInputFunc deposits a weighted contribution for delivery at deliveryTick to postIndex.
type ApplyInputFunc func(deliveryTick int64, postIndex uint32, weight uint32)

// AddDelayRowFunc schedules a delay-extension replay of this row at targetTick.
type AddDelayRowFunc func(targetTick int64, locator uint32)

// WriteBackFunc reports the contiguous [offset, offset+length) span of the row buffer that must be
// written back to the shared store; the control region is never included.
type WriteBackFunc func(offset, length int)

// HistoryLookup resolves a post-synaptic neuron index to its event history.
type HistoryLookup func(postIndex uint32) *posthistory.History

// Kernel bundles the three composable plasticity policies used to process one plastic row.
type Kernel struct {
	Timing    plasticity.TimingDependence
	Weight    plasticity.WeightDependence
	Structure plasticity.SynapseStructure
}

// Apply processes a plastic row. flush is true when invoked on a timeout rather than a real
// pre-synaptic spike: traces and per-synapse state still update, but no weight is deposited.
func (k Kernel) Apply(row []uint32, tick int64, flush bool, history HistoryLookup,
	applyInput ApplyInputFunc, addDelayRow AddDelayRowFunc, writeBack WriteBackFunc) {

	if row[1] != 0 {
		addDelayRow(int64(row[1])+tick, row[2])
	}

	lastUpdateTick := int64(row[3])
	row[3] = uint32(tick)

	lastPreTick := int64(row[4])
	lastPreTrace := plasticity.Trace(row[5])

	newPreTrace := lastPreTrace
	if !flush {
		newPreTrace = k.Timing.UpdatePreTrace(tick, lastPreTrace, lastPreTick)
		row[4] = uint32(tick)
		row[5] = uint32(newPreTrace)
	}

	n := int(row[0])
	plasticBase := 6
	controlBase := 6 + n

	for i := 0; i < n; i++ {
		controlWord := row[controlBase+i]
		postIndex := rowcodec.DecodeIndex(controlWord)
		delayDendritic := int64(rowcodec.DecodeDelay(controlWord))
		const delayAxonal = int64(0)

		state := k.Structure.FromPlasticWord(row[plasticBase+i], k.Weight)

		delayedLastPreTick := lastPreTick + delayAxonal

		windowBegin := lastUpdateTick + delayAxonal - delayDendritic
		if windowBegin < 0 {
			windowBegin = 0
		}
		windowEnd := tick + delayAxonal - delayDendritic

		hist := history(postIndex)
		cursor := hist.GetWindow(windowBegin, windowEnd)

		depress := func(a plasticity.Amount) { k.Weight.ApplyDepression(&state, a) }
		potentiate := func(a plasticity.Amount) { k.Weight.ApplyPotentiation(&state, a) }

		for cursor.HasNext() {
			delayedPostTick := cursor.NextTime() + delayDendritic
			k.Timing.ApplyPostSpike(depress, potentiate,
				delayedPostTick, cursor.NextTrace(),
				delayedLastPreTick, lastPreTrace,
				cursor.PrevTime(), cursor.PrevTrace())
			cursor.Advance()
		}

		if !flush {
			delayedPreTick := tick + delayAxonal
			k.Timing.ApplyPreSpike(depress, potentiate,
				delayedPreTick, newPreTrace,
				delayedLastPreTick, lastPreTrace,
				cursor.PrevTime(), cursor.PrevTrace())
		}

		finalWeight := k.Weight.FinalWeight(state)
		if !flush {
			applyInput(delayDendritic+delayAxonal+tick, postIndex, uint32(finalWeight))
		}

		row[plasticBase+i] = k.Structure.ToPlasticWord(state)
	}

	writeBack(3, n+3)
}
