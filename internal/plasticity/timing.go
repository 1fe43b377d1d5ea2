// ════════════════════════════════════════════════════════════════════════════════════════════════
// TIMING DEPENDENCE
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Synapse Processing Core
// Component: Pre/post trace bookkeeping and depression/potentiation timing rules
//
// Description:
//   Pre- and post-trace samples decay over tick deltas according to lookup tables built once at
//   configuration time. Two canonical rules consume these traces at pre/post spike crossings:
//   Pair (traces accumulate across all recent spikes on a side) and NearestPair (each new spike
//   discards accumulated history, so only the nearest opposite-side event contributes).
// ════════════════════════════════════════════════════════════════════════════════════════════════

package plasticity

import (
	"math"

	"synapsecore/internal/posthistory"
)

// DepressionFunc and PotentiationFunc are the callbacks a TimingDependence invokes to mutate a
// WeightState; the caller supplies closures bound to that state (per design note §9's replacement
// of lambda captures with explicit callback parameters).
type DepressionFunc func(Amount)
type PotentiationFunc func(Amount)

// Trace is an alias of the post-event history sample type; pre-traces use the same fixed-point
// representation.
type Trace = posthistory.Trace

const traceShift = 16 // Q16 fixed point for all trace and LUT values

// DecayLUT maps a clamped tick delta to a Q16 multiplicative decay factor.
type DecayLUT []uint32

// NewDecayLUT builds a table of size entries where entry i holds exp(-i/tau) in Q16, clamped at
// the table's last slot for any larger delta.
func NewDecayLUT(size int, tau float64) DecayLUT {
	lut := make(DecayLUT, size)
	for i := range lut {
		v := math.Exp(-float64(i) / tau)
		lut[i] = uint32(v * (1 << traceShift))
	}
	return lut
}

func (d DecayLUT) decay(trace Trace, delta int64) Trace {
	if delta < 0 {
		delta = 0
	}
	idx := delta
	if idx >= int64(len(d)) {
		idx = int64(len(d)) - 1
	}
	return Trace((int64(trace) * int64(d[idx])) >> traceShift)
}

// EventLUT maps a clamped tick delta to a Q16 event magnitude; Pair and NearestPair hold one for
// potentiation and one for depression.
type EventLUT []Amount

// NewEventLUT builds a table of size entries where entry i holds scale*exp(-i/tau) in Q16.
func NewEventLUT(size int, tau, scale float64) EventLUT {
	lut := make(EventLUT, size)
	for i := range lut {
		lut[i] = Amount(math.Exp(-float64(i)/tau) * scale * (1 << traceShift))
	}
	return lut
}

func (l EventLUT) at(delta int64) Amount {
	if delta < 0 {
		delta = 0
	}
	idx := delta
	if idx >= int64(len(l)) {
		idx = int64(len(l)) - 1
	}
	return l[idx]
}

// TimingDependence converts pre/post spike crossings into depression/potentiation magnitudes and
// maintains the decaying trace samples those magnitudes are scaled by.
type TimingDependence interface {
	UpdatePreTrace(tick int64, prevTrace Trace, prevTick int64) Trace
	UpdatePostTrace(tick int64, prevTrace Trace, prevTick int64) Trace
	ApplyPreSpike(depress DepressionFunc, potentiate PotentiationFunc,
		delayedPreTick int64, newPreTrace Trace,
		delayedLastPreTick int64, lastPreTrace Trace,
		prevPostTick int64, prevPostTrace Trace)
	ApplyPostSpike(depress DepressionFunc, potentiate PotentiationFunc,
		delayedPostTick int64, postTrace Trace,
		delayedLastPreTick int64, lastPreTrace Trace,
		prevPostTick int64, prevPostTrace Trace)
}

const traceUnit = Trace(1 << traceShift)

// Pair is the pair-based STDP rule: every pre/post crossing scales its depression or potentiation
// amount by the opposite side's *accumulated* trace, so earlier spikes on that side still
// contribute (subject to the trace's own decay).
type Pair struct {
	Potentiation EventLUT // indexed by post-after-pre delta
	Depression   EventLUT // indexed by pre-after-post delta
	Decay        DecayLUT
}

func (p Pair) UpdatePreTrace(tick int64, prevTrace Trace, prevTick int64) Trace {
	return p.Decay.decay(prevTrace, tick-prevTick) + traceUnit
}

func (p Pair) UpdatePostTrace(tick int64, prevTrace Trace, prevTick int64) Trace {
	return p.Decay.decay(prevTrace, tick-prevTick) + traceUnit
}

func (p Pair) ApplyPreSpike(depress DepressionFunc, potentiate PotentiationFunc,
	delayedPreTick int64, newPreTrace Trace,
	delayedLastPreTick int64, lastPreTrace Trace,
	prevPostTick int64, prevPostTrace Trace) {
	if prevPostTick == 0 && prevPostTrace == 0 {
		return
	}
	delta := delayedPreTick - prevPostTick
	amount := scaleByTrace(p.Depression.at(delta), prevPostTrace)
	depress(amount)
}

func (p Pair) ApplyPostSpike(depress DepressionFunc, potentiate PotentiationFunc,
	delayedPostTick int64, postTrace Trace,
	delayedLastPreTick int64, lastPreTrace Trace,
	prevPostTick int64, prevPostTrace Trace) {
	if delayedLastPreTick == 0 && lastPreTrace == 0 {
		return
	}
	delta := delayedPostTick - delayedLastPreTick
	amount := scaleByTrace(p.Potentiation.at(delta), lastPreTrace)
	potentiate(amount)
}

// NearestPair is the nearest-neighbour STDP rule: trace updates discard accumulated history, so
// every crossing is scaled by a fixed unit trace representing only the single nearest
// opposite-side event.
type NearestPair struct {
	Potentiation EventLUT
	Depression   EventLUT
}

func (n NearestPair) UpdatePreTrace(tick int64, prevTrace Trace, prevTick int64) Trace {
	return traceUnit
}

func (n NearestPair) UpdatePostTrace(tick int64, prevTrace Trace, prevTick int64) Trace {
	return traceUnit
}

func (n NearestPair) ApplyPreSpike(depress DepressionFunc, potentiate PotentiationFunc,
	delayedPreTick int64, newPreTrace Trace,
	delayedLastPreTick int64, lastPreTrace Trace,
	prevPostTick int64, prevPostTrace Trace) {
	if prevPostTick == 0 && prevPostTrace == 0 {
		return
	}
	delta := delayedPreTick - prevPostTick
	depress(n.Depression.at(delta))
}

func (n NearestPair) ApplyPostSpike(depress DepressionFunc, potentiate PotentiationFunc,
	delayedPostTick int64, postTrace Trace,
	delayedLastPreTick int64, lastPreTrace Trace,
	prevPostTick int64, prevPostTrace Trace) {
	if delayedLastPreTick == 0 && lastPreTrace == 0 {
		return
	}
	delta := delayedPostTick - delayedLastPreTick
	potentiate(n.Potentiation.at(delta))
}

func scaleByTrace(amount Amount, trace Trace) Amount {
	return Amount((int64(amount) * int64(trace)) >> traceShift)
}
