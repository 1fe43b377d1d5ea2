// ════════════════════════════════════════════════════════════════════════════════════════════════
// TICK SCHEDULER / DMA PIPELINE
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Synapse Processing Core
// Component: Interleaves spike dequeue, row fetch, row apply, row write-back
//
// Description:
//   A single per-core cooperative control loop driven by a periodic timer tick. Each tick: drain
//   due delay-extension rows, drain the spike queue (resolving each key to a row locator and
//   fetching/applying the row), then drain the current ring-buffer slot for the downstream neuron
//   component. Two fixed shadow row buffers alternate so that, on real hardware, one can receive a
//   DMA transfer while the other is processed; this harness issues one DMA at a time through the
//   HostPlatform interface rather than genuinely overlapping transfer and compute, since a
//   synchronous stand-in is what a non-hardware exerciser can offer (§4.P) — the buffer-swap
//   bookkeeping is the same shape a real double-buffered backend would use.
//
// Notes:
//   - A DMA that reports failure is fatal, per the error-handling design (§7): no retry. It
//     increments the DMA-failure counter and aborts the run by returning ErrDMAFailed up through
//     Tick/Run, rather than looping on PollDMA forever.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package scheduler

import (
	"errors"

	"synapsecore/internal/config"
	"synapsecore/internal/delaybuffer"
	"synapsecore/internal/keylookup"
	"synapsecore/internal/plastickernel"
	"synapsecore/internal/posthistory"
	"synapsecore/internal/ringbuffer"
	"synapsecore/internal/spikequeue"
	"synapsecore/internal/statickernel"
	"synapsecore/internal/telemetry"
)

// MaxRowWords bounds the fixed shadow row buffers; large enough for the reference configuration's
// maximum synapse count plus header/trace overhead.
const MaxRowWords = 1024

// DMAHandle identifies an in-flight asynchronous transfer issued to the host platform.
type DMAHandle uint64

// ErrDMAFailed is a fatal, non-retriable error (§7): a transfer the host platform reports as
// failed aborts the run rather than spinning on PollDMA.
var ErrDMAFailed = errors.New("scheduler: DMA transfer failed")

// HostPlatform is the set of callbacks the scheduler issues to the surrounding hardware or host
// environment (§6); the scheduler never imports a concrete platform.
type HostPlatform interface {
	EmitPacket(key uint32, payload []byte)
	IssueDMARead(address uint32, dst []uint32) DMAHandle
	IssueDMAWrite(address uint32, src []uint32) DMAHandle
	// PollDMA reports whether handle has completed and, if so, whether it failed. done is false
	// while the transfer is still in flight; failed is only meaningful when done is true.
	PollDMA(handle DMAHandle) (done, failed bool)
	ScheduleTimer(periodUS uint32)
	Exit(code int)
}

// ApplyInputFunc, AddDelayRowFunc, and WriteBackFunc mirror the kernel callback shapes so a
// RowProcessor can wrap either the static or plastic kernel behind one interface.
type ApplyInputFunc func(deliveryTick int64, postIndex uint32, weight uint32)
type AddDelayRowFunc func(targetTick int64, locator uint32)
type WriteBackFunc func(offset, length int)

// RowProcessor applies one row buffer, static or plastic, to the scheduler's callbacks.
type RowProcessor interface {
	Process(row []uint32, tick int64, flush bool, applyInput ApplyInputFunc, addDelayRow AddDelayRowFunc, writeBack WriteBackFunc)
}

// StaticProcessor adapts the static row kernel to RowProcessor.
type StaticProcessor struct{}

func (StaticProcessor) Process(row []uint32, tick int64, flush bool, applyInput ApplyInputFunc, addDelayRow AddDelayRowFunc, writeBack WriteBackFunc) {
	statickernel.Apply(row, tick, statickernel.ApplyInputFunc(applyInput), statickernel.AddDelayRowFunc(addDelayRow))
}

// PlasticProcessor adapts the plastic (STDP) row kernel to RowProcessor.
type PlasticProcessor struct {
	Kernel  plastickernel.Kernel
	History func(postIndex uint32) *posthistory.History
}

func (p PlasticProcessor) Process(row []uint32, tick int64, flush bool, applyInput ApplyInputFunc, addDelayRow AddDelayRowFunc, writeBack WriteBackFunc) {
	p.Kernel.Apply(row, tick, flush, p.History,
		plastickernel.ApplyInputFunc(applyInput),
		plastickernel.AddDelayRowFunc(addDelayRow),
		plastickernel.WriteBackFunc(writeBack))
}

// Scheduler drives one simulation core's per-tick pipeline.
type Scheduler struct {
	Host      HostPlatform
	Queue     *spikequeue.Queue
	DelayBuf  *delaybuffer.Buffer
	Lookup    *keylookup.Table
	Ring      *ringbuffer.Ring
	Processor RowProcessor
	Counters  *telemetry.Counters

	shadow [2][MaxRowWords]uint32
	active int

	simulationTicks int64
}

// New builds a scheduler for one core from its wired components and the parsed System region.
func New(host HostPlatform, queue *spikequeue.Queue, delayBuf *delaybuffer.Buffer,
	lookup *keylookup.Table, ring *ringbuffer.Ring, processor RowProcessor,
	counters *telemetry.Counters, sys config.System) *Scheduler {
	return &Scheduler{
		Host: host, Queue: queue, DelayBuf: delayBuf, Lookup: lookup, Ring: ring,
		Processor: processor, Counters: counters, simulationTicks: int64(sys.SimulationTicks),
	}
}

// Run drives ticks 1..simulationTicks (tick 0 is initialisation, per §6) then exits. A fatal DMA
// failure aborts the run immediately and is returned to the caller without invoking Exit.
func (s *Scheduler) Run() error {
	for tick := int64(1); tick <= s.simulationTicks; tick++ {
		if _, err := s.Tick(tick); err != nil {
			return err
		}
	}
	s.Host.Exit(0)
	return nil
}

// Tick executes one scheduler step. A fatal DMA failure aborts the tick and is returned to the
// caller; the ring slot is not drained in that case.
func (s *Scheduler) Tick(tick int64) ([]ringbuffer.Weight, error) {
	for _, addr := range s.DelayBuf.DrainDue(tick) {
		if err := s.processRow(keylookup.RowLocator{Address: addr, WordCount: MaxRowWords}, tick, false); err != nil {
			return nil, err
		}
	}

	for {
		key, ok := s.Queue.Pop()
		if !ok {
			if s.Queue.UnderflowCount() > 0 {
				s.Counters.IncSpikeQueueUnderflow()
			}
			break
		}
		loc, found := s.Lookup.Resolve(uint32(key))
		if !found {
			s.Counters.IncKeyLookupMiss()
			continue
		}
		if err := s.processRow(loc, tick, false); err != nil {
			return nil, err
		}
	}

	return s.Ring.DrainSlot(tick), nil
}

func (s *Scheduler) processRow(loc keylookup.RowLocator, tick int64, flush bool) error {
	buf := &s.shadow[s.active]
	s.active ^= 1

	words := int(loc.WordCount)
	if words > MaxRowWords || words == 0 {
		words = MaxRowWords
	}
	handle := s.Host.IssueDMARead(loc.Address, buf[:words])
	if !s.awaitDMA(handle) {
		return ErrDMAFailed
	}

	applyInput := func(deliveryTick int64, postIndex uint32, weight uint32) {
		if s.Ring.Add(deliveryTick, int(postIndex), ringbuffer.Weight(weight)) {
			s.Counters.IncRingSaturation()
		}
	}
	addDelayRow := func(targetTick int64, locator uint32) {
		if !s.DelayBuf.Push(targetTick, locator) {
			s.Counters.IncDelayBufferOverflow()
		}
	}

	var wbOffset, wbLength int
	wrote := false
	writeBack := func(offset, length int) { wbOffset, wbLength, wrote = offset, length, true }

	s.Processor.Process(buf[:words], tick, flush, applyInput, addDelayRow, writeBack)

	if wrote {
		wh := s.Host.IssueDMAWrite(loc.Address+uint32(wbOffset*4), buf[wbOffset:wbOffset+wbLength])
		if !s.awaitDMA(wh) {
			return ErrDMAFailed
		}
	}
	return nil
}

// awaitDMA polls handle to completion, counting and reporting a host-signalled failure rather
// than spinning on it forever.
func (s *Scheduler) awaitDMA(handle DMAHandle) bool {
	for {
		done, failed := s.Host.PollDMA(handle)
		if !done {
			continue
		}
		if failed {
			s.Counters.IncDMAFailure()
			return false
		}
		return true
	}
}
