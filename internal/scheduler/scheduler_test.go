package scheduler

import (
	"errors"
	"testing"

	"synapsecore/internal/config"
	"synapsecore/internal/delaybuffer"
	"synapsecore/internal/keylookup"
	"synapsecore/internal/ringbuffer"
	"synapsecore/internal/rowcodec"
	"synapsecore/internal/spikequeue"
	"synapsecore/internal/telemetry"
)

// fakeHost is a synchronous, word-addressed stand-in for the hardware DMA/host platform. failNext,
// when set, makes the next PollDMA report a failed transfer instead of fabricating one out of
// thin air, so tests can exercise the fatal-DMA-failure path deliberately.
type fakeHost struct {
	mem      []uint32
	reads    int
	writes   int
	exited   bool
	exitCode int
	failNext bool
}

func newFakeHost(words int) *fakeHost { return &fakeHost{mem: make([]uint32, words)} }

func (h *fakeHost) EmitPacket(key uint32, payload []byte) {}

func (h *fakeHost) IssueDMARead(address uint32, dst []uint32) DMAHandle {
	idx := address / 4
	copy(dst, h.mem[idx:int(idx)+len(dst)])
	h.reads++
	return DMAHandle(h.reads)
}

func (h *fakeHost) IssueDMAWrite(address uint32, src []uint32) DMAHandle {
	idx := address / 4
	copy(h.mem[idx:int(idx)+len(src)], src)
	h.writes++
	return DMAHandle(1000 + h.writes)
}

func (h *fakeHost) PollDMA(handle DMAHandle) (done, failed bool) {
	if h.failNext {
		h.failNext = false
		return true, true
	}
	return true, false
}
func (h *fakeHost) ScheduleTimer(periodUS uint32) {}
func (h *fakeHost) Exit(code int)                 { h.exited, h.exitCode = true, code }

// TestStaticPassThroughEndToEnd reproduces scenario S1 through the full scheduler pipeline: a
// queued spike resolves to a static row which deposits into the ring at tick+delay.
func TestStaticPassThroughEndToEnd(t *testing.T) {
	host := newFakeHost(64)
	// Row {N=2, 0, 0, word(i=5,d=1,w=100), word(i=7,d=2,w=200)} at word address 0.
	copy(host.mem, []uint32{2, 0, 0, rowcodec.EncodeSynapse(5, 1, 100), rowcodec.EncodeSynapse(7, 2, 200)})

	queue := spikequeue.New(8)
	queue.Push(spikequeue.Key(42))

	lookup, err := keylookup.New([]keylookup.Entry{{KeyMin: 42, KeyMax: 42, Base: 0, Stride: 5}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ring := ringbuffer.New(3, 16)
	counters := &telemetry.Counters{}
	sched := New(host, queue, delaybuffer.New(16), lookup, ring, StaticProcessor{}, counters,
		config.System{SimulationTicks: 20})

	if _, err := sched.Tick(10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	slot11, err := sched.Tick(11)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slot11[5] != 100 {
		t.Fatalf("slot 11 post 5: got %d want 100", slot11[5])
	}
	slot12, err := sched.Tick(12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slot12[7] != 200 {
		t.Fatalf("slot 12 post 7: got %d want 200", slot12[7])
	}
}

// TestKeyLookupMissCounted reproduces scenario S6: a spike key outside all locator ranges is
// dropped and counted, with no DMA issued.
func TestKeyLookupMissCounted(t *testing.T) {
	host := newFakeHost(64)
	queue := spikequeue.New(8)
	queue.Push(spikequeue.Key(999))

	lookup, _ := keylookup.New([]keylookup.Entry{{KeyMin: 0, KeyMax: 10, Base: 0, Stride: 4}})
	ring := ringbuffer.New(3, 4)
	counters := &telemetry.Counters{}
	sched := New(host, queue, delaybuffer.New(16), lookup, ring, StaticProcessor{}, counters,
		config.System{SimulationTicks: 1})

	if _, err := sched.Tick(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if counters.KeyLookupMisses != 1 {
		t.Fatalf("expected 1 key-lookup miss, got %d", counters.KeyLookupMisses)
	}
	if host.reads != 0 {
		t.Fatalf("expected no DMA reads for a dropped spike, got %d", host.reads)
	}
}

func TestDelayExtensionReplay(t *testing.T) {
	host := newFakeHost(2048)
	copy(host.mem, []uint32{1, 3, 0, rowcodec.EncodeSynapse(0, 1, 1)})

	queue := spikequeue.New(8)
	queue.Push(spikequeue.Key(1))
	lookup, _ := keylookup.New([]keylookup.Entry{{KeyMin: 1, KeyMax: 1, Base: 0, Stride: 4}})
	ring := ringbuffer.New(3, 4)
	counters := &telemetry.Counters{}
	delayBuf := delaybuffer.New(16)
	sched := New(host, queue, delayBuf, lookup, ring, StaticProcessor{}, counters,
		config.System{SimulationTicks: 20})

	if _, err := sched.Tick(10); err != nil { // schedules a replay at tick 13 (word1=3)
		t.Fatalf("unexpected error: %v", err)
	}
	if delayBuf.Size() != 1 {
		t.Fatalf("expected one pending delay-extension entry, got %d", delayBuf.Size())
	}

	if _, err := sched.Tick(11); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := sched.Tick(12); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if host.reads != 1 {
		t.Fatalf("expected no extra reads before the replay tick, got %d", host.reads)
	}
	if _, err := sched.Tick(13); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if host.reads != 2 {
		t.Fatalf("expected the delay-extension row to be replayed at tick 13, got %d reads", host.reads)
	}
}

// TestDMAFailureAborts reproduces the fatal-DMA-failure path: a host platform that reports a
// failed transfer aborts the tick immediately, surfaces ErrDMAFailed, and counts the failure
// instead of retrying.
func TestDMAFailureAborts(t *testing.T) {
	host := newFakeHost(64)
	copy(host.mem, []uint32{2, 0, 0, rowcodec.EncodeSynapse(5, 1, 100), rowcodec.EncodeSynapse(7, 2, 200)})
	host.failNext = true

	queue := spikequeue.New(8)
	queue.Push(spikequeue.Key(42))
	lookup, _ := keylookup.New([]keylookup.Entry{{KeyMin: 42, KeyMax: 42, Base: 0, Stride: 5}})
	ring := ringbuffer.New(3, 16)
	counters := &telemetry.Counters{}
	sched := New(host, queue, delaybuffer.New(16), lookup, ring, StaticProcessor{}, counters,
		config.System{SimulationTicks: 20})

	_, err := sched.Tick(10)
	if !errors.Is(err, ErrDMAFailed) {
		t.Fatalf("expected ErrDMAFailed, got %v", err)
	}
	if counters.DMAFailures != 1 {
		t.Fatalf("expected 1 DMA failure counted, got %d", counters.DMAFailures)
	}

	host2 := newFakeHost(64)
	copy(host2.mem, []uint32{2, 0, 0, rowcodec.EncodeSynapse(5, 1, 100), rowcodec.EncodeSynapse(7, 2, 200)})
	host2.failNext = true
	queue2 := spikequeue.New(8)
	queue2.Push(spikequeue.Key(42))
	sched2 := New(host2, queue2, delaybuffer.New(16), lookup, ringbuffer.New(3, 16), StaticProcessor{},
		&telemetry.Counters{}, config.System{SimulationTicks: 20})
	if err := sched2.Run(); !errors.Is(err, ErrDMAFailed) {
		t.Fatalf("expected Run to propagate ErrDMAFailed, got %v", err)
	}
}
