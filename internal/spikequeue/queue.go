// ════════════════════════════════════════════════════════════════════════════════════════════════
// LOCK-FREE SPSC SPIKE INPUT QUEUE
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Synapse Processing Core
// Component: Bounded FIFO of inbound routing keys
//
// Description:
//   Single-producer/single-consumer ring of spike routing keys. The producer is the packet/
//   interrupt handler that receives routed spikes; the consumer is the per-core tick scheduler.
//   Lock-free via disjoint head/tail cursors with sequence-based slot availability, matching the
//   design note's "interrupt-producer / loop-consumer queue" with acquire/release visibility on
//   head and tail.
//
// Safety model:
//   - SPSC discipline required: exactly one producer goroutine, one consumer goroutine.
//   - Capacity must be a power of two so index wrap is a mask, not a modulo.
//   - Push returns false (and bumps the overflow counter) when full; Pop returns false (and bumps
//     the underflow counter) when empty. Neither blocks.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package spikequeue

import "sync/atomic"

// Key is a routing key identifying the pre-synaptic source of a spike.
type Key uint32

// slot holds one queued key plus its sequence number for lock-free availability signaling.
//
//go:notinheap
type slot struct {
	key Key
	seq uint64
}

// Queue is a bounded circular buffer of spike routing keys with overflow/underflow counters.
//
//go:notinheap
type Queue struct {
	_    [64]byte
	head uint64 // consumer cursor

	_    [56]byte
	tail uint64 // producer cursor

	_ [56]byte

	mask uint64
	step uint64
	buf  []slot

	overflow  uint64
	underflow uint64
}

// New creates a spike queue with the given capacity, which must be a positive power of two
// (typically 256 or 512, per the spec).
func New(capacity int) *Queue {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		panic("spikequeue: capacity must be >0 and a power of two")
	}
	q := &Queue{
		mask: uint64(capacity - 1),
		step: uint64(capacity),
		buf:  make([]slot, capacity),
	}
	for i := range q.buf {
		q.buf[i].seq = uint64(i)
	}
	return q
}

// Push enqueues a spike key. Returns false and increments OverflowCount when the queue is full.
// Safe for exactly one producer goroutine; concurrent Push calls from multiple goroutines
// corrupt queue state.
//
//go:nosplit
//go:inline
func (q *Queue) Push(key Key) bool {
	t := q.tail
	s := &q.buf[t&q.mask]
	if atomic.LoadUint64(&s.seq) != t {
		q.overflow++
		return false
	}
	s.key = key
	atomic.StoreUint64(&s.seq, t+1)
	q.tail = t + 1
	return true
}

// Pop dequeues the oldest spike key. Returns (0, false) and increments UnderflowCount when the
// queue is empty. Safe for exactly one consumer goroutine.
//
//go:nosplit
//go:inline
func (q *Queue) Pop() (Key, bool) {
	h := q.head
	s := &q.buf[h&q.mask]
	if atomic.LoadUint64(&s.seq) != h+1 {
		q.underflow++
		return 0, false
	}
	key := s.key
	atomic.StoreUint64(&s.seq, h+q.step)
	q.head = h + 1
	return key, true
}

// OverflowCount returns the number of Push calls that returned false.
func (q *Queue) OverflowCount() uint64 { return q.overflow }

// UnderflowCount returns the number of Pop calls that returned false.
func (q *Queue) UnderflowCount() uint64 { return q.underflow }

// Len returns the number of entries currently queued. Not safe to call concurrently with Push
// from a different goroutine than the caller's own view of tail; intended for diagnostics between
// scheduler ticks, not the hot path.
func (q *Queue) Len() int {
	return int(q.tail - q.head)
}

// Empty reports whether the queue currently holds no entries.
func (q *Queue) Empty() bool { return q.Len() == 0 }
