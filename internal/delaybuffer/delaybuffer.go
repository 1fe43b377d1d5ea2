// ════════════════════════════════════════════════════════════════════════════════════════════════
// DELAY-EXTENSION ROW BUFFER
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Synapse Processing Core
// Component: Schedules rows whose delivery exceeds native delay width
//
// Description:
//   Holds (target_tick, row_locator) entries for rows whose header signals a delay extension
//   (word1 != 0): delays larger than 2^D-1 ticks are represented by re-injecting the row through
//   this buffer, to be replayed at target_tick = header_word1 + current_tick as if a fresh spike
//   had arrived for that row. Bounded ring of buckets indexed by target tick modulo capacity,
//   carrying a payload (the row locator) per entry instead of an accumulated weight.
//
// Notes:
//   - Zero-alloc steady state: a fixed arena of nodes with a free list, matching the teacher's
//     fixed-capacity bucket-queue idiom.
//   - Overflow (arena exhausted) is a resource-exhausted operational event (§7): counted, never
//     panics, never corrupts other entries. A target tick beyond the bucket window is not an
//     overflow: it shares a bucket with nearer ticks and is told apart by its stored target tick.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package delaybuffer

const nilIdx = ^uint32(0)

type node struct {
	next, prev uint32
	targetTick int64
	locator    uint32 // raw header word2, opaque to this package
	used       bool
}

// Buffer is a bounded ring of (target_tick, row_locator) entries indexed by delay slot.
//
//go:notinheap
type Buffer struct {
	arena    []node
	freeHead uint32
	buckets  []uint32 // bucket index = targetTick mod capacity
	mask     uint64

	size     int
	overflow uint64
}

// New creates a delay-row buffer with the given slot capacity, which must be a power of two. The
// arena holds up to capacity entries; one entry per bucket slot is the common case, but multiple
// rows may legitimately target the same tick, so buckets chain via a free-list-backed linked list.
func New(capacity int) *Buffer {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		panic("delaybuffer: capacity must be >0 and a power of two")
	}
	b := &Buffer{
		arena:   make([]node, capacity),
		buckets: make([]uint32, capacity),
		mask:    uint64(capacity - 1),
	}
	for i := range b.arena {
		b.arena[i].next = uint32(i) + 1
		b.arena[i].prev = nilIdx
	}
	b.arena[capacity-1].next = nilIdx
	for i := range b.buckets {
		b.buckets[i] = nilIdx
	}
	return b
}

// Push schedules locator for replay at targetTick. Returns false (and increments OverflowCount)
// if the arena is exhausted.
func (b *Buffer) Push(targetTick int64, locator uint32) bool {
	if b.freeHead == nilIdx {
		b.overflow++
		return false
	}
	idx := b.freeHead
	n := &b.arena[idx]
	b.freeHead = n.next

	bkt := uint64(targetTick) & b.mask
	n.next = b.buckets[bkt]
	n.prev = nilIdx
	n.targetTick = targetTick
	n.locator = locator
	n.used = true
	if n.next != nilIdx {
		b.arena[n.next].prev = idx
	}
	b.buckets[bkt] = idx
	b.size++
	return true
}

// DrainDue removes and returns every entry whose target tick equals tick exactly, promoting them
// to the active spike-processing path as if a spike had just arrived for each row locator.
func (b *Buffer) DrainDue(tick int64) []uint32 {
	bkt := uint64(tick) & b.mask
	var out []uint32

	idx := b.buckets[bkt]
	b.buckets[bkt] = nilIdx
	for idx != nilIdx {
		n := &b.arena[idx]
		next := n.next
		if n.targetTick == tick {
			out = append(out, n.locator)
			b.size--
			b.release(idx)
		} else {
			// Entry shares this bucket by coincidence of modulo arithmetic but targets a
			// different tick (possible once the buffer wraps past its window); re-link it.
			n.next = b.buckets[bkt]
			n.prev = nilIdx
			if n.next != nilIdx {
				b.arena[n.next].prev = idx
			}
			b.buckets[bkt] = idx
		}
		idx = next
	}
	return out
}

func (b *Buffer) release(idx uint32) {
	n := &b.arena[idx]
	n.used = false
	n.next = b.freeHead
	n.prev = nilIdx
	b.freeHead = idx
}

// Size returns the number of currently scheduled entries.
func (b *Buffer) Size() int { return b.size }

// OverflowCount returns the number of Push calls that failed due to arena exhaustion.
func (b *Buffer) OverflowCount() uint64 { return b.overflow }
