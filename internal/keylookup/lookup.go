// ════════════════════════════════════════════════════════════════════════════════════════════════
// KEY → ROW-LOCATOR RESOLUTION
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Synapse Processing Core
// Component: Spike key to shared-store row locator
//
// Description:
//   A read-only, sorted table of (key_min, key_max, base_row_address, row_stride) entries. Resolve
//   performs a binary search to map a spike's routing key to the row's address and word count in
//   the shared off-chip store. A miss means the spike is dropped and counted; it is never an error
//   returned to the scheduler, since an unknown key is an expected operational event (§7).
//
// Notes:
//   - Table is built once (typically by the host loader) and never mutated during a run.
//   - Entries must be sorted and non-overlapping by key_min; New checks this so a
//     config-invalid table is caught before simulation_start rather than silently misrouting.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package keylookup

import (
	"errors"
	"sort"
)

// RowLocator identifies a synaptic row's position and extent in the shared off-chip store.
type RowLocator struct {
	Address   uint32 // byte address in the shared store
	WordCount uint32 // number of 32-bit words to transfer
}

// Entry is one row of the sorted key-range table.
type Entry struct {
	KeyMin uint32
	KeyMax uint32 // inclusive
	Base   uint32 // base_row_address
	Stride uint32 // row_stride in words
}

// Table is a read-only, sorted key-range lookup table.
type Table struct {
	entries []Entry
}

// ErrUnsorted is returned by New when entries are not sorted and non-overlapping by KeyMin.
var ErrUnsorted = errors.New("keylookup: table entries must be sorted and non-overlapping")

// New builds a Table from entries already sorted ascending by KeyMin with no overlapping ranges.
// Returns ErrUnsorted (a config-invalid, fatal condition per §7) if the invariant does not hold;
// the caller must abort initialization rather than start a simulation with a mis-sorted table.
func New(entries []Entry) (*Table, error) {
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	for i := 1; i < len(cp); i++ {
		if cp[i].KeyMin <= cp[i-1].KeyMax {
			return nil, ErrUnsorted
		}
	}
	return &Table{entries: cp}, nil
}

// Resolve maps a spike key to its row locator via binary search. A zero locator and false mean no
// matching range was found; the caller must drop the spike and count it rather than treat this as
// an error.
func (t *Table) Resolve(key uint32) (RowLocator, bool) {
	entries := t.entries
	i := sort.Search(len(entries), func(i int) bool { return entries[i].KeyMax >= key })
	if i == len(entries) || key < entries[i].KeyMin || key > entries[i].KeyMax {
		return RowLocator{}, false
	}
	e := entries[i]
	offset := (key - e.KeyMin) * e.Stride * 4 // Stride is in words; Address is in bytes
	return RowLocator{Address: e.Base + offset, WordCount: e.Stride}, true
}

// Len reports the number of ranges in the table.
func (t *Table) Len() int { return len(t.entries) }
