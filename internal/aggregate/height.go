package aggregate

import (
	"slices"
)

// Entry holds the unspent totals for one block height.
type Entry struct {
	Amount uint64 `json:"amount"`
	N      uint64 `json:"n"`
	Epoch  uint32 `json:"epoch"`
}

// HeightAggregator folds coins into per-height buckets. Buckets are only ever
// added to; it is not safe for concurrent use.
type HeightAggregator struct {
	binning Binning
	entries map[uint32]*Entry
}

func NewHeightAggregator(binning Binning) *HeightAggregator {
	return &HeightAggregator{
		binning: binning,
		entries: make(map[uint32]*Entry),
	}
}

func (a *HeightAggregator) Add(height uint32, amount uint64) {
	entry, ok := a.entries[height]
	if !ok {
		entry = &Entry{Epoch: a.binning.Epoch(height)}
		a.entries[height] = entry
	}
	entry.Amount += amount
	entry.N++
}

func (a *HeightAggregator) Entry(height uint32) (Entry, bool) {
	entry, ok := a.entries[height]
	if !ok {
		return Entry{}, false
	}
	return *entry, true
}

// Heights returns every height seen, ascending.
func (a *HeightAggregator) Heights() []uint32 {
	heights := make([]uint32, 0, len(a.entries))
	for h := range a.entries {
		heights = append(heights, h)
	}
	slices.Sort(heights)
	return heights
}

func (a *HeightAggregator) Len() int {
	return len(a.entries)
}

// Totals sums amount and count over all heights.
func (a *HeightAggregator) Totals() (amount, n uint64) {
	for _, e := range a.entries {
		amount += e.Amount
		n += e.N
	}
	return amount, n
}

// Snapshot copies the current buckets.
func (a *HeightAggregator) Snapshot() map[uint32]Entry {
	out := make(map[uint32]Entry, len(a.entries))
	for h, e := range a.entries {
		out[h] = *e
	}
	return out
}
