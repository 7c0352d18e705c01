package aggregate

import (
	"cmp"
	"slices"
)

// EpochTotal is the per-epoch fold of height entries.
type EpochTotal struct {
	Epoch       uint32
	Amount      uint64
	N           uint64
	Heights     int
	FirstHeight uint32
	LastHeight  uint32
}

// RollupEpochs combines height entries into epochs, ordered by epoch.
// The epoch stored on each entry is trusted as is.
func RollupEpochs(entries map[uint32]Entry) []EpochTotal {
	byEpoch := make(map[uint32]*EpochTotal)
	for height, e := range entries {
		total, ok := byEpoch[e.Epoch]
		if !ok {
			total = &EpochTotal{Epoch: e.Epoch, FirstHeight: height, LastHeight: height}
			byEpoch[e.Epoch] = total
		}
		total.Amount += e.Amount
		total.N += e.N
		total.Heights++
		total.FirstHeight = min(total.FirstHeight, height)
		total.LastHeight = max(total.LastHeight, height)
	}

	out := make([]EpochTotal, 0, len(byEpoch))
	for _, total := range byEpoch {
		out = append(out, *total)
	}
	slices.SortFunc(out, func(a, b EpochTotal) int {
		return cmp.Compare(a.Epoch, b.Epoch)
	})
	return out
}
