package aggregate

import (
	"github.com/btcsuite/btcd/chaincfg"
)

// DefaultEpochCeiling is the upper edge of the binning grid. Heights at or above
// the last edge below it share the final epoch.
const DefaultEpochCeiling = 1_000_000

// RetargetInterval returns the number of blocks between difficulty adjustments.
func RetargetInterval(params *chaincfg.Params) uint32 {
	return uint32(params.TargetTimespan / params.TargetTimePerBlock)
}

// Binning assigns heights to difficulty epochs using bin edges 0, Width, 2*Width, ...
// below Ceiling. An epoch is the number of edges <= height, so heights
// [0, Width) are epoch 1 and [Width, 2*Width) epoch 2. Ceiling 0 means no upper edge.
type Binning struct {
	Width   uint32
	Ceiling uint32
}

func DefaultBinning() Binning {
	return Binning{
		Width:   RetargetInterval(&chaincfg.MainNetParams),
		Ceiling: DefaultEpochCeiling,
	}
}

func (b Binning) Epoch(height uint32) uint32 {
	epoch := height/b.Width + 1
	if b.Ceiling == 0 {
		return epoch
	}
	edges := (b.Ceiling-1)/b.Width + 1
	if epoch > edges {
		return edges
	}
	return epoch
}
