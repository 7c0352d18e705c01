package chainstate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/setavenger/utxo-aggregator/internal/chainstate"
	"github.com/setavenger/utxo-aggregator/internal/testhelpers"
)

const (
	cent = 1_000_000
	coin = 100_000_000
)

func TestDecompressAmountZero(t *testing.T) {
	assert.Equal(t, uint64(0), chainstate.DecompressAmount(0))
}

// 0x32 and 0x1406f40 take the e == 9 branch, the rest e < 9
func TestDecompressAmountVectors(t *testing.T) {
	vectors := []struct {
		compressed uint64
		amount     uint64
	}{
		{0x1, 1},
		{0x7, cent},
		{0x9, coin},
		{0x32, 50 * coin},
		{0x1406f40, 21_000_000 * coin},
		{11101, 1234},
	}
	for _, v := range vectors {
		assert.Equal(t, v.amount, chainstate.DecompressAmount(v.compressed), "compressed %d", v.compressed)
	}
}

func TestDecompressAmountRoundTrip(t *testing.T) {
	for i := uint64(0); i <= 20_000; i++ {
		assert.Equal(t, i, chainstate.DecompressAmount(testhelpers.CompressAmount(i)))
	}
	for i := uint64(1); i <= 10_000; i++ {
		assert.Equal(t, i*cent, chainstate.DecompressAmount(testhelpers.CompressAmount(i*cent)))
		assert.Equal(t, i*coin, chainstate.DecompressAmount(testhelpers.CompressAmount(i*coin)))
	}
}
