package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollupEpochs(t *testing.T) {
	entries := map[uint32]Entry{
		0:    {Amount: 50, N: 1, Epoch: 1},
		2015: {Amount: 10, N: 2, Epoch: 1},
		2016: {Amount: 5, N: 1, Epoch: 2},
		9000: {Amount: 3, N: 3, Epoch: 5},
	}

	got := RollupEpochs(entries)
	assert.Equal(t, []EpochTotal{
		{Epoch: 1, Amount: 60, N: 3, Heights: 2, FirstHeight: 0, LastHeight: 2015},
		{Epoch: 2, Amount: 5, N: 1, Heights: 1, FirstHeight: 2016, LastHeight: 2016},
		{Epoch: 5, Amount: 3, N: 3, Heights: 1, FirstHeight: 9000, LastHeight: 9000},
	}, got)
}

func TestRollupEpochsEmpty(t *testing.T) {
	assert.Empty(t, RollupEpochs(nil))
}
