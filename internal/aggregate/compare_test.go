package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareIdentical(t *testing.T) {
	a := map[uint32]Entry{100: {Amount: 5, N: 1, Epoch: 1}}
	b := map[uint32]Entry{100: {Amount: 5, N: 1, Epoch: 1}}
	assert.Empty(t, Compare(a, b))
}

func TestCompare(t *testing.T) {
	a := map[uint32]Entry{
		1:    {Amount: 10, N: 1, Epoch: 1},
		2016: {Amount: 7, N: 2, Epoch: 2},
		5000: {Amount: 1, N: 1, Epoch: 3},
	}
	b := map[uint32]Entry{
		1:    {Amount: 10, N: 1, Epoch: 1},
		2016: {Amount: 8, N: 2, Epoch: 2},
		3000: {Amount: 4, N: 1, Epoch: 2},
	}

	got := Compare(a, b)
	assert.Equal(t, []Mismatch{
		{Height: 2016, A: Entry{Amount: 7, N: 2, Epoch: 2}, B: Entry{Amount: 8, N: 2, Epoch: 2}, InA: true, InB: true},
		{Height: 3000, B: Entry{Amount: 4, N: 1, Epoch: 2}, InB: true},
		{Height: 5000, A: Entry{Amount: 1, N: 1, Epoch: 3}, InA: true},
	}, got)
}
