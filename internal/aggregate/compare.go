package aggregate

import (
	"cmp"
	"slices"
)

// Mismatch is a height whose entries differ between two runs. A height
// missing on one side has the zero Entry there.
type Mismatch struct {
	Height uint32
	A, B   Entry
	// InA and InB report whether the height exists on each side
	InA, InB bool
}

// Compare lists every height where a and b disagree, in height order.
func Compare(a, b map[uint32]Entry) []Mismatch {
	var out []Mismatch
	for height, ea := range a {
		eb, ok := b[height]
		if !ok || ea != eb {
			out = append(out, Mismatch{Height: height, A: ea, B: eb, InA: true, InB: ok})
		}
	}
	for height, eb := range b {
		if _, ok := a[height]; !ok {
			out = append(out, Mismatch{Height: height, B: eb, InB: true})
		}
	}
	slices.SortFunc(out, func(x, y Mismatch) int {
		return cmp.Compare(x.Height, y.Height)
	})
	return out
}
