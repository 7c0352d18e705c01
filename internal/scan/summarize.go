package scan

import (
	"cmp"
	"slices"

	"github.com/setavenger/utxo-aggregator/internal/chainstate"
	"github.com/setavenger/utxo-aggregator/internal/kvstore"
)

type KeyTypeCount struct {
	Prefix byte
	Name   string
	Count  uint64
}

// Summarize counts every key in the store by its row type prefix,
// most frequent first.
func Summarize(store kvstore.Reader) ([]KeyTypeCount, error) {
	counts := make(map[byte]uint64)
	err := store.Iterate(nil, nil, func(key, _ []byte) error {
		if len(key) == 0 {
			return nil
		}
		counts[key[0]]++
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]KeyTypeCount, 0, len(counts))
	for prefix, n := range counts {
		out = append(out, KeyTypeCount{Prefix: prefix, Name: chainstate.KeyTypeName(prefix), Count: n})
	}
	slices.SortFunc(out, func(a, b KeyTypeCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Prefix, b.Prefix)
	})
	return out, nil
}
