package dataexport

import (
	"fmt"
	"io"
	"os"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/setavenger/utxo-aggregator/internal/aggregate"
)

// WriteHeightsJSON writes one JSON object keyed by decimal block height,
// ascending by height: {"0": {"amount": .., "n": .., "epoch": ..}, ...}
func WriteHeightsJSON(w io.Writer, agg *aggregate.HeightAggregator) error {
	stream := jsoniter.NewStream(json, w, 64<<10)
	stream.WriteObjectStart()
	for i, height := range agg.Heights() {
		if i > 0 {
			stream.WriteMore()
		}
		entry, _ := agg.Entry(height)
		stream.WriteObjectField(strconv.FormatUint(uint64(height), 10))
		stream.WriteVal(entry)
	}
	stream.WriteObjectEnd()
	stream.WriteRaw("\n")
	if stream.Error != nil {
		return stream.Error
	}
	return stream.Flush()
}

// ExportHeights writes the height map to path atomically.
func ExportHeights(path string, agg *aggregate.HeightAggregator) error {
	out, err := createAtomic(path)
	if err != nil {
		return err
	}
	if err = WriteHeightsJSON(out, agg); err != nil {
		out.Abort()
		return err
	}
	return out.Commit()
}

// ReadHeights loads a file produced by ExportHeights.
func ReadHeights(path string) (map[uint32]aggregate.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var raw map[string]aggregate.Entry
	if err = json.NewDecoder(f).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	out := make(map[uint32]aggregate.Entry, len(raw))
	for k, v := range raw {
		height, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("height key %q: %w", k, err)
		}
		// "7" and "007" would otherwise collapse into one height
		if strconv.FormatUint(height, 10) != k {
			return nil, fmt.Errorf("height key %q is not in canonical form", k)
		}
		out[uint32(height)] = v
	}
	return out, nil
}
