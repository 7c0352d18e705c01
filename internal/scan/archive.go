package scan

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/setavenger/utxo-aggregator/internal/chainstate"
	"github.com/setavenger/utxo-aggregator/internal/kvstore"
	"github.com/setavenger/utxo-aggregator/internal/logging"
)

// archiveBatchSize is the number of records per flushed batch
const archiveBatchSize = 100_000

// Archive copies the obfuscation key and every coin record, still obfuscated,
// from src into dst. The result is a self-contained chainstate that the
// pipeline can scan later. It returns the number of coins copied.
func Archive(src kvstore.Reader, dst kvstore.Writer) (uint64, error) {
	raw, err := src.Get(chainstate.ObfuscationKeyRecord)
	if err != nil {
		return 0, fmt.Errorf("read obfuscation key: %w", err)
	}
	if _, err = chainstate.ParseObfuscationKey(raw); err != nil {
		return 0, err
	}
	if err = dst.Put(chainstate.ObfuscationKeyRecord, raw); err != nil {
		return 0, err
	}

	var n uint64
	lower, upper := chainstate.CoinRange()
	err = src.Iterate(lower, upper, func(k, v []byte) error {
		if err := dst.Put(k, v); err != nil {
			return err
		}
		n++
		if n%archiveBatchSize == 0 {
			logging.L.Debug().Str("records", humanize.Comma(int64(n))).Msg("archive progress")
			return dst.Flush()
		}
		return nil
	})
	if err != nil {
		return n, err
	}
	return n, dst.Flush()
}
