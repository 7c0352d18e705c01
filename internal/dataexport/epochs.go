package dataexport

import (
	"strconv"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/gocarina/gocsv"

	"github.com/setavenger/utxo-aggregator/internal/aggregate"
)

type epochRecord struct {
	Epoch       uint32 `csv:"epoch"`
	FirstHeight uint32 `csv:"first_height"`
	LastHeight  uint32 `csv:"last_height"`
	Heights     int    `csv:"heights"`
	N           uint64 `csv:"n"`
	Amount      uint64 `csv:"amount"`
	AmountBTC   string `csv:"amount_btc"`
}

func convertEpochsToRecords(totals []aggregate.EpochTotal) []*epochRecord {
	records := make([]*epochRecord, 0, len(totals))
	for _, t := range totals {
		records = append(records, &epochRecord{
			Epoch:       t.Epoch,
			FirstHeight: t.FirstHeight,
			LastHeight:  t.LastHeight,
			Heights:     t.Heights,
			N:           t.N,
			Amount:      t.Amount,
			AmountBTC:   strconv.FormatFloat(btcutil.Amount(t.Amount).ToBTC(), 'f', -1, 64),
		})
	}
	return records
}

// ExportEpochs writes per-epoch totals as CSV to path atomically.
func ExportEpochs(path string, totals []aggregate.EpochTotal) error {
	out, err := createAtomic(path)
	if err != nil {
		return err
	}
	if err = gocsv.Marshal(convertEpochsToRecords(totals), out); err != nil {
		out.Abort()
		return err
	}
	return out.Commit()
}
