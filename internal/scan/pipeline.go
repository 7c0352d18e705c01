package scan

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/setavenger/utxo-aggregator/internal/aggregate"
	"github.com/setavenger/utxo-aggregator/internal/chainstate"
	"github.com/setavenger/utxo-aggregator/internal/kvstore"
	"github.com/setavenger/utxo-aggregator/internal/logging"
)

// DefaultProgressInterval is how many records pass between progress log lines.
const DefaultProgressInterval = 1_000_000

// Record is one deobfuscated coin handed to a Visitor.
// Key and Value are owned by the visitor and may be retained.
type Record struct {
	Key   []byte
	Value []byte
	Coin  chainstate.Coin
}

type Visitor func(rec Record) error

// Stats summarises a finished scan.
type Stats struct {
	Records  uint64
	Amount   uint64
	Duration time.Duration
}

// Pipeline walks every coin in a chainstate store once, in key order.
// Any decode or store error aborts the walk.
type Pipeline struct {
	store            kvstore.Reader
	metrics          *Metrics
	progressInterval uint64
}

type Option func(*Pipeline)

func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

func WithProgressInterval(n uint64) Option {
	return func(p *Pipeline) { p.progressInterval = n }
}

func NewPipeline(store kvstore.Reader, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:            store,
		progressInterval: DefaultProgressInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ObfuscationKey fetches and validates the store's obfuscation key.
func (p *Pipeline) ObfuscationKey() (chainstate.ObfuscationKey, error) {
	raw, err := p.store.Get(chainstate.ObfuscationKeyRecord)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, &chainstate.FormatError{Field: "obfuscation key", Reason: "record missing"}
	}
	if err != nil {
		return nil, fmt.Errorf("read obfuscation key: %w", err)
	}
	return chainstate.ParseObfuscationKey(raw)
}

// Walk decodes every coin record and calls visit for each of them.
func (p *Pipeline) Walk(visit Visitor) (Stats, error) {
	var stats Stats
	start := time.Now()

	key, err := p.ObfuscationKey()
	if err != nil {
		logging.L.Err(err).Msg("error loading obfuscation key")
		return stats, err
	}
	logging.L.Debug().Str("obfuscation_key", key.String()).Msg("loaded obfuscation key")

	lower, upper := chainstate.CoinRange()
	err = p.store.Iterate(lower, upper, func(k, v []byte) error {
		value := key.Deobfuscate(v)
		coin, err := chainstate.DecodeValue(value)
		if err != nil {
			logging.L.Err(err).Hex("key", k).Msg("error decoding coin")
			return fmt.Errorf("decode coin %x: %w", k, err)
		}

		rec := Record{
			Key:   append([]byte(nil), k...),
			Value: value,
			Coin:  coin,
		}
		if err := visit(rec); err != nil {
			return err
		}

		stats.Records++
		stats.Amount += coin.Amount
		p.metrics.observeRecord(coin.Amount)

		if p.progressInterval > 0 && stats.Records%p.progressInterval == 0 {
			logging.L.Info().
				Str("records", humanize.Comma(int64(stats.Records))).
				Str("elapsed", time.Since(start).Round(time.Second).String()).
				Msg("scan progress")
		}
		return nil
	})
	stats.Duration = time.Since(start)
	if err != nil {
		return stats, err
	}

	p.metrics.observeScan(stats)
	logging.L.Info().
		Str("records", humanize.Comma(int64(stats.Records))).
		Uint64("satoshis", stats.Amount).
		Dur("duration", stats.Duration).
		Msg("scan finished")
	return stats, nil
}

// Aggregate folds the whole coin range into per-height buckets.
func (p *Pipeline) Aggregate(binning aggregate.Binning) (*aggregate.HeightAggregator, Stats, error) {
	agg := aggregate.NewHeightAggregator(binning)
	stats, err := p.Walk(func(rec Record) error {
		agg.Add(rec.Coin.Height, rec.Coin.Amount)
		return nil
	})
	if err != nil {
		return nil, stats, err
	}
	p.metrics.observeHeights(agg.Len())

	amount, n := agg.Totals()
	logging.L.Info().
		Int("heights", agg.Len()).
		Uint64("coins", n).
		Uint64("satoshis", amount).
		Msg("aggregated coins by height")
	return agg, stats, nil
}
