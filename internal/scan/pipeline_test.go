package scan

import (
	"errors"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setavenger/utxo-aggregator/internal/aggregate"
	"github.com/setavenger/utxo-aggregator/internal/chainstate"
	"github.com/setavenger/utxo-aggregator/internal/kvstore"
	"github.com/setavenger/utxo-aggregator/internal/logging"
	"github.com/setavenger/utxo-aggregator/internal/testhelpers"
)

func init() {
	logging.SetOutput(io.Discard)
}

func TestAggregateSampleChainstate(t *testing.T) {
	store, err := testhelpers.NewChainstate(testhelpers.SampleCoins())
	require.NoError(t, err)
	defer store.Close()

	metrics := NewMetrics()
	agg, stats, err := NewPipeline(store, WithMetrics(metrics)).Aggregate(aggregate.DefaultBinning())
	require.NoError(t, err)

	assert.Equal(t, uint64(5), stats.Records)
	assert.Equal(t, []uint32{100, 2016}, agg.Heights())

	e, _ := agg.Entry(100)
	assert.Equal(t, aggregate.Entry{Amount: 50_0000_0000 + 1234 + 100_000, N: 3, Epoch: 1}, e)
	e, _ = agg.Entry(2016)
	assert.Equal(t, aggregate.Entry{Amount: 2_1000_0000 + 546, N: 2, Epoch: 2}, e)

	amount, n := agg.Totals()
	assert.Equal(t, stats.Amount, amount)
	assert.Equal(t, stats.Records, n)

	assert.Equal(t, float64(5), testutil.ToFloat64(metrics.records))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.heights))
}

func TestWalkIgnoresOtherRows(t *testing.T) {
	store, err := testhelpers.NewChainstate(testhelpers.SampleCoins())
	require.NoError(t, err)
	defer store.Close()

	// neighbours of the coin range that must not be visited
	require.NoError(t, store.Put([]byte{'B'}, []byte{0x01}))
	require.NoError(t, store.Put([]byte{'D', 0x00}, []byte{0x80}))
	require.NoError(t, store.Put([]byte{'c', 0x00}, []byte{0x80}))
	require.NoError(t, store.Flush())

	var keys [][]byte
	_, err = NewPipeline(store).Walk(func(rec Record) error {
		keys = append(keys, rec.Key)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, keys, 5)
	for _, k := range keys {
		assert.Equal(t, byte(chainstate.KCoin), k[0])
	}
}

func TestWalkRecordIsDeobfuscated(t *testing.T) {
	coins := testhelpers.SampleCoins()[:1]
	store, err := testhelpers.NewChainstate(coins)
	require.NoError(t, err)
	defer store.Close()

	_, err = NewPipeline(store).Walk(func(rec Record) error {
		op, err := chainstate.DecodeKey(rec.Key)
		require.NoError(t, err)
		assert.Equal(t, coins[0].Vout, op.Vout)
		assert.Equal(t, testhelpers.CoinValue(coins[0].Height, coins[0].Coinbase, coins[0].Amount), rec.Value)
		assert.True(t, rec.Coin.Coinbase)
		return nil
	})
	require.NoError(t, err)
}

func TestWalkMissingObfuscationKey(t *testing.T) {
	store := kvstore.NewMemory()
	defer store.Close()

	_, err := NewPipeline(store).Walk(func(Record) error { return nil })
	var formatErr *chainstate.FormatError
	assert.True(t, errors.As(err, &formatErr))
}

func TestWalkMalformedObfuscationKey(t *testing.T) {
	store := kvstore.NewMemory()
	defer store.Close()
	require.NoError(t, store.Put(chainstate.ObfuscationKeyRecord, []byte{0x07, 1, 2, 3, 4, 5, 6, 7}))
	require.NoError(t, store.Flush())

	_, err := NewPipeline(store).Walk(func(Record) error { return nil })
	var formatErr *chainstate.FormatError
	assert.True(t, errors.As(err, &formatErr))
}

func TestWalkFailsFastOnBadRecord(t *testing.T) {
	store, err := testhelpers.NewChainstate(testhelpers.SampleCoins())
	require.NoError(t, err)
	defer store.Close()

	// sorts between the 0x02 and 0x03 txids; a lone continuation byte never terminates
	badKey := testhelpers.CoinKey(testhelpers.TxidFromByte(0x02), 5)
	require.NoError(t, store.Put(badKey, testhelpers.DefaultObfuscationKey.Deobfuscate([]byte{0x80})))
	require.NoError(t, store.Flush())

	var visited int
	_, _, err = NewPipeline(store).Aggregate(aggregate.DefaultBinning())
	var formatErr *chainstate.FormatError
	require.True(t, errors.As(err, &formatErr))

	_, err = NewPipeline(store).Walk(func(Record) error {
		visited++
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, 3, visited)
}

func TestWalkVisitorErrorStops(t *testing.T) {
	store, err := testhelpers.NewChainstate(testhelpers.SampleCoins())
	require.NoError(t, err)
	defer store.Close()

	stop := errors.New("stop")
	stats, err := NewPipeline(store).Walk(func(Record) error { return stop })
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, uint64(0), stats.Records)
}

func TestSummarize(t *testing.T) {
	store, err := testhelpers.NewChainstate(testhelpers.SampleCoins())
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Put([]byte{'B'}, []byte{0x01}))
	require.NoError(t, store.Flush())

	counts, err := Summarize(store)
	require.NoError(t, err)
	assert.Equal(t, []KeyTypeCount{
		{Prefix: 'C', Name: "COIN", Count: 5},
		{Prefix: 0x0e, Name: "OBFUSCATE", Count: 1},
		{Prefix: 'B', Name: "BEST_BLOCK", Count: 1},
	}, counts)
}
