package chainstate_test

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setavenger/utxo-aggregator/internal/chainstate"
	"github.com/setavenger/utxo-aggregator/internal/testhelpers"
)

// vectors from the comments of Bitcoin Core's serialize.h
var varintVectors = []struct {
	hex   string
	value uint64
}{
	{"00", 0},
	{"01", 1},
	{"7f", 127},
	{"8000", 128},
	{"807f", 255},
	{"8100", 256},
	{"fe7f", 16383},
	{"ff00", 16384},
	{"ff7f", 16511},
	{"82fe7f", 65535},
	{"8efefeff00", 1 << 32},
}

func TestDecodeVarint(t *testing.T) {
	for _, v := range varintVectors {
		raw, err := hex.DecodeString(v.hex)
		require.NoError(t, err)

		value, n, err := chainstate.DecodeVarint(raw)
		require.NoError(t, err, v.hex)
		assert.Equal(t, v.value, value, v.hex)
		assert.Equal(t, len(raw), n, v.hex)
	}
}

func TestDecodeVarintStopsAtTerminator(t *testing.T) {
	value, n, err := chainstate.DecodeVarint([]byte{0x80, 0x00, 0xff, 0xff})
	require.NoError(t, err)
	assert.Equal(t, uint64(128), value)
	assert.Equal(t, 2, n)
}

func TestDecodeVarintTruncated(t *testing.T) {
	for _, raw := range [][]byte{nil, {0x80}, {0xff, 0xff, 0x81}} {
		_, _, err := chainstate.DecodeVarint(raw)
		var formatErr *chainstate.FormatError
		require.True(t, errors.As(err, &formatErr), "%x", raw)
		assert.Equal(t, "varint", formatErr.Field)
	}
}

func TestDecodeVarintOverflow(t *testing.T) {
	raw := make([]byte, 11)
	for i := range raw[:10] {
		raw[i] = 0xff
	}
	_, _, err := chainstate.DecodeVarint(raw)
	var formatErr *chainstate.FormatError
	assert.True(t, errors.As(err, &formatErr))
}

func TestVarintEncoderRoundTrip(t *testing.T) {
	for _, v := range varintVectors {
		assert.Equal(t, v.hex, hex.EncodeToString(testhelpers.EncodeVarint(v.value)))
	}
}
