package chainstate

import (
	"math"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Outpoint identifies an unspent output. The txid is kept in internal byte
// order, Hash.String renders the usual reversed hex.
type Outpoint struct {
	Txid chainhash.Hash
	Vout uint32
}

// Coin is the decoded head of a coin record value.
type Coin struct {
	Height   uint32
	Coinbase bool
	Amount   uint64
	// ScriptSize is the number of bytes after the amount, i.e. the compressed script.
	ScriptSize int
}

// DecodeKey splits a coin key into txid and output index. The vout varint must
// consume the remainder of the key.
func DecodeKey(key []byte) (Outpoint, error) {
	var op Outpoint
	if len(key) < 1+SizeTxid+1 {
		return op, formatErrorf("coin key", "length %d too short", len(key))
	}
	if key[0] != KCoin {
		return op, formatErrorf("coin key", "prefix 0x%02x, expected 0x%02x", key[0], KCoin)
	}
	copy(op.Txid[:], key[1:1+SizeTxid])

	rest := key[1+SizeTxid:]
	vout, n, err := DecodeVarint(rest)
	if err != nil {
		return op, err
	}
	if n != len(rest) {
		return op, formatErrorf("coin key", "%d trailing bytes after vout", len(rest)-n)
	}
	if vout > math.MaxUint32 {
		return op, formatErrorf("coin key", "vout %d out of range", vout)
	}
	op.Vout = uint32(vout)
	return op, nil
}

// DecodeValue decodes a deobfuscated coin value: varint(height<<1 | coinbase)
// followed by varint(compressed amount).
func DecodeValue(value []byte) (Coin, error) {
	var coin Coin

	code, consumed, err := DecodeVarint(value)
	if err != nil {
		return coin, err
	}
	if code>>1 > math.MaxUint32 {
		return coin, formatErrorf("coin value", "height %d out of range", code>>1)
	}
	coin.Height = uint32(code >> 1)
	coin.Coinbase = code&1 == 1

	compressed, n, err := DecodeVarint(value[consumed:])
	if err != nil {
		return coin, err
	}
	coin.Amount = DecompressAmount(compressed)
	coin.ScriptSize = len(value) - consumed - n
	return coin, nil
}

// ScriptSegment returns the compressed script bytes that follow the amount.
func ScriptSegment(value []byte, coin Coin) []byte {
	return value[len(value)-coin.ScriptSize:]
}
