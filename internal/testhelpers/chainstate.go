// Package testhelpers builds chainstate fixtures in the exact on-disk format
// Bitcoin Core writes, so decoders can be tested without a node.
package testhelpers

import (
	"github.com/setavenger/utxo-aggregator/internal/chainstate"
	"github.com/setavenger/utxo-aggregator/internal/kvstore"
)

// DefaultObfuscationKey is an arbitrary key used by fixtures.
var DefaultObfuscationKey = chainstate.ObfuscationKey{0x2b, 0x86, 0x0d, 0x7e, 0x11, 0xa3, 0x45, 0xf0}

// EncodeVarint is the inverse of chainstate.DecodeVarint.
func EncodeVarint(n uint64) []byte {
	var tmp [10]byte
	i := 0
	for {
		b := byte(n & 0x7f)
		if i > 0 {
			b |= 0x80
		}
		tmp[i] = b
		if n <= 0x7f {
			break
		}
		n = (n >> 7) - 1
		i++
	}
	out := make([]byte, 0, i+1)
	for ; i >= 0; i-- {
		out = append(out, tmp[i])
	}
	return out
}

// CompressAmount is the inverse of chainstate.DecompressAmount.
func CompressAmount(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	var e uint64
	for n%10 == 0 && e < 9 {
		n /= 10
		e++
	}
	if e < 9 {
		d := n % 10
		n /= 10
		return 1 + (n*9+d-1)*10 + e
	}
	return 1 + (n-1)*10 + 9
}

// ObfuscationRecord is the raw value stored under chainstate.ObfuscationKeyRecord.
func ObfuscationRecord(key chainstate.ObfuscationKey) []byte {
	return append([]byte{byte(len(key))}, key...)
}

// CoinKey builds the key of a coin record. txid is given in internal byte order.
func CoinKey(txid [32]byte, vout uint32) []byte {
	key := append([]byte{chainstate.KCoin}, txid[:]...)
	return append(key, EncodeVarint(uint64(vout))...)
}

// CoinValue builds the plaintext value of a coin record with a P2PKH script.
func CoinValue(height uint32, coinbase bool, amount uint64) []byte {
	code := uint64(height) << 1
	if coinbase {
		code |= 1
	}
	value := EncodeVarint(code)
	value = append(value, EncodeVarint(CompressAmount(amount))...)
	value = append(value, 0x00)
	return append(value, make([]byte, 20)...)
}

// Coin describes one fixture record.
type Coin struct {
	Txid     [32]byte
	Vout     uint32
	Height   uint32
	Coinbase bool
	Amount   uint64
}

// TxidFromByte returns a txid filled with b, handy for readable fixtures.
func TxidFromByte(b byte) [32]byte {
	var txid [32]byte
	for i := range txid {
		txid[i] = b
	}
	return txid
}

// WriteChainstate stores the obfuscation key and coins, obfuscating every coin value.
func WriteChainstate(w kvstore.Writer, key chainstate.ObfuscationKey, coins []Coin) error {
	if err := w.Put(chainstate.ObfuscationKeyRecord, ObfuscationRecord(key)); err != nil {
		return err
	}
	for _, c := range coins {
		value := key.Deobfuscate(CoinValue(c.Height, c.Coinbase, c.Amount))
		if err := w.Put(CoinKey(c.Txid, c.Vout), value); err != nil {
			return err
		}
	}
	return w.Flush()
}

// NewChainstate returns an in-memory store populated with coins.
func NewChainstate(coins []Coin) (*kvstore.LevelDB, error) {
	db := kvstore.NewMemory()
	if err := WriteChainstate(db, DefaultObfuscationKey, coins); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// SampleCoins is five records over two heights, one of them a coinbase.
func SampleCoins() []Coin {
	return []Coin{
		{Txid: TxidFromByte(0x01), Vout: 0, Height: 100, Coinbase: true, Amount: 50_0000_0000},
		{Txid: TxidFromByte(0x02), Vout: 0, Height: 100, Amount: 1234},
		{Txid: TxidFromByte(0x02), Vout: 1, Height: 100, Amount: 100_000},
		{Txid: TxidFromByte(0x03), Vout: 7, Height: 2016, Amount: 2_1000_0000},
		{Txid: TxidFromByte(0x04), Vout: 300, Height: 2016, Amount: 546},
	}
}
