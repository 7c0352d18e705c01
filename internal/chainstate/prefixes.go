package chainstate

import "fmt"

// Row type prefixes used by Bitcoin Core in the chainstate and block index LevelDBs.
const (
	KCoin        = 'C' // per-output coin, current format
	KCoins       = 'c' // per-transaction coins, pre 0.15 format
	KBlockFiles  = 'f'
	KTxIndex     = 't'
	KBlockIndex  = 'b'
	KBestBlock   = 'B'
	KHeadBlocks  = 'H'
	KFlag        = 'F'
	KReindex     = 'R'
	KLastBlock   = 'l'
	KObfuscation = 0x0e
)

const (
	SizeTxid = 32

	// obfuscation record value: one length byte followed by the key
	obfuscationKeyLen    = 8
	obfuscationRecordLen = 1 + obfuscationKeyLen
)

// ObfuscationKeyRecord is the fixed database key holding the value obfuscation key.
var ObfuscationKeyRecord = append([]byte{KObfuscation, 0x00}, "obfuscate_key"...)

var keyTypeNames = map[byte]string{
	KCoin:        "COIN",
	KCoins:       "COINS",
	KBlockFiles:  "BLOCK_FILES",
	KTxIndex:     "TXINDEX",
	KBlockIndex:  "BLOCK_INDEX",
	KBestBlock:   "BEST_BLOCK",
	KHeadBlocks:  "HEAD_BLOCK",
	KFlag:        "FLAG",
	KReindex:     "REINDEX_FLAG",
	KLastBlock:   "LAST_BLOCK",
	KObfuscation: "OBFUSCATE",
}

// KeyTypeName names the row type of a key prefix. Unknown prefixes are rendered in hex.
func KeyTypeName(prefix byte) string {
	if name, ok := keyTypeNames[prefix]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN_%02x", prefix)
}

// CoinRange returns the [start, limit) bounds covering every coin record.
func CoinRange() (start, limit []byte) {
	return []byte{KCoin}, []byte{KCoin + 1}
}
