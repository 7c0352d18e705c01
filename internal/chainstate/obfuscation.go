package chainstate

import "encoding/hex"

// ObfuscationKey is XORed cyclically over every value stored in the chainstate.
type ObfuscationKey []byte

// ParseObfuscationKey validates the raw record stored under ObfuscationKeyRecord.
// The record is a length prefix of 8 followed by the 8 key bytes.
func ParseObfuscationKey(raw []byte) (ObfuscationKey, error) {
	if len(raw) != obfuscationRecordLen {
		return nil, formatErrorf("obfuscation key", "record length %d, expected %d", len(raw), obfuscationRecordLen)
	}
	if raw[0] != obfuscationKeyLen {
		return nil, formatErrorf("obfuscation key", "length prefix %d, expected %d", raw[0], obfuscationKeyLen)
	}
	key := make(ObfuscationKey, obfuscationKeyLen)
	copy(key, raw[1:])
	return key, nil
}

// Deobfuscate returns a fresh slice with byte i XORed against key[i % len(key)].
// The input is left untouched. Applying it twice yields the input again.
func (k ObfuscationKey) Deobfuscate(data []byte) []byte {
	out := make([]byte, len(data))
	if len(k) == 0 {
		copy(out, data)
		return out
	}
	for i, c := range data {
		out[i] = c ^ k[i%len(k)]
	}
	return out
}

func (k ObfuscationKey) String() string {
	return hex.EncodeToString(k)
}
