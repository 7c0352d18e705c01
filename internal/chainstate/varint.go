package chainstate

import "math"

// DecodeVarint decodes the MSB base-128 varint used by Bitcoin Core's on-disk
// serialization. Every continuation byte adds one to the accumulator before the
// next 7 bits are shifted in, so each value has exactly one encoding.
// It returns the value and the number of bytes consumed.
func DecodeVarint(b []byte) (uint64, int, error) {
	var n uint64
	for i, c := range b {
		if n > math.MaxUint64>>7 {
			return 0, 0, formatErrorf("varint", "value overflows 64 bits")
		}
		n = (n << 7) | uint64(c&0x7f)
		if c&0x80 == 0 {
			return n, i + 1, nil
		}
		if n == math.MaxUint64 {
			return 0, 0, formatErrorf("varint", "value overflows 64 bits")
		}
		n++
	}
	return 0, 0, formatErrorf("varint", "no terminating byte in %d bytes", len(b))
}
