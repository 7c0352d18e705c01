package chainstate

// DecompressAmount reverses Bitcoin Core's CompressAmount.
//
// Amounts are stored as 1 + 10*(9*n + d - 1) + e for e < 9, where the satoshi
// value is (n*10 + d) * 10^e, and as 1 + 10*(n - 1) + 9 for e == 9.
func DecompressAmount(x uint64) uint64 {
	if x == 0 {
		return 0
	}
	x--
	e := x % 10
	x /= 10

	var n uint64
	if e < 9 {
		d := (x % 9) + 1
		x /= 9
		n = x*10 + d
	} else {
		n = x + 1
	}
	for ; e > 0; e-- {
		n *= 10
	}
	return n
}
