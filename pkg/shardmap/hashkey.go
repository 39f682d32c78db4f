package shardmap

import "math/big"

// hashKeyBits is the width of the hash-key space: [0, 2^128).
const hashKeyBits = 128

// HashKey is an unsigned 128-bit integer identifying a position in the
// stream's hash-key space. The zero value is the valid key 0.
type HashKey struct {
	v big.Int
}

// hashKeySpace is 2^128, the exclusive upper bound of the hash-key space.
//
//nolint:gochecknoglobals
var hashKeySpace = new(big.Int).Lsh(big.NewInt(1), hashKeyBits)

// NewHashKey builds a HashKey from a big.Int, which must be non-negative and
// strictly less than 2^128. It returns false if the value is out of range.
func NewHashKey(v *big.Int) (HashKey, bool) {
	if v.Sign() < 0 || v.Cmp(hashKeySpace) >= 0 {
		return HashKey{}, false
	}

	var hk HashKey
	hk.v.Set(v)

	return hk, true
}

// MustNewHashKey is NewHashKey but panics on an out-of-range value. It is
// intended for constants and test fixtures, not for parsing external input.
func MustNewHashKey(v *big.Int) HashKey {
	hk, ok := NewHashKey(v)
	if !ok {
		panic("shardmap: hash key out of range [0, 2^128)")
	}

	return hk
}

// HashKeyFromUint64 builds a HashKey from a uint64, a convenience for tests
// and small fixed ranges.
func HashKeyFromUint64(v uint64) HashKey {
	var hk HashKey
	hk.v.SetUint64(v)

	return hk
}

// Big returns the underlying value as a big.Int. The returned value is a
// copy; mutating it does not affect hk.
func (hk HashKey) Big() *big.Int {
	return new(big.Int).Set(&hk.v)
}

// Cmp compares hk to other, returning -1, 0, or +1 as hk <, ==, > other.
func (hk HashKey) Cmp(other HashKey) int {
	return hk.v.Cmp(&other.v)
}

// Less reports whether hk sorts strictly before other.
func (hk HashKey) Less(other HashKey) bool {
	return hk.Cmp(other) < 0
}

// String renders the hash key in decimal.
func (hk HashKey) String() string {
	return hk.v.String()
}
