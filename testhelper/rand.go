// Package testhelper provides small randomness helpers for test suites
// (random hash keys and shard-id serials).
package testhelper

import (
	"crypto/rand"
	"io"
	"math/big"
)

const hashKeyBits = 128

// hashKeySpace is 2^128, the exclusive upper bound of the hash key space.
//
//nolint:gochecknoglobals
var hashKeySpace = new(big.Int).Lsh(big.NewInt(1), hashKeyBits)

// RandHashKey returns a random value uniformly distributed over
// [0, 2^128) using crypto/rand.Reader.
func RandHashKey() (*big.Int, error) {
	return rand.Int(rand.Reader, hashKeySpace)
}

// MustRandHashKey returns the value returned by RandHashKey. If RandHashKey
// returns an error, it panics.
func MustRandHashKey() *big.Int {
	k, err := RandHashKey()
	if err != nil {
		panic(err)
	}

	return k
}

// RandHashKeyBetween returns a random value uniformly distributed over
// [lo, hi]. It panics if lo > hi.
func RandHashKeyBetween(lo, hi *big.Int) (*big.Int, error) {
	if lo.Cmp(hi) > 0 {
		panic("testhelper: RandHashKeyBetween: lo > hi")
	}

	span := new(big.Int).Sub(hi, lo)
	span.Add(span, big.NewInt(1))

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return nil, err
	}

	return n.Add(n, lo), nil
}

const digitChars = "0123456789"

func randChars(n int, charSet string, r io.Reader) (string, error) {
	ret := make([]byte, n)

	for i := range n {
		num, err := rand.Int(r, big.NewInt(int64(len(charSet))))
		if err != nil {
			return "", err
		}

		ret[i] = charSet[num.Int64()]
	}

	return string(ret), nil
}

// RandShardSerial returns a random numeric string of length n, suitable for
// building synthetic shard-id serials in tests.
func RandShardSerial(n int) (string, error) { return randChars(n, digitChars, rand.Reader) }

// MustRandShardSerial returns the string returned by RandShardSerial. If
// RandShardSerial returns an error, it panics.
func MustRandShardSerial(n int) string {
	str, err := RandShardSerial(n)
	if err != nil {
		panic(err)
	}

	return str
}
