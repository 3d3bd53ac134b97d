package evmtype

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/alanyoungcy/ethcore/pkg/ecode"
)

// HashLength is the byte width of a Keccak256 digest.
const HashLength = 32

// Hash is a 32-byte digest, almost always Keccak256.
type Hash [HashLength]byte

// ParseHash decodes a hex string (optional 0x prefix) into a Hash.
func ParseHash(s string) (Hash, error) {
	var h Hash
	b, err := decodeHex(s, HashLength)
	if err != nil {
		return h, ecode.Wrap(ecode.Validation, "evmtype: parse hash", err)
	}
	copy(h[:], b)
	return h, nil
}

// BytesToHash copies up to HashLength bytes of b into a right-aligned Hash.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

// Keccak256 hashes the concatenation of data and returns the digest as Hash.
func Keccak256(data ...[]byte) Hash {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// Keccak256Bytes is like Keccak256 but returns a plain []byte, convenient for
// call sites that feed the digest directly into a byte-string accumulator.
func Keccak256Bytes(data ...[]byte) []byte {
	h := Keccak256(data...)
	return h[:]
}

// Bytes returns the raw 32 bytes.
func (h Hash) Bytes() []byte { return h[:] }

// Hex returns the lower-case hex form without a 0x prefix.
func (h Hash) Hex() string { return hex.EncodeToString(h[:]) }

// String returns the 0x-prefixed lower-case hex form.
func (h Hash) String() string { return "0x" + h.Hex() }

// IsZero reports whether h is the all-zero hash.
func (h Hash) IsZero() bool { return h == Hash{} }
