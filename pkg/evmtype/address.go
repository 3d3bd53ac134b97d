// Package evmtype defines the fixed-width primitive values shared by every
// ethcore codec: Address, Hash, and Signature. Address and Hash are plain
// byte arrays with validated constructors; Signature holds its r and s
// scalars as uint256 values plus a recovery id. There is no hidden global
// state.
package evmtype

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/alanyoungcy/ethcore/pkg/ecode"
)

// AddressLength is the byte width of an Ethereum account address.
const AddressLength = 20

// Address is a 20-byte account or contract identifier.
type Address [AddressLength]byte

// ParseAddress decodes a hex string (with or without a 0x prefix, any case)
// into an Address. It does not enforce EIP-55 casing on the input; use
// VerifyChecksum for that.
func ParseAddress(s string) (Address, error) {
	var a Address
	b, err := decodeHex(s, AddressLength)
	if err != nil {
		return a, ecode.Wrap(ecode.Validation, "evmtype: parse address", err)
	}
	copy(a[:], b)
	return a, nil
}

// BytesToAddress left-truncates/right-aligns b into an Address, taking the
// last AddressLength bytes (the convention used to derive an address from a
// 32-byte Keccak256 digest).
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// IsZero reports whether a is the all-zero address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Bytes returns the raw 20 bytes.
func (a Address) Bytes() []byte { return a[:] }

// Hex returns the lower-case hex form without a 0x prefix.
func (a Address) Hex() string {
	return hex.EncodeToString(a[:])
}

// String returns the EIP-55 checksummed, 0x-prefixed representation.
func (a Address) String() string {
	return "0x" + a.Checksum()
}

// Checksum derives the EIP-55 mixed-case hex digits (no 0x prefix): for each
// hex digit at index i, it is uppercased iff the i-th nibble of
// Keccak256(lowercase hex digits) is >= 8.
func (a Address) Checksum() string {
	lower := hex.EncodeToString(a[:])
	hash := sha3.NewLegacyKeccak256()
	hash.Write([]byte(lower))
	digest := hash.Sum(nil)

	out := make([]byte, len(lower))
	for i, c := range []byte(lower) {
		if c >= 'a' && c <= 'f' {
			nibble := digest[i/2]
			if i%2 == 0 {
				nibble >>= 4
			} else {
				nibble &= 0x0f
			}
			if nibble >= 8 {
				c -= 'a' - 'A'
			}
		}
		out[i] = c
	}
	return string(out)
}

// VerifyChecksum reports whether s (with optional 0x prefix) is either
// all-lowercase/all-uppercase (no checksum asserted) or a correctly
// checksummed representation of its own bytes.
func VerifyChecksum(s string) bool {
	trimmed := strings.TrimPrefix(s, "0x")
	if len(trimmed) != AddressLength*2 {
		return false
	}
	if trimmed == strings.ToLower(trimmed) || trimmed == strings.ToUpper(trimmed) {
		return true
	}
	addr, err := ParseAddress(trimmed)
	if err != nil {
		return false
	}
	return addr.Checksum() == trimmed
}

func decodeHex(s string, wantLen int) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(b) != wantLen {
		return nil, fmt.Errorf("want %d bytes, got %d", wantLen, len(b))
	}
	return b, nil
}
