package evmtype

import (
	"math/big"

	"github.com/holiman/uint256"
)

// U256 is a 256-bit unsigned integer, the widest scalar the ABI and RLP
// codecs need to round-trip exactly. It wraps holiman/uint256, the library
// go-ethereum itself uses for its "fast path" big integers, rather than
// reimplementing 256-bit arithmetic on top of math/big.
type U256 = uint256.Int

// NewU256FromUint64 builds a U256 from a uint64.
func NewU256FromUint64(v uint64) *U256 {
	return new(U256).SetUint64(v)
}

// U256FromBig converts a math/big.Int (assumed non-negative and <= 2^256-1)
// into a U256. Overflowing values are reported via the bool, mirroring
// uint256.Int.SetFromBig.
func U256FromBig(b *big.Int) (*U256, bool) {
	u, overflow := uint256.FromBig(b)
	return u, overflow
}
