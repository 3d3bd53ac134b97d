package evmtype

import (
	"github.com/holiman/uint256"

	"github.com/alanyoungcy/ethcore/pkg/ecode"
)

// Signature is an ECDSA signature over secp256k1 in Ethereum's (r, s, v)
// form, with v restricted to {0, 1} (the recovery id, not a chain-encoded
// legacy v; callers doing EIP-155 legacy encoding apply that transform at
// the transaction-serialization boundary, not here).
type Signature struct {
	R *uint256.Int
	S *uint256.Int
	V uint8
}

// secp256k1HalfOrder is n/2 for the secp256k1 group order n, the threshold
// the low-S rule canonicalizes against.
var secp256k1HalfOrder = mustU256FromHex("7fffffffffffffffffffffffffffffff5d576e7357a4501ddfe92f46681b20a0")

func mustU256FromHex(s string) *uint256.Int {
	u, err := uint256.FromHex("0x" + s)
	if err != nil {
		panic(err)
	}
	return u
}

// IsLowS reports whether S is canonical (S <= n/2), required by spec §4.6.
func (sig Signature) IsLowS() bool {
	return sig.S.Cmp(secp256k1HalfOrder) <= 0
}

// Bytes65 returns the 65-byte wire form r || s || v, with v as the single
// byte 0x00/0x01.
func (sig Signature) Bytes65() [65]byte {
	var out [65]byte
	rb := sig.R.Bytes32()
	sb := sig.S.Bytes32()
	copy(out[0:32], rb[:])
	copy(out[32:64], sb[:])
	out[64] = sig.V
	return out
}

// ParseSignature65 parses the 65-byte r || s || v wire form.
func ParseSignature65(b []byte) (Signature, error) {
	if len(b) != 65 {
		return Signature{}, ecode.New(ecode.Validation, "evmtype: parse signature", "signature must be 65 bytes")
	}
	r := new(uint256.Int).SetBytes(b[0:32])
	s := new(uint256.Int).SetBytes(b[32:64])
	v := b[64]
	if v > 1 {
		return Signature{}, ecode.New(ecode.Validation, "evmtype: parse signature", "recovery id must be 0 or 1")
	}
	return Signature{R: r, S: s, V: v}, nil
}

// CompactYParityWithS packs v into the top bit of S, producing the 64-byte
// compact (r, yParityWithS) form: yParityWithS = s | (v << 255).
func (sig Signature) CompactYParityWithS() (r, yParityWithS *uint256.Int) {
	y := new(uint256.Int).Set(sig.S)
	if sig.V == 1 {
		var top uint256.Int
		top.SetOne()
		top.Lsh(&top, 255)
		y.Or(y, &top)
	}
	return sig.R, y
}

// ParseCompact splits the compact (r, yParityWithS) pair back into a
// Signature, recovering v from the top bit of S and clearing it.
func ParseCompact(r, yParityWithS *uint256.Int) Signature {
	s := new(uint256.Int).Set(yParityWithS)
	var top uint256.Int
	top.SetOne()
	top.Lsh(&top, 255)

	var v uint8
	if s.Cmp(&top) >= 0 {
		v = 1
		s.Sub(s, &top)
	}
	return Signature{R: new(uint256.Int).Set(r), S: s, V: v}
}
