package evmtype

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddressRoundTrip(t *testing.T) {
	const hex20 = "0123456789abcdef0123456789abcdef01234567"
	a, err := ParseAddress("0x" + hex20)
	require.NoError(t, err)
	assert.Equal(t, hex20, a.Hex())

	b, err := ParseAddress(hex20) // without 0x prefix
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestParseAddressRejectsWrongLength(t *testing.T) {
	_, err := ParseAddress("0x1234")
	assert.Error(t, err)
}

func TestBytesToAddressTruncatesFromLeft(t *testing.T) {
	digest := make([]byte, 32)
	for i := range digest {
		digest[i] = byte(i)
	}
	a := BytesToAddress(digest)
	assert.Equal(t, digest[12:], a.Bytes())
}

func TestBytesToAddressRightAlignsShortInput(t *testing.T) {
	a := BytesToAddress([]byte{0x01, 0x02})
	assert.Equal(t, Address{18: 0x01, 19: 0x02}, a)
}

func TestAddressIsZero(t *testing.T) {
	var a Address
	assert.True(t, a.IsZero())
	a[0] = 1
	assert.False(t, a.IsZero())
}

// Checksum known-answer test from EIP-55's reference examples.
func TestAddressChecksumKnownVector(t *testing.T) {
	a, err := ParseAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	require.NoError(t, err)
	assert.Equal(t, "5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", a.Checksum())
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", a.String())
}

func TestVerifyChecksum(t *testing.T) {
	assert.True(t, VerifyChecksum("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"))
	assert.True(t, VerifyChecksum("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")) // all lower, unasserted
	assert.False(t, VerifyChecksum("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAeD")) // wrong casing on last digit
	assert.False(t, VerifyChecksum("0x1234"))
}

func TestParseHashRoundTrip(t *testing.T) {
	const hex32 = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	h, err := ParseHash("0x" + hex32)
	require.NoError(t, err)
	assert.Equal(t, hex32, h.Hex())
	assert.Equal(t, "0x"+hex32, h.String())
}

func TestKeccak256KnownVector(t *testing.T) {
	// Keccak256("") is a well-known constant.
	h := Keccak256()
	assert.Equal(t, "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", h.Hex())
}

func TestKeccak256ConcatenatesInputs(t *testing.T) {
	a := Keccak256([]byte("foo"), []byte("bar"))
	b := Keccak256([]byte("foobar"))
	assert.Equal(t, a, b)
}

func TestHashIsZero(t *testing.T) {
	var h Hash
	assert.True(t, h.IsZero())
	assert.False(t, BytesToHash([]byte{1}).IsZero())
}

func TestU256FromBig(t *testing.T) {
	u, overflow := U256FromBig(big.NewInt(12345))
	assert.False(t, overflow)
	assert.Equal(t, uint64(12345), u.Uint64())

	huge := new(big.Int).Lsh(big.NewInt(1), 257)
	_, overflow = U256FromBig(huge)
	assert.True(t, overflow)
}

func TestNewU256FromUint64(t *testing.T) {
	u := NewU256FromUint64(42)
	assert.Equal(t, uint64(42), u.Uint64())
}

func TestSignatureBytes65RoundTrip(t *testing.T) {
	sig := Signature{
		R: uint256.NewInt(111),
		S: uint256.NewInt(222),
		V: 1,
	}
	b := sig.Bytes65()
	out, err := ParseSignature65(b[:])
	require.NoError(t, err)
	assert.Equal(t, sig.R, out.R)
	assert.Equal(t, sig.S, out.S)
	assert.Equal(t, sig.V, out.V)
}

func TestParseSignature65RejectsWrongLength(t *testing.T) {
	_, err := ParseSignature65(make([]byte, 64))
	assert.Error(t, err)
}

func TestParseSignature65RejectsBadRecoveryID(t *testing.T) {
	b := make([]byte, 65)
	b[64] = 2
	_, err := ParseSignature65(b)
	assert.Error(t, err)
}

func TestIsLowS(t *testing.T) {
	low := Signature{R: uint256.NewInt(1), S: uint256.NewInt(1)}
	assert.True(t, low.IsLowS())

	high := Signature{R: uint256.NewInt(1), S: new(uint256.Int).Set(secp256k1HalfOrder)}
	high.S.AddUint64(high.S, 1)
	assert.False(t, high.IsLowS())
}

func TestCompactYParityRoundTrip(t *testing.T) {
	for _, v := range []uint8{0, 1} {
		sig := Signature{R: uint256.NewInt(9999), S: uint256.NewInt(424242), V: v}
		r, y := sig.CompactYParityWithS()
		out := ParseCompact(r, y)
		assert.Equal(t, sig.R, out.R)
		assert.Equal(t, sig.S, out.S)
		assert.Equal(t, sig.V, out.V)
	}
}
