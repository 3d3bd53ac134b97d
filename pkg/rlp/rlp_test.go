package rlp

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeKnownVectors(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want []byte
	}{
		{"empty string", "", []byte{0x80}},
		{"single byte below 0x80", "\x00", []byte{0x00}},
		{"short string dog", "dog", []byte{0x83, 'd', 'o', 'g'}},
		{"empty list", []uint64{}, []byte{0xc0}},
		{"list of strings", []string{"cat", "dog"}, []byte{0xc8, 0x83, 'c', 'a', 't', 0x83, 'd', 'o', 'g'}},
		{"zero uint encodes as empty string", uint64(0), []byte{0x80}},
		{"small uint", uint64(15), []byte{0x0f}},
		{"uint needing a length tag", uint64(1024), []byte{0x82, 0x04, 0x00}},
		{"true", true, []byte{0x01}},
		{"false", false, []byte{0x80}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Encode(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEncodeLongStringUsesLongForm(t *testing.T) {
	s := make([]byte, 56)
	for i := range s {
		s[i] = 'a'
	}
	got, err := Encode(s)
	require.NoError(t, err)
	assert.Equal(t, byte(offsetLongString+1), got[0]) // one length-of-length byte
	assert.Equal(t, byte(56), got[1])
	assert.Equal(t, s, got[2:])
}

func TestEncodeRejectsNegativeInt(t *testing.T) {
	_, err := Encode(int64(-1))
	assert.Error(t, err)
}

func TestEncodeBigIntAndUint256(t *testing.T) {
	got, err := Encode(big.NewInt(1024))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x82, 0x04, 0x00}, got)

	got, err = Encode(uint256.NewInt(1024))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x82, 0x04, 0x00}, got)

	got, err = Encode((*big.Int)(nil))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80}, got)
}

func TestEncodeStructSkipsUnexportedAndTaggedFields(t *testing.T) {
	type inner struct {
		A uint64
		b uint64 //nolint:unused
		C uint64 `rlp:"-"`
	}
	got, err := Encode(inner{A: 1, b: 2, C: 3})
	require.NoError(t, err)

	var decoded struct {
		A uint64
	}
	require.NoError(t, Decode(got, &decoded))
	assert.Equal(t, uint64(1), decoded.A)
}

func TestDecodeRoundTripsStructsAndLists(t *testing.T) {
	type payload struct {
		Name   string
		Values []uint64
		Flag   bool
	}
	in := payload{Name: "tx", Values: []uint64{1, 2, 300}, Flag: true}

	encoded, err := Encode(in)
	require.NoError(t, err)

	var out payload
	require.NoError(t, Decode(encoded, &out))
	assert.Equal(t, in, out)
}

func TestDecodeFixedArray(t *testing.T) {
	in := [3]uint64{1, 2, 3}
	encoded, err := Encode(in)
	require.NoError(t, err)

	var out [3]uint64
	require.NoError(t, Decode(encoded, &out))
	assert.Equal(t, in, out)
}

func TestDecodeByteSliceAndArray(t *testing.T) {
	in := []byte{1, 2, 3, 4}
	encoded, err := Encode(in)
	require.NoError(t, err)

	var out []byte
	require.NoError(t, Decode(encoded, &out))
	assert.Equal(t, in, out)

	var arr [4]byte
	require.NoError(t, Decode(encoded, &arr))
	assert.Equal(t, [4]byte{1, 2, 3, 4}, arr)
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	encoded, err := Encode(uint64(1))
	require.NoError(t, err)
	err = Decode(append(encoded, 0x00), new(uint64))
	assert.Error(t, err)
}

func TestDecodeRejectsNonCanonicalSingleByteAsShortString(t *testing.T) {
	// 0x81 0x00 encodes a single zero byte as a short string, which must be
	// rejected: zero itself should be the single byte 0x00.
	var out []byte
	err := Decode([]byte{0x81, 0x00}, &out)
	assert.Error(t, err)
}

func TestDecodeRejectsLeadingZeroInteger(t *testing.T) {
	var out uint64
	// 0x82 0x00 0x01: a two-byte string with a leading zero.
	err := Decode([]byte{0x82, 0x00, 0x01}, &out)
	assert.Error(t, err)
}

func TestDecodeRejectsNonCanonicalLongStringThatFitsInShortForm(t *testing.T) {
	// offsetLongString+1 (0xb8) with length byte 5 should have been encoded
	// as a short string (0x85).
	var out []byte
	err := Decode([]byte{0xb8, 0x05, 'h', 'e', 'l', 'l', 'o'}, &out)
	assert.Error(t, err)
}

func TestDecodeRejectsTruncatedInput(t *testing.T) {
	var out []byte
	err := Decode([]byte{0x83, 'a', 'b'}, &out) // claims 3 bytes, has 2
	assert.Error(t, err)
}

func TestDecodeUint256OverflowRejected(t *testing.T) {
	big33 := make([]byte, 33)
	for i := range big33 {
		big33[i] = 0xff
	}
	encoded, err := Encode(big33)
	require.NoError(t, err)

	var out *uint256.Int
	err = Decode(encoded, &out)
	assert.Error(t, err)
}

func TestDecodeEmptyInputErrors(t *testing.T) {
	var out []byte
	assert.Error(t, Decode(nil, &out))
}

func TestDecodeTargetMustBePointer(t *testing.T) {
	var out []byte
	assert.Error(t, Decode([]byte{0x80}, out))
}

func TestListElementsSplitsRawEncodings(t *testing.T) {
	encoded, err := Encode([]string{"cat", "dog"})
	require.NoError(t, err)

	elems, err := ListElements(encoded)
	require.NoError(t, err)
	require.Len(t, elems, 2)

	var a, b string
	require.NoError(t, Decode(elems[0], &a))
	require.NoError(t, Decode(elems[1], &b))
	assert.Equal(t, "cat", a)
	assert.Equal(t, "dog", b)
}

func TestListElementsRejectsNonList(t *testing.T) {
	_, err := ListElements([]byte{0x83, 'c', 'a', 't'})
	assert.Error(t, err)
}
