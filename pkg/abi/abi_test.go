package abi

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/alanyoungcy/ethcore/pkg/evmtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addrParam() Parameter       { return Parameter{Type: KindAddress} }
func uintParam(n int) Parameter  { return Parameter{Type: KindUint, BitSize: n} }
func intParam(n int) Parameter   { return Parameter{Type: KindInt, BitSize: n} }

func TestCanonicalSignatureAndSelectorKnownVector(t *testing.T) {
	params := []Parameter{addrParam(), uintParam(256)}
	sig := CanonicalSignature("transfer", params)
	assert.Equal(t, "transfer(address,uint256)", sig)

	sel := Selector("transfer", params)
	assert.Equal(t, [4]byte{0xa9, 0x05, 0x9c, 0xbb}, sel)
}

func TestTypeStringNestedArraysAndTuples(t *testing.T) {
	elem := uintParam(256)
	arr := Parameter{Type: KindDynamicArray, Elem: &elem}
	assert.Equal(t, "uint256[]", arr.TypeString())

	fixed := Parameter{Type: KindFixedArray, ArrayLen: 3, Elem: &elem}
	assert.Equal(t, "uint256[3]", fixed.TypeString())

	tuple := Parameter{Type: KindTuple, Components: []Parameter{addrParam(), arr}}
	assert.Equal(t, "(address,uint256[])", tuple.TypeString())
}

func TestIsDynamicAndStaticHeadSize(t *testing.T) {
	assert.False(t, addrParam().IsDynamic())
	assert.Equal(t, 32, addrParam().StaticHeadSize())

	str := Parameter{Type: KindString}
	assert.True(t, str.IsDynamic())
	assert.Equal(t, 32, str.StaticHeadSize())

	elem := uintParam(256)
	fixedStatic := Parameter{Type: KindFixedArray, ArrayLen: 4, Elem: &elem}
	assert.False(t, fixedStatic.IsDynamic())
	assert.Equal(t, 128, fixedStatic.StaticHeadSize())

	dynElem := Parameter{Type: KindString}
	fixedDynamic := Parameter{Type: KindFixedArray, ArrayLen: 2, Elem: &dynElem}
	assert.True(t, fixedDynamic.IsDynamic())
	assert.Equal(t, 32, fixedDynamic.StaticHeadSize())
}

func TestEncodeDecodeStaticParams(t *testing.T) {
	params := []Parameter{addrParam(), uintParam(256), {Type: KindBool}}
	var a evmtype.Address
	a[19] = 0x42
	values := []Value{
		{Address: a},
		{Int: big.NewInt(12345)},
		{Bool: true},
	}

	encoded, err := Encode(params, values)
	require.NoError(t, err)
	assert.Len(t, encoded, 96)

	decoded, err := Decode(params, encoded, DefaultDecodeOptions())
	require.NoError(t, err)
	require.Len(t, decoded, 3)
	assert.Equal(t, a, decoded[0].Address)
	assert.Equal(t, 0, big.NewInt(12345).Cmp(decoded[1].Int))
	assert.True(t, decoded[2].Bool)
}

func TestEncodeDecodeDynamicParams(t *testing.T) {
	params := []Parameter{{Type: KindString}, {Type: KindBytes}}
	values := []Value{
		{Str: "hello world, this exceeds one word"},
		{Bytes: []byte{1, 2, 3}},
	}

	encoded, err := Encode(params, values)
	require.NoError(t, err)

	decoded, err := Decode(params, encoded, DefaultDecodeOptions())
	require.NoError(t, err)
	assert.Equal(t, values[0].Str, decoded[0].Str)
	assert.Equal(t, values[1].Bytes, decoded[1].Bytes)
}

func TestEncodeDecodeDynamicArray(t *testing.T) {
	elem := uintParam(256)
	params := []Parameter{{Type: KindDynamicArray, Elem: &elem}}
	values := []Value{
		{Array: []Value{{Int: big.NewInt(1)}, {Int: big.NewInt(2)}, {Int: big.NewInt(3)}}},
	}

	encoded, err := Encode(params, values)
	require.NoError(t, err)

	decoded, err := Decode(params, encoded, DefaultDecodeOptions())
	require.NoError(t, err)
	require.Len(t, decoded[0].Array, 3)
	assert.Equal(t, int64(2), decoded[0].Array[1].Int.Int64())
}

func TestEncodeDecodeTuple(t *testing.T) {
	tupleParam := Parameter{Type: KindTuple, Components: []Parameter{addrParam(), {Type: KindString}}}
	params := []Parameter{tupleParam}
	var a evmtype.Address
	a[0] = 0xaa
	values := []Value{
		{Tuple: []Value{{Address: a}, {Str: "nested"}}},
	}

	encoded, err := Encode(params, values)
	require.NoError(t, err)

	decoded, err := Decode(params, encoded, DefaultDecodeOptions())
	require.NoError(t, err)
	assert.Equal(t, a, decoded[0].Tuple[0].Address)
	assert.Equal(t, "nested", decoded[0].Tuple[1].Str)
}

func TestEncodeFunctionCallAndDecodeFunctionCall(t *testing.T) {
	params := []Parameter{addrParam(), uintParam(256)}
	var a evmtype.Address
	a[19] = 0x01
	values := []Value{{Address: a}, {Int: big.NewInt(1000)}}

	data, err := EncodeFunctionCall("transfer", params, values)
	require.NoError(t, err)
	assert.Equal(t, byte(0xa9), data[0])

	decoded, err := DecodeFunctionCall("transfer", params, data, DefaultDecodeOptions())
	require.NoError(t, err)
	assert.Equal(t, int64(1000), decoded[1].Int.Int64())
}

func TestDecodeFunctionCallRejectsSelectorMismatch(t *testing.T) {
	params := []Parameter{uintParam(256)}
	data, err := EncodeFunctionCall("foo", params, []Value{{Int: big.NewInt(1)}})
	require.NoError(t, err)

	_, err = DecodeFunctionCall("bar", params, data, DefaultDecodeOptions())
	assert.Error(t, err)
}

func TestEncodeUintRejectsOutOfRange(t *testing.T) {
	_, err := Encode([]Parameter{uintParam(8)}, []Value{{Int: big.NewInt(256)}})
	assert.Error(t, err)

	_, err = Encode([]Parameter{uintParam(8)}, []Value{{Int: big.NewInt(-1)}})
	assert.Error(t, err)
}

func TestEncodeIntSignedRoundTrip(t *testing.T) {
	params := []Parameter{intParam(256)}
	values := []Value{{Int: big.NewInt(-42)}}

	encoded, err := Encode(params, values)
	require.NoError(t, err)

	decoded, err := Decode(params, encoded, DefaultDecodeOptions())
	require.NoError(t, err)
	assert.Equal(t, int64(-42), decoded[0].Int.Int64())
}

func TestEncodeIntRejectsOutOfRange(t *testing.T) {
	bound := new(big.Int).Lsh(big.NewInt(1), 7) // 2^7, out of range for int8 [-128,127]
	_, err := Encode([]Parameter{intParam(8)}, []Value{{Int: bound}})
	assert.Error(t, err)
}

func TestDecodeRejectsTrailingJunkByDefault(t *testing.T) {
	params := []Parameter{uintParam(256)}
	encoded, err := Encode(params, []Value{{Int: big.NewInt(1)}})
	require.NoError(t, err)

	_, err = Decode(params, append(encoded, 0x00), DefaultDecodeOptions())
	assert.Error(t, err)

	opts := DefaultDecodeOptions()
	opts.AllowJunkData = true
	_, err = Decode(params, append(encoded, 0x00), opts)
	assert.NoError(t, err)
}

func TestDecodeRejectsInputExceedingMaxBytes(t *testing.T) {
	opts := DefaultDecodeOptions()
	opts.MaxBytes = 4
	_, err := Decode([]Parameter{uintParam(256)}, make([]byte, 32), opts)
	assert.Error(t, err)
}

func TestEncodeStaticWordRejectsDynamicKind(t *testing.T) {
	_, err := EncodeStaticWord(Parameter{Type: KindString}, Value{Str: "x"})
	assert.Error(t, err)
}

func TestEncodeDecodeStaticWordRoundTrip(t *testing.T) {
	p := uintParam(256)
	word, err := EncodeStaticWord(p, Value{Int: big.NewInt(777)})
	require.NoError(t, err)
	require.Len(t, word, 32)

	v, err := DecodeStaticWord(p, word)
	require.NoError(t, err)
	assert.Equal(t, int64(777), v.Int.Int64())
}

func TestEventTopic0KnownVector(t *testing.T) {
	// Transfer(address,address,uint256) is the canonical ERC-20 event.
	params := []Parameter{addrParam(), addrParam(), uintParam(256)}
	topic := EventTopic0("Transfer", params)
	assert.Equal(t, "ddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef", topic.Hex())
}

func TestEncodeStringKnownVector(t *testing.T) {
	encoded, err := Encode([]Parameter{{Type: KindString}}, []Value{{Str: "Hello World"}})
	require.NoError(t, err)

	want, err := hex.DecodeString(
		"0000000000000000000000000000000000000000000000000000000000000020" +
			"000000000000000000000000000000000000000000000000000000000000000b" +
			"48656c6c6f20576f726c64000000000000000000000000000000000000000000",
	)
	require.NoError(t, err)
	assert.Equal(t, want, encoded)
}
