package abi

import (
	"math/big"

	"github.com/alanyoungcy/ethcore/pkg/ecode"
	"github.com/alanyoungcy/ethcore/pkg/evmtype"
)

var twoPow256 = new(big.Int).Lsh(big.NewInt(1), 256)

const wordSize = 32

// Encode produces the head/tail encoding of values against params, with no
// selector prefix (used for constructors and bare parameter lists).
func Encode(params []Parameter, values []Value) ([]byte, error) {
	if len(params) != len(values) {
		return nil, ecode.New(ecode.Schema, "abi: Encode", "value/parameter arity mismatch")
	}
	return encodeTuple(params, values)
}

// EncodeFunctionCall prepends the 4-byte function selector to the head/tail
// encoding of values.
func EncodeFunctionCall(name string, params []Parameter, values []Value) ([]byte, error) {
	body, err := Encode(params, values)
	if err != nil {
		return nil, err
	}
	sel := Selector(name, params)
	return append(sel[:], body...), nil
}

// EncodeError prepends the 4-byte error selector, identical in shape to a
// function call encoding.
func EncodeError(name string, params []Parameter, values []Value) ([]byte, error) {
	return EncodeFunctionCall(name, params, values)
}

func encodeTuple(params []Parameter, values []Value) ([]byte, error) {
	headSize := 0
	for _, p := range params {
		headSize += p.StaticHeadSize()
	}
	var head, tail []byte
	for i, p := range params {
		v := values[i]
		if p.IsDynamic() {
			offset := headSize + len(tail)
			head = append(head, encodeUint256(big.NewInt(int64(offset)))...)
			body, err := encodeDynamicBody(p, v)
			if err != nil {
				return nil, err
			}
			tail = append(tail, body...)
		} else {
			b, err := encodeStatic(p, v)
			if err != nil {
				return nil, err
			}
			head = append(head, b...)
		}
	}
	return append(head, tail...), nil
}

func encodeStatic(p Parameter, v Value) ([]byte, error) {
	switch p.Type {
	case KindAddress:
		return encodeAddress(v.Address), nil
	case KindBool:
		return encodeBool(v.Bool), nil
	case KindUint:
		return encodeUintWord(v.Int, p.BitSize)
	case KindInt:
		return encodeIntWord(v.Int, p.BitSize)
	case KindBytesN:
		if len(v.Bytes) > p.ByteSize {
			return nil, ecode.New(ecode.Schema, "abi: encode bytesN", "value longer than declared width")
		}
		return padRight(v.Bytes, wordSize), nil
	case KindEnum:
		return encodeUintWord(v.Int, 8)
	case KindFixedArray:
		if len(v.Array) != p.ArrayLen {
			return nil, ecode.New(ecode.Schema, "abi: encode fixedArray", "array length mismatch")
		}
		var out []byte
		for _, elem := range v.Array {
			b, err := encodeStatic(*p.Elem, elem)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
		return out, nil
	case KindTuple:
		if len(v.Tuple) != len(p.Components) {
			return nil, ecode.New(ecode.Schema, "abi: encode tuple", "component arity mismatch")
		}
		var out []byte
		for i, c := range p.Components {
			b, err := encodeStatic(c, v.Tuple[i])
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
		return out, nil
	default:
		return nil, ecode.New(ecode.Schema, "abi: encodeStatic", "unsupported static parameter kind")
	}
}

func encodeDynamicBody(p Parameter, v Value) ([]byte, error) {
	switch p.Type {
	case KindString:
		return encodeBytesTail([]byte(v.Str)), nil
	case KindBytes:
		return encodeBytesTail(v.Bytes), nil
	case KindDynamicArray:
		n := len(v.Array)
		inner, err := encodeTuple(repeatParam(p.Elem, n), v.Array)
		if err != nil {
			return nil, err
		}
		return append(encodeUint256(big.NewInt(int64(n))), inner...), nil
	case KindFixedArray:
		if len(v.Array) != p.ArrayLen {
			return nil, ecode.New(ecode.Schema, "abi: encode fixedArray", "array length mismatch")
		}
		return encodeTuple(repeatParam(p.Elem, p.ArrayLen), v.Array)
	case KindTuple:
		if len(v.Tuple) != len(p.Components) {
			return nil, ecode.New(ecode.Schema, "abi: encode tuple", "component arity mismatch")
		}
		return encodeTuple(p.Components, v.Tuple)
	default:
		return nil, ecode.New(ecode.Schema, "abi: encodeDynamicBody", "unsupported dynamic parameter kind")
	}
}

func repeatParam(p *Parameter, n int) []Parameter {
	out := make([]Parameter, n)
	for i := range out {
		out[i] = *p
	}
	return out
}

func encodeBytesTail(data []byte) []byte {
	lenWord := encodeUint256(big.NewInt(int64(len(data))))
	return append(lenWord, padRight(data, ceil32(len(data)))...)
}

func encodeAddress(a evmtype.Address) []byte {
	out := make([]byte, wordSize)
	copy(out[12:], a[:])
	return out
}

func encodeBool(b bool) []byte {
	out := make([]byte, wordSize)
	if b {
		out[wordSize-1] = 1
	}
	return out
}

func encodeUint256(v *big.Int) []byte {
	b := v.Bytes()
	return padLeft(b, wordSize)
}

func encodeUintWord(v *big.Int, bits int) ([]byte, error) {
	if v == nil || v.Sign() < 0 {
		return nil, ecode.New(ecode.Validation, "abi: encodeUintWord", "uint value must be non-negative")
	}
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits)), big.NewInt(1))
	if v.Cmp(max) > 0 {
		return nil, ecode.New(ecode.Validation, "abi: encodeUintWord", "value exceeds uint width")
	}
	return encodeUint256(v), nil
}

func encodeIntWord(v *big.Int, bits int) ([]byte, error) {
	if v == nil {
		return nil, ecode.New(ecode.Validation, "abi: encodeIntWord", "int value must not be nil")
	}
	bound := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	min := new(big.Int).Neg(bound)
	max := new(big.Int).Sub(bound, big.NewInt(1))
	if v.Cmp(min) < 0 || v.Cmp(max) > 0 {
		return nil, ecode.New(ecode.Validation, "abi: encodeIntWord", "value out of range for int width")
	}
	wrapped := v
	if v.Sign() < 0 {
		wrapped = new(big.Int).Add(v, twoPow256)
	}
	return encodeUint256(wrapped), nil
}

func padLeft(b []byte, size int) []byte {
	if len(b) >= size {
		return b[len(b)-size:]
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out
}

func padRight(b []byte, size int) []byte {
	if len(b) >= size {
		return b
	}
	out := make([]byte, size)
	copy(out, b)
	return out
}

func ceil32(n int) int {
	return ((n + 31) / 32) * 32
}
