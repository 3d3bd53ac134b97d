package abi

import (
	"math/big"

	"github.com/alanyoungcy/ethcore/pkg/ecode"
	"github.com/alanyoungcy/ethcore/pkg/evmtype"
)

// Decode parses data against params, returning the decoded values. data
// must not include a selector prefix; use DecodeFunctionCall for that.
func Decode(params []Parameter, data []byte, opts DecodeOptions) ([]Value, error) {
	if len(data) > opts.MaxBytes {
		return nil, ecode.New(ecode.Resource, "abi: Decode", "input exceeds max_bytes")
	}
	values, maxEnd, err := decodeTuple(params, data, 0, opts)
	if err != nil {
		return nil, err
	}
	if !opts.AllowJunkData && maxEnd != len(data) {
		return nil, ecode.New(ecode.Protocol, "abi: Decode", "trailing junk data after decoded value")
	}
	return values, nil
}

// DecodeFunctionCall strips and validates the 4-byte selector before
// decoding the parameter block.
func DecodeFunctionCall(name string, params []Parameter, data []byte, opts DecodeOptions) ([]Value, error) {
	if len(data) < 4 {
		return nil, ecode.New(ecode.Protocol, "abi: DecodeFunctionCall", "input shorter than selector")
	}
	want := Selector(name, params)
	if [4]byte(data[:4]) != want {
		return nil, ecode.New(ecode.Validation, "abi: DecodeFunctionCall", "selector mismatch")
	}
	return Decode(params, data[4:], opts)
}

func decodeTuple(params []Parameter, data []byte, base int, opts DecodeOptions) ([]Value, int, error) {
	headSize := 0
	for _, p := range params {
		headSize += p.StaticHeadSize()
	}
	if base+headSize > len(data) {
		return nil, 0, ecode.New(ecode.Protocol, "abi: decode", "head region exceeds input length")
	}
	values := make([]Value, len(params))
	maxEnd := base + headSize
	cursor := base
	for i, p := range params {
		if p.IsDynamic() {
			offset, err := readOffsetWord(data[cursor:cursor+wordSize], opts.MaxBytes)
			if err != nil {
				return nil, 0, err
			}
			abs := base + offset
			if abs < base || abs > len(data) {
				return nil, 0, ecode.New(ecode.Protocol, "abi: decode", "dynamic offset out of bounds")
			}
			v, end, err := decodeDynamicBody(p, data, abs, opts)
			if err != nil {
				return nil, 0, err
			}
			values[i] = v
			if end > maxEnd {
				maxEnd = end
			}
			cursor += wordSize
		} else {
			v, err := decodeStatic(p, data, cursor)
			if err != nil {
				return nil, 0, err
			}
			values[i] = v
			cursor += p.StaticHeadSize()
		}
	}
	return values, maxEnd, nil
}

func decodeStatic(p Parameter, data []byte, pos int) (Value, error) {
	switch p.Type {
	case KindAddress:
		var a evmtype.Address
		copy(a[:], data[pos+12:pos+wordSize])
		return Value{Address: a}, nil
	case KindBool:
		word := data[pos : pos+wordSize]
		switch word[wordSize-1] {
		case 0:
			return Value{Bool: false}, nil
		case 1:
			return Value{Bool: true}, nil
		default:
			return Value{}, ecode.New(ecode.Protocol, "abi: decode bool", "invalid boolean word")
		}
	case KindUint:
		return Value{Int: new(big.Int).SetBytes(data[pos : pos+wordSize])}, nil
	case KindInt:
		return Value{Int: decodeSignedWord(data[pos : pos+wordSize])}, nil
	case KindEnum:
		return Value{Int: new(big.Int).SetBytes(data[pos : pos+wordSize])}, nil
	case KindBytesN:
		b := make([]byte, p.ByteSize)
		copy(b, data[pos:pos+p.ByteSize])
		return Value{Bytes: b}, nil
	case KindFixedArray:
		elems := make([]Value, p.ArrayLen)
		cursor := pos
		for i := 0; i < p.ArrayLen; i++ {
			v, err := decodeStatic(*p.Elem, data, cursor)
			if err != nil {
				return Value{}, err
			}
			elems[i] = v
			cursor += p.Elem.StaticHeadSize()
		}
		return Value{Array: elems}, nil
	case KindTuple:
		comps := make([]Value, len(p.Components))
		cursor := pos
		for i, c := range p.Components {
			v, err := decodeStatic(c, data, cursor)
			if err != nil {
				return Value{}, err
			}
			comps[i] = v
			cursor += c.StaticHeadSize()
		}
		return Value{Tuple: comps}, nil
	default:
		return Value{}, ecode.New(ecode.Schema, "abi: decodeStatic", "unsupported static parameter kind")
	}
}

func decodeDynamicBody(p Parameter, data []byte, pos int, opts DecodeOptions) (Value, int, error) {
	switch p.Type {
	case KindString:
		b, end, err := decodeBytesTail(data, pos, opts.MaxBytes)
		if err != nil {
			return Value{}, 0, err
		}
		return Value{Str: string(b)}, end, nil
	case KindBytes:
		b, end, err := decodeBytesTail(data, pos, opts.MaxBytes)
		if err != nil {
			return Value{}, 0, err
		}
		return Value{Bytes: b}, end, nil
	case KindDynamicArray:
		if pos+wordSize > len(data) {
			return Value{}, 0, ecode.New(ecode.Protocol, "abi: decode array", "length word out of bounds")
		}
		count, err := readOffsetWord(data[pos:pos+wordSize], opts.MaxBytes)
		if err != nil {
			return Value{}, 0, err
		}
		elems, end, err := decodeTuple(repeatParam(p.Elem, count), data, pos+wordSize, opts)
		if err != nil {
			return Value{}, 0, err
		}
		return Value{Array: elems}, end, nil
	case KindFixedArray:
		elems, end, err := decodeTuple(repeatParam(p.Elem, p.ArrayLen), data, pos, opts)
		if err != nil {
			return Value{}, 0, err
		}
		return Value{Array: elems}, end, nil
	case KindTuple:
		comps, end, err := decodeTuple(p.Components, data, pos, opts)
		if err != nil {
			return Value{}, 0, err
		}
		return Value{Tuple: comps}, end, nil
	default:
		return Value{}, 0, ecode.New(ecode.Schema, "abi: decodeDynamicBody", "unsupported dynamic parameter kind")
	}
}

func decodeBytesTail(data []byte, pos int, maxBytes int) ([]byte, int, error) {
	if pos+wordSize > len(data) {
		return nil, 0, ecode.New(ecode.Protocol, "abi: decode bytes", "length word out of bounds")
	}
	length, err := readOffsetWord(data[pos:pos+wordSize], maxBytes)
	if err != nil {
		return nil, 0, err
	}
	start := pos + wordSize
	end := start + length
	if end > len(data) {
		return nil, 0, ecode.New(ecode.Protocol, "abi: decode bytes", "content exceeds input length")
	}
	out := make([]byte, length)
	copy(out, data[start:end])
	paddedEnd := start + ceil32(length)
	return out, paddedEnd, nil
}

func decodeSignedWord(word []byte) *big.Int {
	v := new(big.Int).SetBytes(word)
	if word[0]&0x80 != 0 {
		v.Sub(v, twoPow256)
	}
	return v
}

// readOffsetWord decodes a 32-byte big-endian word as a small non-negative
// int, rejecting values that would overflow int or exceed maxBytes (an
// unreasonable offset/length always indicates malformed input).
func readOffsetWord(word []byte, maxBytes int) (int, error) {
	v := new(big.Int).SetBytes(word)
	if !v.IsUint64() || v.Uint64() > uint64(maxBytes) {
		return 0, ecode.New(ecode.Protocol, "abi: decode", "offset or length exceeds max_bytes")
	}
	return int(v.Uint64()), nil
}
