package abi

import (
	"strconv"
	"strings"

	"github.com/alanyoungcy/ethcore/pkg/evmtype"
)

// TypeString renders p's canonical Solidity type string: tuples expand as
// "(c1,c2,...)", arrays suffix "[n]" or "[]", no whitespace anywhere.
func (p Parameter) TypeString() string {
	switch p.Type {
	case KindAddress:
		return "address"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindBytesN:
		return "bytes" + strconv.Itoa(p.ByteSize)
	case KindUint:
		return "uint" + strconv.Itoa(p.BitSize)
	case KindInt:
		return "int" + strconv.Itoa(p.BitSize)
	case KindEnum:
		return "uint8"
	case KindFixedArray:
		return p.Elem.TypeString() + "[" + strconv.Itoa(p.ArrayLen) + "]"
	case KindDynamicArray:
		return p.Elem.TypeString() + "[]"
	case KindTuple:
		parts := make([]string, len(p.Components))
		for i, c := range p.Components {
			parts[i] = c.TypeString()
		}
		return "(" + strings.Join(parts, ",") + ")"
	default:
		return ""
	}
}

// CanonicalSignature renders "name(type1,type2,...)" for the given
// parameter list, the form hashed to produce function selectors and event
// topic-0 values.
func CanonicalSignature(name string, params []Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.TypeString()
	}
	return name + "(" + strings.Join(parts, ",") + ")"
}

// Selector returns the 4-byte function/error selector: the first four
// bytes of keccak256(signature).
func Selector(name string, params []Parameter) [4]byte {
	sig := CanonicalSignature(name, params)
	h := evmtype.Keccak256([]byte(sig))
	var sel [4]byte
	copy(sel[:], h[:4])
	return sel
}

// EventTopic0 returns the topic-0 value for a non-anonymous event:
// keccak256 of its canonical signature.
func EventTopic0(name string, params []Parameter) evmtype.Hash {
	sig := CanonicalSignature(name, params)
	return evmtype.Keccak256([]byte(sig))
}
