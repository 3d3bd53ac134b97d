// Package abi implements the Solidity contract ABI: parameter type
// classification, head/tail value encoding and decoding, and function/event/
// error selector computation.
package abi

import (
	"math/big"

	"github.com/alanyoungcy/ethcore/pkg/evmtype"
)

// Kind enumerates the Solidity parameter type constructors this codec
// supports.
type Kind int

const (
	KindAddress Kind = iota
	KindBool
	KindString
	KindBytes        // dynamic "bytes"
	KindBytesN       // fixed "bytesN", 1 <= N <= 32
	KindUint         // "uintN", N multiple of 8 in [8,256]
	KindInt          // "intN", N multiple of 8 in [8,256]
	KindFixedArray   // "T[n]"
	KindDynamicArray // "T[]"
	KindTuple        // "(T1,T2,...)"
	KindEnum         // encoded as uint8
)

// Parameter describes one ABI parameter: its Solidity type plus, for
// compound types, its element or component schema.
type Parameter struct {
	Name       string
	Type       Kind
	BitSize    int // uintN/intN: N
	ByteSize   int // bytesN: N
	ArrayLen   int // fixedArray: n
	Elem       *Parameter
	Components []Parameter // tuple
	Indexed    bool        // event inputs only
}

// Value is the algebraic value counterpart to Parameter: exactly one field
// is meaningful per Kind, selected by the encoding/decoding Parameter.
type Value struct {
	Address evmtype.Address
	Bool    bool
	Str     string
	Bytes   []byte
	Int     *big.Int
	Array   []Value
	Tuple   []Value
}

// IsDynamic reports whether p's encoding requires a tail slot: string,
// bytes, dynamic arrays, fixed arrays of dynamic element, and tuples with
// any dynamic component.
func (p Parameter) IsDynamic() bool {
	switch p.Type {
	case KindString, KindBytes, KindDynamicArray:
		return true
	case KindFixedArray:
		return p.Elem != nil && p.Elem.IsDynamic()
	case KindTuple:
		for _, c := range p.Components {
			if c.IsDynamic() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// StaticHeadSize returns the number of bytes p occupies in the head region:
// 32 for all scalar types and dynamic-type offset slots, 32*n for a fixed
// array of static element, and the sum of component head sizes for a
// static tuple.
func (p Parameter) StaticHeadSize() int {
	if p.IsDynamic() {
		return 32
	}
	switch p.Type {
	case KindFixedArray:
		return p.ArrayLen * p.Elem.StaticHeadSize()
	case KindTuple:
		sum := 0
		for _, c := range p.Components {
			sum += c.StaticHeadSize()
		}
		return sum
	default:
		return 32
	}
}
