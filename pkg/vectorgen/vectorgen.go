// Package vectorgen draws deterministic pseudo-random test vectors over the
// evmtype and abi.Parameter domains. It exists so property tests across the
// module can draw repeatable cases from a single seed instead of reaching
// for testing/quick, which has no notion of these domain-specific shapes.
package vectorgen

import (
	"math/big"
	"math/rand"

	"github.com/alanyoungcy/ethcore/pkg/abi"
	"github.com/alanyoungcy/ethcore/pkg/evmtype"
)

// Gen is a seeded source of pseudo-random domain values. It is not safe for
// concurrent use; give each goroutine its own Gen.
type Gen struct {
	r *rand.Rand
}

// New builds a Gen from seed. The same seed always produces the same
// sequence of values.
func New(seed int64) *Gen {
	return &Gen{r: rand.New(rand.NewSource(seed))}
}

// Bytes returns n pseudo-random bytes.
func (g *Gen) Bytes(n int) []byte {
	b := make([]byte, n)
	g.r.Read(b)
	return b
}

// Bool returns a pseudo-random boolean.
func (g *Gen) Bool() bool {
	return g.r.Intn(2) == 1
}

// IntRange returns a pseudo-random int in [lo, hi].
func (g *Gen) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.r.Intn(hi-lo+1)
}

// Address returns a pseudo-random account address.
func (g *Gen) Address() evmtype.Address {
	var a evmtype.Address
	g.r.Read(a[:])
	return a
}

// Hash returns a pseudo-random 32-byte hash.
func (g *Gen) Hash() evmtype.Hash {
	var h evmtype.Hash
	g.r.Read(h[:])
	return h
}

// String returns a pseudo-random ASCII string of length in [0, maxLen].
func (g *Gen) String(maxLen int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 _-"
	n := g.IntRange(0, maxLen)
	out := make([]byte, n)
	for i := range out {
		out[i] = alphabet[g.r.Intn(len(alphabet))]
	}
	return string(out)
}

// Uint bit width supported by the ABI codec's uintN/intN kinds.
func randomBitWidth(g *Gen) int {
	return 8 * g.IntRange(1, 32)
}

// UintN returns a pseudo-random non-negative integer that fits in bits
// bits.
func (g *Gen) UintN(bits int) *big.Int {
	nbytes := (bits + 7) / 8
	b := g.Bytes(nbytes)
	if nbytes > 0 {
		excess := nbytes*8 - bits
		b[0] &= 0xff >> excess
	}
	return new(big.Int).SetBytes(b)
}

// IntN returns a pseudo-random signed integer that fits in bits bits
// (two's-complement range).
func (g *Gen) IntN(bits int) *big.Int {
	v := g.UintN(bits - 1)
	if g.Bool() {
		v.Neg(v)
	}
	return v
}

// maxVectorgenDepth bounds the recursion depth of Parameter/Value, the same
// way a fuzzer bounds structural recursion to guarantee termination.
const maxVectorgenDepth = 3

// Parameter returns a pseudo-random ABI parameter schema. depth bounds
// further nesting of arrays/tuples; callers should pass 0.
func (g *Gen) Parameter(depth int) abi.Parameter {
	choices := []abi.Kind{
		abi.KindAddress, abi.KindBool, abi.KindString, abi.KindBytes,
		abi.KindBytesN, abi.KindUint, abi.KindInt,
	}
	if depth < maxVectorgenDepth {
		choices = append(choices, abi.KindFixedArray, abi.KindDynamicArray, abi.KindTuple)
	}
	kind := choices[g.r.Intn(len(choices))]

	p := abi.Parameter{Name: g.String(8), Type: kind}
	switch kind {
	case abi.KindBytesN:
		p.ByteSize = g.IntRange(1, 32)
	case abi.KindUint, abi.KindInt:
		p.BitSize = randomBitWidth(g)
	case abi.KindFixedArray:
		elem := g.Parameter(depth + 1)
		p.Elem = &elem
		p.ArrayLen = g.IntRange(1, 4)
	case abi.KindDynamicArray:
		elem := g.Parameter(depth + 1)
		p.Elem = &elem
	case abi.KindTuple:
		n := g.IntRange(1, 4)
		p.Components = make([]abi.Parameter, n)
		for i := range p.Components {
			p.Components[i] = g.Parameter(depth + 1)
		}
	}
	return p
}

// Value returns a pseudo-random abi.Value conforming to p's shape.
func (g *Gen) Value(p abi.Parameter) abi.Value {
	switch p.Type {
	case abi.KindAddress:
		return abi.Value{Address: g.Address()}
	case abi.KindBool:
		return abi.Value{Bool: g.Bool()}
	case abi.KindString:
		return abi.Value{Str: g.String(64)}
	case abi.KindBytes:
		return abi.Value{Bytes: g.Bytes(g.IntRange(0, 64))}
	case abi.KindBytesN:
		return abi.Value{Bytes: g.Bytes(p.ByteSize)}
	case abi.KindUint, abi.KindEnum:
		bits := p.BitSize
		if bits == 0 {
			bits = 8
		}
		return abi.Value{Int: g.UintN(bits)}
	case abi.KindInt:
		return abi.Value{Int: g.IntN(p.BitSize)}
	case abi.KindFixedArray:
		out := make([]abi.Value, p.ArrayLen)
		for i := range out {
			out[i] = g.Value(*p.Elem)
		}
		return abi.Value{Array: out}
	case abi.KindDynamicArray:
		n := g.IntRange(0, 4)
		out := make([]abi.Value, n)
		for i := range out {
			out[i] = g.Value(*p.Elem)
		}
		return abi.Value{Array: out}
	case abi.KindTuple:
		out := make([]abi.Value, len(p.Components))
		for i, c := range p.Components {
			out[i] = g.Value(c)
		}
		return abi.Value{Tuple: out}
	default:
		return abi.Value{}
	}
}

// ParameterList returns n pseudo-random top-level parameters, each with
// depth 0.
func (g *Gen) ParameterList(n int) []abi.Parameter {
	out := make([]abi.Parameter, n)
	for i := range out {
		out[i] = g.Parameter(0)
	}
	return out
}

// ValueList returns one pseudo-random Value per entry in params.
func (g *Gen) ValueList(params []abi.Parameter) []abi.Value {
	out := make([]abi.Value, len(params))
	for i, p := range params {
		out[i] = g.Value(p)
	}
	return out
}
