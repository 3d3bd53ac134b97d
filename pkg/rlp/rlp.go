// Package rlp implements canonical Recursive Length Prefix encoding and
// decoding, Ethereum's structural byte format for the algebraic set
// { integer, byte-string, list }.
//
// Encoding always produces the shortest form; decoding rejects any input
// that is not already in that shortest form (non-canonical length tags,
// leading zero bytes in integers, long-form headers used where short form
// would fit) to resist RLP malleability.
package rlp

import (
	"fmt"
	"io"

	"github.com/alanyoungcy/ethcore/pkg/ecode"
)

const (
	offsetShortString = 0x80
	offsetLongString  = 0xb7
	offsetShortList   = 0xc0
	offsetLongList    = 0xf7
)

// Encoder lets a type control its own RLP representation, the streaming
// escape hatch for callers who don't want reflection-based field encoding.
type Encoder interface {
	EncodeRLP(w io.Writer) error
}

// Encode fully materializes val's canonical RLP encoding into an owned byte
// slice. It is a convenience wrapper around EncodeToWriter.
func Encode(val any) ([]byte, error) {
	var buf sliceWriter
	if err := EncodeToWriter(&buf, val); err != nil {
		return nil, err
	}
	return buf, nil
}

// EncodeToWriter streams val's canonical RLP encoding into w, so callers can
// target a pre-allocated buffer instead of materializing an intermediate
// byte slice.
func EncodeToWriter(w io.Writer, val any) error {
	return encodeValue(w, val)
}

// sliceWriter is an io.Writer backed by a growable []byte, used by Encode.
type sliceWriter []byte

func (s *sliceWriter) Write(p []byte) (int, error) {
	*s = append(*s, p...)
	return len(p), nil
}

// writeHeader writes the length-prefix tag for a byte-string or list payload
// of the given length, producing the shortest valid form.
func writeHeader(w io.Writer, isList bool, payloadLen int) error {
	baseOffset := byte(offsetShortString)
	longOffset := byte(offsetLongString)
	if isList {
		baseOffset = offsetShortList
		longOffset = offsetLongList
	}

	if payloadLen < 56 {
		_, err := w.Write([]byte{baseOffset + byte(payloadLen)})
		return err
	}

	lenBytes := minimalBigEndian(uint64(payloadLen))
	if len(lenBytes) > 8 {
		return ecode.New(ecode.Protocol, "rlp: writeHeader", "length too large")
	}
	header := append([]byte{longOffset + byte(len(lenBytes))}, lenBytes...)
	_, err := w.Write(header)
	return err
}

// minimalBigEndian returns the big-endian encoding of v with no leading zero
// bytes; zero itself encodes as the empty slice.
func minimalBigEndian(v uint64) []byte {
	if v == 0 {
		return nil
	}
	var tmp [8]byte
	for i := 7; i >= 0; i-- {
		tmp[i] = byte(v)
		v >>= 8
	}
	i := 0
	for i < 8 && tmp[i] == 0 {
		i++
	}
	out := make([]byte, 8-i)
	copy(out, tmp[i:])
	return out
}

func errf(op, format string, args ...any) error {
	return ecode.Wrap(ecode.Protocol, op, fmt.Errorf(format, args...))
}
