package abi

import "github.com/alanyoungcy/ethcore/pkg/ecode"

// EncodeStaticWord encodes a single scalar (address, bool, uintN, intN,
// bytesN, enum) value as its bare 32-byte word, with no head/tail
// framing. Used by the event log codec, which pads indexed static
// parameters directly into a topic slot.
func EncodeStaticWord(p Parameter, v Value) ([]byte, error) {
	if p.Type == KindFixedArray || p.Type == KindTuple || p.IsDynamic() {
		return nil, ecode.New(ecode.Schema, "abi: EncodeStaticWord", "not a scalar parameter kind")
	}
	return encodeStatic(p, v)
}

// DecodeStaticWord decodes a bare 32-byte word produced by EncodeStaticWord.
func DecodeStaticWord(p Parameter, word []byte) (Value, error) {
	if len(word) != wordSize {
		return Value{}, ecode.New(ecode.Protocol, "abi: DecodeStaticWord", "word must be 32 bytes")
	}
	if p.Type == KindFixedArray || p.Type == KindTuple || p.IsDynamic() {
		return Value{}, ecode.New(ecode.Schema, "abi: DecodeStaticWord", "not a scalar parameter kind")
	}
	return decodeStatic(p, word, 0)
}
