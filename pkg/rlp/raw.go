package rlp

import (
	"github.com/alanyoungcy/ethcore/pkg/ecode"
)

// Kind distinguishes the two RLP item shapes.
type Kind int

const (
	// KindString is a byte-string item (what RLP calls a "string").
	KindString Kind = iota
	// KindList is a list item.
	KindList
)

// item is one fully-delimited RLP value: its kind, its payload (the bytes
// inside the header, i.e. excluding the tag), and whatever bytes follow it
// in the buffer it was split from.
type item struct {
	Kind    Kind
	Content []byte
	Rest    []byte
}

// maxDepth bounds decode recursion; spec §4.1 requires the depth to be
// bounded by the target schema, but a hard ceiling also protects against
// adversarial deeply-nested inputs when the target is an interface/any.
const maxDepth = 64

// splitItem parses exactly one RLP item from the front of data, rejecting
// any non-canonical (non-shortest) encoding.
func splitItem(data []byte) (item, error) {
	if len(data) == 0 {
		return item{}, ecode.New(ecode.Protocol, "rlp: splitItem", "unexpected end of input")
	}
	b0 := data[0]

	switch {
	case b0 < offsetShortString: // single byte string, byte is its own encoding
		return item{Kind: KindString, Content: data[0:1], Rest: data[1:]}, nil

	case b0 < offsetShortString+56: // short string, 0-55 bytes
		length := int(b0 - offsetShortString)
		if length == 1 && len(data) > 1 && data[1] < offsetShortString {
			return item{}, ecode.New(ecode.Protocol, "rlp: splitItem", "non-canonical single byte encoded as short string")
		}
		return takeString(data[1:], length)

	case b0 < offsetShortList: // long string: b0-0xb7 bytes of big-endian length follow
		lenOfLen := int(b0 - offsetLongString)
		return takeLongString(data[1:], lenOfLen)

	case b0 < offsetShortList+56: // short list
		length := int(b0 - offsetShortList)
		return takeList(data[1:], length)

	default: // long list
		lenOfLen := int(b0 - offsetLongList)
		return takeLongList(data[1:], lenOfLen)
	}
}

func takeString(data []byte, length int) (item, error) {
	if len(data) < length {
		return item{}, ecode.New(ecode.Protocol, "rlp: splitItem", "short string: input too short")
	}
	return item{Kind: KindString, Content: data[:length], Rest: data[length:]}, nil
}

func takeList(data []byte, length int) (item, error) {
	if len(data) < length {
		return item{}, ecode.New(ecode.Protocol, "rlp: splitItem", "short list: input too short")
	}
	return item{Kind: KindList, Content: data[:length], Rest: data[length:]}, nil
}

func takeLongString(data []byte, lenOfLen int) (item, error) {
	length, rest, err := readLongLength(data, lenOfLen)
	if err != nil {
		return item{}, err
	}
	if length < 56 {
		return item{}, ecode.New(ecode.Protocol, "rlp: splitItem", "non-canonical long string: length fits in short form")
	}
	if len(rest) < length {
		return item{}, ecode.New(ecode.Protocol, "rlp: splitItem", "long string: input too short")
	}
	return item{Kind: KindString, Content: rest[:length], Rest: rest[length:]}, nil
}

func takeLongList(data []byte, lenOfLen int) (item, error) {
	length, rest, err := readLongLength(data, lenOfLen)
	if err != nil {
		return item{}, err
	}
	if length < 56 {
		return item{}, ecode.New(ecode.Protocol, "rlp: splitItem", "non-canonical long list: length fits in short form")
	}
	if len(rest) < length {
		return item{}, ecode.New(ecode.Protocol, "rlp: splitItem", "long list: input too short")
	}
	return item{Kind: KindList, Content: rest[:length], Rest: rest[length:]}, nil
}

// readLongLength reads the lenOfLen-byte big-endian length prefix, rejecting
// leading zero bytes (the non-canonical encoding the decoder must resist).
func readLongLength(data []byte, lenOfLen int) (length int, rest []byte, err error) {
	if lenOfLen == 0 || lenOfLen > 8 {
		return 0, nil, ecode.New(ecode.Protocol, "rlp: splitItem", "invalid length-of-length")
	}
	if len(data) < lenOfLen {
		return 0, nil, ecode.New(ecode.Protocol, "rlp: splitItem", "truncated length prefix")
	}
	if data[0] == 0 {
		return 0, nil, ecode.New(ecode.Protocol, "rlp: splitItem", "non-canonical length prefix: leading zero byte")
	}
	var n uint64
	for _, b := range data[:lenOfLen] {
		n = n<<8 | uint64(b)
	}
	return int(n), data[lenOfLen:], nil
}

// listItems splits a list item's payload into its constituent items.
func listItems(payload []byte) ([]item, error) {
	var out []item
	rest := payload
	for len(rest) > 0 {
		it, err := splitItem(rest)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
		rest = it.Rest
	}
	return out, nil
}
