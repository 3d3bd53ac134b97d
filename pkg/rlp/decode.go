package rlp

import (
	"math/big"
	"reflect"

	"github.com/holiman/uint256"

	"github.com/alanyoungcy/ethcore/pkg/ecode"
)

// Decoder lets a type control its own decoding from a pre-split item via a
// Stream, the counterpart to Encoder.
type Decoder interface {
	DecodeRLP(s *Stream) error
}

// Stream exposes the single item being decoded to a custom Decoder.
type Stream struct {
	it item
}

// Kind reports whether the current item is a string or a list.
func (s *Stream) Kind() Kind { return s.it.Kind }

// Bytes returns the raw content bytes of a string item.
func (s *Stream) Bytes() ([]byte, error) {
	if s.it.Kind != KindString {
		return nil, ecode.New(ecode.Protocol, "rlp: Stream.Bytes", "item is a list, not a string")
	}
	return s.it.Content, nil
}

// List returns the decoded sub-items of a list item.
func (s *Stream) List() ([]item, error) {
	if s.it.Kind != KindList {
		return nil, ecode.New(ecode.Protocol, "rlp: Stream.List", "item is a string, not a list")
	}
	return listItems(s.it.Content)
}

// Decode parses exactly one canonical RLP item from data into target, which
// must be a pointer. It rejects trailing bytes after the decoded item so
// callers get "junk data" errors rather than silently ignored tails.
func Decode(data []byte, target any) error {
	it, err := splitItem(data)
	if err != nil {
		return err
	}
	if len(it.Rest) != 0 {
		return ecode.New(ecode.Protocol, "rlp: Decode", "trailing bytes after top-level item")
	}
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ecode.New(ecode.Schema, "rlp: Decode", "target must be a non-nil pointer")
	}
	return decodeItem(it, rv.Elem(), 0)
}

func decodeItem(it item, rv reflect.Value, depth int) error {
	if depth > maxDepth {
		return ecode.New(ecode.Protocol, "rlp: decode", "maximum recursion depth exceeded")
	}

	if rv.Kind() == reflect.Ptr {
		if rv.Type() == bigIntType {
			return decodeBigInt(it, rv)
		}
		if rv.Type() == uint256Type {
			return decodeUint256(it, rv)
		}
		if it.Kind == KindString && len(it.Content) == 0 {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return decodeItem(it, rv.Elem(), depth+1)
	}

	switch rv.Kind() {
	case reflect.Bool:
		if it.Kind != KindString {
			return ecode.New(ecode.Schema, "rlp: decode bool", "expected string item")
		}
		switch {
		case len(it.Content) == 0:
			rv.SetBool(false)
		case len(it.Content) == 1 && it.Content[0] == 0x01:
			rv.SetBool(true)
		default:
			return ecode.New(ecode.Protocol, "rlp: decode bool", "invalid boolean encoding")
		}
		return nil

	case reflect.String:
		if it.Kind != KindString {
			return ecode.New(ecode.Schema, "rlp: decode string", "expected string item")
		}
		rv.SetString(string(it.Content))
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if it.Kind != KindString {
			return ecode.New(ecode.Schema, "rlp: decode uint", "expected string item")
		}
		if len(it.Content) > 0 && it.Content[0] == 0 {
			return ecode.New(ecode.Protocol, "rlp: decode uint", "non-canonical integer: leading zero byte")
		}
		if len(it.Content) > 8 {
			return ecode.New(ecode.Protocol, "rlp: decode uint", "value overflows 64 bits")
		}
		var n uint64
		for _, b := range it.Content {
			n = n<<8 | uint64(b)
		}
		if rv.OverflowUint(n) {
			return ecode.New(ecode.Protocol, "rlp: decode uint", "value overflows target width")
		}
		rv.SetUint(n)
		return nil

	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			if it.Kind != KindString {
				return ecode.New(ecode.Schema, "rlp: decode bytes", "expected string item")
			}
			b := make([]byte, len(it.Content))
			copy(b, it.Content)
			rv.SetBytes(b)
			return nil
		}
		return decodeSlice(it, rv, depth)

	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			if it.Kind != KindString {
				return ecode.New(ecode.Schema, "rlp: decode byte array", "expected string item")
			}
			if len(it.Content) != rv.Len() {
				return ecode.New(ecode.Protocol, "rlp: decode byte array", "length mismatch for fixed array")
			}
			reflect.Copy(rv, reflect.ValueOf(it.Content))
			return nil
		}
		return decodeFixedArray(it, rv, depth)

	case reflect.Struct:
		return decodeStruct(it, rv, depth)

	default:
		return ecode.New(ecode.Schema, "rlp: decode", "unsupported target kind "+rv.Kind().String())
	}
}

func decodeSlice(it item, rv reflect.Value, depth int) error {
	if it.Kind != KindList {
		return ecode.New(ecode.Schema, "rlp: decode slice", "expected list item")
	}
	items, err := listItems(it.Content)
	if err != nil {
		return err
	}
	out := reflect.MakeSlice(rv.Type(), len(items), len(items))
	for i, sub := range items {
		if err := decodeItem(sub, out.Index(i), depth+1); err != nil {
			return err
		}
	}
	rv.Set(out)
	return nil
}

func decodeFixedArray(it item, rv reflect.Value, depth int) error {
	if it.Kind != KindList {
		return ecode.New(ecode.Schema, "rlp: decode array", "expected list item")
	}
	items, err := listItems(it.Content)
	if err != nil {
		return err
	}
	if len(items) != rv.Len() {
		return ecode.New(ecode.Protocol, "rlp: decode array", "length mismatch for fixed array")
	}
	for i, sub := range items {
		if err := decodeItem(sub, rv.Index(i), depth+1); err != nil {
			return err
		}
	}
	return nil
}

func decodeStruct(it item, rv reflect.Value, depth int) error {
	if it.Kind != KindList {
		return ecode.New(ecode.Schema, "rlp: decode struct", "expected list item")
	}
	items, err := listItems(it.Content)
	if err != nil {
		return err
	}
	t := rv.Type()
	idx := 0
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		if tag := field.Tag.Get("rlp"); tag == "-" {
			continue
		}
		if idx >= len(items) {
			return ecode.New(ecode.Protocol, "rlp: decode struct", "missing required field "+field.Name)
		}
		if err := decodeItem(items[idx], rv.Field(i), depth+1); err != nil {
			return err
		}
		idx++
	}
	if idx != len(items) {
		return ecode.New(ecode.Protocol, "rlp: decode struct", "unexpected trailing list elements")
	}
	return nil
}

func decodeBigInt(it item, rv reflect.Value) error {
	if it.Kind != KindString {
		return ecode.New(ecode.Schema, "rlp: decode big.Int", "expected string item")
	}
	if len(it.Content) > 0 && it.Content[0] == 0 {
		return ecode.New(ecode.Protocol, "rlp: decode big.Int", "non-canonical integer: leading zero byte")
	}
	rv.Set(reflect.ValueOf(new(big.Int).SetBytes(it.Content)))
	return nil
}

func decodeUint256(it item, rv reflect.Value) error {
	if it.Kind != KindString {
		return ecode.New(ecode.Schema, "rlp: decode uint256", "expected string item")
	}
	if len(it.Content) > 0 && it.Content[0] == 0 {
		return ecode.New(ecode.Protocol, "rlp: decode uint256", "non-canonical integer: leading zero byte")
	}
	if len(it.Content) > 32 {
		return ecode.New(ecode.Protocol, "rlp: decode uint256", "value overflows 256 bits")
	}
	rv.Set(reflect.ValueOf(new(uint256.Int).SetBytes(it.Content)))
	return nil
}
