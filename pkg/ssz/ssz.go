// Package ssz implements a minimal SimpleSerialize (SSZ) codec for the
// fixed/variadic consensus-layer containers cmd/ethcorectl's attest
// subcommand builds: Uint64, Bytes32/Root, and structs mixing fixed-size
// fields with variable-size []byte fields in any position (Attestation's
// AggregationBits comes first).
//
// This is a reflection-based encoder in the style of encoding/json rather
// than a codegen tool: it covers uint64, byte arrays, and []byte/struct
// fields, which is everything the attestation-shaped containers in this
// module need.
package ssz

import (
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/alanyoungcy/ethcore/pkg/ecode"
)

// offsetSize is the width of an SSZ variable-size-field offset pointer.
const offsetSize = 4

// Root is a 32-byte SSZ fixed-size hash/commitment value.
type Root [32]byte

// Marshal encodes v, a pointer to a struct, using SSZ's fixed-part/
// variable-part layout: fixed-size fields serialize in place; each
// variable-size field instead emits a 4-byte little-endian offset in the
// fixed part, with its actual bytes appended after every fixed field, in
// field order.
func Marshal(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, ecode.New(ecode.Schema, "ssz: Marshal", "value must be a struct or pointer to struct")
	}
	return marshalStruct(rv)
}

// Unmarshal decodes data into v, a pointer to a struct previously encoded
// with Marshal.
func Unmarshal(data []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return ecode.New(ecode.Schema, "ssz: Unmarshal", "v must be a pointer to a struct")
	}
	return unmarshalStruct(data, rv.Elem())
}

func isFixedField(t reflect.Type) (bool, int, error) {
	switch t.Kind() {
	case reflect.Uint64:
		return true, 8, nil
	case reflect.Array:
		return true, t.Len() * fieldByteWidth(t.Elem()), nil
	case reflect.Slice:
		return false, 0, nil
	case reflect.Struct:
		size := 0
		for i := 0; i < t.NumField(); i++ {
			fixed, n, err := isFixedField(t.Field(i).Type)
			if err != nil {
				return false, 0, err
			}
			if !fixed {
				return false, 0, nil
			}
			size += n
		}
		return true, size, nil
	default:
		return false, 0, fmt.Errorf("ssz: unsupported field kind %s", t.Kind())
	}
}

func fieldByteWidth(elem reflect.Type) int {
	if elem.Kind() == reflect.Uint8 {
		return 1
	}
	return 0
}

func marshalStruct(rv reflect.Value) ([]byte, error) {
	t := rv.Type()
	n := t.NumField()

	fixedParts := make([][]byte, n)
	variableParts := make([][]byte, n)
	isVariable := make([]bool, n)

	for i := 0; i < n; i++ {
		fv := rv.Field(i)
		fixed, _, err := isFixedField(fv.Type())
		if err != nil {
			return nil, err
		}
		if fixed {
			b, err := marshalFixed(fv)
			if err != nil {
				return nil, err
			}
			fixedParts[i] = b
			continue
		}

		isVariable[i] = true
		b, err := marshalVariable(fv)
		if err != nil {
			return nil, err
		}
		variableParts[i] = b
		fixedParts[i] = make([]byte, offsetSize) // placeholder, patched below
	}

	fixedLen := 0
	for _, b := range fixedParts {
		fixedLen += len(b)
	}

	out := make([]byte, 0, fixedLen)
	offset := fixedLen
	for i := 0; i < n; i++ {
		if isVariable[i] {
			binary.LittleEndian.PutUint32(fixedParts[i], uint32(offset))
			offset += len(variableParts[i])
		}
		out = append(out, fixedParts[i]...)
	}
	for i := 0; i < n; i++ {
		if isVariable[i] {
			out = append(out, variableParts[i]...)
		}
	}
	return out, nil
}

func marshalFixed(fv reflect.Value) ([]byte, error) {
	switch fv.Kind() {
	case reflect.Uint64:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, fv.Uint())
		return b, nil
	case reflect.Array:
		b := make([]byte, fv.Len())
		reflect.Copy(reflect.ValueOf(b), fv)
		return b, nil
	case reflect.Struct:
		return marshalStruct(fv)
	default:
		return nil, fmt.Errorf("ssz: unsupported fixed field kind %s", fv.Kind())
	}
}

func marshalVariable(fv reflect.Value) ([]byte, error) {
	switch fv.Kind() {
	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.Uint8 {
			return nil, fmt.Errorf("ssz: unsupported slice element kind %s", fv.Type().Elem().Kind())
		}
		b := make([]byte, fv.Len())
		reflect.Copy(reflect.ValueOf(b), fv)
		return b, nil
	default:
		return nil, fmt.Errorf("ssz: unsupported variable field kind %s", fv.Kind())
	}
}

func unmarshalStruct(data []byte, rv reflect.Value) error {
	t := rv.Type()
	n := t.NumField()

	fixedSizes := make([]int, n)
	isVariable := make([]bool, n)
	pos := 0
	for i := 0; i < n; i++ {
		fixed, size, err := isFixedField(t.Field(i).Type)
		if err != nil {
			return err
		}
		if fixed {
			fixedSizes[i] = size
			pos += size
			continue
		}
		isVariable[i] = true
		fixedSizes[i] = offsetSize
		pos += offsetSize
	}
	if pos > len(data) {
		return ecode.New(ecode.Protocol, "ssz: Unmarshal", "data shorter than fixed part")
	}

	offsets := make([]int, n)
	cursor := 0
	for i := 0; i < n; i++ {
		chunk := data[cursor : cursor+fixedSizes[i]]
		if isVariable[i] {
			offsets[i] = int(binary.LittleEndian.Uint32(chunk))
		} else {
			if err := unmarshalFixed(chunk, rv.Field(i)); err != nil {
				return err
			}
		}
		cursor += fixedSizes[i]
	}

	for i := 0; i < n; i++ {
		if !isVariable[i] {
			continue
		}
		start := offsets[i]
		end := len(data)
		for j := i + 1; j < n; j++ {
			if isVariable[j] {
				end = offsets[j]
				break
			}
		}
		if start < 0 || end > len(data) || start > end {
			return ecode.New(ecode.Protocol, "ssz: Unmarshal", "invalid variable-field offset")
		}
		if err := unmarshalVariable(data[start:end], rv.Field(i)); err != nil {
			return err
		}
	}

	return nil
}

func unmarshalFixed(chunk []byte, fv reflect.Value) error {
	switch fv.Kind() {
	case reflect.Uint64:
		fv.SetUint(binary.LittleEndian.Uint64(chunk))
		return nil
	case reflect.Array:
		reflect.Copy(fv, reflect.ValueOf(chunk))
		return nil
	case reflect.Struct:
		return unmarshalStruct(chunk, fv)
	default:
		return fmt.Errorf("ssz: unsupported fixed field kind %s", fv.Kind())
	}
}

func unmarshalVariable(chunk []byte, fv reflect.Value) error {
	switch fv.Kind() {
	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.Uint8 {
			return fmt.Errorf("ssz: unsupported slice element kind %s", fv.Type().Elem().Kind())
		}
		out := make([]byte, len(chunk))
		copy(out, chunk)
		fv.Set(reflect.ValueOf(out))
		return nil
	default:
		return fmt.Errorf("ssz: unsupported variable field kind %s", fv.Kind())
	}
}
