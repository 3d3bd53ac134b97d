package rlp

import (
	"io"
	"math/big"
	"reflect"

	"github.com/holiman/uint256"
)

var (
	bigIntType  = reflect.TypeOf((*big.Int)(nil))
	uint256Type = reflect.TypeOf((*uint256.Int)(nil))
)

// encodeValue dispatches on val's dynamic type, mirroring the value-rule
// table in spec §4.1: booleans, optionals, enums, tuples/structs, pointers
// and byte arrays/slices each have a fixed RLP shape.
func encodeValue(w io.Writer, val any) error {
	if val == nil {
		return writeString(w, nil)
	}
	if enc, ok := val.(Encoder); ok {
		return enc.EncodeRLP(w)
	}

	rv := reflect.ValueOf(val)
	return encodeReflect(w, rv)
}

func encodeReflect(w io.Writer, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return writeString(w, nil)
		}
		if rv.Type() == bigIntType {
			return encodeBigInt(w, rv.Interface().(*big.Int))
		}
		if rv.Type() == uint256Type {
			return encodeUint256(w, rv.Interface().(*uint256.Int))
		}
		return encodeReflect(w, rv.Elem())

	case reflect.Bool:
		if rv.Bool() {
			return writeString(w, []byte{0x01})
		}
		return writeString(w, nil)

	case reflect.String:
		return writeString(w, []byte(rv.String()))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return writeString(w, minimalBigEndian(rv.Uint()))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		if n < 0 {
			return errf("rlp: encode", "negative integers are not RLP-encodable: %d", n)
		}
		return writeString(w, minimalBigEndian(uint64(n)))

	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return writeString(w, rv.Bytes())
		}
		return encodeList(w, rv)

	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return writeString(w, b)
		}
		return encodeList(w, rv)

	case reflect.Struct:
		return encodeStruct(w, rv)

	case reflect.Interface:
		if rv.IsNil() {
			return writeString(w, nil)
		}
		return encodeReflect(w, rv.Elem())

	default:
		return errf("rlp: encode", "unsupported kind %s", rv.Kind())
	}
}

func encodeList(w io.Writer, rv reflect.Value) error {
	var buf sliceWriter
	for i := 0; i < rv.Len(); i++ {
		if err := encodeReflect(&buf, rv.Index(i)); err != nil {
			return err
		}
	}
	if err := writeHeader(w, true, len(buf)); err != nil {
		return err
	}
	_, err := w.Write(buf)
	return err
}

func encodeStruct(w io.Writer, rv reflect.Value) error {
	t := rv.Type()
	var buf sliceWriter
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" { // unexported
			continue
		}
		if tag := field.Tag.Get("rlp"); tag == "-" {
			continue
		}
		if err := encodeReflect(&buf, rv.Field(i)); err != nil {
			return err
		}
	}
	if err := writeHeader(w, true, len(buf)); err != nil {
		return err
	}
	_, err := w.Write(buf)
	return err
}

func encodeBigInt(w io.Writer, v *big.Int) error {
	if v == nil || v.Sign() == 0 {
		return writeString(w, nil)
	}
	if v.Sign() < 0 {
		return errf("rlp: encode", "negative big.Int is not RLP-encodable")
	}
	return writeString(w, v.Bytes())
}

func encodeUint256(w io.Writer, v *uint256.Int) error {
	if v == nil || v.IsZero() {
		return writeString(w, nil)
	}
	return writeString(w, v.Bytes())
}

func writeString(w io.Writer, b []byte) error {
	if len(b) == 1 && b[0] < 0x80 {
		_, err := w.Write(b)
		return err
	}
	if err := writeHeader(w, false, len(b)); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}
