package schema

import (
	"fmt"

	"github.com/calebcase/ocf/blob"
	"github.com/calebcase/ocf/integer"
)

// Value is one decoded field value. Long holds long and int values; Bytes
// holds string values.
type Value struct {
	Type  Type
	Long  int64
	Bytes []byte
}

// LongValue returns a long value.
func LongValue(v int64) Value {
	return Value{Type: Long, Long: v}
}

// StringValue returns a string value.
func StringValue(s string) Value {
	return Value{Type: String, Bytes: []byte(s)}
}

func (v Value) String() string {
	switch v.Type {
	case Long, Int:
		return fmt.Sprintf("%d", v.Long)
	case String:
		return fmt.Sprintf("%q", v.Bytes)
	}

	return fmt.Sprintf("<%s>", v.Type)
}

// Append appends the wire form of v to dst.
func (v Value) Append(dst []byte) []byte {
	switch v.Type {
	case Long, Int:
		return integer.Append(dst, v.Long)
	case String:
		return blob.Append(dst, v.Bytes)
	}

	return dst
}

// Decode reads one value of type t from the front of b. If b ends before the
// value does n is 0. The Bytes of a string value alias b.
func Decode(t Type, b []byte) (v Value, n int, err error) {
	v.Type = t

	switch t {
	case Long, Int:
		v.Long, n = integer.Decode(b)
		if n < 0 {
			return v, 0, Error.New("%s overflow", t)
		}
	case String:
		v.Bytes, n, err = blob.Decode(b)
		if err != nil {
			return v, 0, Error.Wrap(err)
		}
	default:
		return v, 0, UnsupportedTypeError.New("%q", t)
	}

	return v, n, nil
}

// DecodeRecord reads one record laid out by s from the front of b and
// returns its values and encoded length. It is an error for b to end before
// the record does.
func (s *Schema) DecodeRecord(b []byte) (values []Value, n int, err error) {
	values = make([]Value, 0, len(s.Fields))

	for _, f := range s.Fields {
		v, used, err := Decode(f.Type, b[n:])
		if err != nil {
			return nil, 0, err
		}
		if used == 0 {
			return nil, 0, Error.New("record truncated in field %q", f.Name)
		}

		values = append(values, v)
		n += used
	}

	return values, n, nil
}

// EncodeRecord appends one record laid out by s to dst.
func (s *Schema) EncodeRecord(dst []byte, values ...Value) ([]byte, error) {
	if len(values) != len(s.Fields) {
		return dst, Error.New("record has %d values for %d fields", len(values), len(s.Fields))
	}

	for i, f := range s.Fields {
		v := values[i]

		if !f.Type.Supported() {
			return dst, UnsupportedTypeError.New("field %q has type %q", f.Name, f.Type)
		}
		if wireType(v.Type) != wireType(f.Type) {
			return dst, Error.New("field %q: %s value for %s field", f.Name, v.Type, f.Type)
		}

		dst = v.Append(dst)
	}

	return dst, nil
}

func wireType(t Type) Type {
	if t == Int {
		return Long
	}

	return t
}
