package integer

import (
	"github.com/zeebo/errs"
)

// Error is the class of errors returned by this package.
var Error = errs.Class("integer")

// MaxLen is the longest encoding of a 64 bit value.
const MaxLen = 10

// Long is a signed 64 bit Avro long.
type Long int64

// MarshalBinary implements encoding.BinaryMarshaler.
func (l Long) MarshalBinary() (data []byte, err error) {
	return Append(nil, int64(l)), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The data must hold
// exactly one encoded value.
func (l *Long) UnmarshalBinary(data []byte) (err error) {
	v, n := Decode(data)
	switch {
	case n == 0:
		return Error.New("short input: %d bytes", len(data))
	case n < 0:
		return Error.New("overflow")
	case n != len(data):
		return Error.New("trailing data: %d bytes", len(data)-n)
	}

	*l = Long(v)

	return nil
}

// Append appends the encoding of v to dst.
func Append(dst []byte, v int64) []byte {
	u := uint64(v<<1) ^ uint64(v>>63)

	for u&^0x7f != 0 {
		dst = append(dst, byte(u&0x7f)|0x80)
		u >>= 7
	}

	return append(dst, byte(u))
}

// Encode returns the encoding of v.
func Encode(v int64) []byte {
	return Append(make([]byte, 0, Size(v)), v)
}

// Size returns the number of bytes needed to encode v.
func Size(v int64) (n int) {
	u := uint64(v<<1) ^ uint64(v>>63)

	n = 1
	for u >= 0x80 {
		u >>= 7
		n++
	}

	return n
}

// Decode reads one value from the front of b and returns it with the number
// of bytes consumed.
//
// If b ends before the final byte n is 0. If the value does not fit in 64
// bits n is negative.
func Decode(b []byte) (v int64, n int) {
	var u uint64
	var shift uint

	for i, c := range b {
		if i == MaxLen {
			return 0, -(i + 1)
		}

		u |= uint64(c&0x7f) << shift
		if c&0x80 == 0 {
			// The tenth byte may only contribute the top bit.
			if i == MaxLen-1 && c > 1 {
				return 0, -(i + 1)
			}

			return int64(u>>1) ^ -int64(u&1), i + 1
		}

		shift += 7
	}

	return 0, 0
}
