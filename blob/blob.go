// Package blob implements Avro bytes and strings: a long length followed by
// that many raw bytes.
package blob

import (
	"github.com/zeebo/errs"

	"github.com/calebcase/ocf/integer"
)

// Error is the class of errors returned by this package.
var Error = errs.Class("blob")

// Decode reads one length prefixed byte string from the front of b. The
// returned payload aliases b.
//
// If b does not yet hold the full length and payload n is 0 and err is nil.
func Decode(b []byte) (p []byte, n int, err error) {
	size, used := integer.Decode(b)
	switch {
	case used == 0:
		return nil, 0, nil
	case used < 0:
		return nil, 0, Error.New("length overflow")
	case size < 0:
		return nil, 0, Error.New("negative length: %d", size)
	}

	if uint64(len(b)-used) < uint64(size) {
		return nil, 0, nil
	}

	end := used + int(size)

	return b[used:end], end, nil
}

// Append appends the length prefixed encoding of p to dst.
func Append(dst, p []byte) []byte {
	dst = integer.Append(dst, int64(len(p)))

	return append(dst, p...)
}

// Size returns the encoded length of p.
func Size(p []byte) int {
	return integer.Size(int64(len(p))) + len(p)
}
