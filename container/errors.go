package container

import (
	"github.com/zeebo/errs"

	"github.com/calebcase/ocf/blob"
	"github.com/calebcase/ocf/integer"
	"github.com/calebcase/ocf/schema"
)

// Error is the class of malformed container errors.
var Error = errs.Class("ocf")

// Fatal error classes for specific failures.
var (
	MagicError     = errs.Class("ocf magic")
	SyncError      = errs.Class("ocf sync")
	CodecError     = errs.Class("ocf codec")
	TruncatedError = errs.Class("ocf truncated")
	ChecksumError  = errs.Class("ocf checksum")
)

var parsingFailures = []*errs.Class{
	&Error,
	&MagicError,
	&SyncError,
	&CodecError,
	&TruncatedError,
	&ChecksumError,
	&schema.Error,
	&schema.UnsupportedTypeError,
	&blob.Error,
	&integer.Error,
}

// IsParsingFailure returns true if err was caused by invalid or unsupported
// input, as opposed to a failing source or transform.
func IsParsingFailure(err error) bool {
	for _, c := range parsingFailures {
		if c.Has(err) {
			return true
		}
	}

	return false
}
