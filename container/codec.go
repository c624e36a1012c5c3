package container

import (
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
)

// Codec names as they appear in the avro.codec metadata entry.
const (
	CodecNull      = "null"
	CodecDeflate   = "deflate"
	CodecSnappy    = "snappy"
	CodecZstandard = "zstandard"
)

// Codec compresses and decompresses block payloads.
type Codec interface {
	// Name is the avro.codec value for the codec.
	Name() string

	// Compress appends the compressed form of src to dst.
	Compress(dst, src []byte) []byte

	// Decompress returns the decompressed form of src. The result may
	// alias src.
	Decompress(src []byte) ([]byte, error)

	// Checksum is true if compressed payloads are followed by a big
	// endian CRC-32 of the uncompressed data.
	Checksum() bool
}

// LookupCodec returns the codec with the given name.
func LookupCodec(name string) (Codec, error) {
	switch name {
	case CodecNull:
		return nullCodec{}, nil
	case CodecSnappy:
		return snappyCodec{}, nil
	case CodecZstandard:
		return zstdCodec{}, nil
	case CodecDeflate:
		// TODO: support deflate with klauspost/compress/flate.
		return nil, CodecError.New("unsupported codec: %q", name)
	}

	return nil, CodecError.New("unknown codec: %q", name)
}

type nullCodec struct{}

func (nullCodec) Name() string { return CodecNull }

func (nullCodec) Compress(dst, src []byte) []byte { return append(dst, src...) }

func (nullCodec) Decompress(src []byte) ([]byte, error) { return src, nil }

func (nullCodec) Checksum() bool { return false }

// snappyCodec uses the raw snappy block format, which s2 reads and writes.
type snappyCodec struct{}

func (snappyCodec) Name() string { return CodecSnappy }

func (snappyCodec) Compress(dst, src []byte) []byte {
	return append(dst, s2.EncodeSnappy(nil, src)...)
}

func (snappyCodec) Decompress(src []byte) ([]byte, error) {
	data, err := s2.Decode(nil, src)
	if err != nil {
		return nil, CodecError.Wrap(err)
	}

	return data, nil
}

func (snappyCodec) Checksum() bool { return true }

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1), zstd.WithZeroFrames(true))
	if err != nil {
		panic(err)
	}
	zstdEncoder = enc

	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		panic(err)
	}
	zstdDecoder = dec
}

type zstdCodec struct{}

func (zstdCodec) Name() string { return CodecZstandard }

func (zstdCodec) Compress(dst, src []byte) []byte {
	return zstdEncoder.EncodeAll(src, dst)
}

func (zstdCodec) Decompress(src []byte) ([]byte, error) {
	data, err := zstdDecoder.DecodeAll(src, nil)
	if err != nil {
		return nil, CodecError.Wrap(err)
	}

	return data, nil
}

func (zstdCodec) Checksum() bool { return false }
