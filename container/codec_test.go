package container_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calebcase/ocf/container"
	"github.com/calebcase/oops"
)

func TestLookupCodec(t *testing.T) {
	type TC struct {
		Name     string
		Checksum bool
		Err      bool
		Mark     error
	}

	tcs := []TC{
		{Name: container.CodecNull, Mark: oops.New("unexpected")},
		{Name: container.CodecSnappy, Checksum: true, Mark: oops.New("unexpected")},
		{Name: container.CodecZstandard, Mark: oops.New("unexpected")},
		{Name: container.CodecDeflate, Err: true, Mark: oops.New("unexpected")},
		{Name: "lz4", Err: true, Mark: oops.New("unexpected")},
		{Name: "", Err: true, Mark: oops.New("unexpected")},
	}

	for _, tc := range tcs {
		t.Run(tc.Name, func(t *testing.T) {
			codec, err := container.LookupCodec(tc.Name)
			if tc.Err {
				require.Error(t, err, tc.Mark)
				require.True(t, container.CodecError.Has(err), tc.Mark)
				require.True(t, container.IsParsingFailure(err), tc.Mark)

				return
			}
			require.NoError(t, err, tc.Mark)
			require.Equal(t, tc.Name, codec.Name(), tc.Mark)
			require.Equal(t, tc.Checksum, codec.Checksum(), tc.Mark)

			for _, src := range [][]byte{nil, []byte("x"), bytes.Repeat([]byte("foo"), 1000)} {
				prefix := []byte{0xaa}
				compressed := codec.Compress(prefix, src)
				require.Equal(t, byte(0xaa), compressed[0], tc.Mark)

				data, err := codec.Decompress(compressed[1:])
				require.NoError(t, err, tc.Mark)
				require.Equal(t, len(src), len(data), tc.Mark)
				require.True(t, bytes.Equal(src, data), tc.Mark)
			}
		})
	}
}

func TestSnappyCorrupt(t *testing.T) {
	codec, err := container.LookupCodec(container.CodecSnappy)
	require.NoError(t, err)

	_, err = codec.Decompress([]byte{0xff, 0xff, 0xff, 0xff, 0x0f, 0x01})
	require.Error(t, err)
	require.True(t, container.CodecError.Has(err))
}
