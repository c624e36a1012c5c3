package ocf

import (
	"io"

	"github.com/calebcase/ocf/container"
	"github.com/calebcase/ocf/transform"
)

// Reader reads the output of a Transcoder.
type Reader struct {
	t *container.Transcoder

	chunk []byte
}

var _ io.Reader = (*Reader)(nil)

// NewReader returns a Reader over a Transcoder built from the arguments.
func NewReader(src container.Source, init []byte, opts ...container.Option) *Reader {
	return &Reader{
		t: container.New(src, init, opts...),
	}
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (n int, err error) {
	for len(r.chunk) == 0 {
		if !r.t.Next() {
			err = r.t.Err()
			if err != nil {
				return 0, err
			}

			return 0, io.EOF
		}

		r.chunk = r.t.Chunk()
	}

	n = copy(p, r.chunk)
	r.chunk = r.chunk[n:]

	return n, nil
}

// Transcoder returns the underlying Transcoder.
func (r *Reader) Transcoder() *container.Transcoder {
	return r.t
}

// Strip copies the container file read from r to w without the named fields.
// It returns the number of bytes written.
func Strip(r io.Reader, w io.Writer, fields ...string) (n int64, err error) {
	t := container.New(
		container.ReaderSource(r, container.DefaultChunkSize),
		nil,
		container.WithTransform(transform.Strip(fields...)),
	)

	return t.WriteTo(w)
}
