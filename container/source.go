package container

import "io"

// Source yields the input of a Transcoder one chunk at a time. At the end of
// the input Next returns io.EOF, possibly along with a final chunk.
//
// Next may block; a Transcoder calls it only when it needs more input.
type Source interface {
	Next() ([]byte, error)
}

// SourceFunc adapts a function to a Source.
type SourceFunc func() ([]byte, error)

// Next implements Source.
func (f SourceFunc) Next() ([]byte, error) {
	return f()
}

// Chunks returns a Source yielding each chunk in turn.
func Chunks(chunks ...[]byte) Source {
	return SourceFunc(func() ([]byte, error) {
		if len(chunks) == 0 {
			return nil, io.EOF
		}

		chunk := chunks[0]
		chunks = chunks[1:]

		return chunk, nil
	})
}

// ReaderSource returns a Source reading up to size bytes from r per chunk.
// The returned chunk is reused by the next call.
func ReaderSource(r io.Reader, size int) Source {
	if size <= 0 {
		size = DefaultChunkSize
	}

	buf := make([]byte, size)

	return SourceFunc(func() ([]byte, error) {
		n, err := r.Read(buf)

		return buf[:n], err
	})
}

// DefaultChunkSize is the read size used by ReaderSource when none is given.
const DefaultChunkSize = 64 * 1024
