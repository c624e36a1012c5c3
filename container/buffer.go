package container

// Buffer accumulates input chunks behind a read cursor. Bytes before the
// cursor have been consumed and are never returned again.
type Buffer struct {
	data []byte
	pos  int

	consumed int64
}

// NewBuffer returns a buffer holding a copy of init.
func NewBuffer(init []byte) *Buffer {
	b := &Buffer{}
	b.Write(init)

	return b
}

// Write appends p. Consumed bytes are compacted away when they make up at
// least half of the buffer, which invalidates slices returned by Bytes.
func (b *Buffer) Write(p []byte) (n int, err error) {
	if b.pos > 0 && b.pos >= len(b.data)/2 {
		n := copy(b.data, b.data[b.pos:])
		b.data = b.data[:n]
		b.pos = 0
	}

	b.data = append(b.data, p...)

	return len(p), nil
}

// Len returns the number of unconsumed bytes.
func (b *Buffer) Len() int {
	return len(b.data) - b.pos
}

// Bytes returns the unconsumed bytes. The slice is valid until the next
// Write.
func (b *Buffer) Bytes() []byte {
	return b.data[b.pos:]
}

// Advance consumes n bytes.
func (b *Buffer) Advance(n int) {
	if n < 0 || n > b.Len() {
		panic("container: advance out of range")
	}

	b.pos += n
	b.consumed += int64(n)
}

// Consumed returns the total number of bytes consumed.
func (b *Buffer) Consumed() int64 {
	return b.consumed
}
