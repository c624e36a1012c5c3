package container

import (
	"errors"
	"io"

	"github.com/calebcase/oops"
	"go.uber.org/zap"

	"github.com/calebcase/ocf/schema"
	"github.com/calebcase/ocf/transform"
)

// Stats counts the work done by a Transcoder.
type Stats struct {
	Blocks   int64
	Records  int64
	BytesIn  int64
	BytesOut int64
}

// Option configures a Transcoder.
type Option func(t *Transcoder)

// WithTransform sets the record transform. The default is
// transform.Identity.
func WithTransform(tr transform.Transform) Option {
	return func(t *Transcoder) {
		if tr != nil {
			t.transform = tr
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(t *Transcoder) {
		if log != nil {
			t.log = log
		}
	}
}

// WithChecksumVerification makes the Transcoder check the CRC-32 footer of
// every input block against its decompressed records.
func WithChecksumVerification(verify bool) Option {
	return func(t *Transcoder) {
		t.verify = verify
	}
}

// Transcoder rewrites an object container file read from a Source.
//
// Use it like an iterator:
//
//	t := container.New(src, nil, container.WithTransform(transform.Strip("b")))
//	for t.Next() {
//		out.Write(t.Chunk())
//	}
//	if err := t.Err(); err != nil {
//		...
//	}
type Transcoder struct {
	src Source
	eof bool
	buf *Buffer

	log       *zap.Logger
	transform transform.Transform
	verify    bool

	state    State
	metadata map[string][]byte
	schema   *schema.Schema
	output   *schema.Schema
	codec    Codec
	sync     [SyncLen]byte

	chunk []byte
	err   error
	stats Stats
}

// New returns a Transcoder reading init and then src. init holds any input
// the caller read before handing over src; it may be nil.
func New(src Source, init []byte, opts ...Option) *Transcoder {
	if src == nil {
		src = Chunks()
	}

	t := &Transcoder{
		src:       src,
		buf:       NewBuffer(init),
		log:       zap.NewNop(),
		transform: transform.Identity{},
		state:     AwaitingMagic,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Step makes one attempt at the current part of the container. On
// NeedMoreInput nothing was consumed; feed more input with Write and call
// Step again. An error is fatal and leaves the Transcoder Failed.
func (t *Transcoder) Step() (o Outcome, chunk []byte, err error) {
	switch t.state {
	case AwaitingMagic:
		o, chunk, err = t.readMagic()
	case AwaitingMetadata:
		o, chunk, err = t.readMetadata()
	case AwaitingSync:
		o, chunk, err = t.readSync()
	case AwaitingDataBlock:
		o, chunk, err = t.readBlock()
	case Failed:
		return NeedMoreInput, nil, t.err
	default:
		return NeedMoreInput, nil, Error.New("no step in state %s", t.state)
	}

	if err != nil {
		t.fail(err)

		return NeedMoreInput, nil, err
	}

	if o == Progressed {
		t.stats.BytesOut += int64(len(chunk))
	}

	return o, chunk, nil
}

// Write adds input without going through the Source.
func (t *Transcoder) Write(p []byte) (n int, err error) {
	return t.buf.Write(p)
}

// Next produces the next output chunk, pulling from the Source as needed.
// It returns false when the input is exhausted or an error occurred.
func (t *Transcoder) Next() bool {
	t.chunk = nil

	for {
		if t.state == Done || t.state == Failed {
			return false
		}

		o, chunk, err := t.Step()
		if err != nil {
			return false
		}

		if o == Progressed {
			t.chunk = chunk

			return true
		}

		err = t.fill()
		if err != nil {
			t.fail(err)

			return false
		}
	}
}

// fill pulls one chunk from the Source. At the end of the Source it either
// finishes the Transcoder or reports the input as truncated.
func (t *Transcoder) fill() error {
	if !t.eof {
		p, err := t.src.Next()
		_, _ = t.buf.Write(p)

		switch {
		case err == nil:
			return nil
		case errors.Is(err, io.EOF):
			t.eof = true
			if len(p) > 0 {
				return nil
			}
		default:
			return oops.Trace(err)
		}
	}

	if t.state == AwaitingDataBlock && t.buf.Len() == 0 {
		t.state = Done
		t.log.Debug("transcode complete",
			zap.Int64("blocks", t.stats.Blocks),
			zap.Int64("records", t.stats.Records),
			zap.Int64("bytes_in", t.buf.Consumed()),
			zap.Int64("bytes_out", t.stats.BytesOut),
		)

		return nil
	}

	return TruncatedError.New("input ended %s with %d bytes pending", t.state, t.buf.Len())
}

func (t *Transcoder) fail(err error) {
	t.state = Failed
	t.err = err
	t.log.Debug("transcode failed", zap.Error(err))
}

// Chunk returns the chunk produced by the last call to Next.
func (t *Transcoder) Chunk() []byte {
	return t.chunk
}

// Err returns the error that stopped Next, if any.
func (t *Transcoder) Err() error {
	return t.err
}

// WriteTo implements io.WriterTo by writing every produced chunk to w.
func (t *Transcoder) WriteTo(w io.Writer) (n int64, err error) {
	for t.Next() {
		m, err := w.Write(t.Chunk())
		n += int64(m)
		if err != nil {
			return n, oops.Trace(err)
		}
	}

	return n, t.Err()
}

// State returns the current state.
func (t *Transcoder) State() State {
	return t.state
}

// Metadata returns the input metadata entries once they have been read.
func (t *Transcoder) Metadata() map[string][]byte {
	return t.metadata
}

// Schema returns the input schema once it has been read.
func (t *Transcoder) Schema() *schema.Schema {
	return t.schema
}

// OutputSchema returns the schema written to the output once it has been
// read.
func (t *Transcoder) OutputSchema() *schema.Schema {
	return t.output
}

// Codec returns the block codec once it has been read.
func (t *Transcoder) Codec() Codec {
	return t.codec
}

// Sync returns the sync marker once it has been read.
func (t *Transcoder) Sync() [SyncLen]byte {
	return t.sync
}

// Stats returns counters for the work done so far.
func (t *Transcoder) Stats() Stats {
	s := t.stats
	s.BytesIn = t.buf.Consumed()

	return s
}
