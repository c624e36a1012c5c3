package container

import (
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/calebcase/oops"
	"github.com/google/uuid"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/calebcase/ocf/blob"
	"github.com/calebcase/ocf/integer"
	"github.com/calebcase/ocf/schema"
)

// WriterConfig configures a Writer.
type WriterConfig struct {
	// Codec is the block codec. When empty no avro.codec entry is written
	// and blocks are not compressed.
	Codec string

	// Metadata holds extra metadata entries.
	Metadata map[string][]byte

	// Sync is the sync marker. A random marker is used when it is nil.
	Sync []byte
}

// Writer writes an object container file.
type Writer struct {
	w      io.Writer
	schema *schema.Schema
	codec  Codec
	config WriterConfig
	sync   [SyncLen]byte

	header bool
}

// NewWriter returns a Writer of records laid out by s.
func NewWriter(w io.Writer, s *schema.Schema, config WriterConfig) (*Writer, error) {
	name := config.Codec
	if name == "" {
		name = CodecNull
	}

	codec, err := LookupCodec(name)
	if err != nil {
		return nil, err
	}

	wr := &Writer{
		w:      w,
		schema: s,
		codec:  codec,
		config: config,
	}

	switch len(config.Sync) {
	case 0:
		wr.sync = uuid.New()
	case SyncLen:
		copy(wr.sync[:], config.Sync)
	default:
		return nil, Error.New("sync marker must be %d bytes, not %d", SyncLen, len(config.Sync))
	}

	return wr, nil
}

// Sync returns the sync marker.
func (w *Writer) Sync() [SyncLen]byte {
	return w.sync
}

func (w *Writer) writeHeader() (err error) {
	if w.header {
		return nil
	}

	data, err := w.schema.MarshalJSON()
	if err != nil {
		return err
	}

	entries := map[string][]byte{}
	for k, v := range w.config.Metadata {
		entries[k] = v
	}
	entries[KeySchema] = data
	if w.config.Codec != "" {
		entries[KeyCodec] = []byte(w.config.Codec)
	}

	keys := maps.Keys(entries)
	slices.Sort(keys)

	out := []byte(Magic)
	out = integer.Append(out, int64(len(keys)))
	for _, k := range keys {
		out = blob.Append(out, []byte(k))
		out = blob.Append(out, entries[k])
	}
	out = integer.Append(out, 0)
	out = append(out, w.sync[:]...)

	_, err = w.w.Write(out)
	if err != nil {
		return oops.Trace(err)
	}

	w.header = true

	return nil
}

// WriteBlock writes one block holding the given encoded records.
func (w *Writer) WriteBlock(records ...[]byte) (err error) {
	err = w.writeHeader()
	if err != nil {
		return err
	}

	var data []byte
	for _, r := range records {
		data = append(data, r...)
	}

	compressed := w.codec.Compress(nil, data)

	length := len(compressed)
	if w.codec.Checksum() {
		length += checksumLen
	}

	out := integer.Append(nil, int64(len(records)))
	out = integer.Append(out, int64(length))
	out = append(out, compressed...)
	if w.codec.Checksum() {
		out = binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(data))
	}
	out = append(out, w.sync[:]...)

	_, err = w.w.Write(out)
	if err != nil {
		return oops.Trace(err)
	}

	return nil
}

// WriteRecords encodes each record and writes them as one block.
func (w *Writer) WriteRecords(records ...[]schema.Value) (err error) {
	encoded := make([][]byte, 0, len(records))
	for _, values := range records {
		r, err := w.schema.EncodeRecord(nil, values...)
		if err != nil {
			return err
		}

		encoded = append(encoded, r)
	}

	return w.WriteBlock(encoded...)
}

// Close writes the header if no block has been written.
func (w *Writer) Close() error {
	return w.writeHeader()
}
