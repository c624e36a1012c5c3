package container

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"

	"go.uber.org/zap"

	"github.com/calebcase/ocf/integer"
	"github.com/calebcase/ocf/schema"
)

// checksumLen is the length of the CRC-32 footer of checksummed codecs.
const checksumLen = 4

// readBlock transcodes one data block and the sync marker after it.
func (t *Transcoder) readBlock() (Outcome, []byte, error) {
	b := t.buf.Bytes()

	count, n := integer.Decode(b)
	switch {
	case n == 0:
		return NeedMoreInput, nil, nil
	case n < 0:
		return NeedMoreInput, nil, Error.New("block count overflow")
	case count < 0:
		return NeedMoreInput, nil, Error.New("negative block count: %d", count)
	}
	countLen := n
	off := n

	size, n := integer.Decode(b[off:])
	switch {
	case n == 0:
		return NeedMoreInput, nil, nil
	case n < 0:
		return NeedMoreInput, nil, Error.New("block size overflow")
	case size < 0:
		return NeedMoreInput, nil, Error.New("negative block size: %d", size)
	}
	off += n

	if uint64(len(b)-off) < uint64(size)+SyncLen {
		return NeedMoreInput, nil, nil
	}

	payload := b[off : off+int(size)]
	off += int(size)

	marker := b[off : off+SyncLen]
	off += SyncLen

	if !bytes.Equal(marker, t.sync[:]) {
		return NeedMoreInput, nil, SyncError.New("block %d: sync marker %x does not match %x", t.stats.Blocks, marker, t.sync)
	}

	err := t.schema.Validate()
	if err != nil {
		return NeedMoreInput, nil, err
	}

	data, err := t.decompress(payload)
	if err != nil {
		return NeedMoreInput, nil, err
	}

	records, err := t.transcodeRecords(count, data)
	if err != nil {
		return NeedMoreInput, nil, err
	}

	compressed := t.codec.Compress(nil, records)

	length := len(compressed)
	if t.codec.Checksum() {
		length += checksumLen
	}

	out := make([]byte, 0, countLen+integer.MaxLen+length+SyncLen)
	out = append(out, b[:countLen]...)
	out = integer.Append(out, int64(length))
	out = append(out, compressed...)
	if t.codec.Checksum() {
		out = binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(records))
	}
	out = append(out, t.sync[:]...)

	t.buf.Advance(off)
	t.stats.Blocks++
	t.stats.Records += count

	t.log.Debug("transcoded block",
		zap.Int64("block", t.stats.Blocks),
		zap.Int64("records", count),
		zap.Int64("in", size),
		zap.Int("out", length),
	)

	return Progressed, out, nil
}

func (t *Transcoder) decompress(payload []byte) ([]byte, error) {
	if !t.codec.Checksum() {
		return t.codec.Decompress(payload)
	}

	if len(payload) < checksumLen {
		return nil, Error.New("block of %d bytes has no room for a checksum", len(payload))
	}

	body := payload[:len(payload)-checksumLen]
	footer := payload[len(payload)-checksumLen:]

	data, err := t.codec.Decompress(body)
	if err != nil {
		return nil, err
	}

	if t.verify {
		want := binary.BigEndian.Uint32(footer)
		got := crc32.ChecksumIEEE(data)
		if want != got {
			return nil, ChecksumError.New("block %d: checksum %08x does not match %08x", t.stats.Blocks, want, got)
		}
	}

	return data, nil
}

// transcodeRecords decodes count records laid out by the input schema and
// re-encodes each field through the transform.
func (t *Transcoder) transcodeRecords(count int64, data []byte) (out []byte, err error) {
	fields := t.schema.Fields
	if len(fields) == 0 {
		// Empty records take no space.
		count = 0
	}

	off := 0
	for i := int64(0); i < count; i++ {
		for _, f := range fields {
			v, n, err := schema.Decode(f.Type, data[off:])
			if err != nil {
				return nil, err
			}
			if n == 0 {
				return nil, Error.New("record %d truncated in field %q", i, f.Name)
			}
			off += n

			out, err = t.transform.ReencodeField(out, f, v)
			if err != nil {
				return nil, err
			}
		}
	}

	if off != len(data) {
		return nil, Error.New("%d bytes left after %d records", len(data)-off, count)
	}

	return out, nil
}
