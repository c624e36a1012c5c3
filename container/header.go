package container

import (
	"bytes"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"github.com/calebcase/ocf/blob"
	"github.com/calebcase/ocf/integer"
	"github.com/calebcase/ocf/schema"
)

// Magic is the header that starts every object container file.
const Magic = "Obj\x01"

// SyncLen is the length of a sync marker.
const SyncLen = 16

// Metadata keys with a meaning to the container.
const (
	KeyCodec  = "avro.codec"
	KeySchema = "avro.schema"
)

func (t *Transcoder) readMagic() (Outcome, []byte, error) {
	b := t.buf.Bytes()
	if len(b) < len(Magic) {
		return NeedMoreInput, nil, nil
	}

	if string(b[:len(Magic)]) != Magic {
		return NeedMoreInput, nil, MagicError.New("invalid header magic: %q", b[:len(Magic)])
	}

	out := []byte(Magic)
	t.buf.Advance(len(Magic))
	t.state = AwaitingMetadata

	return Progressed, out, nil
}

type entry struct {
	key   []byte
	value []byte

	// raw is the encoded key and value as read.
	raw []byte
}

type mapBlock struct {
	// header is the encoded count (and size, if the count is negative)
	// as read.
	header   []byte
	negative bool
	entries  []entry
}

// readMetadata reads the whole metadata map before interpreting any of it.
func (t *Transcoder) readMetadata() (Outcome, []byte, error) {
	b := t.buf.Bytes()

	var blocks []mapBlock
	off := 0

	for {
		start := off

		count, n := integer.Decode(b[off:])
		switch {
		case n == 0:
			return NeedMoreInput, nil, nil
		case n < 0:
			return NeedMoreInput, nil, Error.New("metadata count overflow")
		}
		off += n

		if count == 0 {
			break
		}

		blk := mapBlock{}
		if count < 0 {
			blk.negative = true
			count = -count

			if count < 0 {
				return NeedMoreInput, nil, Error.New("metadata count overflow")
			}

			_, n = integer.Decode(b[off:])
			switch {
			case n == 0:
				return NeedMoreInput, nil, nil
			case n < 0:
				return NeedMoreInput, nil, Error.New("metadata size overflow")
			}
			off += n
		}
		blk.header = b[start:off]

		for i := int64(0); i < count; i++ {
			es := off

			key, n, err := blob.Decode(b[off:])
			if err != nil {
				return NeedMoreInput, nil, Error.Wrap(err)
			}
			if n == 0 {
				return NeedMoreInput, nil, nil
			}
			off += n

			value, n, err := blob.Decode(b[off:])
			if err != nil {
				return NeedMoreInput, nil, Error.Wrap(err)
			}
			if n == 0 {
				return NeedMoreInput, nil, nil
			}
			off += n

			blk.entries = append(blk.entries, entry{
				key:   key,
				value: value,
				raw:   b[es:off],
			})
		}

		blocks = append(blocks, blk)
	}

	out, err := t.applyMetadata(blocks)
	if err != nil {
		return NeedMoreInput, nil, err
	}

	t.buf.Advance(off)
	t.state = AwaitingSync

	return Progressed, out, nil
}

func (t *Transcoder) applyMetadata(blocks []mapBlock) (out []byte, err error) {
	metadata := map[string][]byte{}

	for _, blk := range blocks {
		for _, e := range blk.entries {
			key := string(e.key)
			if _, ok := metadata[key]; ok {
				return nil, Error.New("duplicate metadata key: %q", key)
			}

			metadata[key] = slices.Clone(e.value)
		}
	}

	raw, ok := metadata[KeySchema]
	if !ok {
		return nil, Error.New("missing %s", KeySchema)
	}

	original, err := schema.Parse(raw)
	if err != nil {
		return nil, err
	}

	output := original.WithFields(t.transform.FilterFields(slices.Clone(original.Fields)))

	codecName := CodecNull
	if name, ok := metadata[KeyCodec]; ok {
		codecName = string(name)
	}

	codec, err := LookupCodec(codecName)
	if err != nil {
		return nil, err
	}

	var encodedSchema []byte
	if output != original {
		data, err := output.MarshalJSON()
		if err != nil {
			return nil, err
		}

		encodedSchema = blob.Append(blob.Append(nil, []byte(KeySchema)), data)
	}

	for _, blk := range blocks {
		var entries []byte
		for _, e := range blk.entries {
			if encodedSchema != nil && string(e.key) == KeySchema {
				entries = append(entries, encodedSchema...)

				continue
			}

			entries = append(entries, e.raw...)
		}

		switch {
		case !blk.negative:
			out = append(out, blk.header...)
		case bytes.Equal(entries, joinRaw(blk.entries)):
			out = append(out, blk.header...)
		default:
			out = integer.Append(out, -int64(len(blk.entries)))
			out = integer.Append(out, int64(len(entries)))
		}

		out = append(out, entries...)
	}
	out = integer.Append(out, 0)

	t.metadata = metadata
	t.schema = original
	t.output = output
	t.codec = codec

	t.log.Debug("read metadata",
		zap.String("codec", codec.Name()),
		zap.Strings("fields", original.Names()),
		zap.Strings("output_fields", output.Names()),
		zap.Int("entries", len(metadata)),
	)

	return out, nil
}

func joinRaw(entries []entry) (raw []byte) {
	for _, e := range entries {
		raw = append(raw, e.raw...)
	}

	return raw
}

func (t *Transcoder) readSync() (Outcome, []byte, error) {
	b := t.buf.Bytes()
	if len(b) < SyncLen {
		return NeedMoreInput, nil, nil
	}

	copy(t.sync[:], b[:SyncLen])
	out := slices.Clone(t.sync[:])

	t.buf.Advance(SyncLen)
	t.state = AwaitingDataBlock

	return Progressed, out, nil
}
