package container_test

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"

	"github.com/calebcase/ocf/blob"
	"github.com/calebcase/ocf/container"
	"github.com/calebcase/ocf/integer"
	"github.com/calebcase/ocf/schema"
	"github.com/calebcase/ocf/transform"
)

var marker = []byte{
	0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
	0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
}

func tripleSchema() *schema.Schema {
	return schema.New("triple",
		schema.NewField("a", schema.Long),
		schema.NewField("b", schema.String),
		schema.NewField("c", schema.Int),
	)
}

func tripleRecord(n int) []schema.Value {
	return []schema.Value{
		schema.LongValue(int64(n*7 - 50)),
		schema.StringValue(fmt.Sprintf("row-%d", n)),
		{Type: schema.Int, Long: int64(-n)},
	}
}

// sample returns a container file with one block per entry in blocks, each
// holding that many records.
func sample(t *testing.T, codec string, blocks ...int) []byte {
	t.Helper()

	var buf bytes.Buffer

	w, err := container.NewWriter(&buf, tripleSchema(), container.WriterConfig{
		Codec: codec,
		Sync:  marker,
		Metadata: map[string][]byte{
			"user.note": []byte("kept"),
		},
	})
	require.NoError(t, err)

	n := 0
	for _, count := range blocks {
		records := make([][]schema.Value, 0, count)
		for i := 0; i < count; i++ {
			records = append(records, tripleRecord(n))
			n++
		}

		require.NoError(t, w.WriteRecords(records...))
	}
	require.NoError(t, w.Close())

	return buf.Bytes()
}

// metadata encodes a header magic, a single block metadata map and marker.
func metadata(entries ...string) []byte {
	out := []byte(container.Magic)
	out = integer.Append(out, int64(len(entries)/2))
	for _, e := range entries {
		out = blob.Append(out, []byte(e))
	}
	out = integer.Append(out, 0)

	return append(out, marker...)
}

// rawBlock encodes a data block of already encoded records.
func rawBlock(codec container.Codec, count int, records []byte, sync []byte) []byte {
	compressed := codec.Compress(nil, records)

	length := len(compressed)
	if codec.Checksum() {
		length += 4
	}

	out := integer.Append(nil, int64(count))
	out = integer.Append(out, int64(length))
	out = append(out, compressed...)
	if codec.Checksum() {
		crc := crc32IEEE(records)
		out = append(out, byte(crc>>24), byte(crc>>16), byte(crc>>8), byte(crc))
	}

	return append(out, sync...)
}

// split cuts data into chunks of size bytes.
func split(data []byte, size int) (chunks [][]byte) {
	for len(data) > size {
		chunks = append(chunks, data[:size])
		data = data[size:]
	}

	return append(chunks, data)
}

// randomSplit cuts data at random points.
func randomSplit(rng *rand.Rand, data []byte) (chunks [][]byte) {
	for len(data) > 0 {
		n := rng.Intn(len(data)) + 1
		if n > 37 {
			n = 1 + n%37
		}

		chunks = append(chunks, data[:n])
		data = data[n:]
	}

	return chunks
}

// run transcodes the chunks and returns the produced chunks.
func run(chunks [][]byte, opts ...container.Option) (*container.Transcoder, [][]byte, error) {
	tc := container.New(container.Chunks(chunks...), nil, opts...)

	var out [][]byte
	for tc.Next() {
		out = append(out, slices.Clone(tc.Chunk()))
	}

	return tc, out, tc.Err()
}

func join(chunks [][]byte) []byte {
	return bytes.Join(chunks, nil)
}

// collector records every decoded value it sees.
type collector struct {
	transform.Identity

	width   int
	records [][]schema.Value
	current []schema.Value
}

func (c *collector) FilterFields(fields []schema.Field) []schema.Field {
	c.width = len(fields)

	return fields
}

func (c *collector) ReencodeField(dst []byte, f schema.Field, v schema.Value) ([]byte, error) {
	v.Bytes = slices.Clone(v.Bytes)
	c.current = append(c.current, v)
	if len(c.current) == c.width {
		c.records = append(c.records, c.current)
		c.current = nil
	}

	return c.Identity.ReencodeField(dst, f, v)
}

// readAll decodes a container file, verifying every block checksum.
func readAll(t *testing.T, data []byte) (*schema.Schema, [][]schema.Value) {
	t.Helper()

	c := &collector{}
	tc, _, err := run([][]byte{data}, container.WithTransform(c), container.WithChecksumVerification(true))
	require.NoError(t, err)
	require.Equal(t, container.Done, tc.State())

	return tc.Schema(), c.records
}

func crc32IEEE(p []byte) uint32 {
	return crc32.ChecksumIEEE(p)
}
