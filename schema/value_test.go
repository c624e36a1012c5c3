package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calebcase/ocf/schema"
	"github.com/calebcase/oops"
)

func TestDecode(t *testing.T) {
	type TC struct {
		Name  string
		Type  schema.Type
		Input []byte
		Value schema.Value
		N     int
		Err   bool
		Mark  error
	}

	tcs := []TC{
		{
			Name:  "long",
			Type:  schema.Long,
			Input: []byte{0x0a, 0xff},
			Value: schema.LongValue(5),
			N:     1,
			Mark:  oops.New("unexpected"),
		},
		{
			Name:  "int",
			Type:  schema.Int,
			Input: []byte{0x05},
			Value: schema.Value{Type: schema.Int, Long: -3},
			N:     1,
			Mark:  oops.New("unexpected"),
		},
		{
			Name:  "string",
			Type:  schema.String,
			Input: []byte{0x04, 'h', 'i'},
			Value: schema.StringValue("hi"),
			N:     3,
			Mark:  oops.New("unexpected"),
		},
		{
			Name:  "short long",
			Type:  schema.Long,
			Input: []byte{0x80},
			Value: schema.Value{Type: schema.Long},
			N:     0,
			Mark:  oops.New("unexpected"),
		},
		{
			Name:  "float",
			Type:  "float",
			Input: []byte{0, 0, 0, 0},
			Err:   true,
			Mark:  oops.New("unexpected"),
		},
	}

	for _, tc := range tcs {
		t.Run(tc.Name, func(t *testing.T) {
			v, n, err := schema.Decode(tc.Type, tc.Input)
			if tc.Err {
				require.Error(t, err, tc.Mark)
				require.True(t, schema.UnsupportedTypeError.Has(err), tc.Mark)

				return
			}
			require.NoError(t, err, tc.Mark)
			require.Equal(t, tc.N, n, tc.Mark)
			if n == 0 {
				return
			}

			require.Equal(t, tc.Value, v, tc.Mark)
			require.Equal(t, tc.Input[:n], v.Append(nil), tc.Mark)
		})
	}
}

func TestRecord(t *testing.T) {
	s := schema.New("pair", schema.NewField("a", schema.Long), schema.NewField("b", schema.String))

	data, err := s.EncodeRecord(nil, schema.LongValue(5), schema.StringValue("hi"))
	require.NoError(t, err)
	require.Equal(t, []byte{0x0a, 0x04, 'h', 'i'}, data)

	data, err = s.EncodeRecord(data, schema.LongValue(-3), schema.StringValue("ok"))
	require.NoError(t, err)

	values, n, err := s.DecodeRecord(data)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, []schema.Value{schema.LongValue(5), schema.StringValue("hi")}, values)

	values, m, err := s.DecodeRecord(data[n:])
	require.NoError(t, err)
	require.Equal(t, 4, m)
	require.Equal(t, "-3", values[0].String())
	require.Equal(t, `"ok"`, values[1].String())

	_, _, err = s.DecodeRecord(data[:3])
	require.Error(t, err)

	_, err = s.EncodeRecord(nil, schema.LongValue(1))
	require.Error(t, err)

	_, err = s.EncodeRecord(nil, schema.StringValue("x"), schema.StringValue("y"))
	require.Error(t, err)
}
