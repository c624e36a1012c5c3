package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"github.com/calebcase/ocf/schema"
	"github.com/calebcase/oops"
)

func TestParse(t *testing.T) {
	type TC struct {
		Name   string
		Input  string
		Fields []string
		Types  []schema.Type
		Valid  bool
		Err    bool
		Mark   error
	}

	tcs := []TC{
		{
			Name:   "object types",
			Input:  `{"fields":[{"name":"a","type":{"type":"long"}},{"name":"b","type":{"type":"string"}}]}`,
			Fields: []string{"a", "b"},
			Types:  []schema.Type{schema.Long, schema.String},
			Valid:  true,
			Mark:   oops.New("unexpected"),
		},
		{
			Name:   "named types",
			Input:  `{"type":"record","name":"r","fields":[{"name":"x","type":"int"},{"name":"y","type":"string","doc":"why"}]}`,
			Fields: []string{"x", "y"},
			Types:  []schema.Type{schema.Int, schema.String},
			Valid:  true,
			Mark:   oops.New("unexpected"),
		},
		{
			Name:   "logical type",
			Input:  `{"fields":[{"name":"ts","type":{"type":"long","logicalType":"timestamp-millis"}}]}`,
			Fields: []string{"ts"},
			Types:  []schema.Type{schema.Long},
			Valid:  true,
			Mark:   oops.New("unexpected"),
		},
		{
			Name:   "unsupported float",
			Input:  `{"fields":[{"name":"f","type":"float"}]}`,
			Fields: []string{"f"},
			Types:  []schema.Type{"float"},
			Valid:  false,
			Mark:   oops.New("unexpected"),
		},
		{
			Name:   "unsupported union",
			Input:  `{"fields":[{"name":"u","type":["null","long"]}]}`,
			Fields: []string{"u"},
			Types:  []schema.Type{schema.Union},
			Valid:  false,
			Mark:   oops.New("unexpected"),
		},
		{
			Name:   "empty record",
			Input:  `{"fields":[]}`,
			Fields: []string{},
			Types:  nil,
			Valid:  true,
			Mark:   oops.New("unexpected"),
		},
		{
			Name:  "not an object",
			Input: `"long"`,
			Err:   true,
			Mark:  oops.New("unexpected"),
		},
		{
			Name:  "no fields",
			Input: `{"type":"record"}`,
			Err:   true,
			Mark:  oops.New("unexpected"),
		},
		{
			Name:  "fields not an array",
			Input: `{"fields":{}}`,
			Err:   true,
			Mark:  oops.New("unexpected"),
		},
		{
			Name:  "field without name",
			Input: `{"fields":[{"type":"long"}]}`,
			Err:   true,
			Mark:  oops.New("unexpected"),
		},
		{
			Name:  "field without type",
			Input: `{"fields":[{"name":"a"}]}`,
			Err:   true,
			Mark:  oops.New("unexpected"),
		},
		{
			Name:  "truncated",
			Input: `{"fields":[{"name":"a","type":"long"}`,
			Err:   true,
			Mark:  oops.New("unexpected"),
		},
		{
			Name:  "trailing data",
			Input: `{"fields":[]} {}`,
			Err:   true,
			Mark:  oops.New("unexpected"),
		},
	}

	for _, tc := range tcs {
		t.Run(tc.Name, func(t *testing.T) {
			s, err := schema.Parse([]byte(tc.Input))
			if tc.Err {
				require.Error(t, err, tc.Mark)
				require.True(t, schema.Error.Has(err), tc.Mark)

				return
			}
			require.NoError(t, err, tc.Mark)

			t.Logf("Schema: %s\n", spew.Sdump(s.Fields))

			require.Equal(t, tc.Fields, s.Names(), tc.Mark)
			for i, f := range s.Fields {
				require.Equal(t, tc.Types[i], f.Type, tc.Mark)
			}

			err = s.Validate()
			if tc.Valid {
				require.NoError(t, err, tc.Mark)
			} else {
				require.Error(t, err, tc.Mark)
				require.True(t, schema.UnsupportedTypeError.Has(err), tc.Mark)
			}

			// An unchanged schema serializes to its input.
			out, err := json.Marshal(s)
			require.NoError(t, err, tc.Mark)
			require.Equal(t, tc.Input, string(out), tc.Mark)
		})
	}
}

func TestWithFields(t *testing.T) {
	input := `{"type":"record", "name":"r", "fields":[{"name":"a","type":{"type":"long"}}, {"name":"b","type":"string","doc":"kept"}, {"name":"c","type":"int"}], "doc":"after"}`

	s, err := schema.Parse([]byte(input))
	require.NoError(t, err)
	require.Equal(t, "r", s.Name)

	t.Run("same fields", func(t *testing.T) {
		same := s.WithFields(append([]schema.Field(nil), s.Fields...))
		require.Same(t, s, same)
	})

	t.Run("drop a", func(t *testing.T) {
		out := s.WithFields(s.Fields[1:])
		require.Equal(t, []string{"b", "c"}, out.Names())
		require.Equal(t, []string{"a", "b", "c"}, s.Names())

		data, err := json.Marshal(out)
		require.NoError(t, err)
		require.Equal(t,
			`{"type":"record","name":"r","fields":[{"name":"b","type":"string","doc":"kept"},{"name":"c","type":"int"}],"doc":"after"}`,
			string(data),
		)

		again, err := schema.Parse(data)
		require.NoError(t, err)
		require.Equal(t, out.Names(), again.Names())
	})

	t.Run("drop all", func(t *testing.T) {
		out := s.WithFields(nil)
		require.Empty(t, out.Fields)

		data, err := json.Marshal(out)
		require.NoError(t, err)
		require.Equal(t, `{"type":"record","name":"r","fields":[],"doc":"after"}`, string(data))
	})

	t.Run("lookup", func(t *testing.T) {
		f, ok := s.Field("c")
		require.True(t, ok)
		require.Equal(t, schema.Int, f.Type)

		_, ok = s.Field("z")
		require.False(t, ok)
	})
}

func TestNew(t *testing.T) {
	s := schema.New("pair", schema.NewField("a", schema.Long), schema.NewField("b", schema.String))

	data, err := json.Marshal(s)
	require.NoError(t, err)
	require.Equal(t,
		`{"type":"record","name":"pair","fields":[{"name":"a","type":"long"},{"name":"b","type":"string"}]}`,
		string(data),
	)

	parsed, err := schema.Parse(data)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, parsed.Names())
	require.NoError(t, parsed.Validate())
}
