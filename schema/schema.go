package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/zeebo/errs"
	"golang.org/x/exp/slices"
)

// Error is the class of malformed schema errors.
var Error = errs.Class("schema")

// UnsupportedTypeError is returned when a field's type cannot be decoded.
var UnsupportedTypeError = errs.Class("unsupported type")

// Type names a field type.
type Type string

// Field types.
const (
	Long   Type = "long"
	Int    Type = "int"
	String Type = "string"

	// Union is reported for fields declared with a union (JSON array) type.
	Union Type = "union"
)

// Supported returns true if values of this type can be decoded and encoded.
func (t Type) Supported() bool {
	switch t {
	case Long, Int, String:
		return true
	}

	return false
}

// Field is one record field.
type Field struct {
	Name string
	Type Type

	// Raw is the field's JSON as it appeared in the schema.
	Raw json.RawMessage
}

// NewField returns a field with a minimal JSON form.
func NewField(name string, t Type) Field {
	raw, _ := json.Marshal(struct {
		Name string `json:"name"`
		Type Type   `json:"type"`
	}{name, t})

	return Field{
		Name: name,
		Type: t,
		Raw:  raw,
	}
}

type member struct {
	Key   string
	Value json.RawMessage
}

// Schema is a record schema.
type Schema struct {
	Name   string
	Fields []Field

	members []member

	// raw is set while the schema is unchanged from what was parsed.
	raw []byte
}

// New returns a record schema with the given fields.
func New(name string, fields ...Field) *Schema {
	typ, _ := json.Marshal("record")
	nm, _ := json.Marshal(name)

	return &Schema{
		Name:   name,
		Fields: slices.Clone(fields),
		members: []member{
			{Key: "type", Value: typ},
			{Key: "name", Value: nm},
			{Key: "fields"},
		},
	}
}

// Parse parses a record schema document.
func Parse(data []byte) (s *Schema, err error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, Error.Wrap(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, Error.New("record schema must be a JSON object")
	}

	s = &Schema{
		raw: slices.Clone(data),
	}

	found := false
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return nil, Error.Wrap(err)
		}

		key, ok := tok.(string)
		if !ok {
			return nil, Error.New("unexpected token: %v", tok)
		}

		var value json.RawMessage
		err = dec.Decode(&value)
		if err != nil {
			return nil, Error.Wrap(err)
		}

		s.members = append(s.members, member{Key: key, Value: value})

		switch key {
		case "fields":
			s.Fields, err = parseFields(value)
			if err != nil {
				return nil, err
			}

			found = true
		case "name":
			// Names are informational; a non-string name is left alone.
			_ = json.Unmarshal(value, &s.Name)
		}
	}

	_, err = dec.Token()
	if err != nil {
		return nil, Error.Wrap(err)
	}

	_, err = dec.Token()
	if !errors.Is(err, io.EOF) {
		return nil, Error.New("trailing data after schema")
	}

	if !found {
		return nil, Error.New("record schema has no fields")
	}

	return s, nil
}

func parseFields(raw json.RawMessage) (fields []Field, err error) {
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return nil, Error.New("fields must be an array")
	}

	var entries []json.RawMessage
	err = json.Unmarshal(raw, &entries)
	if err != nil {
		return nil, Error.Wrap(err)
	}

	fields = make([]Field, 0, len(entries))
	for i, entry := range entries {
		var f struct {
			Name *string         `json:"name"`
			Type json.RawMessage `json:"type"`
		}

		err = json.Unmarshal(entry, &f)
		if err != nil {
			return nil, Error.New("field %d: %v", i, err)
		}
		if f.Name == nil {
			return nil, Error.New("field %d has no name", i)
		}
		if f.Type == nil {
			return nil, Error.New("field %q has no type", *f.Name)
		}

		t, err := parseType(f.Type)
		if err != nil {
			return nil, err
		}

		fields = append(fields, Field{
			Name: *f.Name,
			Type: t,
			Raw:  entry,
		})
	}

	return fields, nil
}

func parseType(raw json.RawMessage) (t Type, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", Error.New("empty type")
	}

	switch raw[0] {
	case '"':
		var name string
		err = json.Unmarshal(raw, &name)
		if err != nil {
			return "", Error.Wrap(err)
		}

		return Type(name), nil
	case '{':
		var obj struct {
			Type json.RawMessage `json:"type"`
		}

		err = json.Unmarshal(raw, &obj)
		if err != nil {
			return "", Error.Wrap(err)
		}
		if obj.Type == nil {
			return "", Error.New("type object has no type: %s", raw)
		}

		return parseType(obj.Type)
	case '[':
		return Union, nil
	}

	return "", Error.New("invalid type: %s", raw)
}

// Validate returns an UnsupportedTypeError for the first field whose type
// cannot be decoded.
func (s *Schema) Validate() error {
	for _, f := range s.Fields {
		if !f.Type.Supported() {
			return UnsupportedTypeError.New("field %q has type %q", f.Name, f.Type)
		}
	}

	return nil
}

// Field returns the named field.
func (s *Schema) Field(name string) (f Field, ok bool) {
	i := slices.IndexFunc(s.Fields, func(f Field) bool {
		return f.Name == name
	})
	if i < 0 {
		return f, false
	}

	return s.Fields[i], true
}

// Names returns the field names in order.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}

	return names
}

// WithFields returns a schema that is identical to s except for its field
// list. If fields names the same fields in the same order, s is returned.
func (s *Schema) WithFields(fields []Field) *Schema {
	if slices.EqualFunc(s.Fields, fields, func(a, b Field) bool {
		return a.Name == b.Name && a.Type == b.Type
	}) {
		return s
	}

	return &Schema{
		Name:    s.Name,
		Fields:  slices.Clone(fields),
		members: s.members,
	}
}

// MarshalJSON implements json.Marshaler.
func (s *Schema) MarshalJSON() ([]byte, error) {
	if s.raw != nil {
		return s.raw, nil
	}

	var buf bytes.Buffer

	buf.WriteByte('{')
	for i, m := range s.members {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(m.Key)
		if err != nil {
			return nil, Error.Wrap(err)
		}

		buf.Write(key)
		buf.WriteByte(':')

		if m.Key != "fields" {
			buf.Write(m.Value)

			continue
		}

		buf.WriteByte('[')
		for j, f := range s.Fields {
			if j > 0 {
				buf.WriteByte(',')
			}

			raw := f.Raw
			if raw == nil {
				raw = NewField(f.Name, f.Type).Raw
			}

			buf.Write(raw)
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}
