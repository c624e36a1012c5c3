// Package transform defines how records are rewritten while a container is
// transcoded.
//
// A Transform sees the writer's field list once, when the schema is read, and
// chooses the field list of the output schema. It then sees every decoded
// field of every record and appends whatever bytes should stand for it in the
// output record. The two hooks must agree: a field dropped from the schema
// must also be dropped from the records.
package transform

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/calebcase/ocf/schema"
)

// Transform rewrites a schema and its records.
type Transform interface {
	// FilterFields returns the fields of the output schema given the
	// fields of the input schema.
	FilterFields(fields []schema.Field) []schema.Field

	// ReencodeField appends the output form of one decoded field to dst.
	// Appending nothing drops the field from the record.
	ReencodeField(dst []byte, field schema.Field, v schema.Value) ([]byte, error)
}

// Identity passes schemas and records through unchanged.
type Identity struct{}

var _ Transform = Identity{}

// FilterFields implements Transform.
func (Identity) FilterFields(fields []schema.Field) []schema.Field {
	return fields
}

// ReencodeField implements Transform.
func (Identity) ReencodeField(dst []byte, field schema.Field, v schema.Value) ([]byte, error) {
	return v.Append(dst), nil
}

// Set is a set of field names.
type Set map[string]struct{}

// NewSet returns a set holding names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, name := range names {
		s[name] = struct{}{}
	}

	return s
}

// Has returns true if name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]

	return ok
}

// Names returns the sorted names in the set.
func (s Set) Names() []string {
	names := maps.Keys(s)
	slices.Sort(names)

	return names
}

// Stripper removes a set of fields from the schema and every record.
type Stripper struct {
	Identity

	Fields Set
}

var _ Transform = (*Stripper)(nil)

// Strip returns a Stripper removing the named fields.
func Strip(names ...string) *Stripper {
	return &Stripper{
		Fields: NewSet(names...),
	}
}

// FilterFields implements Transform.
func (s *Stripper) FilterFields(fields []schema.Field) []schema.Field {
	out := make([]schema.Field, 0, len(fields))
	for _, f := range fields {
		if s.Fields.Has(f.Name) {
			continue
		}

		out = append(out, f)
	}

	return out
}

// ReencodeField implements Transform.
func (s *Stripper) ReencodeField(dst []byte, field schema.Field, v schema.Value) ([]byte, error) {
	if s.Fields.Has(field.Name) {
		return dst, nil
	}

	return s.Identity.ReencodeField(dst, field, v)
}

// Keeper removes every field that is not in its set.
type Keeper struct {
	Identity

	Fields Set
}

var _ Transform = (*Keeper)(nil)

// Keep returns a Keeper that keeps only the named fields.
func Keep(names ...string) *Keeper {
	return &Keeper{
		Fields: NewSet(names...),
	}
}

// FilterFields implements Transform.
func (k *Keeper) FilterFields(fields []schema.Field) []schema.Field {
	out := make([]schema.Field, 0, len(fields))
	for _, f := range fields {
		if k.Fields.Has(f.Name) {
			out = append(out, f)
		}
	}

	return out
}

// ReencodeField implements Transform.
func (k *Keeper) ReencodeField(dst []byte, field schema.Field, v schema.Value) ([]byte, error) {
	if !k.Fields.Has(field.Name) {
		return dst, nil
	}

	return k.Identity.ReencodeField(dst, field, v)
}
