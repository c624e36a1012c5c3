// Package schema models the record schema carried in the avro.schema entry
// of an object container file.
//
// Only the parts needed to walk records are interpreted: the ordered list of
// fields, each with a name and a type. A field type may be written either as
// a bare name or as an object with a "type" key:
//
//	{"name": "a", "type": "long"}
//	{"name": "a", "type": {"type": "long", "logicalType": "timestamp-millis"}}
//
// Everything else in the schema document is kept verbatim. When a schema is
// re-serialized after its field list changed, top level keys are written in
// their original order and each remaining field keeps its original JSON. An
// unchanged schema serializes to exactly the bytes it was parsed from.
//
// Values of type long and int are zig-zag varints; values of type string are
// length prefixed bytes. Other types parse but cannot be decoded.
package schema
