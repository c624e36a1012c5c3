// Package container transcodes Avro object container files incrementally.
//
// An object container file is laid out as:
//
//  | header magic | file metadata | sync | block | sync | block | sync | ...
//
//  | Part          | Encoding                                                          |
//  |---------------|-------------------------------------------------------------------|
//  | header magic  | the 4 bytes "Obj" 0x01                                            |
//  | file metadata | map of bytes: blocks of (count, count x (key, value)), ended by 0 |
//  | sync          | 16 bytes chosen by the writer, identical throughout the file      |
//  | block         | long object count, long byte size, size bytes of payload          |
//
// A negative metadata count is followed by a long giving the byte size of
// the entries in that map block. The entries "avro.schema" (the JSON record
// schema) and "avro.codec" (the block compression) are interpreted; all
// other entries are opaque.
//
// Block payloads are compressed with the file codec:
//
//  | Codec     | Payload                                                        |
//  |-----------|----------------------------------------------------------------|
//  | null      | the records as is                                              |
//  | snappy    | snappy block of the records, then big endian CRC-32 of records |
//  | zstandard | zstandard frame of the records                                 |
//  | deflate   | not supported                                                  |
//
// A Transcoder walks this layout over a chunked Source, one part at a time.
// Each step either completes a part and produces the bytes that replace it,
// or reports that more input is needed. Nothing is consumed from the input
// until a part is complete, so a step cut short by the end of a chunk is
// simply run again once the next chunk has arrived. The produced chunks,
// concatenated, form a valid object container file in which each record was
// passed through a transform.Transform and each block was recompressed and
// re-checksummed.
package container
