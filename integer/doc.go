// Package integer implements the Avro long encoding.
//
// Longs (and ints, which share the wire form) are written as zig-zag,
// base-128, little endian variable length integers. The zig-zag step maps
// signed values onto unsigned ones so that small magnitudes stay short:
//
//  | value | zig-zag | bytes                  |
//  |-------|---------|------------------------|
//  |     0 |       0 | 0b0000_0000            |
//  |    -1 |       1 | 0b0000_0001            |
//  |     1 |       2 | 0b0000_0010            |
//  |   -64 |     127 | 0b0111_1111            |
//  |    64 |     128 | 0b1000_0000 0b0000_0001 |
//
// Each byte carries 7 bits of the value, least significant group first. The
// top bit of a byte is set when another byte follows. A 64 bit value needs at
// most 10 bytes.
//
// Decoding is incremental friendly: when the terminating byte has not been
// seen yet Decode reports zero bytes consumed so the caller can wait for more
// input and try again.
package integer
