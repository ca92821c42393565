// Package flatbin encodes JSON-shaped documents into a dense binary form
// driven entirely by an out-of-band schema: no field names, no type tags,
// no self-description ever reach the bytes. The same schema also supports
// structural slicing, locating the byte span of one nested element or field
// in O(path length) without decoding anything else.
//
// The three protocol entry points are:
//
//   - Encode(ty, value)       -> bytes
//   - Decode(ty, bytes)       -> value
//   - Locate(ty, bytes, path) -> (sub-schema, byte range)
//
// Everything else (Ty construction, the Value tree, Path parsing) is
// supporting data for these three.
//
// Design policy:
//   - Keep the codec core in the root package; put builders under dsl/, text
//     bridges under source/ and transcode/, descriptor loading under
//     schemafile/, and the CLI under cmd/flatbin.
//   - Schemas and encoded buffers are immutable after production and safe for
//     unlimited concurrent readers; no operation holds state between calls.
//   - Errors are fail-fast Issue values carrying a stable code and a JSON
//     Pointer to the offending node.
//
// Wire layout (little-endian throughout):
//
//	null              (no bytes)
//	bool              1 byte, 0 or 1
//	int               8-byte two's complement
//	float             8-byte IEEE 754 double bits
//	string            u32 length, then the text bytes
//	array<fixed T>    u32 count, then count back-to-back elements
//	array<dynamic T>  u32 count, count+1 u32 offsets, then element bytes;
//	                  offsets are relative to the byte after the table
//	fixed object      field bytes in schema order, no framing
//	dynamic object    fixed prefix fields inline, then one u32 offset per
//	                  dynamic-or-later field, then those fields' bytes
//
// A buffer is meaningless without the Ty that produced it; pairing a buffer
// with the wrong schema yields truncated_buffer/invalid_encoding errors at
// best and silently wrong values at worst, exactly as with any
// schema-external format.
package flatbin
