// Package core provides the PDF object model and the pure functions that
// parse it out of an in-memory buffer.
//
// # Object Types
//
// Every value satisfies the [Object] interface:
//
//   - [Null], [Bool], [Int], [Real] - typed scalars
//   - [RawToken] - scalar text the parser left untyped; see [Interpret]
//   - [String] - a literal or hexadecimal string with its decoded bytes
//   - [Name] - a name such as /Type, stored without the slash
//   - [Array] - an ordered list of objects
//   - [Dict] - an ordered list of key/value entries; duplicate keys are
//     kept and [Dict.Lookup] returns the first
//   - [IndirectRef] - an "N G R" reference, never resolved eagerly
//
// # Parsing
//
// [ParseValue] classifies a span by its leading character and parses it
// recursively. Nesting is handled with delimiter-depth counting that skips
// string interiors, so a literal such as (a]b) never ends an array early.
// Malformed fragments degrade to a [RawToken] instead of failing.
//
// [DecodeString], [ParseDict] and [ParseArray] are the typed entry points
// used by ParseValue.
//
// # Objects and Streams
//
// [ScanObjects] finds every "N G obj ... endobj" span by scanning the buffer
// linearly; the cross-reference table is not used. [DecodeStream] inflates
// an object's Flate stream, and [ObjectStream] unpacks /Type /ObjStm
// containers.
package core
