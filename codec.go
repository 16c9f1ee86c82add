// Package msgpack implements the MessagePack wire format: encoding and
// decoding of the fixed universe of dynamically-typed values (nil, bool,
// integers, floats, strings, binary, arrays, maps, extensions, timestamps)
// to and from a byte stream.
//
// The package is a pure codec. It keeps no state between calls, acquires no
// resources, and is safe to use concurrently from independent goroutines so
// long as each call operates on its own Sink/Source.
package msgpack

import "bytes"

// Sink is anything that accepts a stream of bytes — the target of encoding.
// *bytes.Buffer satisfies it directly, which is the common case; Packable
// implementations should not assume more than this interface offers.
type Sink interface {
	WriteByte(c byte) error
	Write(p []byte) (int, error)
}

// NewSink returns a Sink backed by a fresh, empty buffer.
func NewSink() *bytes.Buffer { return new(bytes.Buffer) }

// Packable is implemented by values that know how to write themselves to a
// Sink. It is the composite-layer half of the format's two core traits; most
// primitive types are instead packed through the free PackXxx functions in
// primitives.go, since Go cannot attach methods to builtin types.
type Packable interface {
	// PackMsgpack writes the value to sink and returns the number of bytes
	// written.
	PackMsgpack(sink Sink) int
}

// Unpackable is implemented by pointer receivers that know how to read
// themselves from a Source. UnpackMsgpack returns the number of bytes
// consumed.
type Unpackable interface {
	UnpackMsgpack(src Source) (int, error)
}

// Source abstracts a byte-producer a decoder reads from: either a slice
// cursor (the fast path, returns borrowed sub-slices) or an iterator cursor
// (reads lazily from a byte-producing function, always returns owned
// copies). Both report ErrBufferTooShort when a requested read runs past the
// end of the input.
type Source interface {
	// ReadByte consumes and returns a single byte.
	ReadByte() (byte, error)
	// ReadN consumes and returns exactly n bytes. The slice cursor returns a
	// sub-slice of its backing array; the iterator cursor always returns a
	// freshly allocated copy.
	ReadN(n int) ([]byte, error)
	// Borrowed reports whether ReadN's return value aliases external
	// storage (true for the slice cursor) or is an owned copy (iterator
	// cursor). Callers that need to retain a value beyond the lifetime of
	// the input buffer must copy when Borrowed is true.
	Borrowed() bool
	// PeekByte returns the next byte without consuming it. Used by Option
	// decoding to distinguish a Nil tag from a present value before
	// committing to either branch.
	PeekByte() (byte, error)
}

// Pack encodes v to a fresh buffer and returns the bytes written alongside
// the encoded bytes. It is the slice-producing convenience wrapper around
// v.PackMsgpack.
func Pack(v Packable) (int, []byte) {
	sink := NewSink()
	n := v.PackMsgpack(sink)
	return n, sink.Bytes()
}

// UnpackInto decodes into v from data using the slice fast path, delegating
// to v.UnpackMsgpack. *Message and *MessageRef are the two Unpackable
// implementers in this package (unpack_message_alloc.go, value_ref.go); derive's generated
// types and callers' own Unpackable implementations work the same way.
func UnpackInto(v Unpackable, data []byte) (int, error) {
	return v.UnpackMsgpack(NewSliceSource(data))
}

// UnpackIterInto decodes into v from a lazy byte source using the iterator
// path. next should return (byte, false) once exhausted.
func UnpackIterInto(v Unpackable, next func() (byte, bool)) (int, error) {
	return v.UnpackMsgpack(NewIterSource(next))
}
