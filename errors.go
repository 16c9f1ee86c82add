package msgpack

import "errors"

// Error kinds, per the taxonomy in the format specification. These are
// sentinel values; wrap them with additional context via fmt.Errorf's %w or
// github.com/pkg/errors.Wrap as they propagate, and compare with errors.Is.
var (
	// ErrBufferTooShort means a read requested more bytes than were available.
	ErrBufferTooShort = errors.New("msgpack: buffer too short")

	// ErrUnexpectedFormatTag means the tag at the current position does not
	// belong to the set accepted by the requesting decoder.
	ErrUnexpectedFormatTag = errors.New("msgpack: unexpected format tag")

	// ErrInvalidUTF8 means a string body failed UTF-8 validation.
	ErrInvalidUTF8 = errors.New("msgpack: invalid utf-8")

	// ErrInvalidExtension means an extension tag was expected and something
	// else was found, or a reserved subtype's payload had the wrong shape.
	ErrInvalidExtension = errors.New("msgpack: invalid extension")

	// ErrInvalidVariant means a tagged-union discriminant matched no
	// declared variant.
	ErrInvalidVariant = errors.New("msgpack: invalid variant")

	// ErrUnexpectedArrayLength means a fixed-size array decode read a
	// different length than its static width.
	ErrUnexpectedArrayLength = errors.New("msgpack: unexpected array length")

	// ErrNotImplemented means an operation is not supported by this build:
	// UnpackExtension returns it for an ext8/16/32 payload when compiled
	// with the msgpack_allocfree tag.
	ErrNotImplemented = errors.New("msgpack: not implemented")
)
