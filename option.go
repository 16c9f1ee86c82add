package msgpack

// Option represents an option-like sum carrier: either Some(value) or None.
// It packs as Nil when absent and as the wrapped value's own encoding when
// present — there is no separate "option" tag on the wire, matching how the
// format represents absence uniformly via the Nil marker.
type Option[T any] struct {
	Value T
	Valid bool
}

// Some constructs a present Option.
func Some[T any](v T) Option[T] { return Option[T]{Value: v, Valid: true} }

// None constructs an absent Option.
func None[T any]() Option[T] { return Option[T]{} }

// PackOption writes o, delegating to packOne when present.
func PackOption[T any](sink Sink, o Option[T], packOne func(Sink, T) int) int {
	if !o.Valid {
		return PackNil(sink)
	}
	return packOne(sink, o.Value)
}

// UnpackOption reads an Option: a Nil tag yields None, any other tag is
// handed to unpackOne. The tag is only peeked, never consumed, until the
// branch is decided, so unpackOne sees the same Source state it would if it
// had been called directly.
func UnpackOption[T any](src Source, unpackOne func(Source) (int, T, error)) (int, Option[T], error) {
	b, err := src.PeekByte()
	if err != nil {
		return 0, Option[T]{}, err
	}
	if b == nilByte {
		n, err := UnpackNil(src)
		if err != nil {
			return 0, Option[T]{}, err
		}
		return n, None[T](), nil
	}
	n, v, err := unpackOne(src)
	if err != nil {
		return 0, Option[T]{}, err
	}
	return n, Some(v), nil
}

const nilByte = 0xc0

// Result represents a result-like sum carrier: Ok(value) or Err(message).
// It is encoded as a two-element fixed array: [0, value] for Ok, [1,
// message] for Err, the same discriminant-prefixed shape the derivation
// engine uses for tagged unions (§4.9), specialized to this one built-in
// two-variant case.
type Result[T any] struct {
	value T
	err   string
	isOk  bool
}

// Ok constructs a successful Result.
func Ok[T any](v T) Result[T] { return Result[T]{value: v, isOk: true} }

// Err constructs a failed Result carrying msg as its error text.
func Err[T any](msg string) Result[T] { return Result[T]{err: msg} }

// IsOk reports whether r holds a value.
func (r Result[T]) IsOk() bool { return r.isOk }

// Value returns the held value and true, or the zero value and false.
func (r Result[T]) Value() (T, bool) { return r.value, r.isOk }

// ErrMessage returns the held error text, if any.
func (r Result[T]) ErrMessage() string { return r.err }

// PackResult writes r as a discriminant-prefixed fixed array of length 2.
func PackResult[T any](sink Sink, r Result[T], packOne func(Sink, T) int) int {
	_ = sink.WriteByte(0x92) // fixarray, length 2
	n := 1
	if r.isOk {
		n += PackUint64(sink, 0)
		n += packOne(sink, r.value)
	} else {
		n += PackUint64(sink, 1)
		n += PackString(sink, r.err)
	}
	return n
}

// UnpackResult reads a discriminant-prefixed two-element array back into a
// Result.
func UnpackResult[T any](src Source, unpackOne func(Source) (int, T, error)) (int, Result[T], error) {
	b, err := src.ReadByte()
	if err != nil {
		return 0, Result[T]{}, err
	}
	if b != 0x92 {
		return 0, Result[T]{}, ErrUnexpectedFormatTag
	}
	total := 1
	n, disc, err := UnpackUint64(src)
	if err != nil {
		return 0, Result[T]{}, err
	}
	total += n
	switch disc {
	case 0:
		n, v, err := unpackOne(src)
		if err != nil {
			return 0, Result[T]{}, err
		}
		return total + n, Ok(v), nil
	case 1:
		n, msg, err := UnpackString(src)
		if err != nil {
			return 0, Result[T]{}, err
		}
		return total + n, Err[T](msg), nil
	default:
		return 0, Result[T]{}, ErrInvalidVariant
	}
}
