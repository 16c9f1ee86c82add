package msgpack

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/go-msgpacker/msgpacker/format"
)

// ext128UintType and ext128IntType are the application-defined extension
// types (§4.7) this package uses to carry a Uint128/Int128 whose magnitude
// does not fit any 64-bit wire form. The payload is always the 16-byte
// big-endian concatenation of the high and low halves.
const (
	ext128UintType int8 = 0
	ext128IntType  int8 = 1
)

// PackNil writes the nil marker and returns 1.
func PackNil(sink Sink) int {
	_ = sink.WriteByte(format.Nil)
	return 1
}

// UnpackNil consumes a nil marker.
func UnpackNil(src Source) (int, error) {
	b, err := src.ReadByte()
	if err != nil {
		return 0, err
	}
	if b != format.Nil {
		return 0, ErrUnexpectedFormatTag
	}
	return 1, nil
}

// PackBool writes a boolean as its dedicated one-byte marker.
func PackBool(sink Sink, v bool) int {
	if v {
		_ = sink.WriteByte(format.True)
	} else {
		_ = sink.WriteByte(format.False)
	}
	return 1
}

// UnpackBool reads a boolean marker.
func UnpackBool(src Source) (int, bool, error) {
	b, err := src.ReadByte()
	if err != nil {
		return 0, false, err
	}
	switch b {
	case format.True:
		return 1, true, nil
	case format.False:
		return 1, false, nil
	default:
		return 0, false, ErrUnexpectedFormatTag
	}
}

// PackUint64 encodes v using the narrowest of {fixint, uint8, uint16,
// uint32, uint64} that represents it losslessly (§4.3). All PackUintN
// wrappers below funnel through this, since a narrower-typed value already
// satisfies the same width tests and therefore yields the identical wire
// form a dedicated per-width cascade would.
func PackUint64(sink Sink, v uint64) int {
	switch {
	case v <= format.PositiveFixIntMax:
		_ = sink.WriteByte(byte(v))
		return 1
	case v <= math.MaxUint8:
		_ = sink.WriteByte(format.Uint8)
		_ = sink.WriteByte(byte(v))
		return 2
	case v <= math.MaxUint16:
		_ = sink.WriteByte(format.Uint16)
		putUint(sink, 2, v)
		return 3
	case v <= math.MaxUint32:
		_ = sink.WriteByte(format.Uint32)
		putUint(sink, 4, v)
		return 5
	default:
		_ = sink.WriteByte(format.Uint64)
		putUint(sink, 8, v)
		return 9
	}
}

func PackUint8(sink Sink, v uint8) int   { return PackUint64(sink, uint64(v)) }
func PackUint16(sink Sink, v uint16) int { return PackUint64(sink, uint64(v)) }
func PackUint32(sink Sink, v uint32) int { return PackUint64(sink, uint64(v)) }

// PackInt64 encodes v using the narrowest of {negative fixint, fixint,
// int8, int16, int32, int64} that represents it losslessly (§4.3). Per the
// open question in the format spec's Design Notes, non-negative values above
// the fixint range stay in the signed tag family rather than switching to an
// unsigned tag — both are legal wire forms, and this keeps the choice
// predictable for callers encoding a signed source type.
func PackInt64(sink Sink, v int64) int {
	switch {
	case v < math.MinInt32:
		_ = sink.WriteByte(format.Int64)
		putUint(sink, 8, uint64(v))
		return 9
	case v < math.MinInt16:
		_ = sink.WriteByte(format.Int32)
		putUint(sink, 4, uint64(uint32(v)))
		return 5
	case v < math.MinInt8:
		_ = sink.WriteByte(format.Int16)
		putUint(sink, 2, uint64(uint16(v)))
		return 3
	case v <= -33:
		_ = sink.WriteByte(format.Int8)
		_ = sink.WriteByte(byte(v))
		return 2
	case v <= -1:
		_ = sink.WriteByte(byte(v))
		return 1
	case v <= format.PositiveFixIntMax:
		_ = sink.WriteByte(byte(v))
		return 1
	case v <= math.MaxInt16:
		_ = sink.WriteByte(format.Int16)
		putUint(sink, 2, uint64(uint16(v)))
		return 3
	case v <= math.MaxInt32:
		_ = sink.WriteByte(format.Int32)
		putUint(sink, 4, uint64(uint32(v)))
		return 5
	default:
		_ = sink.WriteByte(format.Int64)
		putUint(sink, 8, uint64(v))
		return 9
	}
}

func PackInt8(sink Sink, v int8) int   { return PackInt64(sink, int64(v)) }
func PackInt16(sink Sink, v int16) int { return PackInt64(sink, int64(v)) }
func PackInt32(sink Sink, v int32) int { return PackInt64(sink, int64(v)) }

// unpackIntLane reads any of the integer-family tags and widens it to a
// 64-bit lane, reporting whether the source tag was signed. The returned raw
// value is the two's-complement bit pattern for signed tags, so callers can
// reinterpret it as either signed or unsigned without another branch (§4.4).
func unpackIntLane(src Source) (n int, raw uint64, signed bool, err error) {
	b, err := src.ReadByte()
	if err != nil {
		return 0, 0, false, err
	}
	if fv, ok := format.IsFixInt(b); ok {
		return 1, uint64(int64(fv)), fv < 0, nil
	}
	switch b {
	case format.Uint8:
		v, err := src.ReadByte()
		if err != nil {
			return 0, 0, false, err
		}
		return 2, uint64(v), false, nil
	case format.Uint16:
		v, err := readUint(src, 2)
		return 3, v, false, err
	case format.Uint32:
		v, err := readUint(src, 4)
		return 5, v, false, err
	case format.Uint64:
		v, err := readUint(src, 8)
		return 9, v, false, err
	case format.Int8:
		v, err := src.ReadByte()
		if err != nil {
			return 0, 0, false, err
		}
		return 2, uint64(int64(int8(v))), true, nil
	case format.Int16:
		v, err := readUint(src, 2)
		return 3, uint64(int64(int16(v))), true, err
	case format.Int32:
		v, err := readUint(src, 4)
		return 5, uint64(int64(int32(v))), true, err
	case format.Int64:
		v, err := readUint(src, 8)
		return 9, v, true, err
	default:
		return 0, 0, false, ErrUnexpectedFormatTag
	}
}

// UnpackUint64 decodes any integer tag, widened to uint64 (§4.4).
func UnpackUint64(src Source) (int, uint64, error) {
	n, raw, _, err := unpackIntLane(src)
	return n, raw, err
}

// UnpackInt64 decodes any integer tag, widened to int64 (§4.4).
func UnpackInt64(src Source) (int, int64, error) {
	n, raw, _, err := unpackIntLane(src)
	return n, int64(raw), err
}

func UnpackUint8(src Source) (int, uint8, error) {
	n, raw, err := UnpackUint64(src)
	return n, uint8(raw), err
}
func UnpackUint16(src Source) (int, uint16, error) {
	n, raw, err := UnpackUint64(src)
	return n, uint16(raw), err
}
func UnpackUint32(src Source) (int, uint32, error) {
	n, raw, err := UnpackUint64(src)
	return n, uint32(raw), err
}
func UnpackInt8(src Source) (int, int8, error) {
	n, raw, err := UnpackInt64(src)
	return n, int8(raw), err
}
func UnpackInt16(src Source) (int, int16, error) {
	n, raw, err := UnpackInt64(src)
	return n, int16(raw), err
}
func UnpackInt32(src Source) (int, int32, error) {
	n, raw, err := UnpackInt64(src)
	return n, int32(raw), err
}

// Uint128 and Int128 carry 128-bit integers as two 64-bit halves, the
// supplemented width named in the original implementation's pack/int.rs and
// unpack/int.rs (u128/i128) but left undetailed by the distilled spec. They
// narrow through the same {fixint..int64/uint64} cascade as the 64-bit
// lanes: a 128-bit value that fits in 64 bits or fewer is never carried in a
// wider wire form than it needs.
type Uint128 struct {
	Hi, Lo uint64
}

type Int128 struct {
	Hi int64
	Lo uint64
}

// PackUint128 encodes u, narrowing to uint64 or smaller whenever Hi is zero.
// Otherwise the full 128-bit magnitude is carried losslessly as a fixext16
// extension (type ext128UintType, payload Hi||Lo big-endian) — there is no
// single MessagePack tag for a 128-bit integer, so this package's own
// extension convention is the only way to avoid truncating it (§3.3
// "lossless").
func PackUint128(sink Sink, u Uint128) int {
	if u.Hi == 0 {
		return PackUint64(sink, u.Lo)
	}
	var payload [16]byte
	binary.BigEndian.PutUint64(payload[:8], u.Hi)
	binary.BigEndian.PutUint64(payload[8:], u.Lo)
	return PackExtension(sink, Extension{Type: ext128UintType, Payload: payload[:]})
}

// UnpackUint128 decodes a value written by PackUint128: either a narrowed
// 64-bit-or-smaller integer tag, or the fixext16 big-integer envelope.
func UnpackUint128(src Source) (int, Uint128, error) {
	b, err := src.PeekByte()
	if err != nil {
		return 0, Uint128{}, err
	}
	if b != format.FixExt16 {
		n, v, err := UnpackUint64(src)
		return n, Uint128{Lo: v}, err
	}
	n, e, err := UnpackExtension(src)
	if err != nil {
		return 0, Uint128{}, err
	}
	if e.Type != ext128UintType || len(e.Payload) != 16 {
		return 0, Uint128{}, ErrInvalidExtension
	}
	return n, Uint128{
		Hi: binary.BigEndian.Uint64(e.Payload[:8]),
		Lo: binary.BigEndian.Uint64(e.Payload[8:]),
	}, nil
}

// PackInt128 encodes v, narrowing to int64 or smaller whenever it fits (Hi
// is the canonical sign-extension of Lo's top bit). Otherwise the full
// 128-bit magnitude is carried losslessly as a fixext16 extension (type
// ext128IntType, payload Hi||Lo big-endian), the signed counterpart of
// PackUint128's envelope.
func PackInt128(sink Sink, v Int128) int {
	if (v.Hi == 0 && v.Lo <= math.MaxInt64) || (v.Hi == -1 && v.Lo > math.MaxInt64) {
		return PackInt64(sink, int64(v.Lo))
	}
	var payload [16]byte
	binary.BigEndian.PutUint64(payload[:8], uint64(v.Hi))
	binary.BigEndian.PutUint64(payload[8:], v.Lo)
	return PackExtension(sink, Extension{Type: ext128IntType, Payload: payload[:]})
}

// UnpackInt128 decodes a value written by PackInt128: either a narrowed
// 64-bit-or-smaller integer tag, or the fixext16 big-integer envelope.
func UnpackInt128(src Source) (int, Int128, error) {
	b, err := src.PeekByte()
	if err != nil {
		return 0, Int128{}, err
	}
	if b != format.FixExt16 {
		n, v, err := UnpackInt64(src)
		hi := int64(0)
		if v < 0 {
			hi = -1
		}
		return n, Int128{Hi: hi, Lo: uint64(v)}, err
	}
	n, e, err := UnpackExtension(src)
	if err != nil {
		return 0, Int128{}, err
	}
	if e.Type != ext128IntType || len(e.Payload) != 16 {
		return 0, Int128{}, ErrInvalidExtension
	}
	return n, Int128{
		Hi: int64(binary.BigEndian.Uint64(e.Payload[:8])),
		Lo: binary.BigEndian.Uint64(e.Payload[8:]),
	}, nil
}

// PackFloat32 writes a 32-bit float tag and payload. Floats never narrow
// (§3.3): a float32 is always carried as float32, never promoted or demoted.
func PackFloat32(sink Sink, v float32) int {
	_ = sink.WriteByte(format.Float32)
	putUint(sink, 4, uint64(math.Float32bits(v)))
	return 5
}

// PackFloat64 writes a 64-bit float tag and payload.
func PackFloat64(sink Sink, v float64) int {
	_ = sink.WriteByte(format.Float64)
	putUint(sink, 8, math.Float64bits(v))
	return 9
}

func UnpackFloat32(src Source) (int, float32, error) {
	b, err := src.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	if b != format.Float32 {
		return 0, 0, ErrUnexpectedFormatTag
	}
	bits, err := readUint(src, 4)
	if err != nil {
		return 0, 0, err
	}
	return 5, math.Float32frombits(uint32(bits)), nil
}

func UnpackFloat64(src Source) (int, float64, error) {
	b, err := src.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	if b != format.Float64 {
		return 0, 0, ErrUnexpectedFormatTag
	}
	bits, err := readUint(src, 8)
	if err != nil {
		return 0, 0, err
	}
	return 9, math.Float64frombits(bits), nil
}

// strLenSize returns the number of header bytes needed to carry a string of
// length n: 1 for the fixstr form, otherwise 2/3/5 for str8/16/32.
func strLenSize(n int) int {
	switch {
	case n <= 31:
		return 1
	case n <= math.MaxUint8:
		return 2
	case n <= math.MaxUint16:
		return 3
	default:
		return 5
	}
}

// PackString writes s using the smallest length-prefixed string form that
// fits its byte length (§4.5).
func PackString(sink Sink, s string) int {
	n := len(s)
	switch {
	case n <= 31:
		_ = sink.WriteByte(format.EncodeFixString(n))
		_, _ = sink.Write([]byte(s))
		return 1 + n
	case n <= math.MaxUint8:
		_ = sink.WriteByte(format.Str8)
		_ = sink.WriteByte(byte(n))
		_, _ = sink.Write([]byte(s))
		return 2 + n
	case n <= math.MaxUint16:
		_ = sink.WriteByte(format.Str16)
		putUint(sink, 2, uint64(n))
		_, _ = sink.Write([]byte(s))
		return 3 + n
	case uint64(n) <= math.MaxUint32:
		_ = sink.WriteByte(format.Str32)
		putUint(sink, 4, uint64(n))
		_, _ = sink.Write([]byte(s))
		return 5 + n
	default:
		return handleOverflow("string length")
	}
}

// UnpackString reads a length-prefixed string and verifies it is valid
// UTF-8, per §4.5 and §8 property 5.
func UnpackString(src Source) (int, string, error) {
	n, raw, err := unpackStringBytes(src)
	if err != nil {
		return 0, "", err
	}
	if !utf8.Valid(raw) {
		return 0, "", ErrInvalidUTF8
	}
	return n, string(raw), nil
}

func unpackStringBytes(src Source) (int, []byte, error) {
	b, err := src.ReadByte()
	if err != nil {
		return 0, nil, err
	}
	var length, headerLen int
	switch {
	case b&0xe0 == format.FixStrMask:
		length = format.FixStrLen(b)
		headerLen = 1
	case b == format.Str8:
		ln, err := src.ReadByte()
		if err != nil {
			return 0, nil, err
		}
		length, headerLen = int(ln), 2
	case b == format.Str16:
		ln, err := readUint(src, 2)
		if err != nil {
			return 0, nil, err
		}
		length, headerLen = int(ln), 3
	case b == format.Str32:
		ln, err := readUint(src, 4)
		if err != nil {
			return 0, nil, err
		}
		length, headerLen = int(ln), 5
	default:
		return 0, nil, ErrUnexpectedFormatTag
	}
	body, err := src.ReadN(length)
	if err != nil {
		return 0, nil, err
	}
	return headerLen + length, body, nil
}

// PackBinary writes raw bytes using the smallest bin8/16/32 form (§4.5).
// Binary never uses the fixstr form; there is no "fixbin".
func PackBinary(sink Sink, b []byte) int {
	n := len(b)
	switch {
	case n <= math.MaxUint8:
		_ = sink.WriteByte(format.Bin8)
		_ = sink.WriteByte(byte(n))
		_, _ = sink.Write(b)
		return 2 + n
	case n <= math.MaxUint16:
		_ = sink.WriteByte(format.Bin16)
		putUint(sink, 2, uint64(n))
		_, _ = sink.Write(b)
		return 3 + n
	case uint64(n) <= math.MaxUint32:
		_ = sink.WriteByte(format.Bin32)
		putUint(sink, 4, uint64(n))
		_, _ = sink.Write(b)
		return 5 + n
	default:
		return handleOverflow("binary length")
	}
}

// UnpackBinary reads a length-prefixed byte string. Unlike strings, the
// body is never UTF-8 validated (§8 property 5).
func UnpackBinary(src Source) (int, []byte, error) {
	b, err := src.ReadByte()
	if err != nil {
		return 0, nil, err
	}
	var length, headerLen int
	switch b {
	case format.Bin8:
		ln, err := src.ReadByte()
		if err != nil {
			return 0, nil, err
		}
		length, headerLen = int(ln), 2
	case format.Bin16:
		ln, err := readUint(src, 2)
		if err != nil {
			return 0, nil, err
		}
		length, headerLen = int(ln), 3
	case format.Bin32:
		ln, err := readUint(src, 4)
		if err != nil {
			return 0, nil, err
		}
		length, headerLen = int(ln), 5
	default:
		return 0, nil, ErrUnexpectedFormatTag
	}
	body, err := src.ReadN(length)
	if err != nil {
		return 0, nil, err
	}
	return headerLen + length, body, nil
}

// PackRune encodes a single Unicode scalar value as its UTF-8 byte sequence
// wrapped in the string form (the original implementation's "char" codec;
// see SPEC_FULL.md §4 supplemented features). A rune is never wire-distinct
// from a one-to-four-byte string.
func PackRune(sink Sink, r rune) int {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	return PackString(sink, string(buf[:n]))
}

// UnpackRune reads a string tag expected to hold exactly one Unicode scalar
// value.
func UnpackRune(src Source) (int, rune, error) {
	n, s, err := UnpackString(src)
	if err != nil {
		return 0, 0, err
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return 0, 0, ErrInvalidUTF8
	}
	return n, r, nil
}
