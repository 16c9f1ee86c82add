//go:build !msgpack_allocfree

package msgpack

import "github.com/go-msgpacker/msgpacker/format"

// UnpackMsgpack reads one complete value into *m via UnpackMessage,
// satisfying Unpackable — the read-side counterpart to Message.PackMsgpack,
// so the Packable/Unpackable trait pair (§4.8) is actually symmetric for the
// value tree rather than only implementing the write half.
func (m *Message) UnpackMsgpack(src Source) (int, error) {
	n, v, err := UnpackMessage(src)
	if err != nil {
		return 0, err
	}
	*m = v
	return n, nil
}

// UnpackMessage reads one complete value and returns it as an owning
// Message, dispatching on the tag byte per the format tag table (§4.1).
//
// UnpackMessage is only available in the default build: it constructs a
// fully owning tree, which is exactly what §6.5's msgpack_allocfree build
// excludes. Callers compiled with that tag use Walk, which drives a Visitor
// over the input without ever building a Message.
func UnpackMessage(src Source) (int, Message, error) {
	b, err := src.PeekByte()
	if err != nil {
		return 0, Message{}, err
	}
	tag := format.ByteToTag(b)
	switch tag {
	case format.TagUint8, format.TagUint16, format.TagUint32, format.TagUint64:
		n, v, err := UnpackUint64(src)
		return n, NewUint(v), err
	case format.TagPositiveFixInt, format.TagNegativeFixInt,
		format.TagInt8, format.TagInt16, format.TagInt32, format.TagInt64:
		n, v, err := UnpackInt64(src)
		return n, NewInt(v), err
	case format.TagNil:
		n, err := UnpackNil(src)
		return n, NewNil(), err
	case format.TagReserved:
		_, _ = src.ReadByte()
		return 0, Message{}, ErrUnexpectedFormatTag
	case format.TagFalse, format.TagTrue:
		n, v, err := UnpackBool(src)
		return n, NewBool(v), err
	case format.TagBin8, format.TagBin16, format.TagBin32:
		n, v, err := UnpackBinary(src)
		return n, NewBinary(v), err
	case format.TagExt8, format.TagExt16, format.TagExt32,
		format.TagFixExt1, format.TagFixExt2, format.TagFixExt4,
		format.TagFixExt8, format.TagFixExt16:
		n, v, err := UnpackExtension(src)
		if err != nil {
			return 0, Message{}, err
		}
		if ts, ok := v.IsTimestamp(); ok {
			return n, NewTimestamp(ts), nil
		}
		return n, NewExtension(v), nil
	case format.TagFloat32:
		n, v, err := UnpackFloat32(src)
		return n, NewFloat32(v), err
	case format.TagFloat64:
		n, v, err := UnpackFloat64(src)
		return n, NewFloat64(v), err
	case format.TagFixString, format.TagStr8, format.TagStr16, format.TagStr32:
		n, v, err := UnpackString(src)
		return n, NewString(v), err
	case format.TagFixArray, format.TagArray16, format.TagArray32:
		n, v, err := UnpackArray(src, UnpackMessage)
		return n, NewArray(v), err
	case format.TagFixMap, format.TagMap16, format.TagMap32:
		n, v, err := UnpackMap(src, UnpackMessage, UnpackMessage)
		return n, NewMap(v), err
	default:
		return 0, Message{}, ErrUnexpectedFormatTag
	}
}
