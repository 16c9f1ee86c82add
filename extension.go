package msgpack

import (
	"math"

	"github.com/go-msgpacker/msgpacker/format"
)

// TimestampExtType is the reserved extension type tag for timestamps (§4.7).
const TimestampExtType int8 = -1

// Extension is an application-defined type-and-payload pair (§3.1, §4.7).
// Negative type tags are reserved by the specification; TimestampExtType is
// the one reserved subtype this package itself interprets.
type Extension struct {
	Type    int8
	Payload []byte
}

// PackExtension writes e using the smallest of the eight wire forms that
// fits its payload length (§4.7): fixext1/2/4/8/16 for those exact lengths,
// otherwise ext8/16/32.
func PackExtension(sink Sink, e Extension) int {
	n := len(e.Payload)
	switch n {
	case 1:
		_ = sink.WriteByte(format.FixExt1)
		_ = sink.WriteByte(byte(e.Type))
		_, _ = sink.Write(e.Payload)
		return 3
	case 2:
		_ = sink.WriteByte(format.FixExt2)
		_ = sink.WriteByte(byte(e.Type))
		_, _ = sink.Write(e.Payload)
		return 4
	case 4:
		_ = sink.WriteByte(format.FixExt4)
		_ = sink.WriteByte(byte(e.Type))
		_, _ = sink.Write(e.Payload)
		return 6
	case 8:
		_ = sink.WriteByte(format.FixExt8)
		_ = sink.WriteByte(byte(e.Type))
		_, _ = sink.Write(e.Payload)
		return 10
	case 16:
		_ = sink.WriteByte(format.FixExt16)
		_ = sink.WriteByte(byte(e.Type))
		_, _ = sink.Write(e.Payload)
		return 18
	}
	switch {
	case n <= math.MaxUint8:
		_ = sink.WriteByte(format.Ext8)
		_ = sink.WriteByte(byte(n))
		_ = sink.WriteByte(byte(e.Type))
		_, _ = sink.Write(e.Payload)
		return 3 + n
	case n <= math.MaxUint16:
		_ = sink.WriteByte(format.Ext16)
		putUint(sink, 2, uint64(n))
		_ = sink.WriteByte(byte(e.Type))
		_, _ = sink.Write(e.Payload)
		return 4 + n
	case uint64(n) <= math.MaxUint32:
		_ = sink.WriteByte(format.Ext32)
		putUint(sink, 4, uint64(n))
		_ = sink.WriteByte(byte(e.Type))
		_, _ = sink.Write(e.Payload)
		return 6 + n
	default:
		return handleOverflow("extension length")
	}
}

// UnpackExtension reads an extension header and payload. If the decoded
// shape matches the reserved timestamp subtype (type -1, and a fixext4,
// fixext8, or 12-byte ext8 payload), it is decoded as a Timestamp and
// returned as an Extension of type -1 whose payload is that Timestamp
// re-encoded in its smallest form; callers recover the Timestamp with
// Extension.IsTimestamp.
func UnpackExtension(src Source) (int, Extension, error) {
	b, err := src.ReadByte()
	if err != nil {
		return 0, Extension{}, err
	}
	switch b {
	case format.FixExt1:
		t, err := src.ReadByte()
		if err != nil {
			return 0, Extension{}, err
		}
		payload, err := src.ReadN(1)
		if err != nil {
			return 0, Extension{}, err
		}
		return 3, Extension{Type: int8(t), Payload: clone(payload)}, nil
	case format.FixExt2:
		return unpackExtFixed(src, 2)
	case format.FixExt4:
		t, err := src.ReadByte()
		if err != nil {
			return 0, Extension{}, err
		}
		if int8(t) == TimestampExtType {
			secs, err := readUint(src, 4)
			if err != nil {
				return 0, Extension{}, err
			}
			return 6, extensionFromTimestamp(Timestamp{Seconds: secs}), nil
		}
		payload, err := src.ReadN(4)
		if err != nil {
			return 0, Extension{}, err
		}
		return 6, Extension{Type: int8(t), Payload: clone(payload)}, nil
	case format.FixExt8:
		t, err := src.ReadByte()
		if err != nil {
			return 0, Extension{}, err
		}
		if int8(t) == TimestampExtType {
			data, err := readUint(src, 8)
			if err != nil {
				return 0, Extension{}, err
			}
			nanos := uint32(data >> 34)
			secs := data & ((1 << 34) - 1)
			return 10, extensionFromTimestamp(Timestamp{Seconds: secs, Nanoseconds: nanos}), nil
		}
		payload, err := src.ReadN(8)
		if err != nil {
			return 0, Extension{}, err
		}
		return 10, Extension{Type: int8(t), Payload: clone(payload)}, nil
	case format.FixExt16:
		return unpackExtFixed(src, 16)
	case format.Ext8:
		ln, err := src.ReadByte()
		if err != nil {
			return 0, Extension{}, err
		}
		t, err := src.ReadByte()
		if err != nil {
			return 0, Extension{}, err
		}
		length := int(ln)
		if length == 12 && int8(t) == TimestampExtType {
			nanos, err := readUint(src, 4)
			if err != nil {
				return 0, Extension{}, err
			}
			secs, err := readUint(src, 8)
			if err != nil {
				return 0, Extension{}, err
			}
			return 15, extensionFromTimestamp(Timestamp{Seconds: secs, Nanoseconds: uint32(nanos)}), nil
		}
		payload, err := readExtPayload(src, length)
		if err != nil {
			return 0, Extension{}, err
		}
		return 3 + length, Extension{Type: int8(t), Payload: payload}, nil
	case format.Ext16:
		n, err := readUint(src, 2)
		if err != nil {
			return 0, Extension{}, err
		}
		t, err := src.ReadByte()
		if err != nil {
			return 0, Extension{}, err
		}
		payload, err := readExtPayload(src, int(n))
		if err != nil {
			return 0, Extension{}, err
		}
		return 4 + int(n), Extension{Type: int8(t), Payload: payload}, nil
	case format.Ext32:
		n, err := readUint(src, 4)
		if err != nil {
			return 0, Extension{}, err
		}
		t, err := src.ReadByte()
		if err != nil {
			return 0, Extension{}, err
		}
		payload, err := readExtPayload(src, int(n))
		if err != nil {
			return 0, Extension{}, err
		}
		return 6 + int(n), Extension{Type: int8(t), Payload: payload}, nil
	default:
		return 0, Extension{}, ErrInvalidExtension
	}
}

func unpackExtFixed(src Source, n int) (int, Extension, error) {
	t, err := src.ReadByte()
	if err != nil {
		return 0, Extension{}, err
	}
	payload, err := src.ReadN(n)
	if err != nil {
		return 0, Extension{}, err
	}
	return 2 + n, Extension{Type: int8(t), Payload: clone(payload)}, nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// extensionFromTimestamp packages a decoded Timestamp as an Extension so
// UnpackExtension has a uniform return type; callers that want the
// Timestamp directly should call UnpackTimestamp, which performs the same
// dispatch but returns the typed value.
func extensionFromTimestamp(ts Timestamp) Extension {
	return Extension{Type: TimestampExtType, Payload: ts.encodePayload()}
}

// IsTimestamp reports whether e is the reserved timestamp encoding (type -1
// with a 4, 8, or 12 byte payload) and, if so, decodes it.
func (e Extension) IsTimestamp() (Timestamp, bool) {
	if e.Type != TimestampExtType {
		return Timestamp{}, false
	}
	switch len(e.Payload) {
	case 4:
		return Timestamp{Seconds: uint64(beUint32(e.Payload))}, true
	case 8:
		data := beUint64(e.Payload)
		return Timestamp{Seconds: data & ((1 << 34) - 1), Nanoseconds: uint32(data >> 34)}, true
	case 12:
		nanos := beUint32(e.Payload[:4])
		secs := beUint64(e.Payload[4:])
		return Timestamp{Seconds: secs, Nanoseconds: nanos}, true
	default:
		return Timestamp{}, false
	}
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func beUint64(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}
