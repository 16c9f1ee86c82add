package msgpack

import (
	"github.com/go-msgpacker/msgpacker/format"
)

// Timestamp is a non-negative duration since the Unix epoch, nanosecond
// resolution, carried as the reserved extension subtype -1 (§3.1, §4.7).
type Timestamp struct {
	Seconds     uint64
	Nanoseconds uint32
}

// PackTimestamp writes ts using the smallest of the three timestamp wire
// forms that fits (§4.7):
//
//   - 4-byte payload (fixext4) when seconds fit in 32 bits and there is no
//     fractional part;
//   - 8-byte payload (fixext8), a packed (34-bit seconds, 30-bit nanoseconds)
//     big-endian word, when seconds fit in 34 bits and nanoseconds fit in 30;
//   - 12-byte payload (ext8), 4-byte big-endian nanoseconds followed by
//     8-byte big-endian seconds, otherwise.
func PackTimestamp(sink Sink, ts Timestamp) int {
	switch {
	case ts.Seconds <= 0xffffffff && ts.Nanoseconds == 0:
		_ = sink.WriteByte(format.FixExt4)
		_ = sink.WriteByte(byte(TimestampExtType))
		putUint(sink, 4, ts.Seconds)
		return 6
	case ts.Seconds < (1<<34) && ts.Nanoseconds < (1<<30):
		_ = sink.WriteByte(format.FixExt8)
		_ = sink.WriteByte(byte(TimestampExtType))
		packed := uint64(ts.Nanoseconds)<<34 | ts.Seconds
		putUint(sink, 8, packed)
		return 10
	default:
		_ = sink.WriteByte(format.Ext8)
		_ = sink.WriteByte(12)
		_ = sink.WriteByte(byte(TimestampExtType))
		putUint(sink, 4, uint64(ts.Nanoseconds))
		putUint(sink, 8, ts.Seconds)
		return 15
	}
}

// UnpackTimestamp reads any of the three timestamp wire forms. It fails
// with ErrInvalidExtension if the tag at the current position is not one of
// fixext4/fixext8/ext8-of-length-12-with-type--1.
func UnpackTimestamp(src Source) (int, Timestamp, error) {
	n, ext, err := UnpackExtension(src)
	if err != nil {
		return 0, Timestamp{}, err
	}
	ts, ok := ext.IsTimestamp()
	if !ok {
		return 0, Timestamp{}, ErrInvalidExtension
	}
	return n, ts, nil
}

// encodePayload renders ts as the raw extension payload bytes, choosing the
// same wire form PackTimestamp would, for use by Extension.IsTimestamp's
// counterpart when round-tripping through the generic Extension type.
func (ts Timestamp) encodePayload() []byte {
	sink := NewSink()
	switch {
	case ts.Seconds <= 0xffffffff && ts.Nanoseconds == 0:
		putUint(sink, 4, ts.Seconds)
	case ts.Seconds < (1<<34) && ts.Nanoseconds < (1<<30):
		packed := uint64(ts.Nanoseconds)<<34 | ts.Seconds
		putUint(sink, 8, packed)
	default:
		putUint(sink, 4, uint64(ts.Nanoseconds))
		putUint(sink, 8, ts.Seconds)
	}
	return sink.Bytes()
}
