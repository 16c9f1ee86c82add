package msgpack

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Hash returns a structural hash of m, consistent with Equal: two Messages
// that compare Equal always hash the same (§3.2 "equality and hashing are
// structural"). Its value is not guaranteed to stay the same across package
// versions — callers needing a stable digest should hash the encoded wire
// bytes directly instead.
func (m Message) Hash() uint64 {
	d := xxhash.New()
	hashMessage(d, m)
	return d.Sum64()
}

// Hash returns a structural hash of m by the same rule as Message.Hash,
// obtained by hashing through the owning conversion so a MessageRef and the
// Message it was decoded from always hash identically.
func (m MessageRef) Hash() uint64 {
	return m.ToOwned().Hash()
}

var hashKindTag = func() [12]byte {
	var tags [12]byte
	for i := range tags {
		tags[i] = byte(i)
	}
	return tags
}()

func hashMessage(d *xxhash.Digest, m Message) {
	// Equal treats a non-negative KindUint and the KindInt of the same value
	// as equal, so both hash through the KindInt branch.
	if m.kind == KindUint && m.u <= math.MaxInt64 {
		m = NewInt(int64(m.u))
	}
	_, _ = d.Write([]byte{hashKindTag[m.kind]})
	var buf [8]byte
	switch m.kind {
	case KindNil:
	case KindBool:
		if m.b {
			_, _ = d.Write([]byte{1})
		} else {
			_, _ = d.Write([]byte{0})
		}
	case KindInt:
		binary.BigEndian.PutUint64(buf[:], uint64(m.i))
		_, _ = d.Write(buf[:])
	case KindUint:
		binary.BigEndian.PutUint64(buf[:], m.u)
		_, _ = d.Write(buf[:])
	case KindFloat32:
		f := m.f32
		if f == 0 {
			f = 0 // +0 and -0 compare Equal
		}
		binary.BigEndian.PutUint32(buf[:4], math.Float32bits(f))
		_, _ = d.Write(buf[:4])
	case KindFloat64:
		f := m.f64
		if f == 0 {
			f = 0 // +0 and -0 compare Equal
		}
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = d.Write(buf[:])
	case KindString:
		_, _ = d.WriteString(m.str)
	case KindBinary:
		_, _ = d.Write(m.bin)
	case KindArray:
		binary.BigEndian.PutUint64(buf[:], uint64(len(m.arr)))
		_, _ = d.Write(buf[:])
		for _, v := range m.arr {
			hashMessage(d, v)
		}
	case KindMap:
		binary.BigEndian.PutUint64(buf[:], uint64(len(m.pair)))
		_, _ = d.Write(buf[:])
		for _, p := range m.pair {
			hashMessage(d, p.Key)
			hashMessage(d, p.Value)
		}
	case KindExtension:
		_, _ = d.Write([]byte{byte(m.ext.Type)})
		_, _ = d.Write(m.ext.Payload)
	case KindTimestamp:
		binary.BigEndian.PutUint64(buf[:], m.ts.Seconds)
		_, _ = d.Write(buf[:])
		binary.BigEndian.PutUint32(buf[:4], m.ts.Nanoseconds)
		_, _ = d.Write(buf[:4])
	}
}
