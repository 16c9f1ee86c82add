package msgpack

// Kind identifies which alternative of the value universe a Message or
// MessageRef currently holds (§3.1).
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat32
	KindFloat64
	KindString
	KindBinary
	KindArray
	KindMap
	KindExtension
	KindTimestamp
)

// Message is the owning value tree (§3.2): its strings, bytes, arrays, and
// maps are heap-allocated and independent of any input buffer. It is the
// tree callers construct by hand or obtain from the owning decoder.
type Message struct {
	kind Kind

	b    bool
	i    int64
	u    uint64
	f32  float32
	f64  float64
	str  string
	bin  []byte
	arr  []Message
	pair []Pair[Message, Message]
	ext  Extension
	ts   Timestamp
}

func NewNil() Message             { return Message{kind: KindNil} }
func NewBool(v bool) Message      { return Message{kind: KindBool, b: v} }
func NewInt(v int64) Message      { return Message{kind: KindInt, i: v} }
func NewUint(v uint64) Message    { return Message{kind: KindUint, u: v} }
func NewFloat32(v float32) Message { return Message{kind: KindFloat32, f32: v} }
func NewFloat64(v float64) Message { return Message{kind: KindFloat64, f64: v} }
func NewString(v string) Message  { return Message{kind: KindString, str: v} }
func NewBinary(v []byte) Message  { return Message{kind: KindBinary, bin: v} }
func NewArray(v []Message) Message { return Message{kind: KindArray, arr: v} }
func NewMap(v []Pair[Message, Message]) Message {
	return Message{kind: KindMap, pair: v}
}
func NewExtension(v Extension) Message { return Message{kind: KindExtension, ext: v} }
func NewTimestamp(v Timestamp) Message { return Message{kind: KindTimestamp, ts: v} }

// Kind reports which alternative m holds.
func (m Message) Kind() Kind { return m.kind }

func (m Message) AsBool() (bool, bool)           { return m.b, m.kind == KindBool }
func (m Message) AsInt() (int64, bool)           { return m.i, m.kind == KindInt }
func (m Message) AsUint() (uint64, bool)         { return m.u, m.kind == KindUint }
func (m Message) AsFloat32() (float32, bool)     { return m.f32, m.kind == KindFloat32 }
func (m Message) AsFloat64() (float64, bool)     { return m.f64, m.kind == KindFloat64 }
func (m Message) AsString() (string, bool)       { return m.str, m.kind == KindString }
func (m Message) AsBinary() ([]byte, bool)       { return m.bin, m.kind == KindBinary }
func (m Message) AsArray() ([]Message, bool)     { return m.arr, m.kind == KindArray }
func (m Message) AsMap() ([]Pair[Message, Message], bool) {
	return m.pair, m.kind == KindMap
}
func (m Message) AsExtension() (Extension, bool) { return m.ext, m.kind == KindExtension }
func (m Message) AsTimestamp() (Timestamp, bool) { return m.ts, m.kind == KindTimestamp }

// packMessage adapts Message.PackMsgpack to the (Sink, T) int shape the
// composite helpers expect.
func packMessage(sink Sink, m Message) int { return m.PackMsgpack(sink) }

// PackMsgpack encodes m, dispatching on its kind. It satisfies Packable.
func (m Message) PackMsgpack(sink Sink) int {
	switch m.kind {
	case KindNil:
		return PackNil(sink)
	case KindBool:
		return PackBool(sink, m.b)
	case KindInt:
		return PackInt64(sink, m.i)
	case KindUint:
		return PackUint64(sink, m.u)
	case KindFloat32:
		return PackFloat32(sink, m.f32)
	case KindFloat64:
		return PackFloat64(sink, m.f64)
	case KindString:
		return PackString(sink, m.str)
	case KindBinary:
		return PackBinary(sink, m.bin)
	case KindArray:
		return PackSlice(sink, m.arr, packMessage)
	case KindMap:
		return PackPairs(sink, m.pair, packMessage, packMessage)
	case KindExtension:
		return PackExtension(sink, m.ext)
	case KindTimestamp:
		return PackTimestamp(sink, m.ts)
	default:
		panic("msgpack: Message: invalid kind")
	}
}

// Equal reports whether m and other are structurally equal (§3.2): same
// kind, same value, maps compared element-wise as ordered sequences (not as
// sets), consistent with how duplicate keys are preserved rather than
// deduplicated. Integers are the one exception to "same kind": a KindInt
// and a KindUint are equal when they hold the same numeric value, since both
// lanes carry one logical integer and share the same wire form. As with
// ordinary float comparison, NaN is never equal to itself.
func (m Message) Equal(other Message) bool {
	if m.kind != other.kind {
		switch {
		case m.kind == KindInt && other.kind == KindUint:
			return m.i >= 0 && uint64(m.i) == other.u
		case m.kind == KindUint && other.kind == KindInt:
			return other.i >= 0 && uint64(other.i) == m.u
		}
		return false
	}
	switch m.kind {
	case KindNil:
		return true
	case KindBool:
		return m.b == other.b
	case KindInt:
		return m.i == other.i
	case KindUint:
		return m.u == other.u
	case KindFloat32:
		return m.f32 == other.f32
	case KindFloat64:
		return m.f64 == other.f64
	case KindString:
		return m.str == other.str
	case KindBinary:
		return bytesEqual(m.bin, other.bin)
	case KindArray:
		if len(m.arr) != len(other.arr) {
			return false
		}
		for i := range m.arr {
			if !m.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(m.pair) != len(other.pair) {
			return false
		}
		for i := range m.pair {
			if !m.pair[i].Key.Equal(other.pair[i].Key) || !m.pair[i].Value.Equal(other.pair[i].Value) {
				return false
			}
		}
		return true
	case KindExtension:
		return m.ext.Type == other.ext.Type && bytesEqual(m.ext.Payload, other.ext.Payload)
	case KindTimestamp:
		return m.ts == other.ts
	default:
		return false
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
