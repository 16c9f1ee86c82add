package msgpack

import "github.com/go-msgpacker/msgpacker/format"

// MessageRef is the borrowing value tree (§3.2): its Binary leaves are
// sub-slices of an external input buffer when decoded from the slice cursor.
// String leaves are copies, and the Array/Map spines are freshly allocated
// (see UnpackMessageRef). A MessageRef must not be retained past the
// lifetime of the buffer it was decoded from — the same "unsafe to hold
// beyond buffer" contract the format spec assigns to the borrowing decoder
// (§4.8).
type MessageRef struct {
	kind Kind

	b    bool
	i    int64
	u    uint64
	f32  float32
	f64  float64
	str  string
	bin  []byte
	arr  []MessageRef
	pair []Pair[MessageRef, MessageRef]
	ext  Extension
	ts   Timestamp
}

func (m MessageRef) Kind() Kind { return m.kind }

func (m MessageRef) AsBool() (bool, bool)       { return m.b, m.kind == KindBool }
func (m MessageRef) AsInt() (int64, bool)       { return m.i, m.kind == KindInt }
func (m MessageRef) AsUint() (uint64, bool)     { return m.u, m.kind == KindUint }
func (m MessageRef) AsFloat32() (float32, bool) { return m.f32, m.kind == KindFloat32 }
func (m MessageRef) AsFloat64() (float64, bool) { return m.f64, m.kind == KindFloat64 }
func (m MessageRef) AsString() (string, bool)   { return m.str, m.kind == KindString }
func (m MessageRef) AsBinary() ([]byte, bool)   { return m.bin, m.kind == KindBinary }
func (m MessageRef) AsArray() ([]MessageRef, bool) {
	return m.arr, m.kind == KindArray
}
func (m MessageRef) AsMap() ([]Pair[MessageRef, MessageRef], bool) {
	return m.pair, m.kind == KindMap
}
func (m MessageRef) AsExtension() (Extension, bool) { return m.ext, m.kind == KindExtension }
func (m MessageRef) AsTimestamp() (Timestamp, bool) { return m.ts, m.kind == KindTimestamp }

// PackMsgpack encodes m exactly like the equivalent Message would; the wire
// form does not depend on whether a value is owned or borrowed.
func (m MessageRef) PackMsgpack(sink Sink) int {
	return m.ToOwned().PackMsgpack(sink)
}

// UnpackMsgpack reads one complete value into *m via UnpackMessageRef,
// satisfying Unpackable — the read-side counterpart to MessageRef.PackMsgpack.
func (m *MessageRef) UnpackMsgpack(src Source) (int, error) {
	n, v, err := UnpackMessageRef(src)
	if err != nil {
		return 0, err
	}
	*m = v
	return n, nil
}

// UnpackMessageRef reads one complete value as a borrowing MessageRef.
// Binary leaves alias src's backing buffer directly (when src is the slice
// cursor); String leaves are always copied, since UnpackString (primitives.go)
// returns a Go string and Go strings cannot alias a []byte without unsafe,
// which this package does not use (see SPEC_FULL.md §1.2). The Array/Map spine
// itself is always a freshly allocated Go slice, matching §5's "borrowing
// decoders allocate only for the container spine, not for their leaf bytes".
func UnpackMessageRef(src Source) (int, MessageRef, error) {
	b, err := src.PeekByte()
	if err != nil {
		return 0, MessageRef{}, err
	}
	tag := format.ByteToTag(b)
	switch tag {
	case format.TagUint8, format.TagUint16, format.TagUint32, format.TagUint64:
		n, v, err := UnpackUint64(src)
		return n, MessageRef{kind: KindUint, u: v}, err
	case format.TagPositiveFixInt, format.TagNegativeFixInt,
		format.TagInt8, format.TagInt16, format.TagInt32, format.TagInt64:
		n, v, err := UnpackInt64(src)
		return n, MessageRef{kind: KindInt, i: v}, err
	case format.TagNil:
		n, err := UnpackNil(src)
		return n, MessageRef{kind: KindNil}, err
	case format.TagReserved:
		_, _ = src.ReadByte()
		return 0, MessageRef{}, ErrUnexpectedFormatTag
	case format.TagFalse, format.TagTrue:
		n, v, err := UnpackBool(src)
		return n, MessageRef{kind: KindBool, b: v}, err
	case format.TagBin8, format.TagBin16, format.TagBin32:
		n, v, err := UnpackBinary(src)
		return n, MessageRef{kind: KindBinary, bin: v}, err
	case format.TagExt8, format.TagExt16, format.TagExt32,
		format.TagFixExt1, format.TagFixExt2, format.TagFixExt4,
		format.TagFixExt8, format.TagFixExt16:
		n, v, err := UnpackExtension(src)
		if err != nil {
			return 0, MessageRef{}, err
		}
		if ts, ok := v.IsTimestamp(); ok {
			return n, MessageRef{kind: KindTimestamp, ts: ts}, nil
		}
		return n, MessageRef{kind: KindExtension, ext: v}, nil
	case format.TagFloat32:
		n, v, err := UnpackFloat32(src)
		return n, MessageRef{kind: KindFloat32, f32: v}, err
	case format.TagFloat64:
		n, v, err := UnpackFloat64(src)
		return n, MessageRef{kind: KindFloat64, f64: v}, err
	case format.TagFixString, format.TagStr8, format.TagStr16, format.TagStr32:
		n, v, err := UnpackString(src)
		return n, MessageRef{kind: KindString, str: v}, err
	case format.TagFixArray, format.TagArray16, format.TagArray32:
		n, v, err := UnpackArray(src, UnpackMessageRef)
		return n, MessageRef{kind: KindArray, arr: v}, err
	case format.TagFixMap, format.TagMap16, format.TagMap32:
		n, v, err := UnpackMap(src, UnpackMessageRef, UnpackMessageRef)
		return n, MessageRef{kind: KindMap, pair: v}, err
	default:
		return 0, MessageRef{}, ErrUnexpectedFormatTag
	}
}

// ToOwned copies m into an independent Message. This is the only place a
// borrowed leaf is actually duplicated; everything else about MessageRef is
// zero-copy.
func (m MessageRef) ToOwned() Message {
	switch m.kind {
	case KindNil:
		return NewNil()
	case KindBool:
		return NewBool(m.b)
	case KindInt:
		return NewInt(m.i)
	case KindUint:
		return NewUint(m.u)
	case KindFloat32:
		return NewFloat32(m.f32)
	case KindFloat64:
		return NewFloat64(m.f64)
	case KindString:
		return NewString(m.str)
	case KindBinary:
		return NewBinary(clone(m.bin))
	case KindArray:
		out := make([]Message, len(m.arr))
		for i, v := range m.arr {
			out[i] = v.ToOwned()
		}
		return NewArray(out)
	case KindMap:
		out := make([]Pair[Message, Message], len(m.pair))
		for i, p := range m.pair {
			out[i] = Pair[Message, Message]{Key: p.Key.ToOwned(), Value: p.Value.ToOwned()}
		}
		return NewMap(out)
	case KindExtension:
		return NewExtension(Extension{Type: m.ext.Type, Payload: clone(m.ext.Payload)})
	case KindTimestamp:
		return NewTimestamp(m.ts)
	default:
		panic("msgpack: MessageRef: invalid kind")
	}
}

// Ref constructs a MessageRef view of an owned Message. This is a cheap
// view, not a copy (§3.2): it reuses m's existing strings/slices, which are
// safe to alias because the returned MessageRef cannot outlive m any more
// than an ordinary Go slice alias could.
func (m Message) Ref() MessageRef {
	switch m.kind {
	case KindArray:
		out := make([]MessageRef, len(m.arr))
		for i, v := range m.arr {
			out[i] = v.Ref()
		}
		return MessageRef{kind: KindArray, arr: out}
	case KindMap:
		out := make([]Pair[MessageRef, MessageRef], len(m.pair))
		for i, p := range m.pair {
			out[i] = Pair[MessageRef, MessageRef]{Key: p.Key.Ref(), Value: p.Value.Ref()}
		}
		return MessageRef{kind: KindMap, pair: out}
	default:
		return MessageRef{
			kind: m.kind, b: m.b, i: m.i, u: m.u, f32: m.f32, f64: m.f64,
			str: m.str, bin: m.bin, ext: m.ext, ts: m.ts,
		}
	}
}

// Equal reports whether m and other are structurally equal, by the same
// rule as Message.Equal.
func (m MessageRef) Equal(other MessageRef) bool {
	return m.ToOwned().Equal(other.ToOwned())
}

// Pairs returns an iterator over m's key-value pairs in encounter order,
// without building a new slice — the iteration counterpart of the original
// implementation's MapRef (SPEC_FULL.md §4). It does not decode lazily: a
// MessageRef is always fully decoded (as UnpackMessageRef produces it), so
// this simply ranges the backing slice; it exists so callers that only need
// to scan a map do not have to reach into the pair field directly.
func (m MessageRef) Pairs(yield func(MessageRef, MessageRef) bool) {
	for _, p := range m.pair {
		if !yield(p.Key, p.Value) {
			return
		}
	}
}
