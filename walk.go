package msgpack

import "github.com/go-msgpacker/msgpacker/format"

// Visitor receives one callback per value Walk decodes. Exactly one method
// is called per value; for Array and Map, the corresponding method is
// called before the children are walked, and the caller's returned
// continuation decides whether Walk descends into them.
//
// Visitor is the alloc-free decode path (§6.5): unlike UnpackMessage, Walk
// never builds a tree on the heap. Binary bodies are delivered as []byte
// views (borrowed when src is a slice cursor) and String bodies as Go
// strings (a UTF-8-validated copy), since the wire format itself requires
// materializing contiguous bytes to validate UTF-8 or hand them to the
// caller; no []Message/[]Pair spine is ever allocated.
type Visitor interface {
	VisitNil() error
	VisitBool(v bool) error
	VisitInt(v int64) error
	VisitUint(v uint64) error
	VisitFloat32(v float32) error
	VisitFloat64(v float64) error
	VisitString(v string) error
	VisitBinary(v []byte) error
	VisitExtension(e Extension) error
	VisitTimestamp(ts Timestamp) error
	// VisitArray is called with the element count before any element is
	// walked. Returning descend=false skips the array's elements entirely
	// without consuming them from src — callers that do so must stop
	// walking altogether, since the cursor position would otherwise
	// desynchronize from the caller's expectations.
	VisitArray(count int) (descend bool, err error)
	// VisitMap is called with the pair count before any pair is walked,
	// with the same descend contract as VisitArray.
	VisitMap(count int) (descend bool, err error)
}

// Walk reads one complete value from src, driving v's callbacks, without
// constructing a Message or MessageRef tree.
func Walk(src Source, v Visitor) (int, error) {
	b, err := src.PeekByte()
	if err != nil {
		return 0, err
	}
	tag := format.ByteToTag(b)
	switch tag {
	case format.TagUint8, format.TagUint16, format.TagUint32, format.TagUint64:
		n, val, err := UnpackUint64(src)
		if err != nil {
			return 0, err
		}
		return n, v.VisitUint(val)
	case format.TagPositiveFixInt, format.TagNegativeFixInt,
		format.TagInt8, format.TagInt16, format.TagInt32, format.TagInt64:
		n, val, err := UnpackInt64(src)
		if err != nil {
			return 0, err
		}
		return n, v.VisitInt(val)
	case format.TagNil:
		n, err := UnpackNil(src)
		if err != nil {
			return 0, err
		}
		return n, v.VisitNil()
	case format.TagFalse, format.TagTrue:
		n, val, err := UnpackBool(src)
		if err != nil {
			return 0, err
		}
		return n, v.VisitBool(val)
	case format.TagBin8, format.TagBin16, format.TagBin32:
		n, val, err := UnpackBinary(src)
		if err != nil {
			return 0, err
		}
		return n, v.VisitBinary(val)
	case format.TagExt8, format.TagExt16, format.TagExt32,
		format.TagFixExt1, format.TagFixExt2, format.TagFixExt4,
		format.TagFixExt8, format.TagFixExt16:
		n, ext, err := UnpackExtension(src)
		if err != nil {
			return 0, err
		}
		if ts, ok := ext.IsTimestamp(); ok {
			return n, v.VisitTimestamp(ts)
		}
		return n, v.VisitExtension(ext)
	case format.TagFloat32:
		n, val, err := UnpackFloat32(src)
		if err != nil {
			return 0, err
		}
		return n, v.VisitFloat32(val)
	case format.TagFloat64:
		n, val, err := UnpackFloat64(src)
		if err != nil {
			return 0, err
		}
		return n, v.VisitFloat64(val)
	case format.TagFixString, format.TagStr8, format.TagStr16, format.TagStr32:
		n, val, err := UnpackString(src)
		if err != nil {
			return 0, err
		}
		return n, v.VisitString(val)
	case format.TagFixArray, format.TagArray16, format.TagArray32:
		total, count, err := UnpackArrayHeader(src)
		if err != nil {
			return 0, err
		}
		descend, err := v.VisitArray(count)
		if err != nil || !descend {
			return total, err
		}
		for i := 0; i < count; i++ {
			n, err := Walk(src, v)
			if err != nil {
				return 0, err
			}
			total += n
		}
		return total, nil
	case format.TagFixMap, format.TagMap16, format.TagMap32:
		total, count, err := UnpackMapHeader(src)
		if err != nil {
			return 0, err
		}
		descend, err := v.VisitMap(count)
		if err != nil || !descend {
			return total, err
		}
		for i := 0; i < count; i++ {
			n, err := Walk(src, v)
			if err != nil {
				return 0, err
			}
			total += n
			n, err = Walk(src, v)
			if err != nil {
				return 0, err
			}
			total += n
		}
		return total, nil
	default:
		return 0, ErrUnexpectedFormatTag
	}
}
