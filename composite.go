package msgpack

import (
	"iter"
	"math"

	"github.com/go-msgpacker/msgpacker/format"
)

// maxPreallocLen bounds how much capacity UnpackArray/UnpackMap reserve
// directly from a declared length prefix before falling back to incremental
// growth, so a crafted header cannot force a large allocation before any
// element bytes are actually read (§4.6; see SPEC_FULL.md §4 "buffer
// pre-allocation cap", grounded on the original implementation's
// msgpacker/src/buffer.rs capacity cap).
const maxPreallocLen = 64 * 1024

func arrayHeaderSize(n int) int {
	switch {
	case n <= 15:
		return 1
	case n <= math.MaxUint16:
		return 3
	default:
		return 5
	}
}

// PackArrayHeader writes a length-prefixed array header using the smallest
// of the fixarray/array16/array32 forms that fits n (§4.6).
func PackArrayHeader(sink Sink, n int) int {
	switch {
	case n <= 15:
		_ = sink.WriteByte(format.EncodeFixArray(n))
		return 1
	case n <= math.MaxUint16:
		_ = sink.WriteByte(format.Array16)
		putUint(sink, 2, uint64(n))
		return 3
	case uint64(n) <= math.MaxUint32:
		_ = sink.WriteByte(format.Array32)
		putUint(sink, 4, uint64(n))
		return 5
	default:
		return handleOverflow("array length")
	}
}

// UnpackArrayHeader reads an array length prefix, accepting any of the
// three forms regardless of whether it was the most compact one (§4.6).
func UnpackArrayHeader(src Source) (int, int, error) {
	b, err := src.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	switch {
	case b&0xf0 == format.FixArrayMask:
		return 1, format.FixArrayLen(b), nil
	case b == format.Array16:
		n, err := readUint(src, 2)
		return 3, int(n), err
	case b == format.Array32:
		n, err := readUint(src, 4)
		return 5, int(n), err
	default:
		return 0, 0, ErrUnexpectedFormatTag
	}
}

// PackMapHeader writes a length-prefixed map header (number of pairs) using
// the smallest of fixmap/map16/map32 that fits n.
func PackMapHeader(sink Sink, n int) int {
	switch {
	case n <= 15:
		_ = sink.WriteByte(format.EncodeFixMap(n))
		return 1
	case n <= math.MaxUint16:
		_ = sink.WriteByte(format.Map16)
		putUint(sink, 2, uint64(n))
		return 3
	case uint64(n) <= math.MaxUint32:
		_ = sink.WriteByte(format.Map32)
		putUint(sink, 4, uint64(n))
		return 5
	default:
		return handleOverflow("map length")
	}
}

// UnpackMapHeader reads a map length prefix (pair count).
func UnpackMapHeader(src Source) (int, int, error) {
	b, err := src.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	switch {
	case b&0xf0 == format.FixMapMask:
		return 1, format.FixMapLen(b), nil
	case b == format.Map16:
		n, err := readUint(src, 2)
		return 3, int(n), err
	case b == format.Map32:
		n, err := readUint(src, 4)
		return 5, int(n), err
	default:
		return 0, 0, ErrUnexpectedFormatTag
	}
}

// PackArray writes an array header for count elements, then each element of
// seq via packOne, in order. seq is any ordered producer of elements — a Go
// 1.23 iter.Seq, which models "an ordered producer of elements together
// with a known element count" (Design Notes §9) without committing callers
// to a specific container.
func PackArray[T any](sink Sink, count int, seq iter.Seq[T], packOne func(Sink, T) int) int {
	n := PackArrayHeader(sink, count)
	for v := range seq {
		n += packOne(sink, v)
	}
	return n
}

// PackSlice is the common-case convenience wrapper over PackArray for an
// in-memory slice.
func PackSlice[T any](sink Sink, items []T, packOne func(Sink, T) int) int {
	n := PackArrayHeader(sink, len(items))
	for _, v := range items {
		n += packOne(sink, v)
	}
	return n
}

// UnpackArray reads an array header followed by count elements, decoded by
// unpackOne and collected into a slice (the default "collectible of V").
// Capacity is reserved only up to maxPreallocLen from the declared header;
// beyond that the slice grows incrementally as elements are actually read.
func UnpackArray[V any](src Source, unpackOne func(Source) (int, V, error)) (int, []V, error) {
	total, count, err := UnpackArrayHeader(src)
	if err != nil {
		return 0, nil, err
	}
	out := make([]V, 0, clampPrealloc(count))
	for i := 0; i < count; i++ {
		n, v, err := unpackOne(src)
		if err != nil {
			return 0, nil, err
		}
		total += n
		out = append(out, v)
	}
	return total, out, nil
}

// Pair is one key-value entry of a decoded map, preserving the order (and
// any duplicate keys) the encoder produced (§3.1: "Map is a sequence of
// (key-value) pairs... duplicate keys are neither prohibited nor
// deduplicated").
type Pair[K, V any] struct {
	Key   K
	Value V
}

// PackMap writes a map header for count pairs, then each pair of seq via
// packKey/packVal, key then value, in order.
func PackMap[K, V any](sink Sink, count int, seq iter.Seq2[K, V], packKey func(Sink, K) int, packVal func(Sink, V) int) int {
	n := PackMapHeader(sink, count)
	for k, v := range seq {
		n += packKey(sink, k)
		n += packVal(sink, v)
	}
	return n
}

// PackPairs is the common-case convenience wrapper over PackMap for an
// in-memory slice of Pair, preserving order and duplicates exactly.
func PackPairs[K, V any](sink Sink, pairs []Pair[K, V], packKey func(Sink, K) int, packVal func(Sink, V) int) int {
	n := PackMapHeader(sink, len(pairs))
	for _, p := range pairs {
		n += packKey(sink, p.Key)
		n += packVal(sink, p.Value)
	}
	return n
}

// UnpackMap reads a map header followed by count key-value pairs, collected
// in encounter order as a []Pair (the default "collectible of (K,V)"); use
// ToMap to fold into a map[K]V when duplicate keys and order do not
// matter to the caller.
func UnpackMap[K, V any](src Source, unpackKey func(Source) (int, K, error), unpackVal func(Source) (int, V, error)) (int, []Pair[K, V], error) {
	total, count, err := UnpackMapHeader(src)
	if err != nil {
		return 0, nil, err
	}
	out := make([]Pair[K, V], 0, clampPrealloc(count))
	for i := 0; i < count; i++ {
		nk, k, err := unpackKey(src)
		if err != nil {
			return 0, nil, err
		}
		nv, v, err := unpackVal(src)
		if err != nil {
			return 0, nil, err
		}
		total += nk + nv
		out = append(out, Pair[K, V]{Key: k, Value: v})
	}
	return total, out, nil
}

// ToMap folds pairs into a map[K]V. Later entries win on duplicate keys, as
// an ordinary Go map assignment would.
func ToMap[K comparable, V any](pairs []Pair[K, V]) map[K]V {
	m := make(map[K]V, len(pairs))
	for _, p := range pairs {
		m[p.Key] = p.Value
	}
	return m
}

// FromMap builds an order-unspecified []Pair from a Go map, for callers
// that have a map[K]V and want to encode it with PackPairs.
func FromMap[K comparable, V any](m map[K]V) []Pair[K, V] {
	out := make([]Pair[K, V], 0, len(m))
	for k, v := range m {
		out = append(out, Pair[K, V]{Key: k, Value: v})
	}
	return out
}

func clampPrealloc(n int) int {
	if n < 0 {
		return 0
	}
	if n > maxPreallocLen {
		return maxPreallocLen
	}
	return n
}
