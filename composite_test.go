package msgpack

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackSliceUnpackArray(t *testing.T) {
	items := []int64{1, 2, 3, -4}
	sink := NewSink()
	PackSlice(sink, items, func(s Sink, v int64) int { return PackInt64(s, v) })

	_, got, err := UnpackArray(NewSliceSource(sink.Bytes()), func(src Source) (int, int64, error) {
		return UnpackInt64(src)
	})
	require.NoError(t, err)
	require.Equal(t, items, got)
}

func TestPackArraySeqIterator(t *testing.T) {
	items := []int64{10, 20, 30}
	sink := NewSink()
	PackArray(sink, len(items), slices.Values(items), func(s Sink, v int64) int { return PackInt64(s, v) })

	_, got, err := UnpackArray(NewSliceSource(sink.Bytes()), func(src Source) (int, int64, error) {
		return UnpackInt64(src)
	})
	require.NoError(t, err)
	require.Equal(t, items, got)
}

func TestPackPairsUnpackMap(t *testing.T) {
	pairs := []Pair[string, int64]{
		{Key: "a", Value: 1},
		{Key: "b", Value: 2},
		{Key: "a", Value: 3}, // duplicate key, preserved
	}
	sink := NewSink()
	PackPairs(sink, pairs,
		func(s Sink, k string) int { return PackString(s, k) },
		func(s Sink, v int64) int { return PackInt64(s, v) },
	)

	_, got, err := UnpackMap(NewSliceSource(sink.Bytes()),
		func(src Source) (int, string, error) { return UnpackString(src) },
		func(src Source) (int, int64, error) { return UnpackInt64(src) },
	)
	require.NoError(t, err)
	require.Equal(t, pairs, got)
}

func TestToMapFromMap(t *testing.T) {
	pairs := []Pair[string, int64]{{Key: "a", Value: 1}, {Key: "b", Value: 2}}
	m := ToMap(pairs)
	require.Equal(t, map[string]int64{"a": 1, "b": 2}, m)

	back := FromMap(m)
	require.Len(t, back, 2)
}

func TestClampPrealloc(t *testing.T) {
	require.Equal(t, 0, clampPrealloc(-1))
	require.Equal(t, 10, clampPrealloc(10))
	require.Equal(t, maxPreallocLen, clampPrealloc(maxPreallocLen+1))
}

func TestArrayMapHeaderWidths(t *testing.T) {
	sink := NewSink()
	PackArrayHeader(sink, 15)
	require.Len(t, sink.Bytes(), 1)

	sink = NewSink()
	PackArrayHeader(sink, 16)
	require.Len(t, sink.Bytes(), 3)

	sink = NewSink()
	PackMapHeader(sink, 15)
	require.Len(t, sink.Bytes(), 1)

	sink = NewSink()
	PackMapHeader(sink, 16)
	require.Len(t, sink.Bytes(), 3)
}
