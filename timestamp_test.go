package msgpack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTimestampSeconds0NanosZeroScenario(t *testing.T) {
	// S4: encode(timestamp seconds=0 nanos=0) == [0xd6, 0xff, 0, 0, 0, 0]
	sink := NewSink()
	n := PackTimestamp(sink, Timestamp{})
	require.Equal(t, 6, n)
	require.Equal(t, []byte{0xd6, 0xff, 0, 0, 0, 0}, sink.Bytes())
}

func TestTimestampRoundTripFixExt4(t *testing.T) {
	ts := Timestamp{Seconds: 1700000000}
	sink := NewSink()
	PackTimestamp(sink, ts)
	require.Equal(t, byte(0xd6), sink.Bytes()[0])

	_, got, err := UnpackTimestamp(NewSliceSource(sink.Bytes()))
	require.NoError(t, err)
	require.Equal(t, ts, got)
}

func TestTimestampRoundTripFixExt8(t *testing.T) {
	ts := Timestamp{Seconds: 1700000000, Nanoseconds: 123456789}
	sink := NewSink()
	PackTimestamp(sink, ts)
	require.Equal(t, byte(0xd7), sink.Bytes()[0])

	_, got, err := UnpackTimestamp(NewSliceSource(sink.Bytes()))
	require.NoError(t, err)
	require.Equal(t, ts, got)
}

func TestTimestampRoundTripExt8Len12(t *testing.T) {
	ts := Timestamp{Seconds: 1 << 35, Nanoseconds: 500}
	sink := NewSink()
	n := PackTimestamp(sink, ts)
	require.Equal(t, 15, n)
	require.Equal(t, byte(0xc7), sink.Bytes()[0])
	require.Equal(t, byte(12), sink.Bytes()[1])

	_, got, err := UnpackTimestamp(NewSliceSource(sink.Bytes()))
	require.NoError(t, err)
	require.Equal(t, ts, got)
}

func TestTimestampViaGenericExtension(t *testing.T) {
	ts := Timestamp{Seconds: 42}
	sink := NewSink()
	PackTimestamp(sink, ts)

	_, ext, err := UnpackExtension(NewSliceSource(sink.Bytes()))
	require.NoError(t, err)
	got, ok := ext.IsTimestamp()
	require.True(t, ok)
	require.Equal(t, ts, got)
}
