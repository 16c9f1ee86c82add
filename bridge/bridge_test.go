package bridge_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	msgpack "github.com/go-msgpacker/msgpacker"
	"github.com/go-msgpacker/msgpacker/bridge"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	m := msgpack.NewMap([]msgpack.Pair[msgpack.Message, msgpack.Message]{
		{Key: msgpack.NewString("name"), Value: msgpack.NewString("widget")},
		{Key: msgpack.NewString("count"), Value: msgpack.NewInt(7)},
		{Key: msgpack.NewString("tags"), Value: msgpack.NewArray([]msgpack.Message{
			msgpack.NewString("a"), msgpack.NewString("b"),
		})},
	})

	data, err := bridge.Marshal(m)
	require.NoError(t, err)

	got, err := bridge.Unmarshal(data)
	require.NoError(t, err)

	pairs, ok := got.AsMap()
	require.True(t, ok)
	require.Len(t, pairs, 3)
}

func TestToInterfaceNonStringKeyError(t *testing.T) {
	m := msgpack.NewMap([]msgpack.Pair[msgpack.Message, msgpack.Message]{
		{Key: msgpack.NewInt(1), Value: msgpack.NewString("v")},
	})
	_, err := bridge.ToInterface(m)
	require.ErrorIs(t, err, bridge.ErrNonStringMapKey)
}

func TestExtensionRoundTripsThroughBridge(t *testing.T) {
	m := msgpack.NewExtension(msgpack.Extension{Type: 3, Payload: []byte{1, 2, 3}})
	v, err := bridge.ToInterface(m)
	require.NoError(t, err)

	back, err := bridge.FromInterface(v)
	require.NoError(t, err)
	require.True(t, m.Equal(back))
}

func TestTimestampRoundTripsThroughBridge(t *testing.T) {
	m := msgpack.NewTimestamp(msgpack.Timestamp{Seconds: 5, Nanoseconds: 6})
	v, err := bridge.ToInterface(m)
	require.NoError(t, err)

	back, err := bridge.FromInterface(v)
	require.NoError(t, err)
	require.True(t, m.Equal(back))
}
