package msgpack

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestMessageRoundTripAllKinds(t *testing.T) {
	tests := []Message{
		NewNil(),
		NewBool(true),
		NewBool(false),
		NewInt(-42),
		NewUint(42),
		NewFloat32(1.5),
		NewFloat64(2.25),
		NewString("hello"),
		NewBinary([]byte{1, 2, 3}),
		NewArray([]Message{NewInt(1), NewString("x"), NewNil()}),
		NewMap([]Pair[Message, Message]{
			{Key: NewString("a"), Value: NewInt(1)},
			{Key: NewString("b"), Value: NewBool(true)},
		}),
		NewExtension(Extension{Type: 7, Payload: []byte{9, 9}}),
		NewTimestamp(Timestamp{Seconds: 100, Nanoseconds: 200}),
	}
	for _, m := range tests {
		_, data := Pack(m)
		_, got, err := UnpackMessage(NewSliceSource(data))
		require.NoError(t, err)
		if !m.Equal(got) {
			t.Errorf("round trip mismatch: %+v != %+v", m, got)
		}
	}
}

// S6: record { data: byte_buffer [0xde,0xad,0xbe,0xef] } encodes as
// [0xc4, 0x04, 0xde, 0xad, 0xbe, 0xef].
func TestMessageBinaryScenario(t *testing.T) {
	m := NewBinary([]byte{0xde, 0xad, 0xbe, 0xef})
	_, data := Pack(m)
	want := []byte{0xc4, 0x04, 0xde, 0xad, 0xbe, 0xef}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("Pack mismatch (-want +got):\n%s", diff)
	}
}

// S6: record { data: sequence_of_strings ["x","y"] } starts with 0x92.
func TestMessageArrayOfStringsScenario(t *testing.T) {
	m := NewArray([]Message{NewString("x"), NewString("y")})
	_, data := Pack(m)
	require.Equal(t, byte(0x92), data[0])
}

func TestMessageEqualFloatNaNNeverEqual(t *testing.T) {
	nan := NewFloat64(nan())
	require.False(t, nan.Equal(nan))
}

func nan() float64 {
	var zero float64
	return zero / zero
}

// TestMessagePackableUnpackableRoundTrip drives the Packable/Unpackable
// trait pair (§4.8) through Pack/UnpackInto directly, rather than the
// UnpackMessage free function, so the read half of the interface pair is
// actually exercised.
func TestMessagePackableUnpackableRoundTrip(t *testing.T) {
	m := NewArray([]Message{NewInt(1), NewString("x"), NewNil()})
	var v Packable = m
	n, data := Pack(v)
	require.Equal(t, n, len(data))

	var got Message
	consumed, err := UnpackInto(&got, data)
	require.NoError(t, err)
	require.Equal(t, n, consumed)
	require.True(t, m.Equal(got))
}

func TestMessageEqualMapOrderSensitive(t *testing.T) {
	a := NewMap([]Pair[Message, Message]{
		{Key: NewString("a"), Value: NewInt(1)},
		{Key: NewString("b"), Value: NewInt(2)},
	})
	b := NewMap([]Pair[Message, Message]{
		{Key: NewString("b"), Value: NewInt(2)},
		{Key: NewString("a"), Value: NewInt(1)},
	})
	require.False(t, a.Equal(b), "maps compared as ordered sequences, not sets")
}
