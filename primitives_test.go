package msgpack_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	msgpack "github.com/go-msgpacker/msgpacker"
)

func TestPackUint64Narrowing(t *testing.T) {
	tests := []struct {
		v    uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7f}},
		{128, []byte{0xcc, 0x80}},
		{255, []byte{0xcc, 0xff}},
		{256, []byte{0xcd, 0x01, 0x00}},
		{65535, []byte{0xcd, 0xff, 0xff}},
		{65536, []byte{0xce, 0x00, 0x01, 0x00, 0x00}},
		{1<<32 - 1, []byte{0xce, 0xff, 0xff, 0xff, 0xff}},
		{1 << 32, []byte{0xcf, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00}},
	}
	for _, tt := range tests {
		sink := msgpack.NewSink()
		n := msgpack.PackUint64(sink, tt.v)
		require.Equal(t, tt.want, sink.Bytes())
		require.Equal(t, len(tt.want), n)

		m, got, err := msgpack.UnpackUint64(msgpack.NewSliceSource(sink.Bytes()))
		require.NoError(t, err)
		require.Equal(t, tt.v, got)
		require.Equal(t, n, m)
	}
}

func TestPackInt64Narrowing(t *testing.T) {
	tests := []int64{
		0, 1, -1, 32, -32, -33, 127, -128, 128, -129,
		32767, -32768, 32768, -32769,
		2147483647, -2147483648, 2147483648, -2147483649,
		9223372036854775807, -9223372036854775808,
	}
	for _, v := range tests {
		sink := msgpack.NewSink()
		n := msgpack.PackInt64(sink, v)
		m, got, err := msgpack.UnpackInt64(msgpack.NewSliceSource(sink.Bytes()))
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, n, m)
	}
}

func TestPackBoolNil(t *testing.T) {
	sink := msgpack.NewSink()
	msgpack.PackBool(sink, true)
	_, v, err := msgpack.UnpackBool(msgpack.NewSliceSource(sink.Bytes()))
	require.NoError(t, err)
	require.True(t, v)

	sink = msgpack.NewSink()
	msgpack.PackNil(sink)
	_, err = msgpack.UnpackNil(msgpack.NewSliceSource(sink.Bytes()))
	require.NoError(t, err)
}

func TestPackFloatNoNarrowing(t *testing.T) {
	sink := msgpack.NewSink()
	msgpack.PackFloat32(sink, 1.5)
	require.Equal(t, []byte{0xca, 0x3f, 0xc0, 0x00, 0x00}, sink.Bytes())
	_, v, err := msgpack.UnpackFloat32(msgpack.NewSliceSource(sink.Bytes()))
	require.NoError(t, err)
	require.Equal(t, float32(1.5), v)

	sink = msgpack.NewSink()
	msgpack.PackFloat64(sink, 1.5)
	_, v64, err := msgpack.UnpackFloat64(msgpack.NewSliceSource(sink.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 1.5, v64)
}

func TestStringRoundTrip(t *testing.T) {
	tests := []string{"", "a", "hello world", string(make([]byte, 100))}
	for _, s := range tests {
		sink := msgpack.NewSink()
		msgpack.PackString(sink, s)
		_, got, err := msgpack.UnpackString(msgpack.NewSliceSource(sink.Bytes()))
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
}

func TestStringInvalidUTF8(t *testing.T) {
	raw := []byte{0xa2, 0xff, 0xfe} // fixstr len 2, invalid utf-8 body
	_, _, err := msgpack.UnpackString(msgpack.NewSliceSource(raw))
	require.ErrorIs(t, err, msgpack.ErrInvalidUTF8)
}

func TestBinaryNoUTF8Validation(t *testing.T) {
	raw := []byte{0xff, 0xfe, 0x00}
	sink := msgpack.NewSink()
	msgpack.PackBinary(sink, raw)
	_, got, err := msgpack.UnpackBinary(msgpack.NewSliceSource(sink.Bytes()))
	require.NoError(t, err)
	require.Equal(t, raw, got)
}

func TestRuneRoundTrip(t *testing.T) {
	tests := []rune{'a', '世', '🎉'}
	for _, r := range tests {
		sink := msgpack.NewSink()
		msgpack.PackRune(sink, r)
		_, got, err := msgpack.UnpackRune(msgpack.NewSliceSource(sink.Bytes()))
		require.NoError(t, err)
		require.Equal(t, r, got)
	}
}

func TestUint128Narrowing(t *testing.T) {
	sink := msgpack.NewSink()
	n := msgpack.PackUint128(sink, msgpack.Uint128{Hi: 0, Lo: 42})
	require.Equal(t, 1, n)
	require.Equal(t, []byte{42}, sink.Bytes())

	_, got, err := msgpack.UnpackUint128(msgpack.NewSliceSource(sink.Bytes()))
	require.NoError(t, err)
	require.Equal(t, msgpack.Uint128{Hi: 0, Lo: 42}, got)
}

func TestUint128RoundTripWithHighHalf(t *testing.T) {
	tests := []msgpack.Uint128{
		{Hi: 1, Lo: 0},
		{Hi: 0xffffffffffffffff, Lo: 0xffffffffffffffff},
		{Hi: 0x0102030405060708, Lo: 0x1112131415161718},
	}
	for _, u := range tests {
		sink := msgpack.NewSink()
		n := msgpack.PackUint128(sink, u)
		require.Equal(t, byte(0xd8), sink.Bytes()[0]) // fixext16
		m, got, err := msgpack.UnpackUint128(msgpack.NewSliceSource(sink.Bytes()))
		require.NoError(t, err)
		require.Equal(t, u, got)
		require.Equal(t, n, m)
	}
}

func TestInt128Narrowing(t *testing.T) {
	sink := msgpack.NewSink()
	n := msgpack.PackInt128(sink, msgpack.Int128{Hi: 0, Lo: 42})
	require.Equal(t, 1, n)
	require.Equal(t, []byte{42}, sink.Bytes())

	_, got, err := msgpack.UnpackInt128(msgpack.NewSliceSource(sink.Bytes()))
	require.NoError(t, err)
	require.Equal(t, msgpack.Int128{Hi: 0, Lo: 42}, got)
}

func TestInt128NegativeNarrowing(t *testing.T) {
	sink := msgpack.NewSink()
	n := msgpack.PackInt128(sink, msgpack.Int128{Hi: -1, Lo: uint64(^int64(0) - 4)})
	_, got, err := msgpack.UnpackInt128(msgpack.NewSliceSource(sink.Bytes()[:n]))
	require.NoError(t, err)
	require.Equal(t, int64(-5), int64(got.Lo))
}

func TestInt128RoundTripWithHighHalf(t *testing.T) {
	tests := []msgpack.Int128{
		{Hi: 1, Lo: 0},
		{Hi: -2, Lo: 0x1112131415161718},
		{Hi: 0x0102030405060708, Lo: 0xffffffffffffffff},
	}
	for _, v := range tests {
		sink := msgpack.NewSink()
		n := msgpack.PackInt128(sink, v)
		require.Equal(t, byte(0xd8), sink.Bytes()[0]) // fixext16
		m, got, err := msgpack.UnpackInt128(msgpack.NewSliceSource(sink.Bytes()))
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, n, m)
	}
}
