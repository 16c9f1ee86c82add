package format_test

import (
	"testing"

	"github.com/go-msgpacker/msgpacker/format"
)

func TestByteToTag(t *testing.T) {
	tests := []struct {
		b    byte
		want format.Tag
	}{
		{0x00, format.TagPositiveFixInt},
		{0x7f, format.TagPositiveFixInt},
		{0x80, format.TagFixMap},
		{0x8f, format.TagFixMap},
		{0x90, format.TagFixArray},
		{0x9f, format.TagFixArray},
		{0xa0, format.TagFixString},
		{0xbf, format.TagFixString},
		{0xc0, format.TagNil},
		{0xc1, format.TagReserved},
		{0xc2, format.TagFalse},
		{0xc3, format.TagTrue},
		{0xc4, format.TagBin8},
		{0xc5, format.TagBin16},
		{0xc6, format.TagBin32},
		{0xc7, format.TagExt8},
		{0xc8, format.TagExt16},
		{0xc9, format.TagExt32},
		{0xca, format.TagFloat32},
		{0xcb, format.TagFloat64},
		{0xcc, format.TagUint8},
		{0xcd, format.TagUint16},
		{0xce, format.TagUint32},
		{0xcf, format.TagUint64},
		{0xd0, format.TagInt8},
		{0xd1, format.TagInt16},
		{0xd2, format.TagInt32},
		{0xd3, format.TagInt64},
		{0xd4, format.TagFixExt1},
		{0xd5, format.TagFixExt2},
		{0xd6, format.TagFixExt4},
		{0xd7, format.TagFixExt8},
		{0xd8, format.TagFixExt16},
		{0xd9, format.TagStr8},
		{0xda, format.TagStr16},
		{0xdb, format.TagStr32},
		{0xdc, format.TagArray16},
		{0xdd, format.TagArray32},
		{0xde, format.TagMap16},
		{0xdf, format.TagMap32},
		{0xe0, format.TagNegativeFixInt},
		{0xff, format.TagNegativeFixInt},
	}
	for _, tt := range tests {
		if got := format.ByteToTag(tt.b); got != tt.want {
			t.Errorf("ByteToTag(0x%02x) = %v, want %v", tt.b, got, tt.want)
		}
	}
}

func TestIsFixInt(t *testing.T) {
	if v, ok := format.IsFixInt(0x00); !ok || v != 0 {
		t.Errorf("IsFixInt(0x00) = %d, %v, want 0, true", v, ok)
	}
	if v, ok := format.IsFixInt(0x7f); !ok || v != 127 {
		t.Errorf("IsFixInt(0x7f) = %d, %v, want 127, true", v, ok)
	}
	if v, ok := format.IsFixInt(0xff); !ok || v != -1 {
		t.Errorf("IsFixInt(0xff) = %d, %v, want -1, true", v, ok)
	}
	if v, ok := format.IsFixInt(0xe0); !ok || v != -32 {
		t.Errorf("IsFixInt(0xe0) = %d, %v, want -32, true", v, ok)
	}
	if _, ok := format.IsFixInt(0xc0); ok {
		t.Errorf("IsFixInt(0xc0) should not be a fixint")
	}
}

func TestTagToByteRoundTrip(t *testing.T) {
	for b := 0; b <= 0xff; b++ {
		if byte(b) == format.Reserved {
			continue
		}
		tag := format.ByteToTag(byte(b))
		var n int
		switch tag {
		case format.TagPositiveFixInt:
			n = b
		case format.TagNegativeFixInt:
			n = int(int8(byte(b)))
		case format.TagFixMap:
			n = format.FixMapLen(byte(b))
		case format.TagFixArray:
			n = format.FixArrayLen(byte(b))
		case format.TagFixString:
			n = format.FixStrLen(byte(b))
		}
		if got := format.TagToByte(tag, n); got != byte(b) {
			t.Errorf("TagToByte(ByteToTag(0x%02x), %d) = 0x%02x, want 0x%02x", b, n, got, b)
		}
	}
}

func TestFixLenRoundTrip(t *testing.T) {
	for n := 0; n <= 15; n++ {
		if got := format.FixMapLen(format.EncodeFixMap(n)); got != n {
			t.Errorf("FixMapLen(EncodeFixMap(%d)) = %d", n, got)
		}
		if got := format.FixArrayLen(format.EncodeFixArray(n)); got != n {
			t.Errorf("FixArrayLen(EncodeFixArray(%d)) = %d", n, got)
		}
	}
	for n := 0; n <= 31; n++ {
		if got := format.FixStrLen(format.EncodeFixString(n)); got != n {
			t.Errorf("FixStrLen(EncodeFixString(%d)) = %d", n, got)
		}
	}
}
