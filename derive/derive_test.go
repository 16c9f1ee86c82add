package derive_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-msgpacker/msgpacker/derive"
)

type point struct {
	X int64
	Y int64
}

type record struct {
	Name    string
	Tags    []string
	Point   point
	Skipped int64 `msgpack:"-"`
}

func TestMarshalUnmarshalRecord(t *testing.T) {
	r := record{
		Name:    "origin",
		Tags:    []string{"a", "b"},
		Point:   point{X: 1, Y: 2},
		Skipped: 999,
	}
	data, err := derive.Marshal(&r)
	require.NoError(t, err)

	var got record
	n, err := derive.Unmarshal(data, &got)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, r.Name, got.Name)
	require.Equal(t, r.Tags, got.Tags)
	require.Equal(t, r.Point, got.Point)
	require.Zero(t, got.Skipped, "skipped field must not round-trip")
}

type byteBuffer struct {
	Data []byte
}

// S6: record { data: byte_buffer [0xde,0xad,0xbe,0xef] } encodes as
// [0xc4, 0x04, 0xde, 0xad, 0xbe, 0xef] — the record itself adds no framing
// of its own around its single field.
func TestMarshalRecordIsFieldConcatenation(t *testing.T) {
	data, err := derive.Marshal(&byteBuffer{Data: []byte{0xde, 0xad, 0xbe, 0xef}})
	require.NoError(t, err)
	require.Equal(t, []byte{0xc4, 0x04, 0xde, 0xad, 0xbe, 0xef}, data)
}

type stringList struct {
	Items []string
}

func TestMarshalRecordArrayOfStringsScenario(t *testing.T) {
	data, err := derive.Marshal(&stringList{Items: []string{"x", "y"}})
	require.NoError(t, err)
	require.Equal(t, byte(0x92), data[0])
}

type rawBytes struct {
	Data []byte `msgpack:"array"`
}

func TestArrayTagOverridesBinaryDefault(t *testing.T) {
	data, err := derive.Marshal(&rawBytes{Data: []byte{0x01, 0x02, 0x03}})
	require.NoError(t, err)
	// fixarray(3), then three positive fixints, not a bin8 header.
	require.Equal(t, []byte{0x93, 0x01, 0x02, 0x03}, data)

	var got rawBytes
	n, err := derive.Unmarshal(data, &got)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, []byte{0x01, 0x02, 0x03}, got.Data)
}

type kv struct {
	Key   string
	Value int64
}

type tagTable struct {
	Entries []kv `msgpack:"map"`
}

func TestMapTagOverridesArrayOfRecordsDefault(t *testing.T) {
	orig := tagTable{Entries: []kv{{Key: "a", Value: 1}, {Key: "b", Value: 2}}}
	data, err := derive.Marshal(&orig)
	require.NoError(t, err)
	// fixmap(2) header, not a fixarray(2) of records.
	require.Equal(t, byte(0x82), data[0])

	var got tagTable
	n, err := derive.Unmarshal(data, &got)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, orig.Entries, got.Entries)
}

type intVariant struct {
	Value int64
}

type stringVariant struct {
	Value string
}

type sumUnion struct {
	tag int64
	i   intVariant
	s   stringVariant
}

func (u sumUnion) VariantTag() uint32 { return uint32(u.tag) }
func (u sumUnion) VariantValue() interface{} {
	if u.tag == 0 {
		return u.i
	}
	return u.s
}

func TestUnionDiscriminantPrefixedEncoding(t *testing.T) {
	u := sumUnion{tag: 1, s: stringVariant{Value: "hi"}}
	data, err := derive.MarshalUnion(u)
	require.NoError(t, err)

	n, tag, variant, err := derive.UnmarshalUnion(data, func(tag uint32) (interface{}, error) {
		switch tag {
		case 0:
			return new(intVariant), nil
		case 1:
			return new(stringVariant), nil
		default:
			return nil, errInvalidVariant
		}
	})
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, uint32(1), tag)
	require.Equal(t, "hi", variant.(*stringVariant).Value)
}

var errInvalidVariant = testError("invalid variant")

type testError string

func (e testError) Error() string { return string(e) }
