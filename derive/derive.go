// Package derive implements the code-generation contract (spec §4.9) as a
// reflection-driven runtime strategy rather than compile-time generation —
// one of the two strategies the format spec's Design Notes permit, so long
// as the wire output matches. It mirrors creachadair/binpack's
// reflect-based marshalStruct/checkStructType field walk, generalized from
// binpack's tag-value records to this format's field-concatenation records
// and discriminant-prefixed unions.
//
// A record type derives to the concatenation of its exported fields'
// encodings, in declaration order, with no length prefix or field
// separator of its own (the record itself is not a counted sequence; only
// its slice/map-typed fields are). A tagged union derives to a 32-bit
// discriminant followed by the chosen variant's field concatenation.
package derive

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/pkg/errors"

	msgpack "github.com/go-msgpacker/msgpacker"
)

// Struct tag values recognized in a field's `msgpack:"..."` attribute (§4.9).
// tagSkip excludes the field from derivation entirely. tagMap and tagArray
// override the type-driven default codec: tagArray forces a []byte field to
// encode element-by-element as a MessagePack array instead of binary, and
// tagMap forces a slice of two-field (key, value) structs to encode as a
// MessagePack map via pack_map/unpack_map instead of an array of records.
const (
	tagSkip  = "-"
	tagMap   = "map"
	tagArray = "array"
)

// Marshal encodes v — which must be a struct, or a pointer to one — as a
// record: the concatenation of its exported fields' encodings in
// declaration order. Fields tagged `msgpack:"-"` are omitted.
func Marshal(v interface{}) ([]byte, error) {
	sink := msgpack.NewSink()
	val := reflect.ValueOf(v)
	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, errors.New("derive: Marshal: nil pointer")
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil, errors.Errorf("derive: Marshal: %s is not a struct", val.Kind())
	}
	if err := marshalStruct(sink, val); err != nil {
		return nil, err
	}
	return sink.Bytes(), nil
}

// Unmarshal decodes data into v, which must be a non-nil pointer to a
// struct matching the layout Marshal would have produced. It returns the
// number of bytes consumed.
func Unmarshal(data []byte, v interface{}) (int, error) {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return 0, errors.New("derive: Unmarshal: v must be a non-nil pointer")
	}
	src := msgpack.NewSliceSource(data)
	n, err := unmarshalStruct(src, val.Elem())
	if err != nil {
		return 0, errors.Wrap(err, "derive: Unmarshal")
	}
	return n, nil
}

func marshalStruct(sink msgpack.Sink, val reflect.Value) error {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue // unexported
		}
		tag, _ := field.Tag.Lookup("msgpack")
		if tag == tagSkip {
			continue
		}
		if err := marshalValueTagged(sink, val.Field(i), tag); err != nil {
			return errors.Wrapf(err, "field %q", field.Name)
		}
	}
	return nil
}

func unmarshalStruct(src msgpack.Source, val reflect.Value) (int, error) {
	typ := val.Type()
	total := 0
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}
		tag, _ := field.Tag.Lookup("msgpack")
		if tag == tagSkip {
			continue
		}
		n, err := unmarshalValueTagged(src, val.Field(i), tag)
		if err != nil {
			return 0, errors.Wrapf(err, "field %q", field.Name)
		}
		total += n
	}
	return total, nil
}

// marshalValueTagged applies a field's `msgpack:"..."` override, if any,
// before falling back to marshalValue's type-driven default (§4.9).
func marshalValueTagged(sink msgpack.Sink, val reflect.Value, tag string) error {
	switch tag {
	case tagArray:
		if val.Kind() == reflect.Slice && val.Type().Elem().Kind() == reflect.Uint8 {
			return marshalByteSliceAsArray(sink, val)
		}
	case tagMap:
		if val.Kind() == reflect.Slice {
			return marshalSliceAsMap(sink, val)
		}
	}
	return marshalValue(sink, val)
}

func unmarshalValueTagged(src msgpack.Source, val reflect.Value, tag string) (int, error) {
	switch tag {
	case tagArray:
		if val.Kind() == reflect.Slice && val.Type().Elem().Kind() == reflect.Uint8 {
			return unmarshalByteSliceAsArray(src, val)
		}
	case tagMap:
		if val.Kind() == reflect.Slice {
			return unmarshalSliceAsMap(src, val)
		}
	}
	return unmarshalValue(src, val)
}

// marshalByteSliceAsArray encodes a []byte field element-by-element as a
// MessagePack array, overriding the default binary encoding (`msgpack:"array"`).
func marshalByteSliceAsArray(sink msgpack.Sink, val reflect.Value) error {
	n := val.Len()
	msgpack.PackArrayHeader(sink, n)
	for i := 0; i < n; i++ {
		msgpack.PackUint8(sink, val.Index(i).Interface().(byte))
	}
	return nil
}

func unmarshalByteSliceAsArray(src msgpack.Source, val reflect.Value) (int, error) {
	total, count, err := msgpack.UnpackArrayHeader(src)
	if err != nil {
		return 0, err
	}
	out := make([]byte, count)
	for i := 0; i < count; i++ {
		n, v, err := msgpack.UnpackUint8(src)
		if err != nil {
			return 0, errors.Wrapf(err, "index %d", i)
		}
		out[i] = v
		total += n
	}
	val.SetBytes(out)
	return total, nil
}

// marshalSliceAsMap encodes a slice of two-field (key, value) structs as a
// MessagePack map, overriding the default array-of-records encoding
// (`msgpack:"map"`); the field's element type's first two fields are used
// as the key and value (§4.9's "keys and values come from the field's
// iteration").
func marshalSliceAsMap(sink msgpack.Sink, val reflect.Value) error {
	elemType := val.Type().Elem()
	if elemType.Kind() != reflect.Struct || elemType.NumField() < 2 {
		return errors.Errorf("derive: msgpack:\"map\" field must be a slice of two-field structs, got []%s", elemType)
	}
	n := val.Len()
	msgpack.PackMapHeader(sink, n)
	for i := 0; i < n; i++ {
		elem := val.Index(i)
		if err := marshalValue(sink, elem.Field(0)); err != nil {
			return errors.Wrapf(err, "key %d", i)
		}
		if err := marshalValue(sink, elem.Field(1)); err != nil {
			return errors.Wrapf(err, "value %d", i)
		}
	}
	return nil
}

func unmarshalSliceAsMap(src msgpack.Source, val reflect.Value) (int, error) {
	elemType := val.Type().Elem()
	if elemType.Kind() != reflect.Struct || elemType.NumField() < 2 {
		return 0, errors.Errorf("derive: msgpack:\"map\" field must be a slice of two-field structs, got []%s", elemType)
	}
	total, count, err := msgpack.UnpackMapHeader(src)
	if err != nil {
		return 0, err
	}
	out := reflect.MakeSlice(val.Type(), count, count)
	for i := 0; i < count; i++ {
		elem := out.Index(i)
		n, err := unmarshalValue(src, elem.Field(0))
		if err != nil {
			return 0, errors.Wrapf(err, "key %d", i)
		}
		total += n
		n, err = unmarshalValue(src, elem.Field(1))
		if err != nil {
			return 0, errors.Wrapf(err, "value %d", i)
		}
		total += n
	}
	val.Set(out)
	return total, nil
}

// marshalValue dispatches on val's static Go kind, the same way the
// original's per-field trait impls were selected at compile time by field
// type — here the selection happens at reflect-walk time instead.
func marshalValue(sink msgpack.Sink, val reflect.Value) error {
	switch val.Kind() {
	case reflect.Bool:
		msgpack.PackBool(sink, val.Bool())
	case reflect.Int, reflect.Int64:
		msgpack.PackInt64(sink, val.Int())
	case reflect.Int8:
		msgpack.PackInt8(sink, int8(val.Int()))
	case reflect.Int16:
		msgpack.PackInt16(sink, int16(val.Int()))
	case reflect.Int32:
		msgpack.PackInt32(sink, int32(val.Int()))
	case reflect.Uint, reflect.Uint64:
		msgpack.PackUint64(sink, val.Uint())
	case reflect.Uint8:
		msgpack.PackUint8(sink, uint8(val.Uint()))
	case reflect.Uint16:
		msgpack.PackUint16(sink, uint16(val.Uint()))
	case reflect.Uint32:
		msgpack.PackUint32(sink, uint32(val.Uint()))
	case reflect.Float32:
		msgpack.PackFloat32(sink, float32(val.Float()))
	case reflect.Float64:
		msgpack.PackFloat64(sink, val.Float())
	case reflect.String:
		msgpack.PackString(sink, val.String())
	case reflect.Slice:
		if val.Type().Elem().Kind() == reflect.Uint8 {
			msgpack.PackBinary(sink, val.Bytes())
			return nil
		}
		msgpack.PackArrayHeader(sink, val.Len())
		for i := 0; i < val.Len(); i++ {
			if err := marshalValue(sink, val.Index(i)); err != nil {
				return errors.Wrapf(err, "index %d", i)
			}
		}
	case reflect.Array:
		msgpack.PackArrayHeader(sink, val.Len())
		for i := 0; i < val.Len(); i++ {
			if err := marshalValue(sink, val.Index(i)); err != nil {
				return errors.Wrapf(err, "index %d", i)
			}
		}
	case reflect.Map:
		keys := val.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		msgpack.PackMapHeader(sink, len(keys))
		for _, k := range keys {
			if err := marshalValue(sink, k); err != nil {
				return err
			}
			if err := marshalValue(sink, val.MapIndex(k)); err != nil {
				return err
			}
		}
	case reflect.Ptr:
		if val.IsNil() {
			msgpack.PackNil(sink)
			return nil
		}
		return marshalValue(sink, val.Elem())
	case reflect.Struct:
		return marshalStruct(sink, val)
	default:
		return errors.Errorf("derive: unsupported field kind %s", val.Kind())
	}
	return nil
}

func unmarshalValue(src msgpack.Source, val reflect.Value) (int, error) {
	switch val.Kind() {
	case reflect.Bool:
		n, v, err := msgpack.UnpackBool(src)
		if err == nil {
			val.SetBool(v)
		}
		return n, err
	case reflect.Int, reflect.Int64:
		n, v, err := msgpack.UnpackInt64(src)
		if err == nil {
			val.SetInt(v)
		}
		return n, err
	case reflect.Int8:
		n, v, err := msgpack.UnpackInt8(src)
		if err == nil {
			val.SetInt(int64(v))
		}
		return n, err
	case reflect.Int16:
		n, v, err := msgpack.UnpackInt16(src)
		if err == nil {
			val.SetInt(int64(v))
		}
		return n, err
	case reflect.Int32:
		n, v, err := msgpack.UnpackInt32(src)
		if err == nil {
			val.SetInt(int64(v))
		}
		return n, err
	case reflect.Uint, reflect.Uint64:
		n, v, err := msgpack.UnpackUint64(src)
		if err == nil {
			val.SetUint(v)
		}
		return n, err
	case reflect.Uint8:
		n, v, err := msgpack.UnpackUint8(src)
		if err == nil {
			val.SetUint(uint64(v))
		}
		return n, err
	case reflect.Uint16:
		n, v, err := msgpack.UnpackUint16(src)
		if err == nil {
			val.SetUint(uint64(v))
		}
		return n, err
	case reflect.Uint32:
		n, v, err := msgpack.UnpackUint32(src)
		if err == nil {
			val.SetUint(uint64(v))
		}
		return n, err
	case reflect.Float32:
		n, v, err := msgpack.UnpackFloat32(src)
		if err == nil {
			val.SetFloat(float64(v))
		}
		return n, err
	case reflect.Float64:
		n, v, err := msgpack.UnpackFloat64(src)
		if err == nil {
			val.SetFloat(v)
		}
		return n, err
	case reflect.String:
		n, v, err := msgpack.UnpackString(src)
		if err == nil {
			val.SetString(v)
		}
		return n, err
	case reflect.Slice:
		if val.Type().Elem().Kind() == reflect.Uint8 {
			n, v, err := msgpack.UnpackBinary(src)
			if err == nil {
				val.SetBytes(v)
			}
			return n, err
		}
		total, count, err := msgpack.UnpackArrayHeader(src)
		if err != nil {
			return 0, err
		}
		out := reflect.MakeSlice(val.Type(), count, count)
		for i := 0; i < count; i++ {
			n, err := unmarshalValue(src, out.Index(i))
			if err != nil {
				return 0, errors.Wrapf(err, "index %d", i)
			}
			total += n
		}
		val.Set(out)
		return total, nil
	case reflect.Array:
		total, count, err := msgpack.UnpackArrayHeader(src)
		if err != nil {
			return 0, err
		}
		if count != val.Len() {
			return 0, msgpack.ErrUnexpectedArrayLength
		}
		for i := 0; i < count; i++ {
			n, err := unmarshalValue(src, val.Index(i))
			if err != nil {
				return 0, errors.Wrapf(err, "index %d", i)
			}
			total += n
		}
		return total, nil
	case reflect.Map:
		total, count, err := msgpack.UnpackMapHeader(src)
		if err != nil {
			return 0, err
		}
		out := reflect.MakeMapWithSize(val.Type(), count)
		keyType, valType := val.Type().Key(), val.Type().Elem()
		for i := 0; i < count; i++ {
			kv := reflect.New(keyType).Elem()
			n, err := unmarshalValue(src, kv)
			if err != nil {
				return 0, err
			}
			total += n
			vv := reflect.New(valType).Elem()
			n, err = unmarshalValue(src, vv)
			if err != nil {
				return 0, err
			}
			total += n
			out.SetMapIndex(kv, vv)
		}
		val.Set(out)
		return total, nil
	case reflect.Ptr:
		b, err := src.PeekByte()
		if err != nil {
			return 0, err
		}
		if b == 0xc0 { // format.Nil
			n, err := msgpack.UnpackNil(src)
			val.Set(reflect.Zero(val.Type()))
			return n, err
		}
		p := reflect.New(val.Type().Elem())
		n, err := unmarshalValue(src, p.Elem())
		if err != nil {
			return 0, err
		}
		val.Set(p)
		return n, nil
	case reflect.Struct:
		return unmarshalStruct(src, val)
	default:
		return 0, errors.Errorf("derive: unsupported field kind %s", val.Kind())
	}
}

// Union is implemented by user types that wrap a tagged-union value: a
// discriminant plus the active variant's payload (§4.9's "tagged union"
// derivation, generalized since Go has no native sum type).
type Union interface {
	// VariantTag returns the 32-bit discriminant of the active variant.
	VariantTag() uint32
	// VariantValue returns the active variant's payload, a struct (or
	// pointer to one) to be encoded as a record, per VariantTag.
	VariantValue() interface{}
}

// MarshalUnion encodes u as its discriminant followed by its active
// variant's field concatenation (§4.9: "discriminant-prefixed field
// concatenation").
func MarshalUnion(u Union) ([]byte, error) {
	sink := msgpack.NewSink()
	msgpack.PackUint64(sink, uint64(u.VariantTag()))
	val := reflect.ValueOf(u.VariantValue())
	for val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil, errors.Errorf("derive: MarshalUnion: variant value is %s, not a struct", val.Kind())
	}
	if err := marshalStruct(sink, val); err != nil {
		return nil, err
	}
	return sink.Bytes(), nil
}

// UnmarshalUnion reads a discriminant and dispatches to newVariant(tag) to
// obtain a pointer to the zero value of the matching variant type, then
// decodes that variant's fields into it. newVariant must return
// msgpack.ErrInvalidVariant (or wrap it) for an unrecognized tag, matching
// the format spec's InvalidVariant error kind (§7).
func UnmarshalUnion(data []byte, newVariant func(tag uint32) (interface{}, error)) (int, uint32, interface{}, error) {
	src := msgpack.NewSliceSource(data)
	total, rawTag, err := msgpack.UnpackUint64(src)
	if err != nil {
		return 0, 0, nil, err
	}
	tag := uint32(rawTag)
	variant, err := newVariant(tag)
	if err != nil {
		return 0, tag, nil, err
	}
	val := reflect.ValueOf(variant)
	if val.Kind() != reflect.Ptr {
		return 0, tag, nil, errors.New("derive: UnmarshalUnion: newVariant must return a pointer")
	}
	n, err := unmarshalStruct(src, val.Elem())
	if err != nil {
		return 0, tag, nil, err
	}
	total += n
	return total, tag, variant, nil
}
