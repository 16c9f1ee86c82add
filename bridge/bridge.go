// Package bridge adapts this module's value tree to
// github.com/vmihailenco/msgpack/v5, the general-purpose reflection-driven
// MessagePack library kolide-launcher itself depends on and calls directly
// (msgpack.Marshal(signRequest) style, struct-tag driven). The bridge lets a
// Message participate as an ordinary Go value anywhere that library's
// Marshal/Unmarshal is already wired into a larger system, at the cost of
// round-tripping through plain interface{} rather than this module's own
// tighter wire-level codec.
package bridge

import (
	"github.com/pkg/errors"
	vmmsgpack "github.com/vmihailenco/msgpack/v5"

	msgpack "github.com/go-msgpacker/msgpacker"
)

// Marshal encodes m via vmihailenco/msgpack/v5's generic encoder, by first
// lowering m to a plain interface{} tree.
func Marshal(m msgpack.Message) ([]byte, error) {
	v, err := ToInterface(m)
	if err != nil {
		return nil, errors.Wrap(err, "bridge: Marshal")
	}
	data, err := vmmsgpack.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "bridge: Marshal")
	}
	return data, nil
}

// Unmarshal decodes data via vmihailenco/msgpack/v5's generic decoder into
// a plain interface{} tree, then lifts that into a Message.
func Unmarshal(data []byte) (msgpack.Message, error) {
	var v interface{}
	if err := vmmsgpack.Unmarshal(data, &v); err != nil {
		return msgpack.Message{}, errors.Wrap(err, "bridge: Unmarshal")
	}
	return FromInterface(v)
}

// ToInterface lowers m to the plain Go value vmihailenco/msgpack/v5's
// generic encoder understands: maps become map[string]interface{}
// (requiring every map key to be a string-kind Message — ErrNonStringMapKey
// otherwise), arrays become []interface{}, and the remaining kinds map onto
// their natural Go type. Extension and Timestamp values are lowered to
// sentinel maps (type and payload bytes, or seconds and nanoseconds) that
// FromInterface recognizes, since the generic encoder has no
// extension-header primitive of its own to drive.
func ToInterface(m msgpack.Message) (interface{}, error) {
	switch m.Kind() {
	case msgpack.KindNil:
		return nil, nil
	case msgpack.KindBool:
		v, _ := m.AsBool()
		return v, nil
	case msgpack.KindInt:
		v, _ := m.AsInt()
		return v, nil
	case msgpack.KindUint:
		v, _ := m.AsUint()
		return v, nil
	case msgpack.KindFloat32:
		v, _ := m.AsFloat32()
		return v, nil
	case msgpack.KindFloat64:
		v, _ := m.AsFloat64()
		return v, nil
	case msgpack.KindString:
		v, _ := m.AsString()
		return v, nil
	case msgpack.KindBinary:
		v, _ := m.AsBinary()
		return v, nil
	case msgpack.KindArray:
		arr, _ := m.AsArray()
		out := make([]interface{}, len(arr))
		for i, el := range arr {
			v, err := ToInterface(el)
			if err != nil {
				return nil, errors.Wrapf(err, "index %d", i)
			}
			out[i] = v
		}
		return out, nil
	case msgpack.KindMap:
		pairs, _ := m.AsMap()
		out := make(map[string]interface{}, len(pairs))
		for _, p := range pairs {
			k, ok := p.Key.AsString()
			if !ok {
				return nil, ErrNonStringMapKey
			}
			v, err := ToInterface(p.Value)
			if err != nil {
				return nil, errors.Wrapf(err, "key %q", k)
			}
			out[k] = v
		}
		return out, nil
	case msgpack.KindExtension:
		ext, _ := m.AsExtension()
		return map[string]interface{}{
			"__msgpack_ext_type": int64(ext.Type),
			"__msgpack_ext_data": ext.Payload,
		}, nil
	case msgpack.KindTimestamp:
		ts, _ := m.AsTimestamp()
		return map[string]interface{}{
			"__msgpack_timestamp_seconds":     ts.Seconds,
			"__msgpack_timestamp_nanoseconds": uint64(ts.Nanoseconds),
		}, nil
	default:
		return nil, errors.Errorf("bridge: ToInterface: unhandled kind %d", m.Kind())
	}
}

// ErrNonStringMapKey is returned by ToInterface when a Message map holds a
// non-string key: vmihailenco/msgpack/v5's generic interface{} decode only
// round-trips string-keyed maps, so this bridge cannot carry the general
// case.
var ErrNonStringMapKey = errors.New("bridge: map key is not a string")

// FromInterface lifts a decoded interface{} value — as vmihailenco/msgpack/
// v5's generic decoder produces it — back into a Message.
func FromInterface(v interface{}) (msgpack.Message, error) {
	switch t := v.(type) {
	case nil:
		return msgpack.NewNil(), nil
	case bool:
		return msgpack.NewBool(t), nil
	case int64:
		return msgpack.NewInt(t), nil
	case uint64:
		return msgpack.NewUint(t), nil
	case int8:
		return msgpack.NewInt(int64(t)), nil
	case int16:
		return msgpack.NewInt(int64(t)), nil
	case int32:
		return msgpack.NewInt(int64(t)), nil
	case int:
		return msgpack.NewInt(int64(t)), nil
	case uint8:
		return msgpack.NewUint(uint64(t)), nil
	case uint16:
		return msgpack.NewUint(uint64(t)), nil
	case uint32:
		return msgpack.NewUint(uint64(t)), nil
	case float32:
		return msgpack.NewFloat32(t), nil
	case float64:
		return msgpack.NewFloat64(t), nil
	case string:
		return msgpack.NewString(t), nil
	case []byte:
		return msgpack.NewBinary(t), nil
	case []interface{}:
		out := make([]msgpack.Message, len(t))
		for i, el := range t {
			m, err := FromInterface(el)
			if err != nil {
				return msgpack.Message{}, errors.Wrapf(err, "index %d", i)
			}
			out[i] = m
		}
		return msgpack.NewArray(out), nil
	case map[string]interface{}:
		if ext, ok := extensionFields(t); ok {
			return ext, nil
		}
		out := make([]msgpack.Pair[msgpack.Message, msgpack.Message], 0, len(t))
		for k, val := range t {
			mv, err := FromInterface(val)
			if err != nil {
				return msgpack.Message{}, errors.Wrapf(err, "key %q", k)
			}
			out = append(out, msgpack.Pair[msgpack.Message, msgpack.Message]{
				Key:   msgpack.NewString(k),
				Value: mv,
			})
		}
		return msgpack.NewMap(out), nil
	default:
		return msgpack.Message{}, errors.Errorf("bridge: FromInterface: unhandled type %T", v)
	}
}

// extensionFields recognizes the sentinel map shapes ToInterface produces
// for Extension and Timestamp values and reconstructs them directly, rather
// than round-tripping as an ordinary map.
func extensionFields(m map[string]interface{}) (msgpack.Message, bool) {
	if rawType, ok := m["__msgpack_ext_type"]; ok {
		typ, _ := rawType.(int64)
		payload, _ := m["__msgpack_ext_data"].([]byte)
		return msgpack.NewExtension(msgpack.Extension{Type: int8(typ), Payload: payload}), true
	}
	if rawSecs, ok := m["__msgpack_timestamp_seconds"]; ok {
		secs, _ := rawSecs.(uint64)
		nanos, _ := m["__msgpack_timestamp_nanoseconds"].(uint64)
		return msgpack.NewTimestamp(msgpack.Timestamp{Seconds: secs, Nanoseconds: uint32(nanos)}), true
	}
	return msgpack.Message{}, false
}
