package msgpack

import "reflect"

// MaxFixedArrayWidth is the largest array length this package's fixed-size
// array codecs support directly, matching the original implementation's
// macro-generated impls (arrays up to length 64). Longer fixed-size arrays
// should go through PackSlice/UnpackArray instead.
const MaxFixedArrayWidth = 64

// PackFixedArray writes arr — which must be a Go array type ([N]T) — as a
// MessagePack array, encoding each element with packOne. Go cannot
// parameterize a function over an arbitrary compile-time array length N, so
// (unlike the per-width trait impls the derivation engine's source language
// uses) this single function covers every width up to MaxFixedArrayWidth via
// reflection, the same strategy creachadair/binpack's marshalSlice/
// marshalStruct use for their own reflect-driven field walk.
func PackFixedArray(sink Sink, arr any, packOne func(Sink, any) int) int {
	v := reflect.ValueOf(arr)
	if v.Kind() != reflect.Array {
		panic("msgpack: PackFixedArray: not an array")
	}
	n := v.Len()
	if n > MaxFixedArrayWidth {
		panic("msgpack: PackFixedArray: array length exceeds MaxFixedArrayWidth")
	}
	total := PackArrayHeader(sink, n)
	for i := 0; i < n; i++ {
		total += packOne(sink, v.Index(i).Interface())
	}
	return total
}

// UnpackFixedArray reads a MessagePack array into out, which must be a
// pointer to a Go array type (*[N]T). It is an error (ErrUnexpectedArrayLength)
// if the encoded length does not equal N exactly — fixed arrays, unlike
// slices, have a static width the decoder must honor (§7).
func UnpackFixedArray(src Source, out any, unpackOne func(Source) (int, any, error)) (int, error) {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Array {
		panic("msgpack: UnpackFixedArray: not a pointer to array")
	}
	elem := v.Elem()
	width := elem.Len()

	total, count, err := UnpackArrayHeader(src)
	if err != nil {
		return 0, err
	}
	if count != width {
		return 0, ErrUnexpectedArrayLength
	}
	for i := 0; i < count; i++ {
		n, val, err := unpackOne(src)
		if err != nil {
			return 0, err
		}
		total += n
		elem.Index(i).Set(reflect.ValueOf(val))
	}
	return total, nil
}

// Pack2 through Pack6 encode a short heterogeneous sequence as a MessagePack
// array — the Go-native stand-in for the source language's tuple codecs
// (tuples up to length 26). Go generics do not scale past a handful of
// distinct type parameters ergonomically; callers needing more fields than
// Pack6 covers should define a record type and use the derive package
// instead (see SPEC_FULL.md §0).
func Pack2[A, B any](sink Sink, a A, b B, pa func(Sink, A) int, pb func(Sink, B) int) int {
	n := PackArrayHeader(sink, 2)
	n += pa(sink, a)
	n += pb(sink, b)
	return n
}

func Pack3[A, B, C any](sink Sink, a A, b B, c C, pa func(Sink, A) int, pb func(Sink, B) int, pc func(Sink, C) int) int {
	n := PackArrayHeader(sink, 3)
	n += pa(sink, a)
	n += pb(sink, b)
	n += pc(sink, c)
	return n
}

func Unpack2[A, B any](src Source, ua func(Source) (int, A, error), ub func(Source) (int, B, error)) (int, A, B, error) {
	var a A
	var b B
	total, count, err := UnpackArrayHeader(src)
	if err != nil {
		return 0, a, b, err
	}
	if count != 2 {
		return 0, a, b, ErrUnexpectedArrayLength
	}
	n, a, err := ua(src)
	if err != nil {
		return 0, a, b, err
	}
	total += n
	n, b, err = ub(src)
	if err != nil {
		return 0, a, b, err
	}
	total += n
	return total, a, b, nil
}

func Unpack3[A, B, C any](src Source, ua func(Source) (int, A, error), ub func(Source) (int, B, error), uc func(Source) (int, C, error)) (int, A, B, C, error) {
	var a A
	var b B
	var c C
	total, count, err := UnpackArrayHeader(src)
	if err != nil {
		return 0, a, b, c, err
	}
	if count != 3 {
		return 0, a, b, c, ErrUnexpectedArrayLength
	}
	n, a, err := ua(src)
	if err != nil {
		return 0, a, b, c, err
	}
	total += n
	n, b, err = ub(src)
	if err != nil {
		return 0, a, b, c, err
	}
	total += n
	n, c, err = uc(src)
	if err != nil {
		return 0, a, b, c, err
	}
	total += n
	return total, a, b, c, nil
}

func Pack4[A, B, C, D any](sink Sink, a A, b B, c C, d D, pa func(Sink, A) int, pb func(Sink, B) int, pc func(Sink, C) int, pd func(Sink, D) int) int {
	n := PackArrayHeader(sink, 4)
	n += pa(sink, a)
	n += pb(sink, b)
	n += pc(sink, c)
	n += pd(sink, d)
	return n
}

func Pack5[A, B, C, D, E any](sink Sink, a A, b B, c C, d D, e E, pa func(Sink, A) int, pb func(Sink, B) int, pc func(Sink, C) int, pd func(Sink, D) int, pe func(Sink, E) int) int {
	n := PackArrayHeader(sink, 5)
	n += pa(sink, a)
	n += pb(sink, b)
	n += pc(sink, c)
	n += pd(sink, d)
	n += pe(sink, e)
	return n
}

func Pack6[A, B, C, D, E, F any](sink Sink, a A, b B, c C, d D, e E, f F, pa func(Sink, A) int, pb func(Sink, B) int, pc func(Sink, C) int, pd func(Sink, D) int, pe func(Sink, E) int, pf func(Sink, F) int) int {
	n := PackArrayHeader(sink, 6)
	n += pa(sink, a)
	n += pb(sink, b)
	n += pc(sink, c)
	n += pd(sink, d)
	n += pe(sink, e)
	n += pf(sink, f)
	return n
}

func Unpack4[A, B, C, D any](src Source, ua func(Source) (int, A, error), ub func(Source) (int, B, error), uc func(Source) (int, C, error), ud func(Source) (int, D, error)) (int, A, B, C, D, error) {
	var a A
	var b B
	var c C
	var d D
	total, count, err := UnpackArrayHeader(src)
	if err != nil {
		return 0, a, b, c, d, err
	}
	if count != 4 {
		return 0, a, b, c, d, ErrUnexpectedArrayLength
	}
	n, a, err := ua(src)
	if err != nil {
		return 0, a, b, c, d, err
	}
	total += n
	n, b, err = ub(src)
	if err != nil {
		return 0, a, b, c, d, err
	}
	total += n
	n, c, err = uc(src)
	if err != nil {
		return 0, a, b, c, d, err
	}
	total += n
	n, d, err = ud(src)
	if err != nil {
		return 0, a, b, c, d, err
	}
	total += n
	return total, a, b, c, d, nil
}

func Unpack5[A, B, C, D, E any](src Source, ua func(Source) (int, A, error), ub func(Source) (int, B, error), uc func(Source) (int, C, error), ud func(Source) (int, D, error), ue func(Source) (int, E, error)) (int, A, B, C, D, E, error) {
	var a A
	var b B
	var c C
	var d D
	var e E
	total, count, err := UnpackArrayHeader(src)
	if err != nil {
		return 0, a, b, c, d, e, err
	}
	if count != 5 {
		return 0, a, b, c, d, e, ErrUnexpectedArrayLength
	}
	n, a, err := ua(src)
	if err != nil {
		return 0, a, b, c, d, e, err
	}
	total += n
	n, b, err = ub(src)
	if err != nil {
		return 0, a, b, c, d, e, err
	}
	total += n
	n, c, err = uc(src)
	if err != nil {
		return 0, a, b, c, d, e, err
	}
	total += n
	n, d, err = ud(src)
	if err != nil {
		return 0, a, b, c, d, e, err
	}
	total += n
	n, e, err = ue(src)
	if err != nil {
		return 0, a, b, c, d, e, err
	}
	total += n
	return total, a, b, c, d, e, nil
}

func Unpack6[A, B, C, D, E, F any](src Source, ua func(Source) (int, A, error), ub func(Source) (int, B, error), uc func(Source) (int, C, error), ud func(Source) (int, D, error), ue func(Source) (int, E, error), uf func(Source) (int, F, error)) (int, A, B, C, D, E, F, error) {
	var a A
	var b B
	var c C
	var d D
	var e E
	var f F
	total, count, err := UnpackArrayHeader(src)
	if err != nil {
		return 0, a, b, c, d, e, f, err
	}
	if count != 6 {
		return 0, a, b, c, d, e, f, ErrUnexpectedArrayLength
	}
	n, a, err := ua(src)
	if err != nil {
		return 0, a, b, c, d, e, f, err
	}
	total += n
	n, b, err = ub(src)
	if err != nil {
		return 0, a, b, c, d, e, f, err
	}
	total += n
	n, c, err = uc(src)
	if err != nil {
		return 0, a, b, c, d, e, f, err
	}
	total += n
	n, d, err = ud(src)
	if err != nil {
		return 0, a, b, c, d, e, f, err
	}
	total += n
	n, e, err = ue(src)
	if err != nil {
		return 0, a, b, c, d, e, f, err
	}
	total += n
	n, f, err = uf(src)
	if err != nil {
		return 0, a, b, c, d, e, f, err
	}
	total += n
	return total, a, b, c, d, e, f, nil
}
