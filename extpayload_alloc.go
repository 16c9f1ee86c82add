//go:build !msgpack_allocfree

package msgpack

// readExtPayload reads an ext8/16/32 (non-timestamp) payload of the given
// length and returns an owned copy. This is the only shape of extension
// payload large enough to not fit a fixed-width fixextN form, so it is the
// one §6.5 names as excluded from the msgpack_allocfree build; the fixed
// widths (fixext1/2/4/8/16) always copy regardless of this flag, since their
// size is bounded independent of the wire length prefix.
func readExtPayload(src Source, length int) ([]byte, error) {
	raw, err := src.ReadN(length)
	if err != nil {
		return nil, err
	}
	return clone(raw), nil
}
