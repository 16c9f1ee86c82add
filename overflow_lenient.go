//go:build msgpack_lenient

package msgpack

// handleOverflow implements the lenient half of §6.4: an over-length input
// writes nothing and reports zero bytes written, instead of terminating the
// process. Decoding is unaffected by this flag either way.
func handleOverflow(kind string) int {
	return 0
}
