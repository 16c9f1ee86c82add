//go:build !msgpack_lenient

package msgpack

// handleOverflow implements the strict half of §6.4: over-length inputs
// (a string, binary, array, map, or extension length prefix that would
// exceed 2^32-1) terminate the process. This is the default build; compile
// with -tags msgpack_lenient to get the silent, zero-byte-write behavior
// instead.
//
// kind names the thing that overflowed, for the panic message.
func handleOverflow(kind string) int {
	panic("msgpack: " + kind + " exceeds 2^32-1, strict mode enabled")
}
