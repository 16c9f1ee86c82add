//go:build msgpack_allocfree

package msgpack

// AllocFree reports whether this build was compiled with the msgpack_allocfree
// tag (§6.5). When true, UnpackMessage does not exist in this build (see
// unpack_message_alloc.go) and UnpackExtension/Walk refuse the variable-
// length ext8/16/32 extension forms, except the 12-byte ext8 timestamp
// (see extpayload_noalloc.go); callers use
// Walk with a Visitor for everything else, which never constructs a tree.
const AllocFree = true
