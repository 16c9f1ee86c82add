//go:build !msgpack_allocfree

package msgpack

// AllocFree reports whether this build was compiled with the msgpack_allocfree
// tag. When false (the default), the full owning value tree (Message,
// UnpackMessage) is available alongside the allocation-minimal Walk API.
const AllocFree = false
