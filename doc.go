// Package serialize provides a uniform way to serialize generic objects
// into a textual (JSON) or compact binary (msgpack) representation.
//
// See the [github.com/tarantool/go-serialize/jsonutil] package for reducing
// arbitrary values to JSON-safe primitives and the
// [github.com/tarantool/go-serialize/msgpackutil] package for the extensible
// msgpack type-handler registry.
package serialize
