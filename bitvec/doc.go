// Package bitvec implements a word-packed boolean vector.
//
// A Vector stores one bit per row in an array of 64-bit words. Bitwise
// logic (And, Or, NotInPlace) runs at word granularity, and the word-level
// accessors let callers compute disjoint output words concurrently without
// any shared mutable state. Bits past the logical length are always zero.
package bitvec
