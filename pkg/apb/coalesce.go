// Byte-to-word write coalescing
//
// Copyright (C) 2026  AI8X Go Tools
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package apb

// accumulator collects individually addressed byte writes into 4-byte
// little-endian words. It holds at most three bytes between calls; the
// fourth byte completes the word and forces a flush.
type accumulator struct {
	data uint32 // word under construction
	num  int    // bytes collected, 0..3 between operations
	offs int    // offset the next incoming byte is expected at
}

// add merges a byte destined for the current expected offset into the word
// under construction. The caller must flush first when the byte's offset is
// discontiguous, and again when add reports the word is complete.
func (a *accumulator) add(val byte) (full bool) {
	a.data |= uint32(val) << (8 * a.num)
	a.num++
	a.offs++
	return a.num == 4
}

// take is the flush transition. It retargets the accumulator at next and,
// when bytes are pending, returns the completed word and its address
// (the offset of the word's first byte; positions never filled stay zero).
// With nothing pending it is a pure offset reset and ok is false.
func (a *accumulator) take(next int) (addr int, word uint32, ok bool) {
	if a.num > 0 {
		addr = a.offs - a.num
		word = a.data
		ok = true
		a.num = 0
		a.data = 0
	}
	a.offs = next
	return addr, word, ok
}
