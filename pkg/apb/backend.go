// Output backends for the APB write scheduler
//
// Copyright (C) 2026  AI8X Go Tools
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package apb

import (
	"fmt"
	"io"

	"github.com/jerren9312/ai8x-synthesis/pkg/errors"
)

// Backend emits one write or read-back verification to the output stream.
// A backend is selected once at construction of a Writer and is never
// switched afterwards.
type Backend interface {
	// Write emits a single word write of val to addr. noVerify suppresses
	// the read-back guard for this write even when verification is
	// globally enabled. comment is appended verbatim where the encoding
	// has room for it.
	Write(addr, val uint32, comment string, noVerify bool) error

	// Verify emits a read-back check of val at addr. The meaning of rv is
	// backend specific; see TopBackend.Verify.
	Verify(addr, val uint32, comment string, rv bool) error

	// SetSink redirects output to w and resets any per-stream state
	// (the memory-image line counter).
	SetSink(w io.Writer)
}

// BlockBackend encodes writes as a raw memory image: an address record
// followed by a data record, each tagged with a 16-bit line index that
// advances by two per write. The image format has no conditional read-back,
// so Verify emits nothing.
type BlockBackend struct {
	sink  io.Writer
	base  uint32
	foffs uint16
}

// NewBlockBackend creates a memory-image backend writing to w. base is
// added to every emitted address.
func NewBlockBackend(w io.Writer, base uint32) *BlockBackend {
	return &BlockBackend{sink: w, base: base}
}

// Write emits the @line/address and @line+1/data record pair.
func (b *BlockBackend) Write(addr, val uint32, comment string, noVerify bool) error {
	addr += b.base
	if _, err := fmt.Fprintf(b.sink, "@%04x %08x\n@%04x %08x\n",
		b.foffs, addr, b.foffs+1, val); err != nil {
		return errors.EmitError(err)
	}
	b.foffs += 2
	return nil
}

// Verify does nothing: the memory image cannot express a read-back check.
func (b *BlockBackend) Verify(addr, val uint32, comment string, rv bool) error {
	return nil
}

// SetSink redirects output to w and restarts the line counter at 0.
func (b *BlockBackend) SetSink(w io.Writer) {
	b.sink = w
	b.foffs = 0
}

// TopBackend encodes writes as C statements performing volatile pointer
// stores, optionally guarded by read-back verification.
type TopBackend struct {
	sink         io.Writer
	base         uint32
	verifyWrites bool
}

// NewTopBackend creates an inline-statement backend writing to w. base is
// added to every emitted address. When verifyWrites is true, every write
// not marked noVerify is followed by a read-back guard.
func NewTopBackend(w io.Writer, base uint32, verifyWrites bool) *TopBackend {
	return &TopBackend{sink: w, base: base, verifyWrites: verifyWrites}
}

// Write emits a volatile store statement, plus a read-back guard when
// verification is enabled and not suppressed for this call.
func (t *TopBackend) Write(addr, val uint32, comment string, noVerify bool) error {
	addr += t.base
	if _, err := fmt.Fprintf(t.sink,
		"  *((volatile uint32_t *) 0x%08x) = 0x%08x;%s\n", addr, val, comment); err != nil {
		return errors.EmitError(err)
	}
	if t.verifyWrites && !noVerify {
		if _, err := fmt.Fprintf(t.sink,
			"  if (*((volatile uint32_t *) 0x%08x) != 0x%08x) return 0;\n",
			addr, val); err != nil {
			return errors.EmitError(err)
		}
	}
	return nil
}

// Verify emits a read-back guard that returns an error code when memory at
// addr does not contain val. When rv is true the guard is supposed to set
// the status word instead of returning immediately; both branches emit the
// same early-return text for now.
func (t *TopBackend) Verify(addr, val uint32, comment string, rv bool) error {
	addr += t.base
	var err error
	if rv {
		// TODO: emit a status-word update here instead of the early
		// return once the firmware defines one.
		_, err = fmt.Fprintf(t.sink,
			"  if (*((volatile uint32_t *) 0x%08x) != 0x%08x) return 0;%s\n",
			addr, val, comment)
	} else {
		_, err = fmt.Fprintf(t.sink,
			"  if (*((volatile uint32_t *) 0x%08x) != 0x%08x) return 0;%s\n",
			addr, val, comment)
	}
	if err != nil {
		return errors.EmitError(err)
	}
	return nil
}

// SetSink redirects output to w.
func (t *TopBackend) SetSink(w io.Writer) {
	t.sink = w
}
