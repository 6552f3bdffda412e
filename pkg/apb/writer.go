// APB write scheduling for CNN accelerator initialization streams
//
// The Writer turns symbolic register, memory and kernel writes into an
// ordered instruction stream in one of two encodings (memory image or
// inline C statements), coalescing byte writes into aligned words and
// flagging accidental re-writes of the same word.
//
// Copyright (C) 2026  AI8X Go Tools
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package apb

import (
	"fmt"
	"io"

	"github.com/jerren9312/ai8x-synthesis/pkg/device"
	"github.com/jerren9312/ai8x-synthesis/pkg/errors"
	"github.com/jerren9312/ai8x-synthesis/pkg/log"
)

// logger is fetched per call so that level changes made after package
// init (e.g. a CLI trace flag) take effect.
func logger() *log.Logger {
	return log.GetLogger("apb")
}

// Options configures a Writer at construction time.
type Options struct {
	// Base is added to every emitted address.
	Base uint32

	// BlockMode selects the raw memory-image encoding instead of inline
	// C statements.
	BlockMode bool

	// VerifyWrites follows every non-suppressed write with a read-back
	// guard (inline-statement encoding only).
	VerifyWrites bool

	// NoErrorStop downgrades overwrite detection from a returned error
	// to a logged warning.
	NoErrorStop bool
}

// Writer schedules writes to the accelerator's APB register and memory
// regions. It owns its output backend and overwrite bitmap exclusively;
// a Writer is not safe for concurrent use.
type Writer struct {
	dev     *device.Profile
	backend Backend
	acc     accumulator

	// mem holds one flag per word-aligned address slot across all
	// groups; a slot is set on the first coalesced word written there
	// and never cleared.
	mem []bool

	verifyWrites bool
	noErrorStop  bool
}

// NewWriter creates a write scheduler emitting to sink for the given
// device. The output encoding, base address and policy flags are fixed for
// the life of the Writer.
func NewWriter(sink io.Writer, dev *device.Profile, opts Options) *Writer {
	var backend Backend
	if opts.BlockMode {
		backend = NewBlockBackend(sink, opts.Base)
	} else {
		backend = NewTopBackend(sink, opts.Base, opts.VerifyWrites)
	}
	return &Writer{
		dev:          dev,
		backend:      backend,
		mem:          make([]bool, dev.GroupOffs*uint32(dev.NumGroups)/4),
		verifyWrites: opts.VerifyWrites,
		noErrorStop:  opts.NoErrorStop,
	}
}

// Device returns the memory-map profile the Writer was built for.
func (w *Writer) Device() *device.Profile {
	return w.dev
}

// SetSink redirects output to a new destination. The memory-image line
// counter restarts at 0; the overwrite bitmap is left untouched.
func (w *Writer) SetSink(sink io.Writer) {
	w.backend.SetSink(sink)
}

// Mem returns the overwrite bitmap, one flag per word-aligned address
// slot. The slice is live engine state; callers must treat it as
// read-only diagnostics.
func (w *Writer) Mem() []bool {
	return w.mem
}

// Write emits a raw word write of val to addr.
func (w *Writer) Write(addr, val uint32, comment string, noVerify bool) error {
	return w.backend.Write(addr, val, comment, noVerify)
}

// Verify emits a read-back check of val at addr.
func (w *Writer) Verify(addr, val uint32, comment string, rv bool) error {
	return w.backend.Verify(addr, val, comment, rv)
}

// WriteCtl sets global control register reg in group to val. An empty
// comment selects the default annotation.
func (w *Writer) WriteCtl(group, reg int, val uint32, comment string) error {
	if comment == "" {
		comment = fmt.Sprintf(" // global ctl %d", reg)
	}
	addr := CtlAddr(w.dev, group, reg)
	logger().Debug("R%02d (%08x): %08x%s", reg, addr, val, comment)
	return w.backend.Write(addr, val, comment, false)
}

// WriteLayerReg sets per-layer register reg for layer in group to val. An
// empty comment selects the default annotation.
func (w *Writer) WriteLayerReg(group, layer, reg int, val uint32, comment string) error {
	if comment == "" {
		comment = fmt.Sprintf(" // reg %d", reg)
	}
	addr := LayerRegAddr(w.dev, group, layer, reg)
	logger().Debug("G%d L%d R%02d (%08x): %08x%s", group, layer, reg, addr, val, comment)
	return w.backend.Write(addr, val, comment, false)
}

// WriteBias writes bias value bias to offset offs in group's bias memory.
// Bias values are 8 bits wide; the upper bits are masked off.
func (w *Writer) WriteBias(group, offs int, bias uint32) error {
	addr := BiasAddr(w.dev, group, offs)
	return w.backend.Write(addr, bias&0xff, " // Bias", false)
}

// WriteTRAM writes val to TRAM cell offs of processor proc in group.
// comment, when non-empty, prefixes the default annotation.
func (w *Writer) WriteTRAM(group, proc, offs int, val uint32, comment string) error {
	addr := TRAMAddr(w.dev, group, proc, offs)
	return w.backend.Write(addr, val,
		fmt.Sprintf(" // %sTRAM G%d P%d #%d", comment, group, proc, offs), false)
}

// WriteKernel writes a single 3x3 kernel k for channel ch to slot idx in
// mask RAM, packed into four consecutive words. The fourth word is the
// zero commit write that makes the hardware apply the loaded kernel.
// layer only annotates the output. Read-back of the individual writes is
// suppressed; when verification is globally enabled, all four words are
// verified afterwards instead.
func (w *Writer) WriteKernel(layer, ch, idx int, k [9]byte) error {
	addr := KernelAddr(w.dev, ch, idx)

	words := [4]uint32{
		uint32(k[0]),
		uint32(k[1])<<24 | uint32(k[2])<<16 | uint32(k[3])<<8 | uint32(k[4]),
		uint32(k[5])<<24 | uint32(k[6])<<16 | uint32(k[7])<<8 | uint32(k[8]),
		0,
	}
	comment := fmt.Sprintf(" // Layer %d: processor %d kernel #%d", layer, ch, idx)
	for i, word := range words {
		c := ""
		if i == 0 {
			c = comment
		}
		if err := w.backend.Write(addr+uint32(i)*4, word, c, true); err != nil {
			return err
		}
	}
	if w.verifyWrites {
		for i, word := range words {
			if err := w.backend.Verify(addr+uint32(i)*4, word, "", false); err != nil {
				return err
			}
		}
	}
	return nil
}

// FlushBytes flushes the byte accumulator and retargets it at offs. When
// bytes are pending, the completed word is checked against the overwrite
// bitmap and emitted; uncollected byte positions stay zero. With nothing
// pending this is a pure offset reset: no output, no overwrite check.
func (w *Writer) FlushBytes(offs int, comment string) error {
	checkCoord("offset", offs)
	addr, word, ok := w.acc.take(offs)
	if !ok {
		return nil
	}
	widx := addr >> 2
	if widx >= len(w.mem) {
		panic(fmt.Sprintf("apb: offset %#x outside addressable region", addr))
	}
	if w.mem[widx] {
		if !w.noErrorStop {
			return errors.OverwriteError(uint32(addr))
		}
		logger().Warn("overwriting location %08x", addr)
	}
	if err := w.backend.Write(uint32(addr), word, comment, false); err != nil {
		return err
	}
	w.mem[widx] = true
	return nil
}

// WriteByte adds the byte val at offset offs to the accumulator. A
// discontiguous offset flushes any partially collected word first; a
// fourth collected byte flushes the completed word immediately.
func (w *Writer) WriteByte(offs int, val byte, comment string) error {
	checkCoord("offset", offs)
	if offs != w.acc.offs {
		if err := w.FlushBytes(offs, ""); err != nil {
			return err
		}
	}
	if w.acc.add(val) {
		return w.FlushBytes(offs+1, comment)
	}
	return nil
}
