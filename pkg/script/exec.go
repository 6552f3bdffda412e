// Register script execution
//
// Copyright (C) 2026  AI8X Go Tools
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package script

import (
	"github.com/jerren9312/ai8x-synthesis/pkg/apb"
	"github.com/jerren9312/ai8x-synthesis/pkg/errors"
	"github.com/jerren9312/ai8x-synthesis/pkg/log"
)

func logger() *log.Logger {
	return log.GetLogger("script")
}

// Exec applies the parsed commands to the write scheduler in source order.
// Execution stops at the first failing command; the returned error names
// its line.
func Exec(w *apb.Writer, cmds []Command) error {
	for i := range cmds {
		if err := execOne(w, &cmds[i]); err != nil {
			if serr, ok := err.(*errors.SynthError); ok && serr.Line == 0 {
				serr.SetLine(cmds[i].Line)
			}
			return err
		}
	}
	// A partial word left in the accumulator would silently vanish;
	// scripts must end byte runs with an explicit flush.
	return nil
}

func execOne(w *apb.Writer, cmd *Command) error {
	switch cmd.Op {
	case "ctl":
		group, err := cmd.IntArg("group")
		if err != nil {
			return err
		}
		reg, err := cmd.IntArg("reg")
		if err != nil {
			return err
		}
		val, err := cmd.Uint32Arg("val")
		if err != nil {
			return err
		}
		return w.WriteCtl(group, reg, val, "")

	case "lreg":
		group, err := cmd.IntArg("group")
		if err != nil {
			return err
		}
		layer, err := cmd.IntArg("layer")
		if err != nil {
			return err
		}
		reg, err := cmd.IntArg("reg")
		if err != nil {
			return err
		}
		val, err := cmd.Uint32Arg("val")
		if err != nil {
			return err
		}
		return w.WriteLayerReg(group, layer, reg, val, "")

	case "bias":
		group, err := cmd.IntArg("group")
		if err != nil {
			return err
		}
		offs, err := cmd.IntArg("offs")
		if err != nil {
			return err
		}
		val, err := cmd.Uint32Arg("val")
		if err != nil {
			return err
		}
		return w.WriteBias(group, offs, val)

	case "tram":
		group, err := cmd.IntArg("group")
		if err != nil {
			return err
		}
		proc, err := cmd.IntArg("proc")
		if err != nil {
			return err
		}
		offs, err := cmd.IntArg("offs")
		if err != nil {
			return err
		}
		val, err := cmd.Uint32Arg("val")
		if err != nil {
			return err
		}
		return w.WriteTRAM(group, proc, offs, val, "")

	case "kern":
		layer, err := cmd.IntArg("layer")
		if err != nil {
			return err
		}
		ch, err := cmd.IntArg("ch")
		if err != nil {
			return err
		}
		idx, err := cmd.IntArg("idx")
		if err != nil {
			return err
		}
		k, err := cmd.KernelArg("k")
		if err != nil {
			return err
		}
		dev := w.Device()
		if ch >= dev.MaxChannels() {
			return errors.ScriptInvalidParameterError(cmd.Op, "ch", "",
				"channel exceeds device limit").SetLine(cmd.Line)
		}
		if idx >= dev.MaskWidth {
			return errors.ScriptInvalidParameterError(cmd.Op, "idx", "",
				"kernel index exceeds mask width").SetLine(cmd.Line)
		}
		return w.WriteKernel(layer, ch, idx, k)

	case "byte":
		offs, err := cmd.IntArg("offs")
		if err != nil {
			return err
		}
		val, err := cmd.Uint32Arg("val")
		if err != nil {
			return err
		}
		if val > 0xff {
			return errors.ScriptInvalidParameterError(cmd.Op, "val", "",
				"byte value exceeds 8 bits").SetLine(cmd.Line)
		}
		if err := checkOffset(w, cmd, offs); err != nil {
			return err
		}
		return w.WriteByte(offs, byte(val), "")

	case "flush":
		offs, err := cmd.IntArg("offs")
		if err != nil {
			return err
		}
		if err := checkOffset(w, cmd, offs); err != nil {
			return err
		}
		return w.FlushBytes(offs, "")

	case "write":
		addr, err := cmd.Uint32Arg("addr")
		if err != nil {
			return err
		}
		val, err := cmd.Uint32Arg("val")
		if err != nil {
			return err
		}
		noVerify, err := cmd.BoolArg("noverify", false)
		if err != nil {
			return err
		}
		return w.Write(addr, val, "", noVerify)

	case "verify":
		addr, err := cmd.Uint32Arg("addr")
		if err != nil {
			return err
		}
		val, err := cmd.Uint32Arg("val")
		if err != nil {
			return err
		}
		rv, err := cmd.BoolArg("rv", false)
		if err != nil {
			return err
		}
		return w.Verify(addr, val, "", rv)
	}
	logger().Debug("line %d: unknown op %q", cmd.Line, cmd.Op)
	return errors.ScriptUnknownOpError(cmd.Op).SetLine(cmd.Line)
}

// checkOffset rejects byte offsets outside the device's addressable region
// (all groups). The engine treats such offsets as caller bugs and panics;
// script input is user data, so it gets a coded error instead.
func checkOffset(w *apb.Writer, cmd *Command, offs int) error {
	dev := w.Device()
	if limit := int(dev.GroupOffs) * dev.NumGroups; offs >= limit {
		return errors.ScriptInvalidParameterError(cmd.Op, "offs", "",
			"offset outside the addressable region").SetLine(cmd.Line)
	}
	return nil
}
