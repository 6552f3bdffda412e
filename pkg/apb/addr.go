// Address computation for the CNN accelerator register and memory regions
//
// Copyright (C) 2026  AI8X Go Tools
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package apb

import (
	"fmt"

	"github.com/jerren9312/ai8x-synthesis/pkg/device"
)

// The translators below are pure: they map symbolic coordinates to byte
// addresses relative to the accelerator's APB window using only the device
// profile. Out-of-range coordinates are caller bugs and panic immediately;
// they are never reported as recoverable errors.

func checkCoord(name string, v int) {
	if v < 0 {
		panic(fmt.Sprintf("apb: negative %s %d", name, v))
	}
}

// CtlAddr returns the address of global control register reg in group.
func CtlAddr(d *device.Profile, group, reg int) uint32 {
	checkCoord("group", group)
	checkCoord("reg", reg)
	return d.GroupOffs*uint32(group) + d.CtlBase + uint32(reg)*4
}

// LayerRegAddr returns the address of per-layer register reg for layer in
// group. The layer register file starts directly after the global control
// registers and is laid out register-major: all layers of register 0, then
// all layers of register 1, and so on.
func LayerRegAddr(d *device.Profile, group, layer, reg int) uint32 {
	checkCoord("group", group)
	checkCoord("layer", layer)
	checkCoord("reg", reg)
	return d.GroupOffs*uint32(group) + d.CtlBase + uint32(d.CtlCount)*4 +
		uint32(reg)*4*uint32(d.MaxLayers) + uint32(layer)*4
}

// BiasAddr returns the address of bias cell offs in group's bias memory.
func BiasAddr(d *device.Profile, group, offs int) uint32 {
	checkCoord("group", group)
	checkCoord("offs", offs)
	return d.GroupOffs*uint32(group) + d.BiasBase + uint32(offs)*4
}

// TRAMAddr returns the address of TRAM cell offs belonging to processor
// proc in group.
func TRAMAddr(d *device.Profile, group, proc, offs int) uint32 {
	checkCoord("group", group)
	checkCoord("proc", proc)
	checkCoord("offs", offs)
	return d.GroupOffs*uint32(group) + d.TRAMBase +
		uint32(proc)*uint32(d.TRAMSize)*4 + uint32(offs)*4
}

// KernelAddr returns the address of the 16-byte kernel slot idx of channel
// ch in mask RAM. The channel selects the group (ch / ProcsPerGroup) and the
// processor within it (ch % ProcsPerGroup); each processor owns MaskWidth
// consecutive 16-byte slots.
func KernelAddr(d *device.Profile, ch, idx int) uint32 {
	checkCoord("channel", ch)
	checkCoord("index", idx)
	if ch >= d.MaxChannels() {
		panic(fmt.Sprintf("apb: channel %d exceeds device limit %d", ch, d.MaxChannels()))
	}
	if idx >= d.MaskWidth {
		panic(fmt.Sprintf("apb: kernel index %d exceeds mask width %d", idx, d.MaskWidth))
	}
	return d.GroupOffs*uint32(ch/d.ProcsPerGroup) + d.MRAMBase +
		uint32(ch%d.ProcsPerGroup)*uint32(d.MaskWidth)*16 + uint32(idx)*16
}
