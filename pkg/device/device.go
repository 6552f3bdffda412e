// CNN accelerator memory-map profiles
//
// Copyright (C) 2026  AI8X Go Tools
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package device

import (
	"fmt"
	"strings"

	"github.com/jerren9312/ai8x-synthesis/pkg/errors"
)

// Profile describes the memory map and capacity limits of one CNN
// accelerator part. A Profile is read-only after construction and may be
// shared by any number of writers.
type Profile struct {
	// Name is the part name, e.g. "AI85".
	Name string

	// APBBase is the default peripheral base address added to every
	// emitted address.
	APBBase uint32

	// GroupOffs is the address stride between processor groups.
	GroupOffs uint32

	// CtlBase is the offset of the global control registers within a
	// group, and CtlCount the number of 32-bit control registers (the
	// per-layer register file starts right after them).
	CtlBase  uint32
	CtlCount int

	// BiasBase, TRAMBase and MRAMBase are the offsets of the bias
	// memory, temporal RAM and mask (kernel) RAM within a group.
	BiasBase uint32
	TRAMBase uint32
	MRAMBase uint32

	// TRAMSize is the number of 32-bit TRAM cells per processor.
	TRAMSize int

	// MaxLayers is the depth of the per-layer register file.
	MaxLayers int

	// MaskWidth is the number of 16-byte kernel slots per processor.
	MaskWidth int

	// ProcsPerGroup and NumGroups describe the processor array.
	// MaxChannels = ProcsPerGroup * NumGroups.
	ProcsPerGroup int
	NumGroups     int
}

// MaxChannels returns the total number of processors (channels) on the part.
func (p *Profile) MaxChannels() int {
	return p.ProcsPerGroup * p.NumGroups
}

// AI84 returns the memory map of the AI84 test silicon.
func AI84() *Profile {
	return &Profile{
		Name:          "AI84",
		APBBase:       0x50100000,
		GroupOffs:     0x100000,
		CtlBase:       0,
		CtlCount:      4,
		BiasBase:      0xC800,
		TRAMBase:      0x800,
		MRAMBase:      0x4800,
		TRAMSize:      256,
		MaxLayers:     32,
		MaskWidth:     128,
		ProcsPerGroup: 16,
		NumGroups:     4,
	}
}

// AI85 returns the memory map of the AI85 (MAX78000) accelerator.
func AI85() *Profile {
	return &Profile{
		Name:          "AI85",
		APBBase:       0x50000000,
		GroupOffs:     0x400000,
		CtlBase:       0x100000,
		CtlCount:      4,
		BiasBase:      0x108000,
		TRAMBase:      0x110000,
		MRAMBase:      0x180000,
		TRAMSize:      3072,
		MaxLayers:     32,
		MaskWidth:     768,
		ProcsPerGroup: 16,
		NumGroups:     4,
	}
}

// Lookup returns the profile for a part name (case-insensitive).
func Lookup(name string) (*Profile, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "AI84":
		return AI84(), nil
	case "AI85", "MAX78000":
		return AI85(), nil
	}
	return nil, errors.DeviceError(fmt.Sprintf("unknown part %q (supported: AI84, AI85)", name))
}

// Validate checks the profile for internal consistency. All region offsets
// must fall inside the group stride, counts must be positive, and every
// word-addressed quantity must be word-aligned.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return errors.DeviceError("profile has no name")
	}
	if p.GroupOffs == 0 || p.GroupOffs%4 != 0 {
		return errors.DeviceError(fmt.Sprintf("%s: bad group stride %#x", p.Name, p.GroupOffs))
	}
	for _, r := range []struct {
		name string
		offs uint32
	}{
		{"control", p.CtlBase},
		{"bias", p.BiasBase},
		{"tram", p.TRAMBase},
		{"mram", p.MRAMBase},
	} {
		if r.offs >= p.GroupOffs {
			return errors.DeviceError(fmt.Sprintf("%s: %s base %#x outside group stride %#x",
				p.Name, r.name, r.offs, p.GroupOffs))
		}
		if r.offs%4 != 0 {
			return errors.DeviceError(fmt.Sprintf("%s: %s base %#x not word aligned",
				p.Name, r.name, r.offs))
		}
	}
	for _, c := range []struct {
		name string
		n    int
	}{
		{"control register count", p.CtlCount},
		{"tram size", p.TRAMSize},
		{"max layers", p.MaxLayers},
		{"mask width", p.MaskWidth},
		{"processors per group", p.ProcsPerGroup},
		{"group count", p.NumGroups},
	} {
		if c.n <= 0 {
			return errors.DeviceError(fmt.Sprintf("%s: %s must be positive, got %d",
				p.Name, c.name, c.n))
		}
	}
	return nil
}
