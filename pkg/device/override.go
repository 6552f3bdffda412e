// Device profile overrides from configuration files
//
// Copyright (C) 2026  AI8X Go Tools
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package device

import (
	"github.com/jerren9312/ai8x-synthesis/pkg/config"
)

// ApplyOverrides returns a copy of base with any fields overridden by the
// [device] section of cfg. Missing sections or options leave the base value
// in place; the result is validated before it is returned. Overrides exist
// for bring-up of silicon respins whose memory map differs from the
// released parts.
func ApplyOverrides(base *Profile, cfg *config.Config) (*Profile, error) {
	p := *base
	sec := cfg.GetSectionOptional("device")
	if sec == nil {
		return &p, nil
	}

	var err error
	if p.Name, err = sec.Get("name", p.Name); err != nil {
		return nil, err
	}
	if p.APBBase, err = sec.GetUint32("apb_base", p.APBBase); err != nil {
		return nil, err
	}
	if p.GroupOffs, err = sec.GetUint32("group_offs", p.GroupOffs); err != nil {
		return nil, err
	}
	if p.CtlBase, err = sec.GetUint32("ctl_base", p.CtlBase); err != nil {
		return nil, err
	}
	if p.BiasBase, err = sec.GetUint32("bias_base", p.BiasBase); err != nil {
		return nil, err
	}
	if p.TRAMBase, err = sec.GetUint32("tram_base", p.TRAMBase); err != nil {
		return nil, err
	}
	if p.MRAMBase, err = sec.GetUint32("mram_base", p.MRAMBase); err != nil {
		return nil, err
	}

	one := 1
	for _, f := range []struct {
		option string
		dst    *int
	}{
		{"ctl_count", &p.CtlCount},
		{"tram_size", &p.TRAMSize},
		{"max_layers", &p.MaxLayers},
		{"mask_width", &p.MaskWidth},
		{"procs_per_group", &p.ProcsPerGroup},
		{"num_groups", &p.NumGroups},
	} {
		if *f.dst, err = sec.GetIntWithBounds(f.option, &one, nil, *f.dst); err != nil {
			return nil, err
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
