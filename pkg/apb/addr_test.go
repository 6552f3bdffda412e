// Address translator tests
//
// Copyright (C) 2026  AI8X Go Tools
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package apb

import (
	"testing"
)

func TestAddressFormulas(t *testing.T) {
	d := testProfile()

	tests := []struct {
		name string
		got  uint32
		want uint32
	}{
		// group stride 0x10000, ctl base 0: group 1, reg 2
		{"ctl", CtlAddr(d, 1, 2), 0x10000 + 2*4},
		// layer file starts after 4 ctl regs; reg-major layout
		{"lreg", LayerRegAddr(d, 1, 3, 2), 0x10000 + 4*4 + 2*4*8 + 3*4},
		{"bias", BiasAddr(d, 0, 5), 0x8000 + 5*4},
		{"tram", TRAMAddr(d, 1, 2, 3), 0x10000 + 0x1000 + 2*64*4 + 3*4},
		// channel 6 = group 1 processor 2; 16-byte slots
		{"kernel", KernelAddr(d, 6, 2), 0x10000 + 0x4000 + 2*16*16 + 2*16},
	}
	for _, tc := range tests {
		if tc.got != tc.want {
			t.Errorf("%s: addr %08x, want %08x", tc.name, tc.got, tc.want)
		}
	}
}

func TestKernelSlotAlignment(t *testing.T) {
	d := testProfile()
	for ch := 0; ch < d.MaxChannels(); ch++ {
		for idx := 0; idx < d.MaskWidth; idx++ {
			if addr := KernelAddr(d, ch, idx); addr%16 != 0 {
				t.Fatalf("KernelAddr(%d, %d) = %08x not 16-byte aligned", ch, idx, addr)
			}
		}
	}
}

func TestAddressContractViolations(t *testing.T) {
	d := testProfile()

	tests := []struct {
		name string
		call func()
	}{
		{"negative group", func() { CtlAddr(d, -1, 0) }},
		{"negative reg", func() { CtlAddr(d, 0, -1) }},
		{"negative layer", func() { LayerRegAddr(d, 0, -1, 0) }},
		{"negative proc", func() { TRAMAddr(d, 0, -1, 0) }},
		{"channel limit", func() { KernelAddr(d, d.MaxChannels(), 0) }},
		{"index limit", func() { KernelAddr(d, 0, d.MaskWidth) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic")
				}
			}()
			tc.call()
		})
	}
}
