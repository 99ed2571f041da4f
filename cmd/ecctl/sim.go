// Copyright 2025 The openec authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build !tamago
// +build !tamago

package main

import "github.com/openec-dev/openec/mpu"

// simHW is an in-memory MPU register file with a unified map and the
// requested region count.
type simHW struct {
	typ  uint32
	ctrl uint32
	sel  uint8

	rbar [mpu.MaxRegions]uint32
	rasr [mpu.MaxRegions]uint32
}

func newSimHW(regions int) *simHW {
	return &simHW{typ: uint32(regions) << 8}
}

func (h *simHW) Type() uint32         { return h.typ }
func (h *simHW) Control() uint32      { return h.ctrl }
func (h *simHW) SetControl(v uint32)  { h.ctrl = v }
func (h *simHW) Select(n uint8)       { h.sel = n }
func (h *simHW) Base(addr uint32)     { h.rbar[h.sel] = addr }
func (h *simHW) AttrSize() uint32     { return h.rasr[h.sel] }
func (h *simHW) SetAttrSize(v uint32) { h.rasr[h.sel] = v }
func (h *simHW) Sync()                {}

// regions decodes the enabled slots back into region encodings, in
// slot order.
func (h *simHW) regions() (out []mpu.Region) {
	n := int(h.typ >> 8 & 0xff)

	for i := 0; i < n; i++ {
		rasr := h.rasr[i]

		if rasr&mpu.RegionEnable == 0 {
			continue
		}

		out = append(out, mpu.Region{
			Slot:     i,
			Base:     h.rbar[i],
			SizeBits: int(rasr>>1&0x1f) + 1,
			Disable:  uint8(rasr >> 8),
			Attr:     mpu.Attr(rasr >> 16),
			Enable:   true,
		})
	}

	return
}
