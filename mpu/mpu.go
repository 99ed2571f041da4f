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

// Package mpu configures a PMSAv7 memory protection unit at boot.
//
// The hardware only understands power-of-two sized regions whose base
// address is aligned to their own size, optionally partitioned into
// eight sub-regions that can be individually excluded. The package
// splits into a pure encoder that maps arbitrary (base, length)
// protection requests onto at most two such regions, a programmer that
// applies one encoding to one region slot through the Hardware register
// contract, and a boot sequencer that locks down code, data, flash and
// the rollback secret range before untrusted code runs.
package mpu

// Hardware is the MPU register file. Select steers which region slot
// the Base and AttrSize accessors operate on, matching the indirect
// RNR/RBAR/RASR register layout of the System Control Space.
type Hardware interface {
	// Type returns the raw capability register.
	Type() uint32
	// Control returns the global control register.
	Control() uint32
	// SetControl writes the global control register.
	SetControl(uint32)
	// Select writes the region number register.
	Select(uint8)
	// Base writes the region base address register for the selected slot.
	Base(uint32)
	// AttrSize returns the packed attribute/size register for the
	// selected slot.
	AttrSize() uint32
	// SetAttrSize writes the packed attribute/size register for the
	// selected slot as a single 32-bit store.
	SetAttrSize(uint32)
	// Sync issues data and instruction synchronization barriers.
	Sync()
}

// Capability register layout
const (
	// TypeSeparate is set when the instruction and data maps are split.
	TypeSeparate = 1 << 0
)

// Control register bits
const (
	CtrlEnable = 1 << 0
	// CtrlHFNMIEnable keeps the MPU active during fault handlers.
	CtrlHFNMIEnable = 1 << 1
	// CtrlPrivDefEnable enables the default privileged memory map for
	// addresses not covered by any region.
	CtrlPrivDefEnable = 1 << 2
)

// Packed attribute/size register bits
const (
	// RegionEnable activates the selected region slot.
	RegionEnable = 1 << 0

	// MinSizeBits is the smallest supported region size exponent
	// (2^5 = 32 bytes).
	MinSizeBits = 5

	// MaxRegions bounds every statically sized slot table.
	MaxRegions = 16
)

// Attr are the access attribute bits of a region, as placed in the
// upper half-word of the packed attribute/size register.
type Attr uint16

const (
	// Access permission field, privileged/unprivileged.
	AttrNoAccess Attr = 0 << 8
	AttrRWNone   Attr = 1 << 8
	AttrRWRO     Attr = 2 << 8
	AttrRWRW     Attr = 3 << 8
	AttrRONone   Attr = 5 << 8
	AttrRORO     Attr = 6 << 8

	// AttrXN forbids instruction fetches from the region.
	AttrXN Attr = 1 << 12

	// Memory type class (TEX/S/C/B).
	AttrFlash Attr = 2
	AttrSRAM  Attr = 6
)

// Capability describes the MPU topology of the running core. It is
// read from hardware once at startup and never changes.
type Capability struct {
	// Regions is the number of implemented slots, zero when the core
	// has no MPU.
	Regions int
	// Unified is true when instruction and data share one region map.
	Unified bool
	// MinSizeBits is the smallest region size exponent the hardware
	// accepts.
	MinSizeBits int
}

// ReadCapability queries the capability register.
func ReadCapability(hw Hardware) Capability {
	t := hw.Type()

	return Capability{
		Regions:     int(t>>8) & 0xff,
		Unified:     t&TypeSeparate == 0,
		MinSizeBits: MinSizeBits,
	}
}
