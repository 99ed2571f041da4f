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

package mpu

import "fmt"

// Programmer applies region encodings to the hardware register file.
// It is the only writer of region slots, nothing else may touch a slot
// once boot-time locking is finished.
type Programmer struct {
	hw  Hardware
	cap Capability
}

// NewProgrammer reads the hardware capability once and returns a
// programmer bound to it.
func NewProgrammer(hw Hardware) *Programmer {
	return &Programmer{
		hw:  hw,
		cap: ReadCapability(hw),
	}
}

// Capability returns the topology read at construction time.
func (p *Programmer) Capability() Capability {
	return p.cap
}

// Apply writes one region encoding to its slot.
//
// The write sequence is barrier, slot select, enable clear, base and
// packed attribute/size as a single 32-bit store, barrier. No
// instruction fetched after Apply returns can be served by a stale or
// half-written region entry, and a disabled slot is never observed
// with mismatched base and size fields.
func (p *Programmer) Apply(r Region) error {
	if r.Slot < 0 || r.Slot >= p.cap.Regions {
		return fmt.Errorf("slot %d, %d implemented: %w", r.Slot, p.cap.Regions, ErrSlotOutOfRange)
	}

	if r.SizeBits < p.cap.MinSizeBits {
		return fmt.Errorf("size exponent %d: %w", r.SizeBits, ErrInvalidSize)
	}

	if err := r.checkAlign(); err != nil {
		return err
	}

	p.hw.Sync()

	p.hw.Select(uint8(r.Slot))
	p.hw.SetAttrSize(p.hw.AttrSize() &^ RegionEnable)

	if r.Enable {
		p.hw.Base(r.Base)
		p.hw.SetAttrSize(uint32(r.Attr)<<16 | uint32(r.Disable)<<8 |
			uint32(r.SizeBits-1)<<1 | RegionEnable)
	}

	p.hw.Sync()

	return nil
}

// SetEnable turns the MPU controller on or off. The enabled
// configuration keeps the default privileged map for uncovered
// addresses and stays active during fault handlers.
func (p *Programmer) SetEnable(on bool) {
	ctrl := p.hw.Control()

	if on {
		ctrl |= CtrlPrivDefEnable | CtrlHFNMIEnable | CtrlEnable
	} else {
		ctrl &^= CtrlPrivDefEnable | CtrlHFNMIEnable | CtrlEnable
	}

	p.hw.SetControl(ctrl)
}
