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

// Range is an opaque (address, length) pair supplied by the board
// configuration.
type Range struct {
	Base uint32
	Size uint32
}

// StorageLayout selects which lock variant protects program storage,
// resolved once at start time.
type StorageLayout int

const (
	// StorageCodeRAM covers parts that execute from RAM loaded off
	// external storage, code RAM is locked read-only.
	StorageCodeRAM StorageLayout = iota
	// StorageMappedFlash covers execute-in-place parts, the RO and RW
	// images are locked execute-never.
	StorageMappedFlash
)

// Layout carries the board memory ranges the sequencer locks down. A
// zero Size marks an absent optional range.
type Layout struct {
	DataRAM     Range
	DataRAMText Range

	// CodeRAM is used with StorageCodeRAM.
	CodeRAM Range
	// FlashRO and FlashRW are used with StorageMappedFlash.
	FlashRO Range
	FlashRW Range

	// Rollback is the anti-rollback secret range, optional.
	Rollback Range
	// Uncached is the DMA buffer range, optional.
	Uncached Range

	Storage StorageLayout
}

// State tracks boot sequence progress. There is no transition back to
// StateUninitialized at runtime, reconfiguration after boot is limited
// to the rollback lock toggle.
type State int

const (
	StateUninitialized State = iota
	StateAllRegionsCleared
	StateCriticalRegionsLocked
	StateEnabled
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateAllRegionsCleared:
		return "all-regions-cleared"
	case StateCriticalRegionsLocked:
		return "critical-regions-locked"
	case StateEnabled:
		return "enabled"
	}

	return "unknown"
}

// Cache is the optional cache controller whose enablement must wait
// for the final protection map.
type Cache interface {
	EnableCache()
}

// clearBase is the placeholder base address programmed into disabled
// slots, the fixed SRAM base is aligned for any region size.
const clearBase = 0x20000000

// Sequencer drives system bring-up. It runs in a single execution
// context before the scheduler is active and performs no locking,
// callers of the rollback toggle guarantee mutual exclusion.
type Sequencer struct {
	prog   *Programmer
	table  Table
	layout Layout
	cache  Cache
	state  State
}

// NewSequencer returns a boot sequencer over hw. A nil cache skips
// cache enablement.
func NewSequencer(hw Hardware, table Table, layout Layout, cache Cache) *Sequencer {
	return &Sequencer{
		prog:   NewProgrammer(hw),
		table:  table,
		layout: layout,
		cache:  cache,
	}
}

// State returns the boot sequence progress.
func (s *Sequencer) State() State {
	return s.state
}

// configure encodes a request and applies every resulting region.
func (s *Sequencer) configure(req Request) error {
	regions, err := s.prog.Capability().Encode(req)

	if err != nil {
		return err
	}

	for _, r := range regions {
		if err = s.prog.Apply(r); err != nil {
			return err
		}
	}

	return nil
}

// Run performs the boot lockdown: capability check, controller
// disable, clear of every slot, rollback lock, uncached range, then
// controller and cache enable. Any error is fatal to boot, memory
// meant to be hidden would otherwise be exposed.
func (s *Sequencer) Run() error {
	cap := s.prog.Capability()

	if cap.Regions == 0 {
		return ErrNoMPU
	}

	if !cap.Unified || (cap.Regions != 8 && cap.Regions != 16) {
		return fmt.Errorf("%d regions, unified %v: %w",
			cap.Regions, cap.Unified, ErrUnsupportedTopology)
	}

	s.prog.SetEnable(false)

	// Disable all regions so that no protection state survives from a
	// previous boot stage. The size does not matter while disabled,
	// use the smallest one.
	for i := 0; i < cap.Regions; i++ {
		err := s.prog.Apply(Region{
			Slot:     i,
			Base:     clearBase,
			SizeBits: cap.MinSizeBits,
		})

		if err != nil {
			return err
		}
	}

	s.state = StateAllRegionsCleared

	if s.layout.Rollback.Size != 0 {
		if err := s.LockRollback(true); err != nil {
			return err
		}
	}

	s.state = StateCriticalRegionsLocked

	if s.layout.Uncached.Size != 0 {
		if err := s.configure(s.table.Request(UncachedRAM, s.layout.Uncached, true)); err != nil {
			return err
		}
	}

	s.prog.SetEnable(true)
	s.state = StateEnabled

	// Cache enablement assumes the final protection map is active.
	if s.cache != nil {
		s.cache.EnableCache()
	}

	return nil
}

// LockRollback hides or exposes the rollback secret range. The
// privileged update path calls it again after boot to unlock and
// re-lock around a counter write.
//
// On 16 region parts the range is self-aligned and fits the reserved
// slot as a single region. On 8 region parts that slot does not exist
// and the base is not guaranteed to align at the full range size, so
// the range is split into two halves, each half then satisfies its own
// alignment requirement independently.
func (s *Sequencer) LockRollback(lock bool) error {
	cap := s.prog.Capability()
	rb := s.layout.Rollback

	if e := s.table[Rollback]; e.Slot < cap.Regions {
		return s.configure(Request{
			Slot:   e.Slot,
			Base:   rb.Base,
			Size:   rb.Size,
			Attr:   e.Attr,
			Enable: lock,
		})
	}

	half := Range{rb.Base, rb.Size / 2}

	if err := s.configure(s.table.Request(ChipReserved, half, lock)); err != nil {
		return err
	}

	half.Base += half.Size

	req := s.table.Request(StorageSpill, half, lock)
	req.Attr = s.table[ChipReserved].Attr

	return s.configure(req)
}

// ProtectDataRAM locks data RAM execute-never and carves out the
// RAM-resident code section, which stays executable and is the one
// purpose that may not spill into a second slot.
func (s *Sequencer) ProtectDataRAM() error {
	if err := s.configure(s.table.Request(DataRAM, s.layout.DataRAM, true)); err != nil {
		return err
	}

	return s.configure(s.table.Request(DataRAMText, s.layout.DataRAMText, true))
}

// ProtectStorage locks program storage according to the configured
// layout variant. On execute-in-place parts only the RW image is
// locked, the RO image holds the running code and must stay
// executable, LockROFlash is for firmware running out of RW.
func (s *Sequencer) ProtectStorage() error {
	switch s.layout.Storage {
	case StorageCodeRAM:
		return s.protectCodeRAM()
	case StorageMappedFlash:
		return s.LockRWFlash()
	}

	return fmt.Errorf("storage layout %d: %w", s.layout.Storage, ErrUnrepresentable)
}

// protectCodeRAM locks code RAM read-only.
func (s *Sequencer) protectCodeRAM() error {
	req := s.table.Request(Storage, s.layout.CodeRAM, true)
	req.Attr = AttrRONone | AttrSRAM

	return s.configure(req)
}

// LockROFlash prevents execution from the mapped RO image. It shares
// the storage slot with LockRWFlash, only the image not being executed
// can be locked at a time.
func (s *Sequencer) LockROFlash() error {
	return s.configure(s.table.Request(Storage, s.layout.FlashRO, true))
}

// LockRWFlash prevents execution from the mapped RW image. The least
// significant set bit of the RW base bounds the size of a self-aligned
// first region, any remainder goes to the spillover slot. If that
// second configuration fails the range cannot be represented with two
// regions at all.
func (s *Sequencer) LockRWFlash() error {
	rw := s.layout.FlashRW

	first := rw.Size

	if align := rw.Base & -rw.Base; align != 0 && align < first {
		first = align
	}

	if err := s.configure(s.table.Request(Storage, Range{rw.Base, first}, true)); err != nil {
		return err
	}

	if rw.Size == first {
		return nil
	}

	return s.configure(s.table.Request(StorageSpill,
		Range{rw.Base + first, rw.Size - first}, true))
}
