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

// Purpose names the protection a region slot is reserved for.
type Purpose int

const (
	// DataRAM covers all of data RAM, execute-never.
	DataRAM Purpose = iota
	// DataRAMText is the RAM-resident code exemption carved out of
	// DataRAM. It owns no spillover slot.
	DataRAMText
	// Storage covers program storage, code RAM or mapped flash.
	Storage
	// StorageSpill is the spillover slot for Storage and the second
	// half of a split rollback lock.
	StorageSpill
	// Rollback hides the anti-rollback secret range.
	Rollback
	// ChipReserved is kept free for chip errata and the first half of
	// a split rollback lock.
	ChipReserved
	// UncachedRAM marks the DMA buffer range execute-never when a
	// cache is present.
	UncachedRAM

	numPurposes
)

var purposeNames = map[Purpose]string{
	DataRAM:      "data-ram",
	DataRAMText:  "data-ram-text",
	Storage:      "storage",
	StorageSpill: "storage-spill",
	Rollback:     "rollback",
	ChipReserved: "chip-reserved",
	UncachedRAM:  "uncached-ram",
}

func (p Purpose) String() string {
	if s, ok := purposeNames[p]; ok {
		return s
	}

	return "unknown"
}

// Entry fixes the slot index and attribute pattern of one purpose.
type Entry struct {
	Slot int
	Attr Attr
	// Single forbids the spillover slot for this purpose.
	Single bool
}

// Table assigns purposes to slot indices. It is built once at startup
// and never mutated, the sequencer is its sole reader.
type Table [numPurposes]Entry

// DefaultTable returns the slot plan shared by the 8 and 16 region
// topologies. The Rollback slot only exists on 16 region parts, the
// sequencer falls back to ChipReserved and StorageSpill there.
func DefaultTable() Table {
	return Table{
		DataRAM:      {Slot: 0, Attr: AttrXN | AttrRWRW | AttrSRAM},
		DataRAMText:  {Slot: 1, Attr: AttrRWRW | AttrSRAM, Single: true},
		Storage:      {Slot: 2, Attr: AttrXN | AttrRWRW | AttrFlash},
		StorageSpill: {Slot: 3, Attr: AttrXN | AttrRWRW | AttrFlash},
		Rollback:     {Slot: 8, Attr: AttrXN | AttrNoAccess},
		ChipReserved: {Slot: 5, Attr: AttrXN | AttrNoAccess},
		UncachedRAM:  {Slot: 6, Attr: AttrXN | AttrRWRW},
	}
}

// Request builds the protection request for a purpose over a byte
// range, using the slot and attributes the table reserves for it.
func (t Table) Request(p Purpose, r Range, enable bool) Request {
	e := t[p]

	return Request{
		Slot:   e.Slot,
		Base:   r.Base,
		Size:   r.Size,
		Attr:   e.Attr,
		Enable: enable,
		Single: e.Single,
	}
}
