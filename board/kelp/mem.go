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

// Package kelp is the declarative board configuration for the kelp
// reference design: memory layout, battery packs and motion sensors.
// Generic code treats everything here as opaque data.
package kelp

import "github.com/openec-dev/openec/mpu"

// Memory layout, mirrored from the linker script.
const (
	DataRAMBase = 0x20000000
	DataRAMSize = 0x10000

	// RAM resident code section at the bottom of data RAM.
	IRAMTextBase = DataRAMBase
	IRAMTextSize = 0x800

	// Execute-in-place flash.
	FlashBase   = 0x08000000
	FlashROOff  = 0x00000
	FlashROSize = 0x10000
	FlashRWOff  = 0x10000
	FlashRWSize = 0x10000

	// Anti-rollback secret sectors inside the RO image tail.
	RollbackOff  = 0x1e000
	RollbackSize = 0x2000

	// DMA buffer range kept out of the cache.
	UncachedRAMBase = 0x2000c000
	UncachedRAMSize = 0x4000
)

// MemoryLayout returns the ranges the MPU boot sequence locks down.
func MemoryLayout() mpu.Layout {
	return mpu.Layout{
		DataRAM:     mpu.Range{Base: DataRAMBase, Size: DataRAMSize},
		DataRAMText: mpu.Range{Base: IRAMTextBase, Size: IRAMTextSize},
		FlashRO:     mpu.Range{Base: FlashBase + FlashROOff, Size: FlashROSize},
		FlashRW:     mpu.Range{Base: FlashBase + FlashRWOff, Size: FlashRWSize},
		Rollback:    mpu.Range{Base: FlashBase + RollbackOff, Size: RollbackSize},
		Uncached:    mpu.Range{Base: UncachedRAMBase, Size: UncachedRAMSize},
		Storage:     mpu.StorageMappedFlash,
	}
}
