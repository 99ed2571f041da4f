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

// Package armv7m drives the System Control Space blocks the boot
// sequence needs: the PMSAv7 MPU register file and the cache controls.
// All size and alignment arithmetic lives in the mpu package, this is
// only the register I/O.
package armv7m

import (
	"github.com/openec-dev/openec/internal/reg"
)

// System Control Space registers
const (
	// Configuration and Control Register
	CCR = 0xe000ed14

	CCR_DC = 16
	CCR_IC = 17

	// MPU register file
	MPU_TYPE = 0xe000ed90
	MPU_CTRL = 0xe000ed94
	MPU_RNR  = 0xe000ed98
	MPU_RBAR = 0xe000ed9c
	MPU_RASR = 0xe000eda0
)

// MPU implements the mpu.Hardware register contract over the memory
// mapped register file.
type MPU struct{}

func (MPU) Type() uint32 {
	return reg.Read(MPU_TYPE)
}

func (MPU) Control() uint32 {
	return reg.Read(MPU_CTRL)
}

func (MPU) SetControl(ctrl uint32) {
	reg.Write(MPU_CTRL, ctrl)
}

func (MPU) Select(n uint8) {
	reg.Write(MPU_RNR, uint32(n))
}

func (MPU) Base(addr uint32) {
	reg.Write(MPU_RBAR, addr)
}

func (MPU) AttrSize() uint32 {
	return reg.Read(MPU_RASR)
}

func (MPU) SetAttrSize(val uint32) {
	reg.Write(MPU_RASR, val)
}

func (MPU) Sync() {
	Barrier()
}

// Cache is the instruction and data cache controller, enabled only
// once the final protection map is active.
type Cache struct{}

func (Cache) EnableCache() {
	Barrier()

	reg.Set(CCR, CCR_IC)
	reg.Set(CCR, CCR_DC)

	Barrier()
}
