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

//go:build !debug
// +build !debug

package main

import (
	"encoding/binary"
	"errors"
	"unsafe"

	"github.com/openec-dev/openec/board/kelp"
	"github.com/openec-dev/openec/internal/armv7m"
	"github.com/openec-dev/openec/internal/reg"
)

// embedded flash controller registers
const (
	flashKEYR = 0x40023c04
	flashSR   = 0x40023c0c
	flashCR   = 0x40023c10

	flashKey1 = 0x45670123
	flashKey2 = 0xcdef89ab

	srBSY = 16

	crPG   = 0
	crSER  = 1
	crSNB  = 3
	crSTRT = 16
	crLOCK = 31

	sectorSize = 0x2000
)

// rollbackFlash programs the anti-rollback sectors through the flash
// controller, reads go straight through the memory map.
type rollbackFlash struct{}

func (rollbackFlash) Read(off uint32, buf []byte) error {
	if off+uint32(len(buf)) > kelp.RollbackSize {
		return errors.New("read beyond rollback range")
	}

	addr := uintptr(kelp.FlashBase + kelp.RollbackOff + off)
	copy(buf, unsafe.Slice((*byte)(unsafe.Pointer(addr)), len(buf)))

	return nil
}

// Write erases the touched sectors and reprograms them word by word.
// The MPU rollback lock must be released by the caller beforehand.
func (rollbackFlash) Write(off uint32, buf []byte) error {
	if off+uint32(len(buf)) > kelp.RollbackSize {
		return errors.New("write beyond rollback range")
	}

	if off%4 != 0 || len(buf)%4 != 0 {
		return errors.New("flash writes must be word aligned")
	}

	reg.Write(flashKEYR, flashKey1)
	reg.Write(flashKEYR, flashKey2)

	first := (kelp.RollbackOff + off) / sectorSize
	last := (kelp.RollbackOff + off + uint32(len(buf)) - 1) / sectorSize

	for n := first; n <= last; n++ {
		eraseSector(n)
	}

	reg.Set(flashCR, crPG)

	addr := uint32(kelp.FlashBase+kelp.RollbackOff) + off

	for i := 0; i < len(buf); i += 4 {
		reg.Write(addr+uint32(i), binary.LittleEndian.Uint32(buf[i:]))
		waitFlash()
	}

	reg.Clear(flashCR, crPG)
	reg.Set(flashCR, crLOCK)

	armv7m.Barrier()

	return nil
}

func waitFlash() {
	for reg.Read(flashSR)&(1<<srBSY) != 0 {
	}
}

func eraseSector(n uint32) {
	waitFlash()

	reg.SetN(flashCR, crSNB, 0xf, n)
	reg.Set(flashCR, crSER)
	reg.Set(flashCR, crSTRT)

	waitFlash()

	reg.Clear(flashCR, crSER)
}
