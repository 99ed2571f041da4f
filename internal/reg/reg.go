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

// Package reg provides volatile access to memory mapped registers.
package reg

import (
	"sync/atomic"
	"unsafe"
)

func Read(addr uint32) uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(uintptr(addr))))
}

func Write(addr uint32, val uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(uintptr(addr))), val)
}

func Set(addr uint32, pos int) {
	Write(addr, Read(addr)|1<<pos)
}

func Clear(addr uint32, pos int) {
	Write(addr, Read(addr)&^(1<<pos))
}

// SetN writes a multi-bit field without disturbing its neighbours.
func SetN(addr uint32, pos int, mask uint32, val uint32) {
	Write(addr, Read(addr)&^(mask<<pos)|val<<pos)
}
