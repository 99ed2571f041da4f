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

package main

import (
	_ "unsafe"

	"github.com/usbarmory/tamago/dma"
	"github.com/usbarmory/tamago/soc/nxp/imx6ul"

	"github.com/openec-dev/openec/board/kelp"
)

//go:linkname ramStart runtime.ramStart
var ramStart uint32 = kelp.DataRAMBase

//go:linkname ramSize runtime.ramSize
var ramSize uint32 = kelp.DataRAMSize

func init() {
	// DMA buffers live in the range the MPU marks execute-never and
	// the cache never sees.
	dma.Init(kelp.UncachedRAMBase, kelp.UncachedRAMSize)

	if imx6ul.DCP != nil {
		deriveKeyMemory, _ := dma.NewRegion(imx6ul.OCRAM_START, imx6ul.OCRAM_SIZE, false)
		imx6ul.DCP.DeriveKeyMemory = deriveKeyMemory
	}
}
