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
	"bytes"
	"errors"
	"log"
	"unsafe"

	"github.com/usbarmory/armory-boot/config"
	"github.com/usbarmory/tamago/soc/nxp/imx6ul"

	"github.com/openec-dev/openec/board/kelp"
)

// signature block at the RW image tail
const sigOff = kelp.FlashRWSize - 0x400

// verifyRW authenticates the updatable RW image before the charging
// loop starts, the RO image carrying this code is covered by the mask
// ROM secure boot chain instead.
func verifyRW() error {
	if !imx6ul.Native {
		log.Printf("EC skipping RW verification on emulated hardware")
		return nil
	}

	rw := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(kelp.FlashBase+kelp.FlashRWOff))), kelp.FlashRWSize)

	img := rw[:sigOff]
	sig := bytes.TrimRight(rw[sigOff:], "\xff")

	if len(sig) == 0 {
		return errors.New("RW image is unsigned")
	}

	if err := config.Verify(img, sig, PublicKey); err != nil {
		return err
	}

	log.Printf("EC RW image verified")

	return nil
}
