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
	"crypto/aes"
	"errors"
	"fmt"
	"log"

	"github.com/usbarmory/crucible/otp"
	"github.com/usbarmory/tamago/soc/nxp/imx6ul"

	"github.com/openec-dev/openec/internal/rollback"
)

const (
	diversifierMAC = "openecVersionMAC"

	// anti-rollback provisioning flag
	rollbackFuseBank = 4
	rollbackFuseWord = 6
)

// checkRollback refuses to boot a firmware version older than the
// authenticated record kept in the MPU protected flash sectors.
func checkRollback() error {
	if !imx6ul.Native {
		log.Printf("EC skipping version rollback check on emulated hardware")
		return nil
	}

	dk, err := imx6ul.DCP.DeriveKey([]byte(diversifierMAC), make([]byte, aes.BlockSize), -1)

	if err != nil {
		return fmt.Errorf("could not derive version MAC key (%v)", err)
	}

	uid := imx6ul.UniqueID()

	res, err := otp.ReadOCOTP(rollbackFuseBank, rollbackFuseWord, 0, 1)

	if err != nil {
		return fmt.Errorf("could not read provisioning flag (%x, %v)", res, err)
	}

	provisioned := bytes.Equal(res, []byte{1})

	store := rollback.Open(rollbackFlash{}, sequencer, dk, uid[:])

	stored, err := store.Current()

	if err != nil {
		return err
	}

	if stored == nil {
		// Fuse a bit on first provisioning so a wiped record cannot
		// pass as a fresh device on later boots.
		if provisioned {
			return errors.New("version record missing on provisioned device")
		}

		if err = otp.BlowOCOTP(rollbackFuseBank, rollbackFuseWord, 0, 1, []byte{1}); err != nil {
			return fmt.Errorf("could not fuse provisioning flag (%v)", err)
		}

		log.Print("EC version record not yet provisioned, programming")
	}

	return store.CheckVersion(Version)
}
