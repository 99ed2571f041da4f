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

//go:build debug
// +build debug

package main

import (
	"errors"

	"github.com/openec-dev/openec/board/kelp"
)

// rollbackFlash emulates the anti-rollback sectors in RAM for QEMU
// runs, starting out erased.
type rollbackFlash struct{}

var rollbackMem [kelp.RollbackSize]byte

func init() {
	for i := range rollbackMem {
		rollbackMem[i] = 0xff
	}
}

func (rollbackFlash) Read(off uint32, buf []byte) error {
	if off+uint32(len(buf)) > kelp.RollbackSize {
		return errors.New("read beyond rollback range")
	}

	copy(buf, rollbackMem[off:])

	return nil
}

func (rollbackFlash) Write(off uint32, buf []byte) error {
	if off+uint32(len(buf)) > kelp.RollbackSize {
		return errors.New("write beyond rollback range")
	}

	copy(rollbackMem[off:], buf)

	return nil
}
