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
	"log"

	"github.com/openec-dev/openec/board/kelp"
	"github.com/openec-dev/openec/internal/armv7m"
	"github.com/openec-dev/openec/internal/hooks"
	"github.com/openec-dev/openec/mpu"
)

// sequencer stays reachable for the rollback lock toggle, it is the
// only reconfiguration the design allows after boot.
var sequencer *mpu.Sequencer

func init() {
	hooks.Init.Register(hooks.PriorityFirst, "mpu", initMPU)
}

// initMPU locks down memory before any other hook runs: clear, lock
// rollback and uncached RAM, enable, then the data RAM and flash
// image locks.
func initMPU() error {
	sequencer = mpu.NewSequencer(armv7m.MPU{}, mpu.DefaultTable(),
		kelp.MemoryLayout(), armv7m.Cache{})

	if err := sequencer.Run(); err != nil {
		return err
	}

	if err := sequencer.ProtectDataRAM(); err != nil {
		return err
	}

	if err := sequencer.ProtectStorage(); err != nil {
		return err
	}

	log.Printf("EC memory protection %s", sequencer.State())

	return nil
}
