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
	"github.com/openec-dev/openec/internal/battery"
	"github.com/openec-dev/openec/internal/hooks"
)

// Emulated gauge and sensors for QEMU runs.

func init() {
	hooks.Init.Register(hooks.PriorityInitI2C, "gauge-bus", func() error {
		return nil
	})
}

// fakeGauge answers like an initialized Lishen pack at 25°C.
type fakeGauge struct{}

func gaugeBus() (battery.SMBus, error) {
	return fakeGauge{}, nil
}

func (fakeGauge) ReadWord(r uint8) (uint16, error) {
	switch r {
	case 0x08: // temperature, deci-Kelvin
		return 2981, nil
	case 0x09: // voltage, mV
		return 7700, nil
	case 0x16: // status, initialized
		return 0x0080, nil
	}

	return 0, nil
}

func (fakeGauge) WriteWord(r uint8, val uint16) error {
	return nil
}

func (fakeGauge) ReadBlock(r uint8, out []byte) error {
	if r == 0x20 {
		copy(out, "Lishen A50")
	}

	return nil
}

// fakeSensors answers every identity probe with the expected value.
type fakeSensors struct{}

func motionBus() (busOps, error) {
	return fakeSensors{}, nil
}

func (fakeSensors) readReg(addr, r uint8) (byte, error) {
	switch r {
	case imuWhoAmIReg:
		return imuWhoAmIVal, nil
	case lidWhoAmIReg:
		return lidWhoAmIVal, nil
	}

	return 0, nil
}

func (fakeSensors) writeReg(addr, r uint8, val byte) error {
	return nil
}

func batteryPresent() bool {
	return true
}

func extPowerPresent() bool {
	return true
}
