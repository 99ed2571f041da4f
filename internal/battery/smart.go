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

package battery

// Smart Battery System registers
const (
	regManufacturerAccess    = 0x00
	regTemperature           = 0x08
	regVoltage               = 0x09
	regBatteryStatus         = 0x16
	regManufacturerName      = 0x20
	regAltManufacturerAccess = 0x44
)

// Battery status bits
const (
	statusInitialized = 0x0080
)

// Shutdown mode parameter written to the manufacturer access register
// to enter ship mode.
const shutdownData = 0x0010

// Alternate manufacturer access parameters
const (
	paramSafetyStatus    = 0x0051
	paramOperationStatus = 0x0054
)

// Operation status flags in the fourth response byte
const (
	opDischargingDisabled = 1 << 5
	opChargingDisabled    = 1 << 6
)

// SMBus is the word and block transfer subset of the gauge bus this
// package needs.
type SMBus interface {
	ReadWord(reg uint8) (uint16, error)
	WriteWord(reg uint8, val uint16) error
	ReadBlock(reg uint8, buf []byte) error
}
