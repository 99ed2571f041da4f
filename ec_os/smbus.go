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

	"github.com/usbarmory/tamago/soc/nxp/imx6ul"

	"github.com/openec-dev/openec/internal/battery"
	"github.com/openec-dev/openec/internal/hooks"
	"github.com/openec-dev/openec/internal/reg"
)

// smart battery gauge address
const gaugeAddr = 0x0b

// board GPIO pads, battery presence is active low
const (
	gpio1Data    = 0x0209c000
	battPresLBit = 9
	extPowerBit  = 10
)

func init() {
	hooks.Init.Register(hooks.PriorityInitI2C, "gauge-bus", func() error {
		if imx6ul.Native {
			imx6ul.I2C1.Init()
		}

		return nil
	})
}

// smbus implements SMBus word and block transfers over the gauge I2C
// port, data low byte first.
type smbus struct{}

func gaugeBus() (battery.SMBus, error) {
	if !imx6ul.Native {
		return nil, errors.New("no gauge bus on emulated hardware")
	}

	return smbus{}, nil
}

func (smbus) ReadWord(r uint8) (uint16, error) {
	buf, err := imx6ul.I2C1.Read(gaugeAddr, uint32(r), 1, 2)

	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(buf), nil
}

func (smbus) WriteWord(r uint8, val uint16) error {
	buf := []byte{byte(val), byte(val >> 8)}

	return imx6ul.I2C1.Write(buf, gaugeAddr, uint32(r), 1)
}

func (smbus) ReadBlock(r uint8, out []byte) error {
	// SMBus block reads carry a leading length byte.
	buf, err := imx6ul.I2C1.Read(gaugeAddr, uint32(r), 1, len(out)+1)

	if err != nil {
		return err
	}

	copy(out, buf[1:])

	return nil
}

// sensorBus exposes single register transfers for the motion sensors
// sharing the gauge port.
type sensorBus struct{}

func (sensorBus) readReg(addr, r uint8) (byte, error) {
	buf, err := imx6ul.I2C1.Read(addr, uint32(r), 1, 1)

	if err != nil {
		return 0, err
	}

	return buf[0], nil
}

func (sensorBus) writeReg(addr, r uint8, val byte) error {
	return imx6ul.I2C1.Write([]byte{val}, addr, uint32(r), 1)
}

func motionBus() (busOps, error) {
	if !imx6ul.Native {
		return nil, errors.New("no sensor bus on emulated hardware")
	}

	return sensorBus{}, nil
}

func batteryPresent() bool {
	return reg.Read(gpio1Data)&(1<<battPresLBit) == 0
}

func extPowerPresent() bool {
	return reg.Read(gpio1Data)&(1<<extPowerBit) != 0
}
