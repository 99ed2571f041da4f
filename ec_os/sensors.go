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
	"fmt"
	"log"

	"github.com/openec-dev/openec/board/kelp"
	"github.com/openec-dev/openec/internal/hooks"
	"github.com/openec-dev/openec/internal/sensor"
)

// Identity registers of the parts on the kelp board.
const (
	imuWhoAmIReg = 0x75
	imuWhoAmIVal = 0x47

	lidWhoAmIReg = 0x0f
	lidWhoAmIVal = 0x14
)

// Rate control registers.
const (
	imuRateReg = 0x50
	lidRateReg = 0x1b
)

// busOps is the single register transfer subset the sensor drivers
// need.
type busOps interface {
	readReg(addr, reg uint8) (byte, error)
	writeReg(addr, reg uint8, val byte) error
}

// i2cSensorDriver probes a part identity and programs its output data
// rate ladder, rates double per step from the sensor minimum.
type i2cSensorDriver struct {
	bus busOps

	whoAmIReg byte
	whoAmIVal byte
	rateReg   byte
}

func (d *i2cSensorDriver) Init(s *sensor.Sensor) error {
	v, err := d.bus.readReg(s.Addr, d.whoAmIReg)

	if err != nil {
		return err
	}

	if v != d.whoAmIVal {
		return fmt.Errorf("unexpected identity %#x, want %#x", v, d.whoAmIVal)
	}

	return nil
}

func (d *i2cSensorDriver) SetDataRate(s *sensor.Sensor, odr int, roundUp bool) (int, error) {
	rate := s.MinODR
	step := byte(0)

	for rate < odr && rate < s.MaxODR {
		if !roundUp && rate*2 > odr {
			break
		}

		rate *= 2
		step++
	}

	if rate > s.MaxODR {
		rate = s.MaxODR
	}

	if err := d.bus.writeReg(s.Addr, d.rateReg, step); err != nil {
		return 0, err
	}

	return rate, nil
}

func init() {
	hooks.Init.Register(hooks.PriorityDefault, "sensors", initSensors)
}

// initSensors brings up the motion sensor table. A missing sensor
// degrades tablet mode detection but never fails boot.
func initSensors() error {
	bus, err := motionBus()

	if err != nil {
		log.Printf("EC motion sensors unavailable, %v", err)
		return nil
	}

	imu := &i2cSensorDriver{bus: bus, whoAmIReg: imuWhoAmIReg, whoAmIVal: imuWhoAmIVal, rateReg: imuRateReg}
	lid := &i2cSensorDriver{bus: bus, whoAmIReg: lidWhoAmIReg, whoAmIVal: lidWhoAmIVal, rateReg: lidRateReg}

	if err := sensor.InitAll(kelp.Sensors(imu, lid), sensor.StateS0); err != nil {
		log.Printf("EC motion sensor init error, %v", err)
	}

	return nil
}
