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

// Package sensor holds the declarative motion sensor tables boards
// supply and the generic init path that consumes them. Chip specific
// behaviour stays behind the Driver interface.
package sensor

import (
	"fmt"

	"k8s.io/klog"
)

// Type is the measured quantity.
type Type int

const (
	Accel Type = iota
	Gyro
)

// Location places the sensor on the device.
type Location int

const (
	Base Location = iota
	Lid
)

// PowerState indexes the per-state rate configuration.
type PowerState int

const (
	StateS0 PowerState = iota
	StateS3

	numPowerStates
)

// RateConfig is the requested output data rate for one power state.
type RateConfig struct {
	// ODR is the output data rate in mHz, zero leaves the sensor off
	// in this state.
	ODR int
	// RoundUp picks the next supported rate above ODR instead of the
	// one below.
	RoundUp bool
}

// Sensor is one entry of a board's motion sensor table.
type Sensor struct {
	Name     string
	Type     Type
	Location Location
	Driver   Driver

	// Addr is the 7-bit bus address.
	Addr uint8

	// DefaultRange is in g for accelerometers and dps for gyros.
	DefaultRange int

	// Supported rate window in mHz.
	MinODR int
	MaxODR int

	Config [numPowerStates]RateConfig

	// CurrentODR is set by the init path.
	CurrentODR int
}

// Driver is the chip specific part of a sensor.
type Driver interface {
	// Init probes and configures the chip for one table entry.
	Init(s *Sensor) error
	// SetDataRate applies an output data rate request, returning the
	// rate actually programmed.
	SetDataRate(s *Sensor, odr int, roundUp bool) (int, error)
}

// InitAll initializes a board's sensor table in table order. Order is
// load bearing: on shared-die parts the accelerometer entry must
// initialize before the gyro entry.
func InitAll(sensors []*Sensor, state PowerState) error {
	for _, s := range sensors {
		if err := s.Driver.Init(s); err != nil {
			return fmt.Errorf("sensor %s: %w", s.Name, err)
		}

		cfg := s.Config[state]

		if cfg.ODR == 0 {
			continue
		}

		odr, err := s.Driver.SetDataRate(s, cfg.ODR, cfg.RoundUp)

		if err != nil {
			return fmt.Errorf("sensor %s rate: %w", s.Name, err)
		}

		s.CurrentODR = odr

		klog.Infof("sensor %s at %d mHz", s.Name, odr)
	}

	return nil
}
