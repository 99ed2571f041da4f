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

package sensor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeDriver records init order and clamps rates to the table window.
type fakeDriver struct {
	order *[]string
}

func (d *fakeDriver) Init(s *Sensor) error {
	*d.order = append(*d.order, s.Name)
	return nil
}

func (d *fakeDriver) SetDataRate(s *Sensor, odr int, roundUp bool) (int, error) {
	if odr < s.MinODR {
		odr = s.MinODR
	}

	if odr > s.MaxODR {
		odr = s.MaxODR
	}

	return odr, nil
}

func TestInitAllOrder(t *testing.T) {
	var order []string

	drv := &fakeDriver{order: &order}

	sensors := []*Sensor{
		{Name: "base-accel", Type: Accel, Location: Base, Driver: drv,
			MinODR: 12500, MaxODR: 500000,
			Config: [numPowerStates]RateConfig{StateS0: {ODR: 10000, RoundUp: true}}},
		{Name: "base-gyro", Type: Gyro, Location: Base, Driver: drv,
			MinODR: 25000, MaxODR: 500000},
		{Name: "lid-accel", Type: Accel, Location: Lid, Driver: drv,
			MinODR: 12500, MaxODR: 400000,
			Config: [numPowerStates]RateConfig{StateS0: {ODR: 10000, RoundUp: true}}},
	}

	if err := InitAll(sensors, StateS0); err != nil {
		t.Fatalf("InitAll: %v", err)
	}

	if diff := cmp.Diff([]string{"base-accel", "base-gyro", "lid-accel"}, order); diff != "" {
		t.Fatalf("init order diff: %s", diff)
	}

	// Requested 10Hz rounds up to the sensor minimum.
	if got := sensors[0].CurrentODR; got != 12500 {
		t.Fatalf("base-accel ODR %d, want 12500", got)
	}

	// No S0 rate configured leaves the gyro off.
	if got := sensors[1].CurrentODR; got != 0 {
		t.Fatalf("base-gyro ODR %d, want 0", got)
	}
}
