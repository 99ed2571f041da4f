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
	"github.com/openec-dev/openec/internal/battery"
	"github.com/openec-dev/openec/internal/hooks"
)

var batt *battery.Context

// idlePrev tracks charge inhibit transitions for logging.
var idlePrev bool

func init() {
	hooks.Init.Register(hooks.PriorityInitI2C+1, "battery", initBattery)
}

// initBattery runs right after the gauge bus is up, the charger needs
// the pack parameters for its very first cycle.
func initBattery() error {
	bus, err := gaugeBus()

	if err != nil {
		log.Printf("EC battery gauge unavailable, %v", err)
		return nil
	}

	batt = battery.New(battery.Config{
		Bus:       bus,
		HWPresent: batteryPresent,
		ExtPower:  extPowerPresent,
		Table:     kelp.Batteries,
		Default:   kelp.DefaultBattery,
	})

	batt.DetectType()

	if batt.DisconnectState() == battery.DisconnectError {
		log.Printf("EC battery disconnect probe error")
	}

	return nil
}

// chargeCycle runs one pass of the charging policy. Actual charger
// current programming is left to the charger driver, the EC only
// decides the envelope here.
func chargeCycle() {
	if batt == nil {
		return
	}

	if batt.IsPresent() != battery.Attached {
		return
	}

	temp, err := batt.Temperature()

	if err != nil {
		return
	}

	info := batt.Info()

	st := battery.ChargeState{
		Temperature:      temp,
		RequestedCurrent: info.PrechargeCurrent,
		RequestedVoltage: info.VoltageMax,
		WantCharge:       extPowerPresent(),
	}

	batt.ProfileOverride(&st)

	if st.Idle != idlePrev {
		log.Printf("EC charging %s (temp %d)", map[bool]string{true: "inhibited", false: "allowed"}[st.Idle], temp)
		idlePrev = st.Idle
	}
}
