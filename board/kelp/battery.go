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

package kelp

import "github.com/openec-dev/openec/internal/battery"

// Battery pack table. The effective temperature limits during
// charging are the charging window, the start window only gates the
// first enable.
var Batteries = []battery.Params{
	{
		ManufName: "LG A50",
		Info: battery.Info{
			VoltageMax:        8800,
			VoltageNormal:     7700,
			VoltageMin:        6100,
			PrechargeCurrent:  256,
			StartChargingMinC: 0,
			StartChargingMaxC: 46,
			ChargingMinC:      0,
			ChargingMaxC:      60,
			DischargingMinC:   0,
			DischargingMaxC:   60,
		},
	},
	{
		ManufName: "Lishen A50",
		Info: battery.Info{
			VoltageMax:        8750,
			VoltageNormal:     7700,
			VoltageMin:        6100,
			PrechargeCurrent:  88,
			StartChargingMinC: 0,
			StartChargingMaxC: 46,
			ChargingMinC:      10,
			ChargingMaxC:      50,
			DischargingMinC:   10,
			DischargingMaxC:   50,
		},
	},
}

// DefaultBattery picks Lishen, its lower precharge current level is
// still accepted by a pack recovering from a fully discharged state.
const DefaultBattery = 1
