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

import "github.com/openec-dev/openec/internal/sensor"

// Sensor bus addresses
const (
	imuAddr      = 0x68
	lidAccelAddr = 0x1e
)

// Sensors builds the motion sensor table. The base accelerometer and
// gyro share one die, the accelerometer entry must stay first.
func Sensors(imu, lid sensor.Driver) []*sensor.Sensor {
	return []*sensor.Sensor{
		{
			Name:         "base-accel",
			Type:         sensor.Accel,
			Location:     sensor.Base,
			Driver:       imu,
			Addr:         imuAddr,
			DefaultRange: 4, // g
			MinODR:       12500,
			MaxODR:       500000,
			Config: [2]sensor.RateConfig{
				// angle detection
				sensor.StateS0: {ODR: 10000, RoundUp: true},
				sensor.StateS3: {ODR: 10000, RoundUp: true},
			},
		},
		{
			Name:         "base-gyro",
			Type:         sensor.Gyro,
			Location:     sensor.Base,
			Driver:       imu,
			Addr:         imuAddr,
			DefaultRange: 1000, // dps
			MinODR:       25000,
			MaxODR:       500000,
		},
		{
			Name:         "lid-accel",
			Type:         sensor.Accel,
			Location:     sensor.Lid,
			Driver:       lid,
			Addr:         lidAccelAddr,
			DefaultRange: 2, // g
			MinODR:       12500,
			MaxODR:       400000,
			Config: [2]sensor.RateConfig{
				sensor.StateS0: {ODR: 10000, RoundUp: true},
				sensor.StateS3: {ODR: 10000, RoundUp: true},
			},
		},
	}
}
