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

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBus scripts the gauge responses.
type fakeBus struct {
	words  map[uint8]uint16
	blocks map[uint16][]byte
	name   []byte

	// selected alternate manufacturer access parameter
	param uint16

	writes []uint16
	fail   bool
}

func (f *fakeBus) ReadWord(reg uint8) (uint16, error) {
	if f.fail {
		return 0, errors.New("nak")
	}

	return f.words[reg], nil
}

func (f *fakeBus) WriteWord(reg uint8, val uint16) error {
	if f.fail {
		return errors.New("nak")
	}

	if reg == regAltManufacturerAccess {
		f.param = val
	}

	if reg == regManufacturerAccess {
		f.writes = append(f.writes, val)
	}

	return nil
}

func (f *fakeBus) ReadBlock(reg uint8, buf []byte) error {
	if f.fail {
		return errors.New("nak")
	}

	if reg == regManufacturerName {
		copy(buf, f.name)
		return nil
	}

	copy(buf, f.blocks[f.param])

	return nil
}

func testTable() []Params {
	return []Params{
		{
			ManufName: "LG A50",
			Info:      Info{PrechargeCurrent: 256, ChargingMinC: 0, ChargingMaxC: 60},
		},
		{
			ManufName: "Lishen A50",
			Info:      Info{PrechargeCurrent: 88, ChargingMinC: 10, ChargingMaxC: 50},
		},
	}
}

func testContext(bus *fakeBus, present, ext bool) *Context {
	return New(Config{
		Bus:       bus,
		HWPresent: func() bool { return present },
		ExtPower:  func() bool { return ext },
		Table:     testTable(),
		Default:   1,
	})
}

func TestDetectType(t *testing.T) {
	bus := &fakeBus{name: []byte("LG")}
	c := testContext(bus, true, false)

	c.DetectType()

	assert.Equal(t, 256, c.Info().PrechargeCurrent)
}

func TestDetectTypeDefault(t *testing.T) {
	// Unknown packs fall back to the board default, picked so a deeply
	// discharged pack still accepts precharge current.
	bus := &fakeBus{name: []byte("XX")}
	c := testContext(bus, true, false)

	c.DetectType()

	assert.Equal(t, 88, c.Info().PrechargeCurrent)
}

func TestCutOff(t *testing.T) {
	bus := &fakeBus{}
	c := testContext(bus, true, false)

	require.NoError(t, c.CutOff())

	// Ship mode command must be sent twice to take effect.
	assert.Equal(t, []uint16{shutdownData, shutdownData}, bus.writes)
}

func TestIsPresent(t *testing.T) {
	t.Run("initialized gauge", func(t *testing.T) {
		bus := &fakeBus{words: map[uint8]uint16{regBatteryStatus: statusInitialized}}
		c := testContext(bus, true, false)

		assert.Equal(t, Attached, c.IsPresent())
	})

	t.Run("uninitialized gauge reads absent", func(t *testing.T) {
		bus := &fakeBus{words: map[uint8]uint16{regBatteryStatus: 0}}
		c := testContext(bus, true, false)

		assert.Equal(t, Absent, c.IsPresent())
	})

	t.Run("no pack", func(t *testing.T) {
		c := testContext(&fakeBus{}, false, false)

		assert.Equal(t, Absent, c.IsPresent())
	})
}

func TestDisconnectState(t *testing.T) {
	opStatus := func(b3 byte) []byte { return []byte{0, 0, 0, b3, 0, 0} }

	t.Run("no external power", func(t *testing.T) {
		c := testContext(&fakeBus{}, true, false)

		assert.Equal(t, NotDisconnected, c.DisconnectState())
	})

	t.Run("charging enabled", func(t *testing.T) {
		bus := &fakeBus{
			blocks: map[uint16][]byte{paramOperationStatus: opStatus(0)},
		}
		c := testContext(bus, true, true)

		assert.Equal(t, NotDisconnected, c.DisconnectState())

		// The probe result sticks even if the bus dies afterwards.
		bus.fail = true
		assert.Equal(t, NotDisconnected, c.DisconnectState())
	})

	t.Run("disconnected", func(t *testing.T) {
		bus := &fakeBus{
			words: map[uint8]uint16{regBatteryStatus: statusInitialized},
			blocks: map[uint16][]byte{
				paramOperationStatus: opStatus(opDischargingDisabled | opChargingDisabled),
				paramSafetyStatus:    {0, 0, 0, 0, 0, 0},
			},
		}
		c := testContext(bus, true, true)

		assert.Equal(t, Disconnected, c.DisconnectState())
	})

	t.Run("safety fault", func(t *testing.T) {
		bus := &fakeBus{
			blocks: map[uint16][]byte{
				paramOperationStatus: opStatus(opDischargingDisabled | opChargingDisabled),
				paramSafetyStatus:    {0, 0, 1, 0, 0, 0},
			},
		}
		c := testContext(bus, true, true)

		assert.Equal(t, DisconnectError, c.DisconnectState())
	})

	t.Run("probe error", func(t *testing.T) {
		bus := &fakeBus{fail: true}
		c := testContext(bus, true, true)

		assert.Equal(t, DisconnectError, c.DisconnectState())
	})
}

func TestProfileOverride(t *testing.T) {
	c := testContext(&fakeBus{name: []byte("LG")}, true, true)
	c.DetectType()

	t.Run("within window", func(t *testing.T) {
		st := &ChargeState{Temperature: 2931, RequestedCurrent: 2000, RequestedVoltage: 8800, WantCharge: true}

		c.ProfileOverride(st)

		assert.Equal(t, 2000, st.RequestedCurrent)
		assert.True(t, st.WantCharge)
	})

	t.Run("too hot", func(t *testing.T) {
		// 60°C limit, 2731 + 600 deci-K is already outside.
		st := &ChargeState{Temperature: 3331, RequestedCurrent: 2000, RequestedVoltage: 8800, WantCharge: true}

		c.ProfileOverride(st)

		assert.Zero(t, st.RequestedCurrent)
		assert.Zero(t, st.RequestedVoltage)
		assert.False(t, st.WantCharge)
		assert.True(t, st.Idle)
	})

	t.Run("too cold", func(t *testing.T) {
		st := &ChargeState{Temperature: 2711, RequestedCurrent: 2000, WantCharge: true}

		c.ProfileOverride(st)

		assert.Zero(t, st.RequestedCurrent)
		assert.True(t, st.Idle)
	})
}
